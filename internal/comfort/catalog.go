package comfort

import "sync"

// Activity is one catalog entry users can score against.
type Activity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Custom      bool   `json:"custom,omitempty"`
}

var predefinedActivities = []Activity{
	{ID: "hiking", Title: "Hiking", Category: "Sports", Description: "Plan your hikes with precise weather insights."},
	{ID: "fishing", Title: "Fishing", Category: "Sports", Description: "Find the best fishing days based on the forecast."},
	{ID: "openwaterswimming", Title: "Open Water Swimming", Category: "Sports", Description: "Check safe conditions before diving into open water."},
	{ID: "irrigation", Title: "Irrigation", Category: "Agriculture", Description: "Determine the optimal time to water your crops."},
	{ID: "harvesting", Title: "Harvesting", Category: "Agriculture", Description: "Plan your harvest before damaging rainfall arrives."},
	{ID: "livestockcare", Title: "Livestock Care", Category: "Agriculture", Description: "Protect your livestock from extreme weather conditions."},
	{ID: "flightplanning", Title: "Flight Planning", Category: "Transportation", Description: "Review meteorological conditions for safe flights."},
	{ID: "roadtrips", Title: "Road Trips", Category: "Transportation", Description: "Avoid dangerous weather on your road journeys."},
	{ID: "sailing", Title: "Sailing", Category: "Transportation", Description: "Check marine conditions before setting sail."},
	{ID: "outdoorevents", Title: "Outdoor Events", Category: "Tourism", Description: "Organize outdoor events with optimal weather."},
	{ID: "camping", Title: "Camping", Category: "Tourism", Description: "Plan your camping adventures with accurate forecasts."},
	{ID: "beachday", Title: "Beach Day", Category: "Tourism", Description: "Enjoy perfect beach days with ideal weather."},
}

// Catalog lists the activities available for scoring, predefined plus any
// registered at runtime. Registration of the custom activity's thresholds is
// the ThresholdRegistry's concern; the catalog only lists.
type Catalog struct {
	mu     sync.RWMutex
	custom []Activity
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// All returns the predefined activities followed by custom ones.
func (c *Catalog) All() []Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]Activity, 0, len(predefinedActivities)+len(c.custom))
	all = append(all, predefinedActivities...)
	all = append(all, c.custom...)
	return all
}

// Add appends a custom activity entry.
func (c *Catalog) Add(activity Activity) {
	activity.ID = NormalizeID(activity.Title)
	activity.Custom = true

	c.mu.Lock()
	c.custom = append(c.custom, activity)
	c.mu.Unlock()
}
