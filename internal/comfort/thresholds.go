package comfort

import (
	"errors"
	"sync"
)

// ErrActivityExists rejects registering a custom activity whose normalized
// id collides with an existing one.
var ErrActivityExists = errors.New("an activity with that name already exists")

// FactorThreshold is one factor's trigger value plus the base probability of
// discomfort once the trigger is crossed.
type FactorThreshold struct {
	Trigger         float64 `json:"trigger"`
	BaseProbability float64 `json:"base_probability" validate:"gt=0,lte=1"`
}

// ActivityThresholds holds the five per-factor sensitivities for one
// activity. Cold triggers at or below its temperature; the other four
// trigger at or above their values.
type ActivityThresholds struct {
	Cold          FactorThreshold `json:"cold"`
	Heat          FactorThreshold `json:"heat"`
	Wind          FactorThreshold `json:"wind"`
	Humidity      FactorThreshold `json:"humidity"`
	Precipitation FactorThreshold `json:"precipitation"`
}

// defaultThresholds applies to any activity without a registered profile.
var defaultThresholds = ActivityThresholds{
	Cold:          FactorThreshold{Trigger: 10, BaseProbability: 0.8},
	Heat:          FactorThreshold{Trigger: 28, BaseProbability: 0.8},
	Wind:          FactorThreshold{Trigger: 20, BaseProbability: 0.7},
	Humidity:      FactorThreshold{Trigger: 80, BaseProbability: 0.6},
	Precipitation: FactorThreshold{Trigger: 5, BaseProbability: 0.6},
}

// thresholdProfile ties one built-in threshold set to its canonical id and
// the alternate spellings it should also resolve under.
type thresholdProfile struct {
	id         string
	aliases    []string
	thresholds ActivityThresholds
}

var builtinProfiles = []thresholdProfile{
	{
		id:      "hiking",
		aliases: []string{"caminata"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 8, BaseProbability: 0.8},
			Heat:          FactorThreshold{Trigger: 28, BaseProbability: 0.8},
			Wind:          FactorThreshold{Trigger: 20, BaseProbability: 0.7},
			Humidity:      FactorThreshold{Trigger: 80, BaseProbability: 0.6},
			Precipitation: FactorThreshold{Trigger: 4, BaseProbability: 0.6},
		},
	},
	{
		id:      "fishing",
		aliases: []string{"pesca"},
		thresholds: ActivityThresholds{
			Cold: FactorThreshold{Trigger: 5, BaseProbability: 0.7},
			Heat: FactorThreshold{Trigger: 32, BaseProbability: 0.6},
			// Wind ruins casting well before it ruins anything else.
			Wind:          FactorThreshold{Trigger: 15, BaseProbability: 0.9},
			Humidity:      FactorThreshold{Trigger: 85, BaseProbability: 0.5},
			Precipitation: FactorThreshold{Trigger: 5, BaseProbability: 0.5},
		},
	},
	{
		id:      "openwaterswimming",
		aliases: []string{"natacion"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 18, BaseProbability: 0.9},
			Heat:          FactorThreshold{Trigger: 35, BaseProbability: 0.7},
			Wind:          FactorThreshold{Trigger: 25, BaseProbability: 0.8},
			Humidity:      FactorThreshold{Trigger: 90, BaseProbability: 0.3},
			Precipitation: FactorThreshold{Trigger: 3, BaseProbability: 0.7},
		},
	},
	{
		id:      "beachday",
		aliases: []string{"playa"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 20, BaseProbability: 0.9},
			Heat:          FactorThreshold{Trigger: 35, BaseProbability: 0.8},
			Wind:          FactorThreshold{Trigger: 30, BaseProbability: 0.7},
			Humidity:      FactorThreshold{Trigger: 90, BaseProbability: 0.5},
			Precipitation: FactorThreshold{Trigger: 2.5, BaseProbability: 0.7},
		},
	},
	{
		id: "camping",
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 5, BaseProbability: 1},
			Heat:          FactorThreshold{Trigger: 32, BaseProbability: 0.8},
			Wind:          FactorThreshold{Trigger: 25, BaseProbability: 0.9},
			Humidity:      FactorThreshold{Trigger: 90, BaseProbability: 0.7},
			Precipitation: FactorThreshold{Trigger: 4, BaseProbability: 0.8},
		},
	},
	{
		id:      "flightplanning",
		aliases: []string{"vuelos"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: -10, BaseProbability: 0.8},
			Heat:          FactorThreshold{Trigger: 40, BaseProbability: 0.8},
			Wind:          FactorThreshold{Trigger: 15, BaseProbability: 0.95},
			Humidity:      FactorThreshold{Trigger: 95, BaseProbability: 0.7},
			Precipitation: FactorThreshold{Trigger: 1.5, BaseProbability: 0.6},
		},
	},
	{
		id:      "livestockcare",
		aliases: []string{"ganaderia"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 0, BaseProbability: 0.9},
			Heat:          FactorThreshold{Trigger: 35, BaseProbability: 0.9},
			Wind:          FactorThreshold{Trigger: 30, BaseProbability: 0.6},
			Humidity:      FactorThreshold{Trigger: 85, BaseProbability: 0.5},
			Precipitation: FactorThreshold{Trigger: 10, BaseProbability: 0.5},
		},
	},
	{
		id:      "sailing",
		aliases: []string{"navegacion"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 5, BaseProbability: 0.7},
			Heat:          FactorThreshold{Trigger: 35, BaseProbability: 0.6},
			Wind:          FactorThreshold{Trigger: 20, BaseProbability: 0.95},
			Humidity:      FactorThreshold{Trigger: 90, BaseProbability: 0.4},
			Precipitation: FactorThreshold{Trigger: 5, BaseProbability: 0.6},
		},
	},
	{
		id:      "outdoorevents",
		aliases: []string{"eventos"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 12, BaseProbability: 0.8},
			Heat:          FactorThreshold{Trigger: 30, BaseProbability: 0.9},
			Wind:          FactorThreshold{Trigger: 20, BaseProbability: 0.8},
			Humidity:      FactorThreshold{Trigger: 80, BaseProbability: 0.6},
			Precipitation: FactorThreshold{Trigger: 3, BaseProbability: 0.7},
		},
	},
	{
		id:      "irrigation",
		aliases: []string{"riego"},
		thresholds: ActivityThresholds{
			Cold: FactorThreshold{Trigger: 0, BaseProbability: 0.5},
			// Extreme heat evaporates water before it soaks in.
			Heat:          FactorThreshold{Trigger: 40, BaseProbability: 0.7},
			Wind:          FactorThreshold{Trigger: 25, BaseProbability: 0.8},
			Humidity:      FactorThreshold{Trigger: 95, BaseProbability: 0.3},
			Precipitation: FactorThreshold{Trigger: 12, BaseProbability: 0.6},
		},
	},
	{
		id:      "harvesting",
		aliases: []string{"cosecha"},
		thresholds: ActivityThresholds{
			Cold:          FactorThreshold{Trigger: 5, BaseProbability: 0.6},
			Heat:          FactorThreshold{Trigger: 35, BaseProbability: 0.7},
			Wind:          FactorThreshold{Trigger: 30, BaseProbability: 0.6},
			Humidity:      FactorThreshold{Trigger: 85, BaseProbability: 0.5},
			Precipitation: FactorThreshold{Trigger: 5, BaseProbability: 0.8},
		},
	},
	{
		id:      "roadtrips",
		aliases: []string{"carretera"},
		thresholds: ActivityThresholds{
			Cold: FactorThreshold{Trigger: -5, BaseProbability: 0.8},
			Heat: FactorThreshold{Trigger: 40, BaseProbability: 0.7},
			// Crosswinds are the dangerous part.
			Wind:          FactorThreshold{Trigger: 30, BaseProbability: 0.8},
			Humidity:      FactorThreshold{Trigger: 95, BaseProbability: 0.6},
			Precipitation: FactorThreshold{Trigger: 4, BaseProbability: 0.7},
		},
	},
}

// ThresholdRegistry resolves activity titles to threshold sets. Built-in
// profiles are seeded at construction; custom activities may be registered
// at runtime. Reads vastly outnumber writes, so it uses an RWMutex.
type ThresholdRegistry struct {
	mu       sync.RWMutex
	profiles map[string]ActivityThresholds
	builtin  map[string]bool
}

func NewThresholdRegistry() *ThresholdRegistry {
	r := &ThresholdRegistry{
		profiles: make(map[string]ActivityThresholds),
		builtin:  make(map[string]bool),
	}
	for _, profile := range builtinProfiles {
		r.profiles[profile.id] = profile.thresholds
		r.builtin[profile.id] = true
		for _, alias := range profile.aliases {
			r.profiles[alias] = profile.thresholds
			r.builtin[alias] = true
		}
	}
	return r
}

// Lookup resolves a free-text activity title to its thresholds, falling
// back to the default set for unknown activities. The second return reports
// whether a specific profile was found.
func (r *ThresholdRegistry) Lookup(title string) (ActivityThresholds, bool) {
	id := NormalizeID(title)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if thresholds, ok := r.profiles[id]; ok {
		return thresholds, true
	}
	return defaultThresholds, false
}

// Register adds a custom activity's thresholds under the normalized form of
// its title.
func (r *ThresholdRegistry) Register(title string, thresholds ActivityThresholds) error {
	id := NormalizeID(title)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; ok {
		return ErrActivityExists
	}
	r.profiles[id] = thresholds
	return nil
}

// IsBuiltin reports whether the title resolves to a seeded profile rather
// than a runtime registration.
func (r *ThresholdRegistry) IsBuiltin(title string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtin[NormalizeID(title)]
}
