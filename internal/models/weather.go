package models

import (
	"time"
)

// Source tags identifying which acquisition strategy produced a WeatherSeries.
const (
	SourceShortRangeForecast = "short-range-forecast"
	SourceObservedHistory    = "observed-history"
	SourcePatternPrediction  = "pattern-prediction"
)

// PredictionRequest describes one location/time-window query against the
// prediction engine. StartHour and EndHour are "HH:MM" on the same calendar
// day as Date, end inclusive.
type PredictionRequest struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Date      time.Time `json:"date"`
	StartHour string    `json:"start_hour"`
	EndHour   string    `json:"end_hour"`
}

// WeatherSeries is the canonical hour-aligned series every acquisition
// strategy normalizes into. All slices have the same length, one entry per
// hour of the requested window, index-aligned with Timestamps.
//
// Timestamps are kept as provider-style local ISO strings without a UTC
// offset ("2006-01-02T15:00:00"); they are matched by string prefix, never
// parsed and compared as instants.
type WeatherSeries struct {
	Timestamps      []string  `json:"timestamps"`
	TemperatureC    []float64 `json:"temperature_c"`
	TempMinC        []float64 `json:"temp_min_c"`
	TempMaxC        []float64 `json:"temp_max_c"`
	HumidityPct     []float64 `json:"humidity_pct"`
	WindKph         []float64 `json:"wind_kph"`
	PrecipitationMm []float64 `json:"precipitation_mm"`
	ConfidencePct   []int     `json:"confidence_pct"`
	Source          string    `json:"source"`
	// YearsAnalyzed is non-zero only for pattern predictions and records how
	// many historical years actually contributed to the aggregate.
	YearsAnalyzed int `json:"years_analyzed,omitempty"`
}

// Len returns the number of hourly samples in the series.
func (s *WeatherSeries) Len() int {
	return len(s.Timestamps)
}

// AverageConfidence returns the mean per-sample confidence, 0 for an empty
// series.
func (s *WeatherSeries) AverageConfidence() float64 {
	if len(s.ConfidencePct) == 0 {
		return 0
	}
	sum := 0
	for _, c := range s.ConfidencePct {
		sum += c
	}
	return float64(sum) / float64(len(s.ConfidencePct))
}

// FactorResult is one scored entry of a ComfortReport: a discomfort factor
// (or the overall comfort aggregate), its percentage in [0,100] and the
// traffic-light color derived from it.
type FactorResult struct {
	Label      string `json:"label"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// ComfortReport is the scored breakdown of a WeatherSeries for one activity:
// the five discomfort factors, the inverted overall comfort aggregate, and a
// short natural-language summary of the latter.
type ComfortReport struct {
	Activity     string         `json:"activity"`
	Factors      []FactorResult `json:"factors"`
	Overall      FactorResult   `json:"overall"`
	Description  string         `json:"description"`
	HoursScored  int            `json:"hours_scored"`
	SeriesSource string         `json:"series_source"`
}
