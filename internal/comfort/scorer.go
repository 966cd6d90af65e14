package comfort

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"weather-comfort/internal/models"
)

// ErrEmptySeries rejects scoring a series with no samples.
var ErrEmptySeries = errors.New("cannot score an empty weather series")

// Factor labels, in report order.
const (
	LabelCold          = "Cold Conditions"
	LabelHeat          = "Hot Conditions"
	LabelWind          = "Windy Conditions"
	LabelHumidity      = "High Humidity"
	LabelPrecipitation = "Precipitation"
	LabelOverall       = "Overall Comfort Level"
)

// Severity colors shared by every result.
const (
	colorFavorable = "#4ade80"
	colorCaution   = "#fbbf24"
	colorAdverse   = "#ef4444"
)

// Fixed offsets from a factor's trigger to its extreme, where graduated
// intensity saturates at 1.
const (
	coldExtremeOffset   = -10.0
	heatExtremeOffset   = 15.0
	windExtremeOffset   = 20.0
	humidityExtremeCeil = 100.0
	precipExtremeOffset = 10.0
)

// Scorer converts a normalized hourly series into graded per-factor
// discomfort percentages and an overall comfort score, parameterized by
// activity.
type Scorer struct {
	registry *ThresholdRegistry
	logger   *zap.Logger
}

func NewScorer(registry *ThresholdRegistry, logger *zap.Logger) *Scorer {
	return &Scorer{
		registry: registry,
		logger:   logger,
	}
}

// Score grades every hour of the series against the activity's thresholds
// and aggregates into the six-result report. It is a pure function of its
// inputs; nothing is cached or persisted.
func (s *Scorer) Score(series *models.WeatherSeries, activity string) (*models.ComfortReport, error) {
	if series == nil || series.Len() == 0 {
		return nil, ErrEmptySeries
	}

	thresholds, known := s.registry.Lookup(activity)
	if !known {
		s.logger.Debug("Unknown activity, scoring with default thresholds",
			zap.String("activity", activity))
	}

	totalHours := float64(series.Len())

	var cold, heat, wind, humidity, precip float64
	totalComfortScore := 0.0

	for i := range series.Timestamps {
		temperature := series.TemperatureC[i]
		windSpeed := series.WindKph[i]
		relHumidity := series.HumidityPct[i]
		rainfall := series.PrecipitationMm[i]

		hourComfortScore := 100.0

		if temperature <= thresholds.Cold.Trigger {
			d := gradualDiscomfort(temperature, thresholds.Cold.Trigger, thresholds.Cold.Trigger+coldExtremeOffset, thresholds.Cold.BaseProbability)
			cold += d
			hourComfortScore -= d * 100
		}

		if temperature >= thresholds.Heat.Trigger {
			d := gradualDiscomfort(temperature, thresholds.Heat.Trigger, thresholds.Heat.Trigger+heatExtremeOffset, thresholds.Heat.BaseProbability)
			heat += d
			hourComfortScore -= d * 100
		}

		if windSpeed >= thresholds.Wind.Trigger {
			d := gradualDiscomfort(windSpeed, thresholds.Wind.Trigger, thresholds.Wind.Trigger+windExtremeOffset, thresholds.Wind.BaseProbability)
			wind += d
			hourComfortScore -= d * 100
		}

		if relHumidity >= thresholds.Humidity.Trigger {
			d := gradualDiscomfort(relHumidity, thresholds.Humidity.Trigger, humidityExtremeCeil, thresholds.Humidity.BaseProbability)
			humidity += d
			hourComfortScore -= d * 100
		}

		if rainfall >= thresholds.Precipitation.Trigger {
			d := gradualDiscomfort(rainfall, thresholds.Precipitation.Trigger, thresholds.Precipitation.Trigger+precipExtremeOffset, thresholds.Precipitation.BaseProbability)
			precip += d
			hourComfortScore -= d * 100
		}

		totalComfortScore += math.Max(0, hourComfortScore)
	}

	comfortPct := roundPct(totalComfortScore / (totalHours * 100) * 100)
	overall := models.FactorResult{
		Label:      LabelOverall,
		Percentage: comfortPct,
		Color:      comfortColor(comfortPct),
	}

	report := &models.ComfortReport{
		Activity: activity,
		Factors: []models.FactorResult{
			factorResult(LabelCold, cold, totalHours),
			factorResult(LabelHeat, heat, totalHours),
			factorResult(LabelWind, wind, totalHours),
			factorResult(LabelHumidity, humidity, totalHours),
			factorResult(LabelPrecipitation, precip, totalHours),
		},
		Overall:      overall,
		Description:  ComfortDescription(comfortPct),
		HoursScored:  series.Len(),
		SeriesSource: series.Source,
	}

	return report, nil
}

// gradualDiscomfort grades how far past its trigger a sample is. Crossing
// the trigger is worth 30% of the base impact immediately, ramping linearly
// to the full base impact at or beyond the extreme.
func gradualDiscomfort(value, trigger, extreme, baseProbability float64) float64 {
	intensity := math.Min(math.Abs(value-trigger)/math.Abs(extreme-trigger), 1)
	return baseProbability * (0.3 + 0.7*intensity)
}

func factorResult(label string, accumulated, totalHours float64) models.FactorResult {
	pct := roundPct(accumulated / totalHours * 100)
	return models.FactorResult{
		Label:      label,
		Percentage: pct,
		Color:      discomfortColor(pct),
	}
}

// discomfortColor bands a discomfort percentage: low is favorable.
func discomfortColor(pct int) string {
	switch {
	case pct < 30:
		return colorFavorable
	case pct < 70:
		return colorCaution
	default:
		return colorAdverse
	}
}

// comfortColor bands the overall comfort percentage, inverted: high comfort
// is favorable.
func comfortColor(pct int) string {
	switch {
	case pct >= 70:
		return colorFavorable
	case pct >= 40:
		return colorCaution
	default:
		return colorAdverse
	}
}

// ComfortDescription summarizes an overall comfort percentage in one line.
func ComfortDescription(pct int) string {
	switch {
	case pct >= 80:
		return "Excellent conditions for the activity"
	case pct >= 60:
		return "Good conditions, slightly uncomfortable"
	case pct >= 40:
		return "Moderate conditions, consider precautions"
	case pct >= 20:
		return "Challenging conditions, caution recommended"
	default:
		return "Very difficult conditions, consider postponing the activity"
	}
}

func roundPct(v float64) int {
	return int(math.Round(v))
}
