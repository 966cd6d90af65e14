package prediction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weather-comfort/internal/models"
	"weather-comfort/pkg/client"
)

// Fallback values substituted when the provider omits a single hour. A gap
// must never crash the adapter.
const (
	defaultTemperatureC    = 20.0
	defaultHumidityPct     = 60.0
	defaultWindSpeedMs     = 3.0
	defaultPrecipitationMm = 0.0
)

// msToKph converts a wind speed from m/s to km/h.
const msToKph = 3.6

// HistorySource is the slice of the NASA POWER client the historical adapter
// and the pattern predictor share.
type HistorySource interface {
	FetchHourlyPoint(ctx context.Context, lat, lon float64, date time.Time) (*client.HourlyObservations, error)
}

// HistoricalAdapter serves single dates more than 3 days in the past from
// exact-point hourly observations.
type HistoricalAdapter struct {
	source HistorySource
	logger *zap.Logger
}

func NewHistoricalAdapter(source HistorySource, logger *zap.Logger) *HistoricalAdapter {
	return &HistoricalAdapter{
		source: source,
		logger: logger,
	}
}

func (a *HistoricalAdapter) Fetch(ctx context.Context, req models.PredictionRequest) (*models.WeatherSeries, error) {
	window, err := ParseWindow(req.StartHour, req.EndHour)
	if err != nil {
		return nil, err
	}

	observations, err := a.source.FetchHourlyPoint(ctx, req.Latitude, req.Longitude, req.Date)
	if err != nil {
		return nil, err
	}
	if observations.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, req.Date.Format("2006-01-02"))
	}

	dateStr := req.Date.Format("2006-01-02")
	compactDate := req.Date.Format("20060102")

	series := &models.WeatherSeries{
		Source: models.SourceObservedHistory,
	}

	for hour := window.Start; hour <= window.End; hour++ {
		hourKey := fmt.Sprintf("%s%02d", compactDate, hour)

		temp := valueOrDefault(observations.TemperatureC, hourKey, defaultTemperatureC)

		series.Timestamps = append(series.Timestamps, fmt.Sprintf("%sT%02d:00:00", dateStr, hour))
		series.TemperatureC = append(series.TemperatureC, temp)
		// Observed data has no intra-hour range.
		series.TempMinC = append(series.TempMinC, temp)
		series.TempMaxC = append(series.TempMaxC, temp)
		series.HumidityPct = append(series.HumidityPct, valueOrDefault(observations.HumidityPct, hourKey, defaultHumidityPct))
		series.WindKph = append(series.WindKph, valueOrDefault(observations.WindSpeedMs, hourKey, defaultWindSpeedMs)*msToKph)
		series.PrecipitationMm = append(series.PrecipitationMm, valueOrDefault(observations.PrecipitationMm, hourKey, defaultPrecipitationMm))
		// Directly observed, not estimated.
		series.ConfidencePct = append(series.ConfidencePct, 100)
	}

	a.logger.Debug("Historical series built",
		zap.String("date", dateStr),
		zap.Int("hours", series.Len()))

	return series, nil
}

func valueOrDefault(values map[string]float64, key string, fallback float64) float64 {
	if v, ok := values[key]; ok {
		return v
	}
	return fallback
}
