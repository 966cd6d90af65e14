package prediction

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"weather-comfort/internal/models"
	"weather-comfort/pkg/client"
)

// forecastConfidencePct is the uniform per-sample trust assigned to
// short-range forecasts.
const forecastConfidencePct = 90

// ForecastSource is the slice of the Open-Meteo client the adapter needs.
type ForecastSource interface {
	FetchHourlyForecast(ctx context.Context, lat, lon float64) (*client.HourlyForecast, error)
}

// ForecastAdapter serves dates from today through 15 days ahead by slicing
// the requested hour window out of a 16-day hourly forecast.
type ForecastAdapter struct {
	source ForecastSource
	logger *zap.Logger
}

func NewForecastAdapter(source ForecastSource, logger *zap.Logger) *ForecastAdapter {
	return &ForecastAdapter{
		source: source,
		logger: logger,
	}
}

func (a *ForecastAdapter) Fetch(ctx context.Context, req models.PredictionRequest) (*models.WeatherSeries, error) {
	window, err := ParseWindow(req.StartHour, req.EndHour)
	if err != nil {
		return nil, err
	}

	forecast, err := a.source.FetchHourlyForecast(ctx, req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	dateStr := req.Date.Format("2006-01-02")
	targetStart := fmt.Sprintf("%sT%02d:00", dateStr, window.Start)
	targetEnd := fmt.Sprintf("%sT%02d:00", dateStr, window.End)

	// Provider timestamps carry no UTC offset, so boundaries are located by
	// literal string prefix instead of parsed-and-compared instants.
	startIndex := indexByPrefix(forecast.Time, targetStart)
	endIndex := indexByPrefix(forecast.Time, targetEnd)

	if startIndex == -1 || endIndex == -1 || startIndex > endIndex {
		a.logger.Warn("Hour window not present in forecast response",
			zap.String("target_start", targetStart),
			zap.String("target_end", targetEnd),
			zap.Int("start_index", startIndex),
			zap.Int("end_index", endIndex))
		return nil, fmt.Errorf("%w: %s to %s", ErrRangeNotFound, targetStart, targetEnd)
	}

	if endIndex >= len(forecast.TemperatureC) ||
		endIndex >= len(forecast.HumidityPct) ||
		endIndex >= len(forecast.WindSpeedKph) ||
		endIndex >= len(forecast.PrecipitationMm) {
		return nil, fmt.Errorf("%w: provider arrays shorter than time axis", ErrRangeNotFound)
	}

	count := endIndex - startIndex + 1
	series := &models.WeatherSeries{
		Timestamps:      append([]string(nil), forecast.Time[startIndex:endIndex+1]...),
		TemperatureC:    append([]float64(nil), forecast.TemperatureC[startIndex:endIndex+1]...),
		TempMinC:        make([]float64, count),
		TempMaxC:        make([]float64, count),
		HumidityPct:     append([]float64(nil), forecast.HumidityPct[startIndex:endIndex+1]...),
		WindKph:         append([]float64(nil), forecast.WindSpeedKph[startIndex:endIndex+1]...),
		PrecipitationMm: append([]float64(nil), forecast.PrecipitationMm[startIndex:endIndex+1]...),
		ConfidencePct:   make([]int, count),
		Source:          models.SourceShortRangeForecast,
	}

	// The provider returns point forecasts, not ranges; estimate the
	// intra-hour band as mean +/- 1 degree.
	for i, temp := range series.TemperatureC {
		series.TempMinC[i] = temp - 1
		series.TempMaxC[i] = temp + 1
		series.ConfidencePct[i] = forecastConfidencePct
	}

	return series, nil
}

func indexByPrefix(times []string, prefix string) int {
	for i, t := range times {
		if strings.HasPrefix(t, prefix) {
			return i
		}
	}
	return -1
}
