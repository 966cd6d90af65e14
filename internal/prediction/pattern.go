package prediction

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"weather-comfort/internal/models"
	"weather-comfort/internal/stats"
)

// confidenceFloorPct is the lowest confidence a pattern prediction can
// carry: even a highly variable climate record is worth more than a coin
// flip to the caller.
const confidenceFloorPct = 50.0

// PatternPredictor serves dates beyond the forecast horizon by aggregating
// the same calendar day across several prior years of observations.
type PatternPredictor struct {
	source HistorySource
	years  int
	logger *zap.Logger
	now    func() time.Time
}

// yearObservations is one successfully fetched historical year: the compact
// date its hour keys are prefixed with, and the per-parameter value maps.
type yearObservations struct {
	year        int
	compactDate string
	temperature map[string]float64
	humidity    map[string]float64
	wind        map[string]float64
	precip      map[string]float64
}

func NewPatternPredictor(source HistorySource, years int, logger *zap.Logger) *PatternPredictor {
	if years <= 0 {
		years = 5
	}
	return &PatternPredictor{
		source: source,
		years:  years,
		logger: logger,
		now:    time.Now,
	}
}

func (p *PatternPredictor) Fetch(ctx context.Context, req models.PredictionRequest) (*models.WeatherSeries, error) {
	window, err := ParseWindow(req.StartHour, req.EndHour)
	if err != nil {
		return nil, err
	}

	collected := p.collectYears(ctx, req)
	if len(collected) == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s", ErrPredictionUnavailable, req.Date.Format("2006-01-02"))
	}

	p.logger.Info("Building pattern prediction",
		zap.String("target_date", req.Date.Format("2006-01-02")),
		zap.Int("years_analyzed", len(collected)),
		zap.Int("years_requested", p.years))

	dateStr := req.Date.Format("2006-01-02")
	series := &models.WeatherSeries{
		Source:        models.SourcePatternPrediction,
		YearsAnalyzed: len(collected),
	}

	for hour := window.Start; hour <= window.End; hour++ {
		hourSuffix := fmt.Sprintf("%02d", hour)

		var temps, humidities, winds, precips []float64
		for _, year := range collected {
			key := year.compactDate + hourSuffix
			if v, ok := year.temperature[key]; ok {
				temps = append(temps, v)
			}
			if v, ok := year.humidity[key]; ok {
				humidities = append(humidities, v)
			}
			if v, ok := year.wind[key]; ok {
				winds = append(winds, v)
			}
			if v, ok := year.precip[key]; ok {
				precips = append(precips, v)
			}
		}

		series.Timestamps = append(series.Timestamps, fmt.Sprintf("%sT%s:00:00", dateStr, hourSuffix))
		series.TemperatureC = append(series.TemperatureC, stats.Mean(temps))
		series.TempMinC = append(series.TempMinC, stats.Min(temps))
		series.TempMaxC = append(series.TempMaxC, stats.Max(temps))
		series.HumidityPct = append(series.HumidityPct, stats.Mean(humidities))
		series.WindKph = append(series.WindKph, stats.Mean(winds)*msToKph)
		series.PrecipitationMm = append(series.PrecipitationMm, stats.Mean(precips))
		series.ConfidencePct = append(series.ConfidencePct, patternConfidence(temps))
	}

	return series, nil
}

// collectYears fetches the same calendar day across the preceding years
// concurrently. Years that fail or come back empty are skipped; cancellation
// propagates to every in-flight request through ctx.
func (p *PatternPredictor) collectYears(ctx context.Context, req models.PredictionRequest) []yearObservations {
	currentYear := p.now().Year()

	var wg sync.WaitGroup
	results := make(chan yearObservations, p.years)

	for offset := 1; offset <= p.years; offset++ {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()

			date := time.Date(year, req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)

			observations, err := p.source.FetchHourlyPoint(ctx, req.Latitude, req.Longitude, date)
			if err != nil {
				p.logger.Warn("Skipping historical year",
					zap.Int("year", year),
					zap.Error(err))
				return
			}
			if observations.Empty() {
				p.logger.Warn("Historical year returned no data", zap.Int("year", year))
				return
			}

			results <- yearObservations{
				year:        year,
				compactDate: date.Format("20060102"),
				temperature: observations.TemperatureC,
				humidity:    observations.HumidityPct,
				wind:        observations.WindSpeedMs,
				precip:      observations.PrecipitationMm,
			}
		}(currentYear - offset)
	}

	wg.Wait()
	close(results)

	collected := make([]yearObservations, 0, p.years)
	for year := range results {
		collected = append(collected, year)
	}
	return collected
}

// patternConfidence derives per-hour confidence from year-to-year
// temperature variability: the steadier the climate record, the more the
// statistical extrapolation is worth.
func patternConfidence(temps []float64) int {
	confidence := 100 - 5*stats.StdDev(temps)
	if confidence < confidenceFloorPct {
		confidence = confidenceFloorPct
	}
	return int(math.Round(confidence))
}
