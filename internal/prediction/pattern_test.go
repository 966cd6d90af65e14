package prediction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weather-comfort/internal/models"
	"weather-comfort/pkg/client"
)

func patternRequest(date string) models.PredictionRequest {
	parsed, _ := time.Parse("2006-01-02", date)
	return models.PredictionRequest{
		Latitude:  40.4,
		Longitude: -3.7,
		Date:      parsed,
		StartHour: "10:00",
		EndHour:   "10:00",
	}
}

func newTestPredictor(source HistorySource, years int) *PatternPredictor {
	predictor := NewPatternPredictor(source, years, zap.NewNop())
	predictor.now = func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
	return predictor
}

func TestPatternPredictorAggregatesYears(t *testing.T) {
	// Same calendar day in 2025 and 2024; 2023-2021 have no data.
	source := &fakeHistorySource{
		byDate: map[string]*client.HourlyObservations{},
	}
	source.byDate["20250920"] = observationsFor("20250920", []int{10}, 20, 60, 2.0, 0)
	source.byDate["20240920"] = observationsFor("20240920", []int{10}, 24, 70, 4.0, 1.0)

	predictor := newTestPredictor(source, 5)

	series, err := predictor.Fetch(context.Background(), patternRequest("2026-09-20"))
	require.NoError(t, err)

	require.Equal(t, 1, series.Len())
	assert.Equal(t, models.SourcePatternPrediction, series.Source)
	assert.Equal(t, 2, series.YearsAnalyzed)
	assert.Equal(t, "2026-09-20T10:00:00", series.Timestamps[0])

	assert.InDelta(t, 22.0, series.TemperatureC[0], 1e-9)
	assert.InDelta(t, 20.0, series.TempMinC[0], 1e-9)
	assert.InDelta(t, 24.0, series.TempMaxC[0], 1e-9)
	assert.InDelta(t, 65.0, series.HumidityPct[0], 1e-9)
	assert.InDelta(t, 3.0*3.6, series.WindKph[0], 1e-9)
	assert.InDelta(t, 0.5, series.PrecipitationMm[0], 1e-9)

	// Temps {20,24}: stddev 2, confidence 100 - 5*2 = 90.
	assert.Equal(t, 90, series.ConfidencePct[0])
}

func TestPatternPredictorSingleYear(t *testing.T) {
	source := &fakeHistorySource{
		byDate: map[string]*client.HourlyObservations{
			"20250920": observationsFor("20250920", []int{10}, 18.5, 55, 1.0, 0),
		},
	}
	predictor := newTestPredictor(source, 5)

	series, err := predictor.Fetch(context.Background(), patternRequest("2026-09-20"))
	require.NoError(t, err)

	assert.Equal(t, 1, series.YearsAnalyzed)
	// One sample: no spread, full confidence.
	assert.InDelta(t, 18.5, series.TemperatureC[0], 1e-9)
	assert.Equal(t, series.TemperatureC[0], series.TempMinC[0])
	assert.Equal(t, series.TemperatureC[0], series.TempMaxC[0])
	assert.Equal(t, 100, series.ConfidencePct[0])
}

func TestPatternPredictorToleratesPartialFailures(t *testing.T) {
	source := &fakeHistorySource{
		byDate: map[string]*client.HourlyObservations{
			"20250920": observationsFor("20250920", []int{10}, 21, 60, 2.0, 0),
		},
		fail: map[string]error{
			"20240920": errors.New("power api: 503"),
			"20230920": errors.New("power api: timeout"),
		},
	}
	predictor := newTestPredictor(source, 5)

	series, err := predictor.Fetch(context.Background(), patternRequest("2026-09-20"))
	require.NoError(t, err)
	assert.Equal(t, 1, series.YearsAnalyzed)
	assert.Equal(t, 5, source.calls)
}

func TestPatternPredictorAllYearsFail(t *testing.T) {
	source := &fakeHistorySource{
		fail: map[string]error{
			"20250920": errors.New("power api: 503"),
			"20240920": errors.New("power api: 503"),
			"20230920": errors.New("power api: 503"),
		},
	}
	predictor := newTestPredictor(source, 3)

	_, err := predictor.Fetch(context.Background(), patternRequest("2026-09-20"))
	assert.ErrorIs(t, err, ErrPredictionUnavailable)
}

func TestPatternConfidenceFloor(t *testing.T) {
	// Spread wide enough to push the raw score below the floor.
	assert.Equal(t, 50, patternConfidence([]float64{0, 30}))
	assert.Equal(t, 100, patternConfidence([]float64{12, 12, 12}))
	assert.Equal(t, 100, patternConfidence(nil))
}
