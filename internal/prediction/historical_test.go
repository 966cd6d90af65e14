package prediction

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weather-comfort/internal/models"
	"weather-comfort/pkg/client"
)

// fakeHistorySource returns canned observations per compact date, or an
// error for dates listed in fail. Safe for concurrent fetches.
type fakeHistorySource struct {
	byDate map[string]*client.HourlyObservations
	fail   map[string]error

	mu    sync.Mutex
	calls int
}

func (f *fakeHistorySource) FetchHourlyPoint(ctx context.Context, lat, lon float64, date time.Time) (*client.HourlyObservations, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	key := date.Format("20060102")
	if err, ok := f.fail[key]; ok {
		return nil, err
	}
	if obs, ok := f.byDate[key]; ok {
		return obs, nil
	}
	return &client.HourlyObservations{}, nil
}

func observationsFor(compactDate string, hours []int, temp, humidity, windMs, precip float64) *client.HourlyObservations {
	obs := &client.HourlyObservations{
		TemperatureC:    map[string]float64{},
		HumidityPct:     map[string]float64{},
		WindSpeedMs:     map[string]float64{},
		PrecipitationMm: map[string]float64{},
	}
	for _, hour := range hours {
		key := fmt.Sprintf("%s%02d", compactDate, hour)
		obs.TemperatureC[key] = temp
		obs.HumidityPct[key] = humidity
		obs.WindSpeedMs[key] = windMs
		obs.PrecipitationMm[key] = precip
	}
	return obs
}

func historicalRequest(date string) models.PredictionRequest {
	parsed, _ := time.Parse("2006-01-02", date)
	return models.PredictionRequest{
		Latitude:  51.5,
		Longitude: -0.12,
		Date:      parsed,
		StartHour: "10:00",
		EndHour:   "12:00",
	}
}

func TestHistoricalAdapterNormalizesObservations(t *testing.T) {
	source := &fakeHistorySource{
		byDate: map[string]*client.HourlyObservations{
			"20200614": observationsFor("20200614", []int{10, 11, 12}, 17.5, 72, 4.0, 0.3),
		},
	}
	adapter := NewHistoricalAdapter(source, zap.NewNop())

	series, err := adapter.Fetch(context.Background(), historicalRequest("2020-06-14"))
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, models.SourceObservedHistory, series.Source)
	assert.Equal(t, "2020-06-14T10:00:00", series.Timestamps[0])
	assert.Equal(t, "2020-06-14T12:00:00", series.Timestamps[2])

	for i := range series.Timestamps {
		// Wind converted m/s -> km/h, exactly.
		assert.InDelta(t, 4.0*3.6, series.WindKph[i], 1e-9)
		// Observed data: full confidence, no intra-hour band.
		assert.Equal(t, 100, series.ConfidencePct[i])
		assert.Equal(t, series.TemperatureC[i], series.TempMinC[i])
		assert.Equal(t, series.TemperatureC[i], series.TempMaxC[i])
	}
	assert.InDelta(t, 17.5, series.TemperatureC[0], 1e-9)
	assert.InDelta(t, 72.0, series.HumidityPct[0], 1e-9)
	assert.InDelta(t, 0.3, series.PrecipitationMm[0], 1e-9)
}

func TestHistoricalAdapterFillsGapsWithDefaults(t *testing.T) {
	// Hour 11 missing from every parameter map.
	source := &fakeHistorySource{
		byDate: map[string]*client.HourlyObservations{
			"20200614": observationsFor("20200614", []int{10, 12}, 15, 70, 2.0, 1.2),
		},
	}
	adapter := NewHistoricalAdapter(source, zap.NewNop())

	series, err := adapter.Fetch(context.Background(), historicalRequest("2020-06-14"))
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())

	assert.InDelta(t, 20.0, series.TemperatureC[1], 1e-9)
	assert.InDelta(t, 60.0, series.HumidityPct[1], 1e-9)
	assert.InDelta(t, 3.0*3.6, series.WindKph[1], 1e-9)
	assert.InDelta(t, 0.0, series.PrecipitationMm[1], 1e-9)
	// A substituted hour still counts as observed for this source.
	assert.Equal(t, 100, series.ConfidencePct[1])
}

func TestHistoricalAdapterSourceUnavailable(t *testing.T) {
	// Empty response: no parameter block at all.
	source := &fakeHistorySource{}
	adapter := NewHistoricalAdapter(source, zap.NewNop())

	_, err := adapter.Fetch(context.Background(), historicalRequest("2020-06-14"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
