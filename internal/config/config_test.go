package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.open-meteo.com/v1", cfg.Providers.OpenMeteoURL)
	assert.Equal(t, "https://power.larc.nasa.gov", cfg.Providers.NASAPowerURL)
	assert.Equal(t, 30*time.Second, cfg.Providers.RequestTimeout)
	assert.Equal(t, 5, cfg.Prediction.YearsAnalyzed)
	assert.Equal(t, 10*time.Minute, cfg.Cache.Duration)
	assert.Equal(t, 1000, cfg.Cache.MaxSize)
	assert.Empty(t, cfg.Scheduler.Locations)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FIBER_PORT", "9090")
	t.Setenv("PREDICTION_YEARS", "3")
	t.Setenv("PREWARM_LOCATIONS", "40.4,-3.7; 51.5,-0.12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Prediction.YearsAnalyzed)

	require.Len(t, cfg.Scheduler.Locations, 2)
	assert.Equal(t, Location{Latitude: 40.4, Longitude: -3.7}, cfg.Scheduler.Locations[0])
	assert.Equal(t, Location{Latitude: 51.5, Longitude: -0.12}, cfg.Scheduler.Locations[1])
}

func TestParseLocationsSkipsMalformedPairs(t *testing.T) {
	locations := parseLocations("40.4,-3.7;garbage;;1,2,3;51.5,-0.12")
	require.Len(t, locations, 2)
	assert.Equal(t, 40.4, locations[0].Latitude)
	assert.Equal(t, 51.5, locations[1].Latitude)
}
