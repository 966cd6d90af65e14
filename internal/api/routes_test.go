package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"weather-comfort/internal/config"
	"weather-comfort/internal/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{}
	cfg.Providers.OpenMeteoURL = "http://127.0.0.1:0"
	cfg.Providers.NASAPowerURL = "http://127.0.0.1:0"
	cfg.Providers.RequestTimeout = 5 * time.Second
	cfg.Prediction.YearsAnalyzed = 5
	cfg.Cache.Duration = time.Minute
	cfg.Cache.MaxSize = 10
	cfg.CircuitBreaker.Threshold = 3
	cfg.CircuitBreaker.Timeout = time.Second
	cfg.Retry.MaxRetries = 0
	cfg.Retry.Delay = time.Millisecond
	cfg.Retry.Multiplier = 2

	logger := zap.NewNop()
	service := services.NewService(cfg, logger)
	t.Cleanup(service.Stop)

	app := fiber.New()
	SetupRoutes(app, NewHandler(service, logger), logger)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "stats")
}

func TestListActivities(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	activities, ok := body["activities"].([]interface{})
	require.True(t, ok)
	assert.Len(t, activities, 12)

	titles := make([]string, 0, len(activities))
	for _, raw := range activities {
		entry := raw.(map[string]interface{})
		titles = append(titles, entry["title"].(string))
	}
	assert.Contains(t, titles, "Hiking")
	assert.Contains(t, titles, "Beach Day")
}

func TestCreateActivity(t *testing.T) {
	app := newTestApp(t)

	payload := map[string]interface{}{
		"title":       "Hot Air Ballooning",
		"category":    "Aviation",
		"description": "Calm mornings only",
		"thresholds": map[string]interface{}{
			"cold":          map[string]float64{"trigger": 5, "base_probability": 0.9},
			"heat":          map[string]float64{"trigger": 30, "base_probability": 0.7},
			"wind":          map[string]float64{"trigger": 12, "base_probability": 0.95},
			"humidity":      map[string]float64{"trigger": 90, "base_probability": 0.4},
			"precipitation": map[string]float64{"trigger": 1, "base_probability": 0.9},
		},
	}
	resp, err := app.Test(postJSON(t, "/api/v1/activities", payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "hotairballooning", body["id"])

	// Same title again collides.
	resp, err = app.Test(postJSON(t, "/api/v1/activities", payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateActivityRejectsBuiltinCollision(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(postJSON(t, "/api/v1/activities", map[string]interface{}{
		"title":    "Hiking",
		"category": "Outdoors",
		"thresholds": map[string]interface{}{
			"cold":          map[string]float64{"trigger": 5, "base_probability": 0.9},
			"heat":          map[string]float64{"trigger": 30, "base_probability": 0.7},
			"wind":          map[string]float64{"trigger": 12, "base_probability": 0.95},
			"humidity":      map[string]float64{"trigger": 90, "base_probability": 0.4},
			"precipitation": map[string]float64{"trigger": 1, "base_probability": 0.9},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateActivityValidation(t *testing.T) {
	app := newTestApp(t)

	// Title below the minimum length.
	resp, err := app.Test(postJSON(t, "/api/v1/activities", map[string]interface{}{
		"title":    "X",
		"category": "Outdoors",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing category.
	resp, err = app.Test(postJSON(t, "/api/v1/activities", map[string]interface{}{
		"title": "Kite Flying",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unparseable body.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPredictionQueryValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=-3.7&date=2026-09-05"},
		{"lat out of range", "lat=91&lon=-3.7&date=2026-09-05"},
		{"lon out of range", "lat=40.4&lon=181&date=2026-09-05"},
		{"bad date", "lat=40.4&lon=-3.7&date=05-09-2026"},
		{"inverted window", "lat=40.4&lon=-3.7&date=2026-09-05&start=14:00&end=10:00"},
		{"bad hour", "lat=40.4&lon=-3.7&date=2026-09-05&start=25:00&end=26:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/prediction?"+tc.query, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestPredictionRecentPastUnavailable(t *testing.T) {
	app := newTestApp(t)

	// Yesterday falls in the gap between observation availability and the
	// forecast horizon: rejected before any provider call.
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	target := fmt.Sprintf("/api/v1/weather/prediction?lat=40.4&lon=-3.7&date=%s", yesterday)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body, "error")
}

func TestComfortRequiresActivity(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/comfort?lat=40.4&lon=-3.7&date=2026-09-05", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestComfortRecentPastUnavailable(t *testing.T) {
	app := newTestApp(t)

	yesterday := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	target := fmt.Sprintf("/api/v1/comfort?activity=hiking&lat=40.4&lon=-3.7&date=%s", yesterday)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func postJSON(t *testing.T, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
