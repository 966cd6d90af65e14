package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// OpenMeteoClient fetches short-range hourly forecasts from Open-Meteo.
// No API key is required.
type OpenMeteoClient struct {
	*BaseClient
	baseURL string
}

// HourlyForecast carries Open-Meteo's parallel hourly arrays as returned by
// the provider: Time[i] describes the same hour as the i-th entry of every
// other slice. Times are local ISO strings without a UTC offset
// ("2006-01-02T15:00"). Wind speeds are already km/h (the provider default).
type HourlyForecast struct {
	Time            []string
	TemperatureC    []float64
	HumidityPct     []float64
	WindSpeedKph    []float64
	PrecipitationMm []float64
}

type openMeteoForecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    struct {
		Time               []string  `json:"time"`
		Temperature2M      []float64 `json:"temperature_2m"`
		RelativeHumidity2M []float64 `json:"relative_humidity_2m"`
		WindSpeed10M       []float64 `json:"wind_speed_10m"`
		Precipitation      []float64 `json:"precipitation"`
	} `json:"hourly"`
}

func NewOpenMeteoClient(baseURL string, config ClientConfig, logger *zap.Logger) *OpenMeteoClient {
	baseClient := NewBaseClient("openmeteo", config, logger)
	return &OpenMeteoClient{
		BaseClient: baseClient,
		baseURL:    baseURL,
	}
}

// FetchHourlyForecast requests the full 16-day hourly forecast for a
// coordinate. Slicing the requested window out of the response is the
// caller's concern.
func (c *OpenMeteoClient) FetchHourlyForecast(ctx context.Context, lat, lon float64) (*HourlyForecast, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m,precipitation")
	values.Set("forecast_days", "16")
	values.Set("timezone", "auto")

	requestURL := buildURL(c.baseURL+"/forecast", values)

	data, err := c.GetWithRetry(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var response openMeteoForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	c.logger.Debug("Forecast fetched",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("hours", len(response.Hourly.Time)))

	return &HourlyForecast{
		Time:            response.Hourly.Time,
		TemperatureC:    response.Hourly.Temperature2M,
		HumidityPct:     response.Hourly.RelativeHumidity2M,
		WindSpeedKph:    response.Hourly.WindSpeed10M,
		PrecipitationMm: response.Hourly.Precipitation,
	}, nil
}
