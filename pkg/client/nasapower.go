package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// NASAPowerClient fetches point hourly historical observations from the NASA
// POWER API. Values are keyed by "YYYYMMDDHH". Wind speed is m/s.
type NASAPowerClient struct {
	*BaseClient
	baseURL string
}

// HourlyObservations holds one day of observed values per parameter, keyed
// by "YYYYMMDDHH". Maps are nil when the provider returned no parameter
// block at all.
type HourlyObservations struct {
	TemperatureC    map[string]float64
	HumidityPct     map[string]float64
	WindSpeedMs     map[string]float64
	PrecipitationMm map[string]float64
}

// Empty reports whether the provider returned no parameter block.
func (o *HourlyObservations) Empty() bool {
	return o.TemperatureC == nil && o.HumidityPct == nil &&
		o.WindSpeedMs == nil && o.PrecipitationMm == nil
}

type nasaPowerResponse struct {
	Properties *struct {
		Parameter *struct {
			T2M         map[string]float64 `json:"T2M"`
			RH2M        map[string]float64 `json:"RH2M"`
			WS10M       map[string]float64 `json:"WS10M"`
			PrecTotCorr map[string]float64 `json:"PRECTOTCORR"`
		} `json:"parameter"`
	} `json:"properties"`
}

func NewNASAPowerClient(baseURL string, config ClientConfig, logger *zap.Logger) *NASAPowerClient {
	baseClient := NewBaseClient("nasa-power", config, logger)
	return &NASAPowerClient{
		BaseClient: baseClient,
		baseURL:    baseURL,
	}
}

// FetchHourlyPoint requests observed hourly values for a single calendar
// date at a coordinate. A response without a parameter block yields an
// HourlyObservations whose Empty method reports true; deciding whether that
// is an error belongs to the caller.
func (c *NASAPowerClient) FetchHourlyPoint(ctx context.Context, lat, lon float64, date time.Time) (*HourlyObservations, error) {
	compactDate := date.Format("20060102")

	values := url.Values{}
	values.Set("parameters", "T2M,WS10M,RH2M,PRECTOTCORR")
	values.Set("community", "RE")
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("start", compactDate)
	values.Set("end", compactDate)
	values.Set("format", "JSON")

	requestURL := buildURL(c.baseURL+"/api/temporal/hourly/point", values)

	data, err := c.GetWithRetry(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch observations: %w", err)
	}

	var response nasaPowerResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse observations response: %w", err)
	}

	if response.Properties == nil || response.Properties.Parameter == nil {
		c.logger.Warn("Observations response had no parameter block",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.String("date", compactDate))
		return &HourlyObservations{}, nil
	}

	params := response.Properties.Parameter
	return &HourlyObservations{
		TemperatureC:    params.T2M,
		HumidityPct:     params.RH2M,
		WindSpeedMs:     params.WS10M,
		PrecipitationMm: params.PrecTotCorr,
	}, nil
}
