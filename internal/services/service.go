package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"weather-comfort/internal/comfort"
	"weather-comfort/internal/config"
	"weather-comfort/internal/models"
	"weather-comfort/internal/prediction"
	"weather-comfort/pkg/client"
)

// Service is the facade the HTTP layer and the scheduler talk to. It owns
// source routing, the per-request timeout, the response cache and the
// comfort scorer. The acquisition strategies underneath stay cache-free and
// stateless.
type Service struct {
	forecast   *prediction.ForecastAdapter
	historical *prediction.HistoricalAdapter
	pattern    *prediction.PatternPredictor
	scorer     *comfort.Scorer
	registry   *comfort.ThresholdRegistry
	catalog    *comfort.Catalog
	cache      *PredictionCache
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time

	mu           sync.Mutex
	successCount int
	failureCount int
}

func NewService(cfg *config.Config, logger *zap.Logger) *Service {
	clientConfig := client.ClientConfig{
		Timeout:        cfg.Providers.RequestTimeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}

	openMeteo := client.NewOpenMeteoClient(cfg.Providers.OpenMeteoURL, clientConfig, logger)
	nasaPower := client.NewNASAPowerClient(cfg.Providers.NASAPowerURL, clientConfig, logger)

	registry := comfort.NewThresholdRegistry()

	return &Service{
		forecast:   prediction.NewForecastAdapter(openMeteo, logger),
		historical: prediction.NewHistoricalAdapter(nasaPower, logger),
		pattern:    prediction.NewPatternPredictor(nasaPower, cfg.Prediction.YearsAnalyzed, logger),
		scorer:     comfort.NewScorer(registry, logger),
		registry:   registry,
		catalog:    comfort.NewCatalog(),
		cache:      NewPredictionCache(cfg.Cache.Duration, cfg.Cache.MaxSize, logger),
		logger:     logger,
		timeout:    cfg.Providers.RequestTimeout,
		now:        time.Now,
	}
}

// Predict routes the request to the right acquisition strategy and returns
// the canonical series. Responses are cached by location and window; the
// provider call itself runs under the configured timeout.
func (s *Service) Predict(ctx context.Context, req models.PredictionRequest) (*models.WeatherSeries, error) {
	if _, err := prediction.ParseWindow(req.StartHour, req.EndHour); err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("Prediction cache hit", zap.String("key", key))
		return cached, nil
	}

	strategy, err := prediction.Route(req.Date, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetching weather series",
		zap.String("strategy", string(strategy)),
		zap.Float64("lat", req.Latitude),
		zap.Float64("lon", req.Longitude),
		zap.String("date", req.Date.Format("2006-01-02")))

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var series *models.WeatherSeries
	switch strategy {
	case prediction.StrategyForecast:
		series, err = s.forecast.Fetch(fetchCtx, req)
	case prediction.StrategyHistorical:
		series, err = s.historical.Fetch(fetchCtx, req)
	case prediction.StrategyPattern:
		series, err = s.pattern.Fetch(fetchCtx, req)
	default:
		err = fmt.Errorf("unknown strategy %q", strategy)
	}

	s.mu.Lock()
	if err != nil {
		s.failureCount++
	} else {
		s.successCount++
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.logger.Debug("Weather series ready",
		zap.String("source", series.Source),
		zap.Int("hours", series.Len()),
		zap.Float64("avg_confidence", series.AverageConfidence()))

	s.cache.Set(key, series)
	return series, nil
}

// Comfort fetches the series for the request and scores it for the given
// activity, returning both.
func (s *Service) Comfort(ctx context.Context, req models.PredictionRequest, activity string) (*models.WeatherSeries, *models.ComfortReport, error) {
	series, err := s.Predict(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	report, err := s.scorer.Score(series, activity)
	if err != nil {
		return nil, nil, err
	}

	return series, report, nil
}

// Activities lists the catalog, predefined plus custom registrations.
func (s *Service) Activities() []comfort.Activity {
	return s.catalog.All()
}

// RegisterActivity adds a runtime-defined activity with its own thresholds.
func (s *Service) RegisterActivity(activity comfort.Activity, thresholds comfort.ActivityThresholds) error {
	if err := s.registry.Register(activity.Title, thresholds); err != nil {
		return err
	}
	s.catalog.Add(activity)

	s.logger.Info("Custom activity registered",
		zap.String("title", activity.Title),
		zap.String("id", comfort.NormalizeID(activity.Title)))
	return nil
}

// PrewarmForecast fetches and caches today's full-day forecast for a
// location. Used by the scheduler.
func (s *Service) PrewarmForecast(ctx context.Context, lat, lon float64) error {
	req := models.PredictionRequest{
		Latitude:  lat,
		Longitude: lon,
		Date:      s.now(),
		StartHour: "00:00",
		EndHour:   "23:00",
	}
	_, err := s.Predict(ctx, req)
	return err
}

// Stats reports request counters and cache state for the health endpoint.
func (s *Service) Stats() map[string]interface{} {
	s.mu.Lock()
	success := s.successCount
	failure := s.failureCount
	s.mu.Unlock()

	return map[string]interface{}{
		"success_count": success,
		"failure_count": failure,
		"cache_stats":   s.cache.Stats(),
	}
}

// Stop releases background resources (the cache cleanup loop).
func (s *Service) Stop() {
	s.cache.Stop()
}

func cacheKey(req models.PredictionRequest) string {
	return fmt.Sprintf("%.4f:%.4f:%s:%s-%s",
		req.Latitude,
		req.Longitude,
		req.Date.Format("2006-01-02"),
		req.StartHour,
		req.EndHour)
}
