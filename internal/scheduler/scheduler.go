// Package scheduler keeps the cache warm: on a cron schedule it fetches
// today's forecast for the configured locations so interactive requests for
// popular coordinates are served from cache.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weather-comfort/internal/config"
	"weather-comfort/internal/services"
)

type Scheduler struct {
	service   *services.Service
	logger    *zap.Logger
	locations []config.Location
	cron      *cron.Cron

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

func NewScheduler(service *services.Service, cronSpec string, locations []config.Location, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		service:   service,
		logger:    logger,
		locations: locations,
		// Seconds field enabled so sub-minute specs work in dev.
		cron: cron.New(cron.WithSeconds()),
	}

	if _, err := s.cron.AddFunc(cronSpec, s.runPrewarm); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	if len(s.locations) == 0 {
		s.logger.Info("No pre-warm locations configured, scheduler idle")
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("locations", len(s.locations)))

	// Warm the cache immediately rather than waiting a full period.
	go s.runPrewarm()
}

func (s *Scheduler) runPrewarm() {
	if len(s.locations) == 0 {
		return
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	startTime := time.Now()
	s.logger.Info("Starting forecast pre-warm",
		zap.Int("locations", len(s.locations)))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	failures := 0
	for _, loc := range s.locations {
		if err := s.service.PrewarmForecast(ctx, loc.Latitude, loc.Longitude); err != nil {
			failures++
			s.logger.Error("Forecast pre-warm failed",
				zap.Float64("lat", loc.Latitude),
				zap.Float64("lon", loc.Longitude),
				zap.Error(err))
		}
	}

	s.logger.Info("Forecast pre-warm completed",
		zap.Int("locations", len(s.locations)),
		zap.Int("failures", failures),
		zap.Duration("duration", time.Since(startTime)))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info("Stopping scheduler")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"running":   s.running,
		"last_run":  s.lastRun,
		"locations": len(s.locations),
	}
}
