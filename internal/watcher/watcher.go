// Package watcher periodically scans today's production for excessive
// downtime and pushes each new alert to the subscribers of its line.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/chatbot"
	"factory-chatbot-backend/internal/model"
	"factory-chatbot-backend/internal/notification"
)

// AlertChecker reports the alerts that currently hold.
type AlertChecker interface {
	Check(ctx context.Context) ([]chatbot.Alert, error)
}

// JobDispatcher queues push jobs.
type JobDispatcher interface {
	Dispatch(ctx context.Context, job notification.Job) error
}

// Service runs the alert scan on a cron schedule.
type Service struct {
	cfg    config.WatcherConfig
	alerts AlertChecker
	pool   JobDispatcher
	seen   *cache.Cache
	log    *zap.Logger
}

// NewService creates a watcher. An alert is pushed at most once per line,
// date and shift for as long as the process runs (entries expire after two days).
func NewService(cfg config.WatcherConfig, alerts AlertChecker, pool JobDispatcher, log *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		alerts: alerts,
		pool:   pool,
		seen:   cache.New(48*time.Hour, time.Hour),
		log:    log.Named("watcher"),
	}
}

// Run scans once immediately and then on every tick of the schedule until
// ctx is done. It returns an error only for an invalid schedule.
func (s *Service) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.log.Info("alert watcher disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Schedule, func() { s.ScanOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid watcher schedule %q: %w", s.cfg.Schedule, err)
	}

	s.log.Info("alert watcher started", zap.String("schedule", s.cfg.Schedule))
	s.ScanOnce(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("alert watcher stopped")
	return nil
}

// ScanOnce checks for alerts and dispatches the ones not yet pushed. It
// returns the number of jobs dispatched.
func (s *Service) ScanOnce(ctx context.Context) int {
	alerts, err := s.alerts.Check(ctx)
	if err != nil {
		s.log.Warn("alert scan failed", zap.Error(err))
		return 0
	}

	dispatched := 0
	for _, a := range alerts {
		key := fmt.Sprintf("%d/%s/%s", a.LineID, model.FormatDate(a.Date), a.Shift)
		if err := s.seen.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
			continue
		}
		if err := s.pool.Dispatch(ctx, notification.Job{LineID: a.LineID, Message: a.Message}); err != nil {
			s.seen.Delete(key)
			s.log.Warn("failed to queue alert", zap.Int("line_id", a.LineID), zap.Error(err))
			continue
		}
		dispatched++
	}
	if dispatched > 0 {
		s.log.Info("alerts dispatched", zap.Int("count", dispatched))
	}
	return dispatched
}
