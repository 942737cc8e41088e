package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/chart"
	"factory-chatbot-backend/internal/chatbot"
	"factory-chatbot-backend/internal/db"
	"factory-chatbot-backend/internal/store"
)

// app is the object graph shared by serve and ask.
type app struct {
	db         *gorm.DB
	store      store.Store
	alerts     *chatbot.AlertScanner
	dispatcher *chatbot.Dispatcher
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	gormDB, err := db.Init(&cfg.Database, log.Named("db"))
	if err != nil {
		return nil, err
	}

	clock := chatbot.SystemClock(cfg.Chatbot.Location)
	if cfg.Database.SeedOnStart {
		summary, err := db.Seed(ctx, gormDB, clock.Now())
		if err != nil {
			return nil, err
		}
		logSeed(log, summary)
	}

	s := store.NewGormStore(gormDB)
	alerts := chatbot.NewAlertScanner(s, clock, cfg.Chatbot.AlertThresholdMinutes, log)
	dispatcher := chatbot.NewDispatcher(s, alerts, chart.NewGenerator(cfg.Chatbot, log), clock, cfg.Chatbot, log)

	return &app{db: gormDB, store: s, alerts: alerts, dispatcher: dispatcher}, nil
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logSeed(log *zap.Logger, s db.SeedSummary) {
	log.Info("sample data loaded",
		zap.Int("machines", s.Machines),
		zap.Int("production", s.Production),
		zap.Int("maintenance", s.Maintenance),
		zap.Int("downtime", s.Downtime),
		zap.String("from", s.From.Format(time.DateOnly)),
		zap.String("to", s.To.Format(time.DateOnly)),
	)
}
