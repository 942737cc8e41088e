package chatbot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"factory-chatbot-backend/internal/store"
)

// Alert is one of today's production rows whose downtime exceeds the threshold.
type Alert struct {
	LineID          int       `json:"line_id"`
	Date            time.Time `json:"date"`
	Shift           string    `json:"shift"`
	DowntimeMinutes int       `json:"downtime_minutes"`
	Message         string    `json:"message"`
}

// AlertScanner checks today's production for excessive downtime.
type AlertScanner struct {
	store     store.Store
	clock     Clock
	threshold int
	log       *zap.Logger
}

// NewAlertScanner creates a scanner flagging rows with more than threshold minutes of downtime.
func NewAlertScanner(s store.Store, clock Clock, threshold int, log *zap.Logger) *AlertScanner {
	return &AlertScanner{
		store:     s,
		clock:     clock,
		threshold: threshold,
		log:       log.Named("alerts"),
	}
}

// Check returns today's alerts, or the store error.
func (a *AlertScanner) Check(ctx context.Context) ([]Alert, error) {
	day := today(a.clock)
	var rows []store.LineOutput
	err := a.store.Session(ctx, func(q store.Querier) error {
		var err error
		rows, err = q.DowntimeAbove(day, a.threshold)
		return err
	})
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(rows))
	for _, r := range rows {
		alerts = append(alerts, Alert{
			LineID:          r.LineID,
			Date:            day,
			Shift:           r.Shift,
			DowntimeMinutes: r.DowntimeMinutes,
			Message:         renderAlert(r.LineID, r.DowntimeMinutes),
		})
	}
	return alerts, nil
}

// Scan returns today's alert messages. Failures are logged and yield an
// empty slice so that a dispatch is never aborted by the scan.
func (a *AlertScanner) Scan(ctx context.Context) []string {
	alerts, err := a.Check(ctx)
	if err != nil {
		a.log.Warn("alert check failed", zap.Error(err))
		return []string{}
	}
	messages := make([]string, 0, len(alerts))
	for _, al := range alerts {
		messages = append(messages, al.Message)
	}
	return messages
}
