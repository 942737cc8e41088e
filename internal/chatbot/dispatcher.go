// Package chatbot turns free-text operator messages into replies built from
// the factory database.
package chatbot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/parse"
	"factory-chatbot-backend/internal/store"
)

// Response is the reply to one message.
type Response struct {
	Text   string   `json:"response"`
	Chart  *string  `json:"chart"`
	Alerts []string `json:"alerts"`

	Intent Intent `json:"-"`
}

// ChartRenderer draws daily totals, oldest first, into an embeddable payload.
// It reports false instead of failing.
type ChartRenderer interface {
	Render(totals []store.DailyTotal) (string, bool)
}

// Dispatcher answers messages. It holds no per-request state and is safe for
// concurrent use.
type Dispatcher struct {
	store      store.Store
	alerts     *AlertScanner
	charts     ChartRenderer
	clock      Clock
	chartDays  int
	recentRows int
	log        *zap.Logger
}

// NewDispatcher wires a dispatcher. Zero limits in cfg fall back to seven
// chart days and five downtime rows.
func NewDispatcher(s store.Store, alerts *AlertScanner, charts ChartRenderer, clock Clock, cfg config.ChatbotConfig, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		store:      s,
		alerts:     alerts,
		charts:     charts,
		clock:      clock,
		chartDays:  cfg.ChartDays,
		recentRows: cfg.RecentDowntimeRowsLimit,
		log:        log.Named("dispatcher"),
	}
	if d.chartDays <= 0 {
		d.chartDays = 7
	}
	if d.recentRows <= 0 {
		d.recentRows = 5
	}
	return d
}

// Dispatch answers message. It always returns a well-formed response: store
// outages and internal failures become error texts with no alerts or chart.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) (resp Response) {
	normalized := Normalize(message)
	intent := Classify(normalized)

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("dispatch panicked", zap.String("intent", string(intent)), zap.Any("panic", r), zap.Stack("stack"))
			resp = errorResponse(intent, internalErrorText)
		}
	}()

	// Alerts run in their own session first; a failed scan only empties the list.
	alerts := d.alerts.Scan(ctx)

	err := d.store.Session(ctx, func(q store.Querier) error {
		var err error
		resp, err = d.answer(q, intent, normalized)
		return err
	})
	switch {
	case errors.Is(err, store.ErrUnavailable):
		d.log.Warn("data store unavailable", zap.String("intent", string(intent)), zap.Error(err))
		return errorResponse(intent, dbUnavailableText)
	case err != nil:
		d.log.Error("dispatch failed", zap.String("intent", string(intent)), zap.Error(err))
		return errorResponse(intent, internalErrorText)
	}

	resp.Alerts = alerts
	d.log.Debug("dispatched", zap.String("intent", string(intent)), zap.Int("alerts", len(alerts)), zap.Bool("chart", resp.Chart != nil))
	return resp
}

func (d *Dispatcher) answer(q store.Querier, intent Intent, message string) (Response, error) {
	resp := Response{Intent: intent}
	day := today(d.clock)

	switch intent {
	case IntentTodayProduction:
		rows, err := q.ProductionOn(day)
		if err != nil {
			return resp, err
		}
		resp.Text = renderTodayProduction(rows)
		if len(rows) > 0 {
			resp.Chart = d.chart(q)
		}

	case IntentMaintenanceList:
		rows, err := q.MaintenanceDue(day)
		if err != nil {
			return resp, err
		}
		resp.Text = renderMaintenance(rows)

	case IntentDowntimeByLine:
		lineID, ok := parse.LineID(message)
		if !ok {
			resp.Text = lineClarificationText
			return resp, nil
		}
		rows, err := q.RecentLineProduction(lineID, d.recentRows)
		if err != nil {
			return resp, err
		}
		resp.Text = renderLineDowntime(lineID, rows)

	case IntentMachineStatus:
		machines, err := q.Machines()
		if err != nil {
			return resp, err
		}
		resp.Text = renderMachineStatus(machines)

	case IntentHelp:
		resp.Text = helpText

	default:
		resp.Text = fallbackText
	}
	return resp, nil
}

// chart fetches the trend data and renders it. Any failure means no chart.
func (d *Dispatcher) chart(q store.Querier) *string {
	totals, err := q.DailyTotals(d.chartDays)
	if err != nil {
		d.log.Warn("chart data unavailable", zap.Error(err))
		return nil
	}
	payload, ok := d.charts.Render(totals)
	if !ok {
		return nil
	}
	return &payload
}

func errorResponse(intent Intent, text string) Response {
	return Response{Text: text, Alerts: []string{}, Intent: intent}
}
