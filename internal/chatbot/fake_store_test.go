package chatbot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"factory-chatbot-backend/internal/model"
	"factory-chatbot-backend/internal/store"
)

// fakeStore is an in-memory store.Store that records every query it serves.
type fakeStore struct {
	mu sync.Mutex

	unavailable bool
	queryErr    error

	production  []store.LineOutput
	maintenance []store.MaintenanceRow
	lineRows    map[int][]store.LineDowntime // newest first
	machines    []model.Machine
	totals      []store.DailyTotal

	sessions int
	calls    map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]int), lineRows: make(map[int][]store.LineDowntime)}
}

func (f *fakeStore) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.queryErr
}

// dataCalls counts every query except the alert scan.
func (f *fakeStore) dataCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for name, c := range f.calls {
		if name != "DowntimeAbove" {
			n += c
		}
	}
	return n
}

func (f *fakeStore) Session(ctx context.Context, fn func(q store.Querier) error) error {
	f.mu.Lock()
	f.sessions++
	unavailable := f.unavailable
	f.mu.Unlock()
	if unavailable {
		return fmt.Errorf("%w: connection refused", store.ErrUnavailable)
	}
	return fn(f)
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.unavailable {
		return store.ErrUnavailable
	}
	return nil
}

func (f *fakeStore) ProductionOn(day time.Time) ([]store.LineOutput, error) {
	if err := f.record("ProductionOn"); err != nil {
		return nil, err
	}
	var rows []store.LineOutput
	for _, r := range f.production {
		if r.Date.Equal(day) {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (f *fakeStore) DowntimeAbove(day time.Time, minutes int) ([]store.LineOutput, error) {
	if err := f.record("DowntimeAbove"); err != nil {
		return nil, err
	}
	var rows []store.LineOutput
	for _, r := range f.production {
		if r.Date.Equal(day) && r.DowntimeMinutes > minutes {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (f *fakeStore) MaintenanceDue(day time.Time) ([]store.MaintenanceRow, error) {
	if err := f.record("MaintenanceDue"); err != nil {
		return nil, err
	}
	return f.maintenance, nil
}

func (f *fakeStore) RecentLineProduction(lineID, limit int) ([]store.LineDowntime, error) {
	if err := f.record("RecentLineProduction"); err != nil {
		return nil, err
	}
	rows := f.lineRows[lineID]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) Machines() ([]model.Machine, error) {
	if err := f.record("Machines"); err != nil {
		return nil, err
	}
	return f.machines, nil
}

func (f *fakeStore) DailyTotals(days int) ([]store.DailyTotal, error) {
	if err := f.record("DailyTotals"); err != nil {
		return nil, err
	}
	return f.totals, nil
}

func (f *fakeStore) DowntimeIncidents(lineID, limit int) ([]model.DowntimeIncident, error) {
	if err := f.record("DowntimeIncidents"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeStore) SaveSubscription(ctx context.Context, sub model.PushSubscription, lineIDs []int) error {
	return nil
}

func (f *fakeStore) FindSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) DeleteSubscription(ctx context.Context, endpoint string) error { return nil }

func (f *fakeStore) SubscriptionsForLine(ctx context.Context, lineID int) ([]model.PushSubscription, error) {
	return nil, nil
}

// fakeCharts returns a fixed payload and counts renders.
type fakeCharts struct {
	renders int
	panics  bool
}

func (c *fakeCharts) Render(totals []store.DailyTotal) (string, bool) {
	c.renders++
	if c.panics {
		panic("renderer exploded")
	}
	if len(totals) == 0 {
		return "", false
	}
	return "data:image/png;base64,AAAA", true
}
