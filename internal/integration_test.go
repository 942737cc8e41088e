package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/chatbot"
	"factory-chatbot-backend/internal/db"
	"factory-chatbot-backend/internal/model"
	"factory-chatbot-backend/internal/notification"
	"factory-chatbot-backend/internal/store"
	"factory-chatbot-backend/internal/watcher"
)

type capturingSender struct {
	mu       sync.Mutex
	payloads []notification.Payload
	status   int
}

func (c *capturingSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	var p notification.Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.payloads = append(c.payloads, p)
	c.mu.Unlock()
	return &http.Response{StatusCode: c.status, Body: io.NopCloser(strings.NewReader(""))}, nil
}

func (c *capturingSender) received() []notification.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notification.Payload(nil), c.payloads...)
}

// TestDowntimeAlertLifecycle seeds a database, subscribes a browser to line 2
// and checks that one watcher pass pushes exactly that line's alerts once.
func TestDowntimeAlertLifecycle(t *testing.T) {
	gormDB, err := db.Init(&config.DatabaseConfig{Driver: "sqlite", DSN: "file:alert_lifecycle?mode=memory&cache=shared", MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	now := time.Date(2026, 10, 15, 16, 0, 0, 0, time.UTC)
	_, err = db.Seed(context.Background(), gormDB, now)
	require.NoError(t, err)

	s := store.NewGormStore(gormDB)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.SaveSubscription(ctx, model.PushSubscription{Endpoint: "https://push.example/line2", P256DH: "k", Auth: "a"}, []int{2}))

	sender := &capturingSender{status: http.StatusCreated}
	pool := notification.NewWorkerPool(2, s, &webpush.Options{}, zap.NewNop()).WithSender(sender)
	pool.Start(ctx)

	alerts := chatbot.NewAlertScanner(s, chatbot.FixedClock(now), 30, zap.NewNop())
	w := watcher.NewService(config.WatcherConfig{Enabled: true, Schedule: "@every 1h"}, alerts, pool, zap.NewNop())

	assert.Equal(t, 5, w.ScanOnce(ctx), "line 1 has two shifts over 30 minutes, line 2 has three")
	assert.Equal(t, 0, w.ScanOnce(ctx))

	require.Eventually(t, func() bool { return len(sender.received()) == 3 }, 2*time.Second, 10*time.Millisecond)
	var bodies []string
	for _, p := range sender.received() {
		assert.Equal(t, 2, p.LineID)
		bodies = append(bodies, p.Body)
	}
	assert.ElementsMatch(t, []string{
		"🚨 ALERT: Line 2 has 35 minutes downtime today!",
		"🚨 ALERT: Line 2 has 75 minutes downtime today!",
		"🚨 ALERT: Line 2 has 90 minutes downtime today!",
	}, bodies)

	cancel()
	pool.Wait()
}

// TestExpiredSubscriptionIsRemoved checks that a 410 from the push service
// deletes the subscription together with its lines.
func TestExpiredSubscriptionIsRemoved(t *testing.T) {
	gormDB, err := db.Init(&config.DatabaseConfig{Driver: "sqlite", DSN: "file:expired_sub?mode=memory&cache=shared", MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	s := store.NewGormStore(gormDB)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.SaveSubscription(ctx, model.PushSubscription{Endpoint: "https://push.example/old", P256DH: "k", Auth: "a"}, []int{1, 2}))

	pool := notification.NewWorkerPool(1, s, &webpush.Options{}, zap.NewNop()).WithSender(&capturingSender{status: http.StatusGone})
	pool.Start(ctx)
	require.NoError(t, pool.Dispatch(ctx, notification.Job{LineID: 1, Message: "m"}))

	require.Eventually(t, func() bool {
		_, err := s.FindSubscription(ctx, "https://push.example/old")
		return err == store.ErrNotFound
	}, 2*time.Second, 10*time.Millisecond)

	var lines int64
	gormDB.Model(&model.SubscriptionLine{}).Count(&lines)
	assert.Zero(t, lines)

	cancel()
	pool.Wait()
}
