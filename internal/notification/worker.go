// Package notification delivers downtime alerts to browser push subscribers.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"factory-chatbot-backend/internal/model"
)

// Sender delivers one web push message.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends through webpush-go.
type WebPushSender struct{}

func (WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Subscriptions is the part of the store the workers need.
type Subscriptions interface {
	SubscriptionsForLine(ctx context.Context, lineID int) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Job is one alert to fan out to the subscribers of a line.
type Job struct {
	LineID  int
	Message string
}

// Payload is the JSON body pushed to the browser.
type Payload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	LineID int    `json:"line_id"`
}

// ErrStopped is returned by Dispatch once the pool's context is done.
var ErrStopped = errors.New("worker pool stopped")

// WorkerPool runs a fixed number of workers draining a bounded job queue.
type WorkerPool struct {
	size    int
	jobs    chan Job
	subs    Subscriptions
	webpush *webpush.Options
	sender  Sender
	log     *zap.Logger

	wg   sync.WaitGroup
	done chan struct{}
	once sync.Once
}

// NewWorkerPool creates a pool of size workers. size below one is treated as one.
func NewWorkerPool(size int, subs Subscriptions, options *webpush.Options, log *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		subs:    subs,
		webpush: options,
		sender:  WebPushSender{},
		log:     log.Named("push"),
		done:    make(chan struct{}),
	}
}

// WithSender replaces the delivery mechanism. It must be called before Start.
func (wp *WorkerPool) WithSender(s Sender) *WorkerPool {
	wp.sender = s
	return wp
}

// Start launches the workers. They exit when ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		wp.once.Do(func() { close(wp.done) })
	}()
}

// Wait blocks until every worker has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log := wp.log.With(zap.Int("worker", id))
	log.Debug("worker started")
	for {
		select {
		case job := <-wp.jobs:
			wp.deliver(ctx, job)
		case <-ctx.Done():
			log.Debug("worker stopped")
			return
		}
	}
}

// Dispatch queues a job, blocking while the queue is full.
func (wp *WorkerPool) Dispatch(ctx context.Context, job Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-wp.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *WorkerPool) deliver(ctx context.Context, job Job) {
	subs, err := wp.subs.SubscriptionsForLine(ctx, job.LineID)
	if err != nil {
		wp.log.Warn("failed to load subscriptions", zap.Int("line_id", job.LineID), zap.Error(err))
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(Payload{Title: "Downtime alert", Body: job.Message, LineID: job.LineID})
	if err != nil {
		wp.log.Error("failed to encode payload", zap.Error(err))
		return
	}

	wp.log.Info("sending alert", zap.Int("line_id", job.LineID), zap.Int("subscribers", len(subs)))
	for _, sub := range subs {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	resp, err := wp.sender.Send(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256DH, Auth: sub.Auth},
	}, wp.webpush)
	if err != nil {
		wp.log.Warn("push failed", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusGone, http.StatusNotFound:
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Warn("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
