// Package notification delivers fixture alerts to browser push subscribers.
package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"fixture-tracker-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionStore is the part of the store the workers need.
type SubscriptionStore interface {
	ListSubscriptionsForFixture(ctx context.Context, fixtureID string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Alert is one message about one fixture.
type Alert struct {
	FixtureID   string `json:"fixture_id"`
	FixtureName string `json:"fixture_name"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	store   SubscriptionStore
	webpush *webpush.Options
	sender  NotificationSender
	log     *slog.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, store SubscriptionStore, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size),
		store:   store,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     slog.With("component", "notification"),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug("worker started", "worker", id)
	for {
		select {
		case alert := <-wp.jobs:
			wp.log.Debug("processing alert", "worker", id, "fixture_id", alert.FixtureID)
			wp.sendAlert(ctx, alert)
		case <-ctx.Done():
			wp.log.Debug("worker shutting down", "worker", id)
			return
		}
	}
}

// Dispatch queues an alert, blocking while the queue is full or until ctx ends.
func (wp *WorkerPool) Dispatch(ctx context.Context, alert Alert) {
	select {
	case wp.jobs <- alert:
	case <-ctx.Done():
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Alert {
	return wp.jobs
}

// sendAlert fans one alert out to every subscriber of its fixture.
func (wp *WorkerPool) sendAlert(ctx context.Context, alert Alert) {
	subscriptions, err := wp.store.ListSubscriptionsForFixture(ctx, alert.FixtureID)
	if err != nil {
		wp.log.Error("failed to fetch subscriptions", "fixture_id", alert.FixtureID, "err", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		wp.log.Error("failed to encode alert", "fixture_id", alert.FixtureID, "err", err)
		return
	}

	wp.log.Info("sending alert", "fixture_id", alert.FixtureID, "subscribers", len(subscriptions))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("failed to send notification", "endpoint", sub.Endpoint, "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", "endpoint", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error("failed to delete expired subscription", "endpoint", sub.Endpoint, "err", err)
		}
	}
}
