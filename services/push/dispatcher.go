package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	subscriptionRepo "mediremind/database/repository/subscription"
	"mediremind/models"
	"mediremind/utils"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

// ErrMissingVapidKeys is returned when the VAPID key pair is not configured.
// It fails the push path only; in-app notifications are unaffected.
var ErrMissingVapidKeys = errors.New("web push signing keys are not configured (VAPID_PUBLIC_KEY/VAPID_PRIVATE_KEY)")

// Result aggregates one fan-out: how many endpoints accepted the message out
// of how many were registered.
type Result struct {
	Delivered int `json:"delivered"`
	Total     int `json:"total"`
}

// Dispatcher fans a notification out to every push endpoint a user has
// registered. Delivery is best-effort: per-endpoint failures are classified
// and logged, never raised past this boundary. Only a failure to load the
// subscription set is returned as an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, payload models.PushPayload) (Result, error)
}

// WebPushSender sends one encrypted message to one endpoint and reports the
// push service's status code.
type WebPushSender interface {
	Send(ctx context.Context, sub *webpush.Subscription, message []byte) (int, error)
}

// DefaultPushDispatcher is the production implementation.
type DefaultPushDispatcher struct {
	Subs    subscriptionRepo.SubscriptionRepository
	Sender  WebPushSender
	Timeout time.Duration
}

// NewDefaultPushDispatcher wires the dispatcher with the VAPID-signing sender.
func NewDefaultPushDispatcher(subs subscriptionRepo.SubscriptionRepository) *DefaultPushDispatcher {
	return &DefaultPushDispatcher{
		Subs:    subs,
		Sender:  &vapidSender{},
		Timeout: 5 * time.Second,
	}
}

// Dispatch sends payload to all of the user's endpoints concurrently. Legs
// are independent: a failing endpoint never blocks or fails its siblings.
// Endpoints reported gone (404/410) are pruned immediately; every other
// failure is transient and leaves the subscription intact for the next
// notification to retry naturally.
func (d *DefaultPushDispatcher) Dispatch(ctx context.Context, userID string, payload models.PushPayload) (Result, error) {
	logger := utils.GetLogger()

	subs, err := d.Subs.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if len(subs) == 0 {
		return Result{}, nil
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return Result{Total: len(subs)}, err
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
		configErr error
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()

			legCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			status, err := d.Sender.Send(legCtx, &webpush.Subscription{
				Endpoint: sub.Endpoint,
				Keys: webpush.Keys{
					P256dh: sub.P256dh,
					Auth:   sub.Auth,
				},
			}, message)
			if errors.Is(err, ErrMissingVapidKeys) {
				// Missing signing keys break every leg the same way; surface
				// a clear configuration error instead of a transient log line.
				mu.Lock()
				configErr = err
				mu.Unlock()
				return
			}
			if err != nil {
				// Includes per-leg timeouts: transient, keep the subscription.
				logger.Warn("Push delivery failed",
					zap.String("userId", sub.UserID),
					zap.String("endpoint", truncateEndpoint(sub.Endpoint)),
					zap.Error(err))
				return
			}

			switch {
			case status == http.StatusNotFound || status == http.StatusGone:
				// Endpoint confirmed gone; prune it.
				logger.Info("Pruning dead push subscription",
					zap.String("userId", sub.UserID),
					zap.String("endpoint", truncateEndpoint(sub.Endpoint)),
					zap.Int("status", status))
				if err := d.Subs.DeleteByEndpoint(legCtx, sub.UserID, sub.Endpoint); err != nil {
					logger.Warn("Failed to prune push subscription",
						zap.String("endpoint", truncateEndpoint(sub.Endpoint)), zap.Error(err))
				}
			case status >= 200 && status < 300:
				mu.Lock()
				delivered++
				mu.Unlock()
			default:
				logger.Warn("Push service rejected delivery",
					zap.String("endpoint", truncateEndpoint(sub.Endpoint)),
					zap.Int("status", status))
			}
		}(sub)
	}
	wg.Wait()

	if configErr != nil {
		return Result{Delivered: delivered, Total: len(subs)}, configErr
	}
	return Result{Delivered: delivered, Total: len(subs)}, nil
}

// truncateEndpoint keeps logs readable; push endpoints are very long URLs.
func truncateEndpoint(endpoint string) string {
	if len(endpoint) > 64 {
		return endpoint[:64]
	}
	return endpoint
}
