package push

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"mediremind/models"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []models.PushSubscription
	err  error
}

func (f *fakeSubscriptionRepo) Upsert(ctx context.Context, sub models.PushSubscription) (*models.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.UserID == sub.UserID && s.Endpoint == sub.Endpoint {
			f.subs[i] = sub
			return &sub, nil
		}
	}
	f.subs = append(f.subs, sub)
	return &sub, nil
}

func (f *fakeSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.PushSubscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) DeleteByEndpoint(ctx context.Context, userID, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.subs[:0]
	for _, s := range f.subs {
		if !(s.UserID == userID && s.Endpoint == endpoint) {
			kept = append(kept, s)
		}
	}
	f.subs = kept
	return nil
}

func (f *fakeSubscriptionRepo) endpoints(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s.Endpoint)
		}
	}
	return out
}

// fakeSender resolves each endpoint to a canned status or error.
type fakeSender struct {
	mu       sync.Mutex
	statuses map[string]int
	errs     map[string]error
	sent     []string
}

func (f *fakeSender) Send(ctx context.Context, sub *webpush.Subscription, message []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sub.Endpoint)
	if err, ok := f.errs[sub.Endpoint]; ok {
		return 0, err
	}
	if status, ok := f.statuses[sub.Endpoint]; ok {
		return status, nil
	}
	return http.StatusCreated, nil
}

func subscriptionFixture(userID string, endpoints ...string) *fakeSubscriptionRepo {
	repo := &fakeSubscriptionRepo{}
	for _, e := range endpoints {
		repo.subs = append(repo.subs, models.PushSubscription{
			UserID: userID, Endpoint: e, P256dh: "p256dh-key", Auth: "auth-secret",
		})
	}
	return repo
}

func TestDispatchPrunesGoneEndpointAndDeliversSiblings(t *testing.T) {
	repo := subscriptionFixture("user-1", "https://push/1", "https://push/2", "https://push/3")
	sender := &fakeSender{statuses: map[string]int{
		"https://push/1": http.StatusCreated,
		"https://push/2": http.StatusGone,
		"https://push/3": http.StatusCreated,
	}}
	d := &DefaultPushDispatcher{Subs: repo, Sender: sender, Timeout: time.Second}

	result, err := d.Dispatch(context.Background(), "user-1", models.PushPayload{Title: "hello"})

	require.NoError(t, err)
	assert.Equal(t, Result{Delivered: 2, Total: 3}, result)
	assert.ElementsMatch(t, []string{"https://push/1", "https://push/3"}, repo.endpoints("user-1"),
		"only the gone endpoint is pruned")
}

func TestDispatchZeroSubscriptionsIsNotAnError(t *testing.T) {
	d := &DefaultPushDispatcher{Subs: &fakeSubscriptionRepo{}, Sender: &fakeSender{}, Timeout: time.Second}

	result, err := d.Dispatch(context.Background(), "user-1", models.PushPayload{Title: "hello"})

	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestDispatchTransientFailureKeepsSubscription(t *testing.T) {
	repo := subscriptionFixture("user-1", "https://push/1", "https://push/2")
	sender := &fakeSender{
		errs:     map[string]error{"https://push/1": context.DeadlineExceeded},
		statuses: map[string]int{"https://push/2": http.StatusTooManyRequests},
	}
	d := &DefaultPushDispatcher{Subs: repo, Sender: sender, Timeout: time.Second}

	result, err := d.Dispatch(context.Background(), "user-1", models.PushPayload{Title: "hello"})

	require.NoError(t, err, "delivery failures never raise past the dispatcher")
	assert.Equal(t, Result{Delivered: 0, Total: 2}, result)
	assert.Len(t, repo.endpoints("user-1"), 2, "transient failures leave subscriptions intact")
}

func TestDispatchAllLegsAttemptedDespiteFailures(t *testing.T) {
	repo := subscriptionFixture("user-1", "https://push/1", "https://push/2", "https://push/3")
	sender := &fakeSender{errs: map[string]error{"https://push/1": errors.New("boom")}}
	d := &DefaultPushDispatcher{Subs: repo, Sender: sender, Timeout: time.Second}

	_, err := d.Dispatch(context.Background(), "user-1", models.PushPayload{Title: "hello"})

	require.NoError(t, err)
	assert.Len(t, sender.sent, 3, "one leg's failure must not block siblings")
}

func TestDispatchSubscriptionLoadFailureSurfaces(t *testing.T) {
	repo := &fakeSubscriptionRepo{err: errors.New("store unavailable")}
	d := &DefaultPushDispatcher{Subs: repo, Sender: &fakeSender{}, Timeout: time.Second}

	_, err := d.Dispatch(context.Background(), "user-1", models.PushPayload{Title: "hello"})

	assert.Error(t, err)
}

func TestDispatchMissingSigningKeysSurfacesConfigError(t *testing.T) {
	repo := subscriptionFixture("user-1", "https://push/1")
	sender := &fakeSender{errs: map[string]error{"https://push/1": ErrMissingVapidKeys}}
	d := &DefaultPushDispatcher{Subs: repo, Sender: sender, Timeout: time.Second}

	result, err := d.Dispatch(context.Background(), "user-1", models.PushPayload{Title: "hello"})

	assert.ErrorIs(t, err, ErrMissingVapidKeys)
	assert.Equal(t, 1, result.Total)
	assert.Len(t, repo.endpoints("user-1"), 1, "config errors never prune subscriptions")
}
