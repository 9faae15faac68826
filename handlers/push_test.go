package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediremind/models"
	"mediremind/services/push"
	"mediremind/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	upserted []models.PushSubscription
	deleted  []string
}

func (f *fakeSubscriptionRepo) Upsert(ctx context.Context, sub models.PushSubscription) (*models.PushSubscription, error) {
	sub.ID = "sub-1"
	f.upserted = append(f.upserted, sub)
	return &sub, nil
}

func (f *fakeSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) DeleteByEndpoint(ctx context.Context, userID, endpoint string) error {
	f.deleted = append(f.deleted, endpoint)
	return nil
}

type fakeDispatcher struct {
	result push.Result
	err    error
	calls  int
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, userID string, payload models.PushPayload) (push.Result, error) {
	f.calls++
	return f.result, f.err
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(b))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestSubscribeRejectsMissingKeys(t *testing.T) {
	h := NewPushHandler(&fakeSubscriptionRepo{}, &fakeDispatcher{})

	w := performJSON(t, h.SubscribeHandler, http.MethodPost, "/api/push/subscribe", gin.H{
		"userId": "user-1",
		"subscription": gin.H{
			"endpoint": "https://push/1",
			"keys":     gin.H{"p256dh": "", "auth": ""},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Subscription endpoint and keys are required", resp.Message)
}

func TestSubscribeUpsertsSubscription(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	h := NewPushHandler(repo, &fakeDispatcher{})

	w := performJSON(t, h.SubscribeHandler, http.MethodPost, "/api/push/subscribe", gin.H{
		"userId": "user-1",
		"subscription": gin.H{
			"endpoint": "https://push/1",
			"keys":     gin.H{"p256dh": "p-key", "auth": "a-secret"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "user-1", repo.upserted[0].UserID)
	assert.Equal(t, "https://push/1", repo.upserted[0].Endpoint)
}

func TestSendRejectsMissingFields(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := NewPushHandler(&fakeSubscriptionRepo{}, dispatcher)

	w := performJSON(t, h.SendHandler, http.MethodPost, "/api/push/send", gin.H{
		"patientId": "", "title": "Reminder",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, dispatcher.calls)

	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "patientId and title are required", resp.Message)
}

func TestSendReportsFanOutCounts(t *testing.T) {
	dispatcher := &fakeDispatcher{result: push.Result{Delivered: 2, Total: 3}}
	h := NewPushHandler(&fakeSubscriptionRepo{}, dispatcher)

	w := performJSON(t, h.SendHandler, http.MethodPost, "/api/push/send", gin.H{
		"patientId": "user-1", "title": "Reminder", "body": "Time for your medication",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool `json:"success"`
		Delivered int  `json:"delivered"`
		Total     int  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success, "the durable part succeeded even though a leg failed")
	assert.Equal(t, 2, resp.Delivered)
	assert.Equal(t, 3, resp.Total)
}

func TestSendSurfacesMissingSigningKeys(t *testing.T) {
	dispatcher := &fakeDispatcher{err: push.ErrMissingVapidKeys}
	h := NewPushHandler(&fakeSubscriptionRepo{}, dispatcher)

	w := performJSON(t, h.SendHandler, http.MethodPost, "/api/push/send", gin.H{
		"patientId": "user-1", "title": "Reminder",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "signing keys")
}
