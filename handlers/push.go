package handlers

import (
	"errors"
	"net/http"

	"mediremind/config"
	subscriptionRepo "mediremind/database/repository/subscription"
	"mediremind/models"
	"mediremind/services/push"
	"mediremind/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PushHandler struct {
	Subs       subscriptionRepo.SubscriptionRepository
	Dispatcher push.Dispatcher
}

func NewPushHandler(subs subscriptionRepo.SubscriptionRepository, dispatcher push.Dispatcher) *PushHandler {
	return &PushHandler{Subs: subs, Dispatcher: dispatcher}
}

// SubscribeHandler handles POST /api/push/subscribe.
func (h *PushHandler) SubscribeHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		UserID       string `json:"userId"`
		Subscription struct {
			Endpoint string `json:"endpoint"`
			Keys     struct {
				P256dh string `json:"p256dh"`
				Auth   string `json:"auth"`
			} `json:"keys"`
		} `json:"subscription"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	userID := requestUserID(c, req.UserID)
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing userId", "")
		return
	}
	if req.Subscription.Endpoint == "" || req.Subscription.Keys.P256dh == "" || req.Subscription.Keys.Auth == "" {
		utils.JSONError(c, http.StatusBadRequest, "Subscription endpoint and keys are required", "")
		return
	}

	sub, err := h.Subs.Upsert(c.Request.Context(), models.PushSubscription{
		UserID:   userID,
		Endpoint: req.Subscription.Endpoint,
		P256dh:   req.Subscription.Keys.P256dh,
		Auth:     req.Subscription.Keys.Auth,
	})
	if err != nil {
		logger.Error("Failed to save push subscription", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": sub.ID})
}

// UnsubscribeHandler handles DELETE /api/push/subscribe.
func (h *PushHandler) UnsubscribeHandler(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId"`
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	userID := requestUserID(c, req.UserID)
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing userId", "")
		return
	}
	if err := h.Subs.DeleteByEndpoint(c.Request.Context(), userID, req.Endpoint); err != nil {
		utils.GetLogger().Error("Failed to delete push subscription", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SendHandler handles POST /api/push/send. Delivery is attempted immediately;
// the response reports success for the durable part with fan-out counts for
// observability, even when some or all legs fail.
func (h *PushHandler) SendHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		PatientID string `json:"patientId"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		URL       string `json:"url"`
		Type      string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if req.PatientID == "" || req.Title == "" {
		utils.JSONError(c, http.StatusBadRequest, "patientId and title are required", "")
		return
	}

	result, err := h.Dispatcher.Dispatch(c.Request.Context(), req.PatientID, models.PushPayload{
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
		Tag:   req.Type,
	})
	if errors.Is(err, push.ErrMissingVapidKeys) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error("Failed to load push subscriptions", zap.String("patientId", req.PatientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"delivered": result.Delivered,
		"total":     result.Total,
	})
}

// VapidKeyHandler handles GET /api/push/vapid-key for client bootstrap.
func (h *PushHandler) VapidKeyHandler(c *gin.Context) {
	key := config.AppConfig.VapidPublicKey
	if key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": push.ErrMissingVapidKeys.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": key})
}
