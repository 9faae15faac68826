package handlers

import (
	"errors"
	"net/http"
	"strconv"

	notificationRepo "mediremind/database/repository/notification"
	"mediremind/models"
	"mediremind/services/notification"
	"mediremind/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// CreateHandler handles POST /api/notifications.
func (h *NotificationHandler) CreateHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		UserID    string `json:"userId"`
		Title     string `json:"title" binding:"required"`
		Message   string `json:"message"`
		Type      string `json:"type"`
		ActionURL string `json:"actionUrl"`
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
	if req.Type != "" && !models.ValidKind(req.Type) {
		utils.JSONError(c, http.StatusBadRequest, "Unknown notification type", req.Type)
		return
	}

	n, err := h.Service.Create(c.Request.Context(), models.Notification{
		UserID:    userID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		ActionURL: req.ActionURL,
	})
	if errors.Is(err, notificationRepo.ErrDuplicate) {
		c.JSON(http.StatusOK, gin.H{"success": true, "suppressed": true})
		return
	}
	if err != nil {
		logger.Error("Failed to create notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "notification": n})
}

// ListHandler handles GET /api/notifications.
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	logger := utils.GetLogger()

	userID := requestUserID(c, c.Query("userId"))
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing userId", "")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.Service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logger.Error("Failed to list notifications", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// MarkReadHandler handles PATCH /api/notifications/:id/read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.MarkRead(c.Request.Context(), id); err != nil {
		utils.GetLogger().Error("Failed to mark notification read", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllReadHandler handles PATCH /api/notifications/read-all.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	userID := requestUserID(c, c.Query("userId"))
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing userId", "")
		return
	}
	if err := h.Service.MarkAllRead(c.Request.Context(), userID); err != nil {
		utils.GetLogger().Error("Failed to mark all read", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteHandler handles DELETE /api/notifications/:id.
func (h *NotificationHandler) DeleteHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		utils.GetLogger().Error("Failed to delete notification", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteAllHandler handles DELETE /api/notifications.
func (h *NotificationHandler) DeleteAllHandler(c *gin.Context) {
	userID := requestUserID(c, c.Query("userId"))
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing userId", "")
		return
	}
	if err := h.Service.DeleteAll(c.Request.Context(), userID); err != nil {
		utils.GetLogger().Error("Failed to delete notifications", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// requestUserID prefers the authenticated user over a caller-supplied id.
func requestUserID(c *gin.Context, fallback string) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
