package handlers

import (
	"fmt"
	"net/http"
	"time"

	appointmentRepo "mediremind/database/repository/appointment"
	"mediremind/models"
	"mediremind/services/notification"
	"mediremind/services/reminder"
	"mediremind/services/tasks"
	"mediremind/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	Appts  appointmentRepo.AppointmentRepository
	Notifs notification.NotificationService
	Queue  tasks.Enqueuer
}

func NewAppointmentHandler(appts appointmentRepo.AppointmentRepository, notifs notification.NotificationService, queue tasks.Enqueuer) *AppointmentHandler {
	return &AppointmentHandler{Appts: appts, Notifs: notifs, Queue: queue}
}

// CreateHandler handles POST /api/appointments. Creating an appointment
// produces two distinct notification events: an immediate confirmation and a
// reminder scheduled for 24h before the appointment.
func (h *AppointmentHandler) CreateHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		UserID      string    `json:"userId"`
		Title       string    `json:"title" binding:"required"`
		Location    string    `json:"location"`
		ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
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

	appt, err := h.Appts.Create(c.Request.Context(), models.Appointment{
		UserID:      userID,
		Title:       req.Title,
		Location:    req.Location,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		logger.Error("Failed to create appointment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Confirmation notification; push delivery is queued behind it.
	if _, err := h.Notifs.Create(c.Request.Context(), models.Notification{
		UserID:    userID,
		Type:      models.KindAppointmentCreated,
		Title:     "Appointment Scheduled",
		Message:   fmt.Sprintf("%s on %s", appt.Title, appt.ScheduledAt.Format("Jan 2 at 15:04")),
		ActionURL: "/appointments/" + appt.ID,
		DedupKey:  appt.ID,
	}); err != nil {
		logger.Warn("Failed to create confirmation notification",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}

	// Schedule the 24h-before reminder. The periodic scanner covers the case
	// where this queue entry is lost.
	fireAt := appt.ScheduledAt.Add(-reminder.DefaultLead)
	if fireAt.After(time.Now()) {
		err := h.Queue.ScheduleAppointmentReminder(models.ReminderPayload{
			UserID:        userID,
			AppointmentID: appt.ID,
			Title:         "Upcoming Appointment",
			Body:          fmt.Sprintf("%s is tomorrow at %s", appt.Title, appt.ScheduledAt.Format("15:04")),
			FireDate:      fireAt.Format(time.RFC3339),
		}, fireAt)
		if err != nil {
			logger.Warn("Failed to schedule appointment reminder",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "appointment": appt})
}
