package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handler functions registered by the routes
// package.
type HandlerBundle struct {
	// Notification endpoints.
	CreateNotificationHandler gin.HandlerFunc
	ListNotificationsHandler  gin.HandlerFunc
	MarkNotificationRead      gin.HandlerFunc
	MarkAllNotificationsRead  gin.HandlerFunc
	DeleteNotificationHandler gin.HandlerFunc
	DeleteAllNotifications    gin.HandlerFunc

	// Push endpoints.
	SubscribePushHandler   gin.HandlerFunc
	UnsubscribePushHandler gin.HandlerFunc
	SendPushHandler        gin.HandlerFunc
	VapidKeyHandler        gin.HandlerFunc

	// Appointment endpoints.
	CreateAppointmentHandler gin.HandlerFunc

	// Cron trigger endpoints.
	ProcessRemindersHandler gin.HandlerFunc
	ProcessPushHandler      gin.HandlerFunc
}
