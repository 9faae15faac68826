package routes

import (
	"net/http"
	"time"

	"mediremind/handlers"
	"mediremind/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every route group onto the engine.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterCronRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterPushRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
}

// RegisterNotificationRoutes registers the notification feed endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateNotificationHandler)
		api.GET("", hb.ListNotificationsHandler)
		api.PATCH("/read-all", hb.MarkAllNotificationsRead)
		api.PATCH("/:id/read", hb.MarkNotificationRead)
		api.DELETE("/:id", hb.DeleteNotificationHandler)
		api.DELETE("", hb.DeleteAllNotifications)
	}
}

// RegisterPushRoutes registers push subscription and direct-send endpoints.
func RegisterPushRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/push")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/subscribe", hb.SubscribePushHandler)
		api.DELETE("/subscribe", hb.UnsubscribePushHandler)
		api.POST("/send", hb.SendPushHandler)
		api.GET("/vapid-key", hb.VapidKeyHandler)
	}
}

// RegisterAppointmentRoutes registers appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateAppointmentHandler)
	}
}

// RegisterCronRoutes registers the externally scheduled trigger endpoints.
// They carry no credentials (the external scheduler is trusted) but sit
// behind the rate limiter like everything else.
func RegisterCronRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	cron := r.Group("/cron")
	{
		cron.GET("/process-reminders", hb.ProcessRemindersHandler)
		cron.GET("/process-push", hb.ProcessPushHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm MediRemind"})
	})
}
