package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediremind/config"
	"mediremind/cron"
	"mediremind/database"
	appointmentRepo "mediremind/database/repository/appointment"
	medicationRepo "mediremind/database/repository/medication"
	notificationRepo "mediremind/database/repository/notification"
	subscriptionRepo "mediremind/database/repository/subscription"
	"mediremind/handlers"
	"mediremind/middleware"
	"mediremind/routes"
	"mediremind/services/notification"
	"mediremind/services/push"
	"mediremind/services/reminder"
	"mediremind/services/tasks"
	"mediremind/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.LoadConfig()
	logger := utils.GetLogger()

	if config.AppConfig.VapidPublicKey == "" || config.AppConfig.VapidPrivateKey == "" {
		logger.Sugar().Warn("main: VAPID keys not configured; push delivery will fail until they are set")
	}

	database.InitDB()
	database.Migrate()
	utils.InitQueueClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	notifRepo := notificationRepo.NewPgNotificationRepo(database.Pool, time.Duration(config.AppConfig.DedupCooldownHours)*time.Hour)
	subsRepo := subscriptionRepo.NewPgSubscriptionRepo(database.Pool)
	medsRepo := medicationRepo.NewPgMedicationRepo(database.Pool)
	apptsRepo := appointmentRepo.NewPgAppointmentRepo(database.Pool)

	// services.
	queueClient := tasks.NewQueueClient()
	defer queueClient.Close()

	notificationService := &notification.DefaultNotificationService{
		Repo:  notifRepo,
		Queue: queueClient,
	}

	dispatcher := push.NewDefaultPushDispatcher(subsRepo)

	scanner := &reminder.DefaultReminderScanner{
		Meds:     medsRepo,
		Appts:    apptsRepo,
		Notifs:   notificationService,
		Lead:     time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
		Window:   time.Duration(config.AppConfig.ReminderWindowMinutes) * time.Minute,
		Cooldown: time.Duration(config.AppConfig.DedupCooldownHours) * time.Hour,
	}

	drainer := &push.BacklogDrainer{
		Notifs:     notifRepo,
		Dispatcher: dispatcher,
	}

	// Background worker for queued and delayed deliveries.
	cron.InitDeliveryWorker(notificationService, notifRepo, apptsRepo, dispatcher)

	// handlers.
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	pushHandler := handlers.NewPushHandler(subsRepo, dispatcher)
	appointmentHandler := handlers.NewAppointmentHandler(apptsRepo, notificationService, queueClient)
	cronHandler := handlers.NewCronHandler(scanner, drainer)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateNotificationHandler: notificationHandler.CreateHandler,
		ListNotificationsHandler:  notificationHandler.ListHandler,
		MarkNotificationRead:      notificationHandler.MarkReadHandler,
		MarkAllNotificationsRead:  notificationHandler.MarkAllReadHandler,
		DeleteNotificationHandler: notificationHandler.DeleteHandler,
		DeleteAllNotifications:    notificationHandler.DeleteAllHandler,

		SubscribePushHandler:   pushHandler.SubscribeHandler,
		UnsubscribePushHandler: pushHandler.UnsubscribeHandler,
		SendPushHandler:        pushHandler.SendHandler,
		VapidKeyHandler:        pushHandler.VapidKeyHandler,

		CreateAppointmentHandler: appointmentHandler.CreateHandler,

		ProcessRemindersHandler: cronHandler.ProcessRemindersHandler,
		ProcessPushHandler:      cronHandler.ProcessPushHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
