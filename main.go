package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"pgstay-backend/config"
	"pgstay-backend/controllers"
	"pgstay-backend/routes"
	"pgstay-backend/services"
	"pgstay-backend/utils"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(utils.EnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if strings.EqualFold(utils.EnvOrDefault("LOG_FORMAT", "text"), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func newAttachmentStore(logger *logrus.Logger) (services.AttachmentStore, error) {
	endpoint := strings.TrimSpace(os.Getenv("MINIO_ENDPOINT"))
	if endpoint == "" {
		dir := utils.EnvOrDefault("UPLOADS_DIR", "uploads")
		logger.WithField("dir", dir).Info("using local attachment storage")
		return services.NewLocalAttachmentStore(dir), nil
	}

	store, err := services.NewMinioAttachmentStore(
		endpoint,
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
		utils.EnvOrDefault("MINIO_BUCKET", "pgstay-attachments"),
		strings.EqualFold(utils.EnvOrDefault("MINIO_USE_SSL", "false"), "true"),
	)
	if err != nil {
		return nil, err
	}
	logger.WithField("endpoint", endpoint).Info("using minio attachment storage")
	return store, nil
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env not found or couldn't load it; continuing with environment variables")
	}

	logger := newLogger()

	if err := config.ConnectDatabase(); err != nil {
		logger.Fatalf("database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		logger.Fatal("config.DB is nil after ConnectDatabase()")
	}
	logger.Info("database connection established, migrations applied")

	attachments, err := newAttachmentStore(logger)
	if err != nil {
		logger.Fatalf("attachment store init failed: %v", err)
	}

	// Services
	occupancyService := services.NewOccupancyService(db, logger)
	guestService := services.NewGuestService(db, logger)
	roomService := services.NewRoomService(db, logger)
	revenueService := services.NewRevenueService(db, logger)

	// Controllers
	guestController := controllers.NewGuestController(occupancyService, guestService, revenueService, attachments, logger)
	roomController := controllers.NewRoomController(roomService, attachments, logger)

	router := routes.SetupRouter(guestController, roomController, logger)

	port := utils.EnvOrDefault("PORT", "8080")
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Graceful shutdown on interrupt.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Warn("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}

	logger.Info("server stopped gracefully")
}
