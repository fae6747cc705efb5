package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hilalapp/hilal/internal/backup"
	"github.com/hilalapp/hilal/internal/database"
	"github.com/hilalapp/hilal/internal/logging"
	"github.com/hilalapp/hilal/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("HILAL_LOG_LEVEL"))

	port := os.Getenv("HILAL_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("HILAL_DB_PATH")
	if dbPath == "" {
		dbPath = "hilal.db"
	}

	photoDir := os.Getenv("HILAL_PHOTO_DIR")
	if photoDir == "" {
		photoDir = "static/photos"
	}

	origins := os.Getenv("HILAL_CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:3001"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	scheduleHour, _ := strconv.Atoi(os.Getenv("HILAL_BACKUP_HOUR"))
	retentionDays, _ := strconv.Atoi(os.Getenv("HILAL_BACKUP_RETENTION_DAYS"))

	srv, err := server.New(db, server.Config{
		PhotoDir:       photoDir,
		AllowedOrigins: strings.Split(origins, ","),
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("HILAL_BACKUP_S3_ENDPOINT"),
				Bucket:    os.Getenv("HILAL_BACKUP_S3_BUCKET"),
				Region:    os.Getenv("HILAL_BACKUP_S3_REGION"),
				AccessKey: os.Getenv("HILAL_BACKUP_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("HILAL_BACKUP_S3_SECRET_KEY"),
			},
			DBPath:        dbPath,
			Passphrase:    os.Getenv("HILAL_BACKUP_PASSPHRASE"),
			ScheduleHour:  scheduleHour,
			RetentionDays: retentionDays,
		},
	}, logger)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	backups := srv.Backups()
	if backups.Enabled() {
		backups.Start(context.Background())
		defer backups.Stop()
		logger.Info("scheduled backups enabled")
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("hilal running", "addr", "http://localhost:"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
