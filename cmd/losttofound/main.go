package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hartmanbaily-coder/losttofound/internal/database"
	"github.com/hartmanbaily-coder/losttofound/internal/email"
	"github.com/hartmanbaily-coder/losttofound/internal/logging"
	"github.com/hartmanbaily-coder/losttofound/internal/payments"
	"github.com/hartmanbaily-coder/losttofound/internal/photo"
	"github.com/hartmanbaily-coder/losttofound/internal/push"
	"github.com/hartmanbaily-coder/losttofound/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("L2F_LOG_LEVEL"), os.Getenv("L2F_LOG_FORMAT"))

	port := os.Getenv("L2F_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("L2F_DB_PATH")
	if dbPath == "" {
		dbPath = "losttofound.db"
	}

	baseURL := os.Getenv("L2F_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", port)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	emailClient := email.NewClient(
		os.Getenv("L2F_POSTMARK_TOKEN"),
		os.Getenv("L2F_FROM_EMAIL"),
		baseURL,
	)

	cfg := server.Config{
		BaseURL: baseURL,
		Stripe: payments.Config{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			PlusPriceID:   os.Getenv("STRIPE_PLUS_PRICE_ID"),
			SuccessURL:    baseURL + "/billing?status=success",
			CancelURL:     baseURL + "/billing?status=cancelled",
		},
		Photo: photo.Config{
			Bucket:        os.Getenv("L2F_S3_BUCKET"),
			Region:        os.Getenv("L2F_S3_REGION"),
			AccessKey:     os.Getenv("L2F_S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("L2F_S3_SECRET_KEY"),
			Endpoint:      os.Getenv("L2F_S3_ENDPOINT"),
			PublicBaseURL: os.Getenv("L2F_S3_PUBLIC_URL"),
		},
		Push: push.Config{
			VAPIDPublicKey:  os.Getenv("L2F_VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: os.Getenv("L2F_VAPID_PRIVATE_KEY"),
		},
		EmailClient: emailClient,
	}

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					logger.Info("cleaned up expired sessions", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("listening", "url", fmt.Sprintf("http://localhost:%s", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
