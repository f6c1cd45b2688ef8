package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"billed/internal/amqp"
	"billed/internal/config"
	apphttp "billed/internal/http"
	applog "billed/internal/log"
	"billed/internal/middleware/ratelimit"
	"billed/internal/receipts"
	"billed/internal/services"
	"billed/internal/session"
	"billed/internal/storage"
)

func main() {
	// .env is for local development only; absence is fine.
	_ = godotenv.Load()

	logger := applog.Setup().WithComponent(applog.ComponentApp)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	receiptStore, err := receipts.NewStore(cfg.ReceiptsDir, cfg.ReceiptsBaseURL)
	if err != nil {
		logger.Error("Failed to initialize receipt storage", applog.FieldError, err, "dir", cfg.ReceiptsDir)
		os.Exit(1)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Warn("AMQP disabled, submitted bills are exported by the catch-up pass only")
	}

	service := services.NewBillService(repo, receiptStore, amqpClient)

	sessions := session.NewMemory()
	if cfg.UserEmail != "" {
		if err := sessions.SetUser(session.User{Type: cfg.UserType, Email: cfg.UserEmail}); err != nil {
			logger.Error("Failed to seed session user", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Session user seeded", applog.FieldEmail, cfg.UserEmail)
	} else {
		logger.Warn("USER_EMAIL not set, uploads and submits will be rejected")
	}

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:        ":" + cfg.Port,
		ReceiptsDir: receiptStore.Dir(),
		RateLimit:   ratelimit.DefaultConfig(),
	}, service, sessions, logger)
	if err != nil {
		logger.Error("Failed to initialize HTTP server", applog.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting billed server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
