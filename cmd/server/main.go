package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio/backend/internal/config"
	"github.com/folio/backend/internal/handler"
	"github.com/folio/backend/internal/logging"
	"github.com/folio/backend/internal/ratelimit"
	"github.com/folio/backend/internal/repository"
	"github.com/folio/backend/internal/service"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	slog.Info("starting contact API", cfg.Redacted()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing store is not fatal: the contact endpoint answers 500 until
	// credentials are provided.
	var repo repository.SubmissionRepository
	switch r, err := repository.Open(ctx, cfg.Store); {
	case errors.Is(err, repository.ErrNotConfigured):
		slog.Error("contact store is not configured", "store_driver", cfg.Store.Driver)
	case err != nil:
		logging.Fatal("failed to open contact store", "store_driver", cfg.Store.Driver, "error", err)
	default:
		repo = r
		defer repo.Close()
	}

	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			logging.Fatal("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, "contact:ratelimit:", ratelimit.DefaultLimit, ratelimit.DefaultWindow)
		slog.Info("using shared rate limit ledger")
	} else {
		window := ratelimit.NewWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
		go window.Run(ctx, 10*time.Minute)
		limiter = window
		slog.Info("using per-instance rate limit ledger")
	}

	contactService := service.NewContactService(repo)
	h := handler.New(repo)
	contactHandler := handler.NewContactHandler(contactService, limiter)
	mux := handler.Routes(h, contactHandler)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(handler.Throttle(cfg.IngressRPS, cfg.IngressBurst)(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
