// Command storecheck verifies that the configured contact store accepts,
// returns and deletes a submission. It exits 1 on the first failure.
package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/folio/backend/internal/config"
	"github.com/folio/backend/internal/logging"
	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	slog.Info("checking contact store", cfg.Redacted()...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg.Store); err != nil {
		if errors.Is(err, repository.ErrNotConfigured) {
			logging.Fatal("contact store is not configured", "store_driver", cfg.Store.Driver)
		}
		logging.Fatal("store check failed", "store_driver", cfg.Store.Driver, "error", err)
	}
	slog.Info("store check passed", "store_driver", cfg.Store.Driver)
}

func run(ctx context.Context, cfg config.StoreConfig) error {
	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connection ok")

	ua := "storecheck"
	sub := &model.Submission{
		Name:        "Store Check",
		Email:       "storecheck@example.com",
		Subject:     "Connection test",
		Message:     "Written and removed by storecheck.",
		IPAddress:   "127.0.0.1",
		UserAgent:   &ua,
		SubmittedAt: time.Now().UTC(),
	}
	if err := repo.Insert(ctx, sub); err != nil {
		return err
	}
	slog.Info("insert ok", "id", sub.ID)

	got, err := repo.FindByID(ctx, sub.ID)
	if err != nil {
		return err
	}
	if got.Email != sub.Email || got.Subject != sub.Subject {
		return errors.New("read back a different row than was inserted")
	}
	slog.Info("read ok", "id", got.ID)

	if err := repo.Delete(ctx, sub.ID); err != nil {
		return err
	}
	slog.Info("delete ok", "id", sub.ID)
	return nil
}
