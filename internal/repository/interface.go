package repository

import (
	"context"
	"fmt"

	"github.com/folio/backend/internal/config"
	"github.com/folio/backend/internal/model"
)

// SubmissionTable is the table (or bucket) contact submissions are written to.
const SubmissionTable = "contact_submissions"

// SubmissionRepository persists contact submissions.
type SubmissionRepository interface {
	// Insert writes sub and sets sub.ID to the id generated by the store.
	Insert(ctx context.Context, sub *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend named by cfg.Driver.
// It returns ErrNotConfigured when that backend's endpoint or credentials are empty.
func Open(ctx context.Context, cfg config.StoreConfig) (SubmissionRepository, error) {
	switch cfg.Driver {
	case config.DriverSupabase, "":
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return nil, ErrNotConfigured
		}
		return NewRestSubmissionRepository(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.Table), nil
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, ErrNotConfigured
		}
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPgSubmissionRepository(pool), nil
	case config.DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, ErrNotConfigured
		}
		repo, err := OpenSQLiteSubmissionRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.DriverBolt:
		if cfg.BoltPath == "" {
			return nil, ErrNotConfigured
		}
		repo, err := OpenBoltSubmissionRepository(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
