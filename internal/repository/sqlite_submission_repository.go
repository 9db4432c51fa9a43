package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/folio/backend/internal/model"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS contact_submissions (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	subject      TEXT NOT NULL,
	message      TEXT NOT NULL,
	ip_address   TEXT NOT NULL,
	user_agent   TEXT,
	submitted_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_submissions_submitted_at
	ON contact_submissions (submitted_at)`,
}

// SQLiteSubmissionRepository keeps submissions in a local SQLite file.
// Used for development and single-host deployments.
type SQLiteSubmissionRepository struct {
	db *sql.DB
}

// OpenSQLiteSubmissionRepository opens (or creates) the database at path and
// ensures the contact_submissions table exists.
func OpenSQLiteSubmissionRepository(ctx context.Context, path string) (*SQLiteSubmissionRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create contact_submissions: %w", err)
		}
	}
	return &SQLiteSubmissionRepository{db: db}, nil
}

var _ SubmissionRepository = (*SQLiteSubmissionRepository)(nil)

func (r *SQLiteSubmissionRepository) Insert(ctx context.Context, sub *model.Submission) error {
	id := uuid.NewString()
	var userAgent sql.NullString
	if sub.UserAgent != nil {
		userAgent = sql.NullString{String: *sub.UserAgent, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, subject, message, ip_address, user_agent, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sub.Name, sub.Email, sub.Subject, sub.Message, sub.IPAddress, userAgent,
		sub.SubmittedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}

func (r *SQLiteSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	var (
		s           model.Submission
		userAgent   sql.NullString
		submittedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, subject, message, ip_address, user_agent, submitted_at
		 FROM contact_submissions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.IPAddress, &userAgent, &submittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if userAgent.Valid {
		s.UserAgent = &userAgent.String
	}
	s.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("parse submitted_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSubmissionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteSubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteSubmissionRepository) Close() error {
	return r.db.Close()
}
