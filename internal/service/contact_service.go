package service

import (
	"context"
	"errors"
	"strings"

	"github.com/folio/backend/internal/model"
)

var (
	// ErrNotConfigured means no persistence store is available because its
	// endpoint or credentials are missing.
	ErrNotConfigured = errors.New("contact store not configured")

	// ErrFieldsRequired means at least one of name, email, subject, message
	// was absent or empty.
	ErrFieldsRequired = errors.New("all fields are required")

	// ErrSaveFailed wraps the store error when persisting a valid submission fails.
	ErrSaveFailed = errors.New("failed to save submission")
)

// ValidationError lists every rule a sanitized submission failed.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, " ")
}

// ClientMeta is request metadata stored alongside a submission.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Ready returns ErrNotConfigured when submissions cannot be persisted.
	Ready() error

	// Submit checks presence, sanitizes, validates and persists in.
	// It returns ErrFieldsRequired, a *ValidationError, or an error wrapping
	// ErrSaveFailed; on success the returned submission carries its store id.
	Submit(ctx context.Context, in model.SubmissionInput, meta ClientMeta) (*model.Submission, error)
}
