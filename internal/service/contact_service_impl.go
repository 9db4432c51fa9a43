package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo      repository.SubmissionRepository
	validator *Validator
	now       func() time.Time
}

// NewContactService creates a ContactService backed by repo.
// A nil repo yields a service whose Ready reports ErrNotConfigured.
func NewContactService(repo repository.SubmissionRepository) ContactService {
	return &contactServiceImpl{
		repo:      repo,
		validator: NewValidator(),
		now:       time.Now,
	}
}

func (s *contactServiceImpl) Ready() error {
	if s.repo == nil {
		return ErrNotConfigured
	}
	return nil
}

// Submit never writes a record that has not passed sanitization and every
// validation rule.
func (s *contactServiceImpl) Submit(ctx context.Context, in model.SubmissionInput, meta ClientMeta) (*model.Submission, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	if !in.Complete() {
		return nil, ErrFieldsRequired
	}

	clean := SanitizeInput(in)
	if errs := s.validator.Validate(clean); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	sub := &model.Submission{
		Name:        clean.Name.Value,
		Email:       clean.Email.Value,
		Subject:     clean.Subject.Value,
		Message:     clean.Message.Value,
		IPAddress:   meta.IPAddress,
		SubmittedAt: s.now().UTC(),
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		sub.UserAgent = &ua
	}

	if err := s.repo.Insert(ctx, sub); err != nil {
		slog.Error("contact submission insert failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	slog.Info("contact submission saved", "id", sub.ID)
	return sub, nil
}
