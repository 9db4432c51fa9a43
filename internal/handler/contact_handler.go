package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/ratelimit"
	"github.com/folio/backend/internal/service"
)

// maxBodyBytes bounds the request body; the longest valid payload is well under it.
const maxBodyBytes = 64 << 10

// Client-visible messages. Server-side failures stay generic.
const (
	msgMethodNotAllowed = "Method not allowed. Use POST."
	msgTooManyRequests  = "Too many requests. Please try again later."
	msgServerConfig     = "Server configuration error."
	msgFieldsRequired   = "All fields are required."
	msgValidationFailed = "Validation failed."
	msgSaveFailed       = "Failed to save your message. Please try again."
	msgUnexpected       = "An unexpected error occurred. Please try again."
	msgSuccess          = "Thank you! Your message has been sent successfully."
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
	limiter        ratelimit.Limiter
}

// NewContactHandler creates a ContactHandler. limiter is the per-client
// ledger consulted before the payload is even read.
func NewContactHandler(contactService service.ContactService, limiter ratelimit.Limiter) *ContactHandler {
	return &ContactHandler{contactService: contactService, limiter: limiter}
}

// contactResponse is the JSON body of every non-preflight response.
type contactResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// setCORSHeaders allows any origin to POST JSON to the contact endpoint.
func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// Handle serves /api/contact for every method.
//
//	OPTIONS  200, empty body
//	POST     rate limit → store check → presence → sanitize → validate → insert
//	other    405
func (h *ContactHandler) Handle(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, contactResponse{Message: msgMethodNotAllowed})
		return
	}

	res := &responder{w: w}
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("contact handler panic", "panic", rec)
			res.send(http.StatusInternalServerError, contactResponse{Message: msgUnexpected})
		}
	}()
	h.submit(res, r)
}

func (h *ContactHandler) submit(res *responder, r *http.Request) {
	ctx := r.Context()
	ip := ClientIP(r)

	allowed, err := h.limiter.Allow(ctx, ip)
	if err != nil {
		slog.Error("rate limit check failed", "error", err)
		res.send(http.StatusInternalServerError, contactResponse{Message: msgUnexpected})
		return
	}
	if !allowed {
		slog.Info("contact rate limited", "client_ip", ip)
		res.send(http.StatusTooManyRequests, contactResponse{Message: msgTooManyRequests})
		return
	}

	if err := h.contactService.Ready(); err != nil {
		slog.Error("contact store is not configured")
		res.send(http.StatusInternalServerError, contactResponse{Message: msgServerConfig})
		return
	}

	var in model.SubmissionInput
	body := http.MaxBytesReader(res.w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		// An unreadable body carries no fields.
		slog.Debug("contact body not decoded", "error", err)
		in = model.SubmissionInput{}
	}

	sub, err := h.contactService.Submit(ctx, in, service.ClientMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	})

	var verr *service.ValidationError
	switch {
	case err == nil:
		res.send(http.StatusOK, contactResponse{Success: true, Message: msgSuccess, ID: sub.ID})
	case errors.Is(err, service.ErrFieldsRequired):
		res.send(http.StatusBadRequest, contactResponse{Message: msgFieldsRequired})
	case errors.As(err, &verr):
		res.send(http.StatusBadRequest, contactResponse{Message: msgValidationFailed, Errors: verr.Errors})
	case errors.Is(err, service.ErrSaveFailed):
		res.send(http.StatusInternalServerError, contactResponse{Message: msgSaveFailed})
	case errors.Is(err, service.ErrNotConfigured):
		res.send(http.StatusInternalServerError, contactResponse{Message: msgServerConfig})
	default:
		slog.Error("contact submission failed", "error", err)
		res.send(http.StatusInternalServerError, contactResponse{Message: msgUnexpected})
	}
}

// responder writes at most one response.
type responder struct {
	w    http.ResponseWriter
	sent bool
}

func (r *responder) send(status int, body contactResponse) {
	if r.sent {
		return
	}
	r.sent = true
	writeJSON(r.w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
