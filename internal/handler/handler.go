package handler

import "net/http"

// Handler serves the operational endpoints.
type Handler struct {
	store Pinger
}

// New creates a Handler. store may be nil when no store is configured.
func New(store Pinger) *Handler {
	return &Handler{store: store}
}

// Routes registers every endpoint on a new mux.
func Routes(h *Handler, contact *ContactHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("/api/contact", contact.Handle)
	mux.HandleFunc("/contact", contact.Handle)
	return mux
}
