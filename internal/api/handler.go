// Package api provides HTTP handlers for the folio API.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/folio/internal/contrib"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/identity"
	"github.com/ashureev/folio/internal/middleware"
	"github.com/ashureev/folio/internal/store"
	"github.com/ashureev/folio/internal/terminal"
)

// Options carries the settings handlers need from configuration.
type Options struct {
	// DefaultUsername is the contribution subject when a request names none.
	DefaultUsername string
	RecallSize      int
	MaxInputLength  int
	// RefreshPerMinute limits forced refreshes per client IP.
	RefreshPerMinute float64
	// LookupPerMinute limits reads of users other than DefaultUsername per
	// client IP.
	LookupPerMinute float64
}

// Handler provides the API endpoints and their shared dependencies.
type Handler struct {
	repo     store.Repository
	resolver *terminal.Resolver
	sm       *terminal.SessionManager
	stats    contrib.Source
	profile  domain.Profile
	opts     Options

	refreshLimiter *middleware.RateLimiter
	lookupLimiter  *middleware.RateLimiter
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, resolver *terminal.Resolver, sm *terminal.SessionManager, stats contrib.Source, profile domain.Profile, opts Options) *Handler {
	return &Handler{
		repo:     repo,
		resolver: resolver,
		sm:       sm,
		stats:    stats,
		profile:  profile,
		opts:     opts,

		refreshLimiter: middleware.NewRateLimiter(opts.RefreshPerMinute, 1),
		lookupLimiter:  middleware.NewRateLimiter(opts.LookupPerMinute, 1),
	}
}

// RegisterRoutes registers the /api routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/me", h.GetMe)
		r.Get("/config", h.GetConfig)

		r.Route("/terminal", func(r chi.Router) {
			r.Get("/commands", h.ListCommands)
			r.Post("/exec", h.Exec)
			r.Get("/history", h.History)
		})

		r.Route("/contributions", func(r chi.Router) {
			r.With(h.lookupLimiter.Middleware(h.foreignUserKey)).Get("/", h.GetContributions)
			r.With(h.refreshLimiter.Middleware(clientKey)).Post("/refresh", h.RefreshContributions)
		})
	})
}

// clientKey buckets by IP; a fresh visitor ID is minted for every
// cookie-less request.
func clientKey(r *http.Request) string {
	return identity.IPFromRequest(r)
}

// foreignUserKey limits only lookups of someone other than the site owner.
func (h *Handler) foreignUserKey(r *http.Request) string {
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" || strings.EqualFold(user, h.opts.DefaultUsername) {
		return ""
	}
	return clientKey(r)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
