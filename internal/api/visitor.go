package api

import (
	"net/http"

	"github.com/ashureev/folio/internal/identity"
)

// GetMe returns the current visitor.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	if visitorID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	visitor, err := h.repo.GetVisitor(r.Context(), visitorID)
	if err != nil || visitor == nil {
		Error(w, http.StatusUnauthorized, "visitor not found")
		return
	}

	commands, err := h.repo.CountCommands(r.Context(), visitorID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to count commands")
		return
	}

	JSON(w, http.StatusOK, map[string]any{
		"visitor_id":   visitor.VisitorID,
		"display_name": visitor.DisplayName,
		"session_id":   identity.SessionIDFromContext(r.Context()),
		"commands":     commands,
		"first_seen":   visitor.CreatedAt,
	})
}

// GetConfig returns what the frontend needs to render the shell.
func (h *Handler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"name":             h.profile.Name,
		"headline":         h.profile.Headline,
		"github_username":  h.opts.DefaultUsername,
		"prompt":           "visitor@portfolio:~$",
		"max_input_length": h.opts.MaxInputLength,
	})
}
