package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/identity"
	"github.com/ashureev/folio/internal/terminal"
)

type commandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCommands returns the registry in help order.
func (h *Handler) ListCommands(w http.ResponseWriter, _ *http.Request) {
	cmds := h.resolver.Registry().Commands()
	out := make([]commandInfo, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, commandInfo{Name: c.Name, Description: c.Description})
	}
	JSON(w, http.StatusOK, map[string]any{"commands": out})
}

type execRequest struct {
	Input string `json:"input"`
}

type execResponse struct {
	ID          string           `json:"id"`
	Input       string           `json:"input"`
	Outcome     terminal.Outcome `json:"outcome"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Output      terminal.Output  `json:"output"`
	Clear       bool             `json:"clear"`
}

// Exec resolves one line and records it in the visitor's history. When the
// same visitor and tab have a live WebSocket shell, the line goes through it
// so its transcript and recall stay in step.
func (h *Handler) Exec(w http.ResponseWriter, r *http.Request) {
	var req execRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if h.opts.MaxInputLength > 0 && len(req.Input) > h.opts.MaxInputLength {
		Error(w, http.StatusRequestEntityTooLarge, "input too long")
		return
	}

	exec := h.submit(r.Context(), req.Input)
	h.record(r.Context(), req.Input)

	JSON(w, http.StatusOK, execResponse{
		ID:          uuid.NewString(),
		Input:       req.Input,
		Outcome:     exec.Result.Outcome,
		Suggestions: exec.Result.Suggestions,
		Output:      exec.Result.Output,
		Clear:       exec.Cleared,
	})
}

func (h *Handler) submit(ctx context.Context, input string) terminal.Exec {
	if h.sm != nil {
		if shell := h.sm.Shell(identity.VisitorIDFromContext(ctx), identity.SessionIDFromContext(ctx)); shell != nil {
			return shell.Submit(input)
		}
	}
	res := h.resolver.Resolve(input)
	return terminal.Exec{Result: res, Cleared: res.Command == terminal.ClearCommand}
}

func (h *Handler) record(ctx context.Context, input string) {
	visitorID := identity.VisitorIDFromContext(ctx)
	if visitorID == "" || domain.NormalizeCommand(input) == "" {
		return
	}
	rec := domain.NewCommandRecord(visitorID, identity.SessionIDFromContext(ctx), input, time.Now())
	if err := h.repo.AppendCommand(ctx, rec); err != nil {
		slog.Warn("Failed to record command", "error", err, "visitor_id", visitorID)
	}
}

// History returns the visitor's recent commands, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	if visitorID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := h.opts.RecallSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, h.opts.RecallSize)
	}

	records, err := h.repo.RecentCommands(r.Context(), visitorID, limit)
	if err != nil {
		slog.Error("Failed to load history", "error", err, "visitor_id", visitorID)
		Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []domain.CommandRecord{}
	}
	JSON(w, http.StatusOK, map[string]any{"history": records})
}
