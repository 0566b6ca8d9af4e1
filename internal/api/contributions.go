package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ashureev/folio/internal/contrib"
	"github.com/ashureev/folio/internal/domain"
)

type contributionsResponse struct {
	contrib.State
	Username string        `json:"username"`
	Summary  string        `json:"summary,omitempty"`
	Grid     *contrib.Grid `json:"grid,omitempty"`
}

// GetContributions returns the stats State for ?user= or the site owner.
// Failures are reported in the body with status 200.
func (h *Handler) GetContributions(w http.ResponseWriter, r *http.Request) {
	h.serveContributions(w, r, h.stats.Get)
}

// RefreshContributions bypasses the cache.
func (h *Handler) RefreshContributions(w http.ResponseWriter, r *http.Request) {
	h.serveContributions(w, r, h.stats.Refresh)
}

func (h *Handler) serveContributions(w http.ResponseWriter, r *http.Request, load func(context.Context, string) (domain.ContributionStats, error)) {
	username := strings.TrimSpace(r.URL.Query().Get("user"))
	if username == "" {
		username = h.opts.DefaultUsername
	}

	state := contrib.StateOf(load(r.Context(), username))
	JSON(w, http.StatusOK, newContributionsResponse(username, state))
}

func newContributionsResponse(username string, state contrib.State) contributionsResponse {
	resp := contributionsResponse{State: state, Username: username}
	if state.Stats != nil {
		grid := contrib.BuildGrid(state.Stats.Series)
		resp.Grid = &grid
		resp.Summary = Summary(*state.Stats)
	}
	return resp
}

// Summary renders a one-line description of stats.
func Summary(s domain.ContributionStats) string {
	return fmt.Sprintf("%s contributions in the last year · current streak %s · longest streak %s",
		humanize.Comma(int64(s.TotalContributions)),
		days(s.CurrentStreak),
		days(s.LongestStreak),
	)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return humanize.Comma(int64(n)) + " days"
}
