package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/folio/internal/config"
	"github.com/ashureev/folio/internal/contrib"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/terminal"
)

type stubStats struct {
	stats     domain.ContributionStats
	err       error
	refreshed bool
	username  string
}

func (s *stubStats) Get(_ context.Context, username string) (domain.ContributionStats, error) {
	s.username = username
	return s.stats, s.err
}

func (s *stubStats) Refresh(ctx context.Context, username string) (domain.ContributionStats, error) {
	s.refreshed = true
	return s.Get(ctx, username)
}

func testDeps(stats contrib.Source) Deps {
	p := domain.Profile{
		Name:           "Ada",
		Headline:       "Full Stack",
		GitHubUsername: "ada",
		Skills:         domain.Skills{Backend: []string{"Go", "SQL"}},
	}
	return Deps{Profile: &p, Stats: stats, Config: &config.Config{}}
}

func run(t *testing.T, deps Deps, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(deps)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExec(t *testing.T) {
	out, err := run(t, testDeps(nil), "", "exec", "SKILLS")
	require.NoError(t, err)
	assert.Contains(t, out, "Technical Skills:")
	assert.Contains(t, out, "Backend: Go, SQL")
}

func TestExec_NotFound(t *testing.T) {
	out, err := run(t, testDeps(nil), "", "exec", "abuot")
	require.NoError(t, err)
	assert.Contains(t, out, "Command not found: 'abuot'")
	assert.Contains(t, out, "Did you mean: about?")
}

func TestCommands(t *testing.T) {
	out, err := run(t, testDeps(nil), "", "commands")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "help"))
}

func TestStats(t *testing.T) {
	stub := &stubStats{stats: domain.ContributionStats{
		TotalContributions: 1500,
		CurrentStreak:      1,
		LongestStreak:      9,
		Series: []domain.ContributionDay{
			{Date: "2024-06-09", Count: 0, Level: 0},
			{Date: "2024-06-10", Count: 3, Level: 2},
		},
	}}

	out, err := run(t, testDeps(stub), "", "stats")
	require.NoError(t, err)
	assert.Equal(t, "ada", stub.username)
	assert.False(t, stub.refreshed)
	assert.Contains(t, out, "Contributions: 1,500")
	assert.Contains(t, out, "Current streak: 1 day")
	assert.Contains(t, out, "Longest streak: 9 days")
	assert.Contains(t, out, "▒")
}

func TestStats_RefreshAndJSON(t *testing.T) {
	stub := &stubStats{stats: domain.ContributionStats{TotalContributions: 7}}

	out, err := run(t, testDeps(stub), "", "stats", "octocat", "--refresh", "--json")
	require.NoError(t, err)
	assert.True(t, stub.refreshed)
	assert.Equal(t, "octocat", stub.username)

	var body struct {
		Username string         `json:"username"`
		Status   contrib.Status `json:"status"`
		Stats    struct {
			Total int `json:"totalContributions"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "octocat", body.Username)
	assert.Equal(t, contrib.StatusReady, body.Status)
	assert.Equal(t, 7, body.Stats.Total)
}

func TestStats_Failure(t *testing.T) {
	stub := &stubStats{err: &contrib.UpstreamError{Username: "ada", StatusCode: 404, Err: errors.New("not found")}}

	out, err := run(t, testDeps(stub), "", "stats")
	require.Error(t, err)
	assert.Contains(t, out, "Unable to load contributions for ada (upstream)")
}

func TestREPL(t *testing.T) {
	out, err := run(t, testDeps(nil), "about\nhelpp\n!up\n!up\n!down\nclear\n", "repl")
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome to Ada's Portfolio Terminal")
	assert.Contains(t, out, "Full Stack Developer")
	assert.Contains(t, out, "Did you mean: help?")
	assert.Contains(t, out, "Terminal cleared")

	// Recall walks helpp then about, then back down to helpp.
	iHelpp := strings.Index(out, "helpp\n")
	require.GreaterOrEqual(t, iHelpp, 0)
	assert.Contains(t, out[iHelpp:], "about")
}

func TestRenderOutput_Card(t *testing.T) {
	var buf bytes.Buffer
	th := newTheme(&buf)
	got := th.renderOutput(terminal.Output{
		Blocks: []terminal.Block{{
			Kind:   terminal.BlockCard,
			Label:  "Folio",
			Text:   "A portfolio",
			Badges: []string{"Featured"},
			Tags:   []string{"Go", "React"},
		}},
		Action: &terminal.Action{Kind: terminal.ActionDownload, URL: "/resume.pdf"},
	})

	assert.Contains(t, got, "Folio [Featured]")
	assert.Contains(t, got, "Go · React")
	assert.Contains(t, got, "Download: /resume.pdf")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, testDeps(nil), "", "--log-level", "loud", "commands")
	require.Error(t, err)
}
