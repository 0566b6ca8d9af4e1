package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ashureev/folio/internal/contrib"
	"github.com/ashureev/folio/internal/terminal"
)

// theme holds the styles used to print terminal output.
type theme struct {
	heading lipgloss.Style
	label   lipgloss.Style
	link    lipgloss.Style
	err     lipgloss.Style
	hint    lipgloss.Style
	badge   lipgloss.Style
	card    lipgloss.Style
	prompt  lipgloss.Style
	levels  [5]lipgloss.Style
}

// newTheme builds styles bound to w, so color is dropped when w is not a
// terminal.
func newTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)
	t := theme{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   r.NewStyle().Foreground(lipgloss.Color("14")),
		link:    r.NewStyle().Underline(true).Foreground(lipgloss.Color("12")),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")),
		hint:    r.NewStyle().Faint(true),
		badge:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		card:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		prompt:  r.NewStyle().Foreground(lipgloss.Color("10")),
	}
	for i, c := range []string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"} {
		t.levels[i] = r.NewStyle().Foreground(lipgloss.Color(c))
	}
	return t
}

func (t theme) renderOutput(out terminal.Output) string {
	var b strings.Builder
	for _, block := range out.Blocks {
		b.WriteString(t.renderBlock(block))
		b.WriteByte('\n')
	}
	if out.Action != nil && out.Action.Kind == terminal.ActionDownload {
		fmt.Fprintf(&b, "%s %s\n", t.label.Render("Download:"), t.link.Render(out.Action.URL))
	}
	return b.String()
}

func (t theme) renderBlock(b terminal.Block) string {
	switch b.Kind {
	case terminal.BlockHeading:
		return t.heading.Render(b.Text)
	case terminal.BlockField:
		return t.label.Render(b.Label+":") + " " + b.Text
	case terminal.BlockTags:
		return t.label.Render(b.Label+":") + " " + strings.Join(b.Tags, ", ")
	case terminal.BlockLink:
		return t.label.Render(b.Label) + " " + t.link.Render(b.URL)
	case terminal.BlockError:
		return t.err.Render(b.Text)
	case terminal.BlockHint:
		return t.hint.Render(b.Text)
	case terminal.BlockCard:
		return t.renderCard(b)
	default:
		return b.Text
	}
}

func (t theme) renderCard(b terminal.Block) string {
	lines := []string{t.heading.Render(b.Label)}
	for _, badge := range b.Badges {
		lines[0] += " " + t.badge.Render("["+badge+"]")
	}
	if b.Text != "" {
		lines = append(lines, b.Text)
	}
	if len(b.Tags) > 0 {
		lines = append(lines, t.hint.Render(strings.Join(b.Tags, " · ")))
	}
	for _, nested := range b.Blocks {
		lines = append(lines, t.renderBlock(nested))
	}
	return t.card.Render(strings.Join(lines, "\n"))
}

var cellGlyphs = [5]string{"·", "░", "▒", "▓", "█"}

// renderStats prints a State: a summary line and, when ready, the heatmap.
func (t theme) renderStats(username string, state contrib.State) string {
	switch state.Status {
	case contrib.StatusLoading:
		return t.hint.Render("Loading contributions for "+username+"...") + "\n"
	case contrib.StatusFailed:
		return t.err.Render(fmt.Sprintf("Unable to load contributions for %s (%s): %s", username, state.Kind, state.Message)) + "\n"
	}

	s := *state.Stats
	var b strings.Builder
	b.WriteString(t.heading.Render(username+" on GitHub") + "\n")
	fmt.Fprintf(&b, "%s %s\n", t.label.Render("Contributions:"), humanize.Comma(int64(s.TotalContributions)))
	fmt.Fprintf(&b, "%s %s\n", t.label.Render("Current streak:"), pluralDays(s.CurrentStreak))
	fmt.Fprintf(&b, "%s %s\n", t.label.Render("Longest streak:"), pluralDays(s.LongestStreak))
	if len(s.Series) > 0 {
		b.WriteByte('\n')
		b.WriteString(t.renderHeatmap(contrib.BuildGrid(s.Series)))
	}
	return b.String()
}

// renderHeatmap prints weekdays as rows and weeks as columns.
func (t theme) renderHeatmap(g contrib.Grid) string {
	var b strings.Builder
	for day := 0; day < 7; day++ {
		for _, week := range g.Weeks {
			c := week[day]
			switch c.State {
			case contrib.CellDay:
				b.WriteString(t.levels[clampLevel(c.Level)].Render(cellGlyphs[clampLevel(c.Level)]))
			case contrib.CellGap:
				b.WriteString(t.levels[0].Render(cellGlyphs[0]))
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func clampLevel(l int) int {
	return max(0, min(l, 4))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return humanize.Comma(int64(n)) + " days"
}

func statsJSON(username string, state contrib.State) any {
	return struct {
		Username string `json:"username"`
		contrib.State
	}{Username: username, State: state}
}
