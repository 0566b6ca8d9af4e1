package contrib

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ashureev/folio/internal/domain"
)

// WindowDays is how far back from today the retained series reaches.
const WindowDays = 364

// Normalize turns an upstream payload into stats relative to today.
// Streaks are computed over every returned day; the series and total cover
// today-364 through today inclusive, in chronological order. Days with an
// unparsable date are dropped.
func Normalize(p *Payload, today time.Time) (domain.ContributionStats, error) {
	if p == nil || p.Contributions == nil {
		return domain.ContributionStats{}, errNoContributions
	}

	days := make([]domain.ContributionDay, 0, len(p.Contributions))
	seen := make(map[string]struct{}, len(p.Contributions))
	for _, raw := range p.Contributions {
		if _, err := parseDay(raw.Date); err != nil {
			slog.Warn("Skipping malformed contribution date", "date", raw.Date, "error", err)
			continue
		}
		if _, dup := seen[raw.Date]; dup {
			continue
		}
		seen[raw.Date] = struct{}{}
		days = append(days, domain.ContributionDay{
			Date:  raw.Date,
			Count: max(raw.ContributionCount, 0),
			Level: Level(raw.ContributionLevel),
		})
	}

	// Newest first for streaks.
	slices.SortFunc(days, func(a, b domain.ContributionDay) int { return strings.Compare(b.Date, a.Date) })
	current, longest := Streaks(days, today)

	todayN := dayNumber(today)
	series := make([]domain.ContributionDay, 0, WindowDays+1)
	total := 0
	for _, d := range days {
		n, _ := parseDay(d.Date)
		if n < todayN-WindowDays || n > todayN {
			continue
		}
		series = append(series, d)
		total += d.Count
	}
	slices.Reverse(series)

	return domain.ContributionStats{
		TotalContributions: total,
		ReportedTotal:      p.TotalContributions,
		CurrentStreak:      current,
		LongestStreak:      longest,
		Series:             series,
	}, nil
}
