package contrib

import (
	"slices"
	"time"

	"github.com/ashureev/folio/internal/domain"
)

// DateLayout is the calendar date format used throughout the series.
const DateLayout = "2006-01-02"

// dayNumber returns days since the Unix epoch for a calendar date.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func parseDay(date string) (int, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, err
	}
	return dayNumber(t), nil
}

type datedDay struct {
	n     int
	count int
}

// Streaks computes the current and longest streaks of days with count > 0.
// Days may be in any order; unparsable dates are skipped. A missing date
// breaks a run. The current streak ends at the most recent active day on or
// before today and lapses when that day is older than yesterday.
func Streaks(days []domain.ContributionDay, today time.Time) (current, longest int) {
	dated := make([]datedDay, 0, len(days))
	for _, d := range days {
		n, err := parseDay(d.Date)
		if err != nil {
			continue
		}
		dated = append(dated, datedDay{n: n, count: d.Count})
	}
	slices.SortFunc(dated, func(a, b datedDay) int { return a.n - b.n })

	run := 0
	for i, d := range dated {
		switch {
		case d.count <= 0:
			run = 0
		case i > 0 && dated[i-1].n == d.n-1 && dated[i-1].count > 0:
			run++
		default:
			run = 1
		}
		longest = max(longest, run)
	}

	todayN := dayNumber(today)
	anchor := -1
	for i := len(dated) - 1; i >= 0; i-- {
		if dated[i].n <= todayN && dated[i].count > 0 {
			anchor = i
			break
		}
	}
	if anchor < 0 || todayN-dated[anchor].n > 1 {
		return 0, longest
	}

	current = 1
	for i := anchor; i > 0; i-- {
		if dated[i-1].count <= 0 || dated[i-1].n != dated[i].n-1 {
			break
		}
		current++
	}
	return current, longest
}
