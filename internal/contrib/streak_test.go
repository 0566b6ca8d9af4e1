package contrib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ashureev/folio/internal/domain"
)

var testToday = time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)

// series builds consecutive days ending on last.
func series(last time.Time, counts ...int) []domain.ContributionDay {
	days := make([]domain.ContributionDay, len(counts))
	start := last.AddDate(0, 0, -(len(counts) - 1))
	for i, c := range counts {
		days[i] = domain.ContributionDay{Date: start.AddDate(0, 0, i).Format(DateLayout), Count: c}
	}
	return days
}

func TestStreaks(t *testing.T) {
	yesterday := testToday.AddDate(0, 0, -1)

	tests := []struct {
		name        string
		days        []domain.ContributionDay
		wantCurrent int
		wantLongest int
	}{
		{"empty", nil, 0, 0},
		{"lapsed run ending yesterday with zero", series(yesterday, 1, 0, 2, 3, 0), 0, 2},
		{"run ending today", series(testToday, 1, 2, 3), 3, 3},
		{"zero today keeps yesterday anchor", series(testToday, 1, 1, 1, 0), 3, 3},
		{"run ending yesterday", series(yesterday, 0, 4, 4), 2, 2},
		{"anchor two days ago lapses", series(testToday.AddDate(0, 0, -2), 5, 5), 0, 2},
		{"all zero", series(testToday, 0, 0, 0), 0, 0},
		{
			"missing date breaks run",
			[]domain.ContributionDay{
				{Date: "2024-06-06", Count: 1},
				{Date: "2024-06-07", Count: 1},
				{Date: "2024-06-09", Count: 1},
				{Date: "2024-06-10", Count: 1},
			},
			2, 2,
		},
		{
			"days after today do not anchor",
			[]domain.ContributionDay{
				{Date: "2024-06-10", Count: 1},
				{Date: "2024-06-11", Count: 5},
			},
			1, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := Streaks(tt.days, testToday)
			assert.Equal(t, tt.wantCurrent, current, "current")
			assert.Equal(t, tt.wantLongest, longest, "longest")
		})
	}
}

func TestStreaks_OrderIndependent(t *testing.T) {
	days := series(testToday, 2, 0, 1, 1)
	reversed := make([]domain.ContributionDay, len(days))
	for i, d := range days {
		reversed[len(days)-1-i] = d
	}

	c1, l1 := Streaks(days, testToday)
	c2, l2 := Streaks(reversed, testToday)
	assert.Equal(t, c1, c2)
	assert.Equal(t, l1, l2)
	assert.Equal(t, 2, c1)
}
