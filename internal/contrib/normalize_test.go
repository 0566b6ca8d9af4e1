package contrib

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, 0, Level("NONE"))
	assert.Equal(t, 1, Level("FIRST_QUARTILE"))
	assert.Equal(t, 2, Level("SECOND_QUARTILE"))
	assert.Equal(t, 3, Level("THIRD_QUARTILE"))
	assert.Equal(t, 4, Level("FOURTH_QUARTILE"))
	assert.Equal(t, 0, Level("SOMETHING_ELSE"))
}

func TestNormalize_WindowAndOrder(t *testing.T) {
	p := &Payload{
		TotalContributions: 99,
		Contributions: []PayloadDay{
			{Date: "2024-06-10", ContributionCount: 3, ContributionLevel: "THIRD_QUARTILE"},
			{Date: "2023-06-12", ContributionCount: 7, ContributionLevel: "FOURTH_QUARTILE"}, // today-364
			{Date: "2023-06-11", ContributionCount: 50, ContributionLevel: "FOURTH_QUARTILE"}, // outside
			{Date: "2024-06-11", ContributionCount: 8, ContributionLevel: "FOURTH_QUARTILE"}, // future
			{Date: "2024-06-09", ContributionCount: 1, ContributionLevel: "FIRST_QUARTILE"},
		},
	}

	stats, err := Normalize(p, testToday)
	require.NoError(t, err)

	require.Len(t, stats.Series, 3)
	assert.Equal(t, "2023-06-12", stats.Series[0].Date)
	assert.Equal(t, "2024-06-09", stats.Series[1].Date)
	assert.Equal(t, "2024-06-10", stats.Series[2].Date)
	assert.Equal(t, 3, stats.Series[2].Level)

	assert.Equal(t, 11, stats.TotalContributions)
	assert.Equal(t, 99, stats.ReportedTotal)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
}

func TestNormalize_DropsDuplicatesAndNegatives(t *testing.T) {
	p := &Payload{Contributions: []PayloadDay{
		{Date: "2024-06-10", ContributionCount: -4},
		{Date: "2024-06-10", ContributionCount: 9},
	}}

	stats, err := Normalize(p, testToday)
	require.NoError(t, err)
	require.Len(t, stats.Series, 1)
	assert.Equal(t, 0, stats.Series[0].Count)
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize(nil, testToday)
	assert.Error(t, err)

	_, err = Normalize(&Payload{}, testToday)
	assert.ErrorIs(t, err, errNoContributions)

}

func TestNormalize_SkipsMalformedDates(t *testing.T) {
	stats, err := Normalize(&Payload{Contributions: []PayloadDay{
		{Date: "2024-06-10", ContributionCount: 2, ContributionLevel: "SECOND_QUARTILE"},
		{Date: "June 9", ContributionCount: 50, ContributionLevel: "FOURTH_QUARTILE"},
		{Date: "2024-06-09", ContributionCount: 1, ContributionLevel: "FIRST_QUARTILE"},
		{Date: "", ContributionCount: 7},
	}}, testToday)
	require.NoError(t, err)

	require.Len(t, stats.Series, 2)
	assert.Equal(t, "2024-06-09", stats.Series[0].Date)
	assert.Equal(t, "2024-06-10", stats.Series[1].Date)
	assert.Equal(t, 3, stats.TotalContributions)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
}

func TestNormalize_EmptyList(t *testing.T) {
	stats, err := Normalize(&Payload{Contributions: []PayloadDay{}}, testToday)
	require.NoError(t, err)
	assert.Empty(t, stats.Series)
	assert.Zero(t, stats.CurrentStreak)
}

func TestNormalize_Idempotent(t *testing.T) {
	p := &Payload{TotalContributions: 6, Contributions: []PayloadDay{
		{Date: "2024-06-10", ContributionCount: 1, ContributionLevel: "FIRST_QUARTILE"},
		{Date: "2024-06-08", ContributionCount: 2, ContributionLevel: "SECOND_QUARTILE"},
		{Date: "2024-06-09", ContributionCount: 3, ContributionLevel: "THIRD_QUARTILE"},
	}}

	first, err := Normalize(p, testToday)
	require.NoError(t, err)
	second, err := Normalize(p, testToday)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, "2024-06-10", p.Contributions[0].Date, "payload is not reordered")
}
