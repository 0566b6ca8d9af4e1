package contrib

import (
	"time"

	"github.com/ashureev/folio/internal/domain"
)

// GridWeeks is the number of week columns a grid keeps.
const GridWeeks = 52

// CellState distinguishes real days from filler.
type CellState string

const (
	CellDay     CellState = "day"
	CellGap     CellState = "gap"
	CellPadding CellState = "pad"
)

// Cell is one square of the heatmap.
type Cell struct {
	State CellState `json:"state"`
	Date  string    `json:"date,omitempty"`
	Count int       `json:"count"`
	Level int       `json:"level"`
}

// MonthLabel marks the first week column in which a month appears.
type MonthLabel struct {
	Name      string `json:"name"`
	WeekIndex int    `json:"weekIndex"`
}

// Grid is the week-by-weekday layout of a series.
type Grid struct {
	Weeks  [][]Cell     `json:"weeks"`
	Months []MonthLabel `json:"months"`
}

// BuildGrid lays a chronological series out in Sunday..Saturday columns,
// padding before the first day and after the last, filling missing dates
// with gap cells and keeping the last 52 weeks.
func BuildGrid(series []domain.ContributionDay) Grid {
	if len(series) == 0 {
		return Grid{Weeks: [][]Cell{}, Months: []MonthLabel{}}
	}

	byDate := make(map[string]domain.ContributionDay, len(series))
	for _, d := range series {
		byDate[d.Date] = d
	}
	first, err1 := time.Parse(DateLayout, series[0].Date)
	last, err2 := time.Parse(DateLayout, series[len(series)-1].Date)
	if err1 != nil || err2 != nil || last.Before(first) {
		return Grid{Weeks: [][]Cell{}, Months: []MonthLabel{}}
	}

	var weeks [][]Cell
	week := make([]Cell, 0, 7)
	for i := 0; i < int(first.Weekday()); i++ {
		week = append(week, Cell{State: CellPadding})
	}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		if d, ok := byDate[date]; ok {
			week = append(week, Cell{State: CellDay, Date: date, Count: d.Count, Level: d.Level})
		} else {
			week = append(week, Cell{State: CellGap, Date: date})
		}
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, Cell{State: CellPadding})
		}
		weeks = append(weeks, week)
	}

	if len(weeks) > GridWeeks {
		weeks = weeks[len(weeks)-GridWeeks:]
	}
	return Grid{Weeks: weeks, Months: monthLabels(weeks)}
}

func monthLabels(weeks [][]Cell) []MonthLabel {
	labels := []MonthLabel{}
	lastMonth := time.Month(0)
	for i, week := range weeks {
		for _, c := range week {
			if c.State == CellPadding {
				continue
			}
			t, err := time.Parse(DateLayout, c.Date)
			if err != nil {
				break
			}
			if t.Month() != lastMonth {
				labels = append(labels, MonthLabel{Name: t.Month().String()[:3], WeekIndex: i})
				lastMonth = t.Month()
			}
			break
		}
	}
	return labels
}
