// Package outagecal buckets outage reports by calendar day and builds the
// month grid consumed by the calendar view.
package outagecal

import (
	"time"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

// Day markers. A day with one or two reports is marked differently from a
// day with three or more.
const (
	MarkerNone   = ""
	MarkerOutage = "outage"
	MarkerHeavy  = "heavy"
)

// Day is one cell of the month grid.
type Day struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Day     int    `json:"day"`
	Reports int    `json:"reports"`
	Marker  string `json:"marker"`
}

// Month is the rendered grid for a (year, month) pair.
type Month struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	LeadingGap int   `json:"leading_gap"` // weekday index of day 1, Sunday = 0
	Days       []Day `json:"days"`
}

// DayKey truncates a timestamp to its calendar day in the given location.
func DayKey(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// GroupByDay indexes reports by the calendar day of their start time.
func GroupByDay(reports []models.Report, loc *time.Location) map[time.Time][]models.Report {
	grouped := make(map[time.Time][]models.Report)
	for _, r := range reports {
		key := DayKey(r.StartedAt, loc)
		grouped[key] = append(grouped[key], r)
	}
	return grouped
}

// ReportsOn returns the reports whose start time falls on the same calendar
// day as date.
func ReportsOn(reports []models.Report, date time.Time, loc *time.Location) []models.Report {
	want := DayKey(date, loc)
	var out []models.Report
	for _, r := range reports {
		if DayKey(r.StartedAt, loc).Equal(want) {
			out = append(out, r)
		}
	}
	return out
}

// BuildMonth assembles the grid for year/month (month in 1..12) from the
// given report set.
func BuildMonth(reports []models.Report, year, month int, loc *time.Location) Month {
	grouped := GroupByDay(reports, loc)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	grid := Month{
		Year:       year,
		Month:      month,
		LeadingGap: int(first.Weekday()),
		Days:       make([]Day, 0, daysInMonth),
	}

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, loc)
		count := len(grouped[date])
		marker := MarkerNone
		switch {
		case count >= 3:
			marker = MarkerHeavy
		case count >= 1:
			marker = MarkerOutage
		}
		grid.Days = append(grid.Days, Day{
			Date:    date.Format("2006-01-02"),
			Day:     d,
			Reports: count,
			Marker:  marker,
		})
	}
	return grid
}
