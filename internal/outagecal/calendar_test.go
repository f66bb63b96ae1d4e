package outagecal

import (
	"testing"
	"time"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

func reportAt(t time.Time) models.Report {
	return models.Report{StartedAt: t, Status: models.ReportStatusReported}
}

func TestBuildMonthMarkers(t *testing.T) {
	loc := time.UTC
	reports := []models.Report{
		// Oct 5: one report
		reportAt(time.Date(2025, 10, 5, 6, 30, 0, 0, loc)),
		// Oct 12: two reports, different times of day
		reportAt(time.Date(2025, 10, 12, 1, 0, 0, 0, loc)),
		reportAt(time.Date(2025, 10, 12, 23, 59, 0, 0, loc)),
		// Oct 20: three reports
		reportAt(time.Date(2025, 10, 20, 8, 0, 0, 0, loc)),
		reportAt(time.Date(2025, 10, 20, 9, 0, 0, 0, loc)),
		reportAt(time.Date(2025, 10, 20, 10, 0, 0, 0, loc)),
		// November report must not leak into October
		reportAt(time.Date(2025, 11, 1, 0, 0, 0, 0, loc)),
	}

	grid := BuildMonth(reports, 2025, 10, loc)

	if len(grid.Days) != 31 {
		t.Fatalf("October should have 31 days, got %d", len(grid.Days))
	}
	// Oct 1, 2025 is a Wednesday
	if grid.LeadingGap != 3 {
		t.Errorf("leading gap = %d, want 3", grid.LeadingGap)
	}

	checks := map[int]struct {
		count  int
		marker string
	}{
		5:  {1, MarkerOutage},
		12: {2, MarkerOutage},
		20: {3, MarkerHeavy},
		21: {0, MarkerNone},
	}
	for day, want := range checks {
		got := grid.Days[day-1]
		if got.Reports != want.count || got.Marker != want.marker {
			t.Errorf("day %d: got %d reports marker %q, want %d marker %q",
				day, got.Reports, got.Marker, want.count, want.marker)
		}
	}
}

func TestReportsOnMatchesCalendarDayNotTimestamp(t *testing.T) {
	loc := time.UTC
	reports := []models.Report{
		reportAt(time.Date(2025, 10, 12, 0, 0, 1, 0, loc)),
		reportAt(time.Date(2025, 10, 12, 18, 45, 0, 0, loc)),
		reportAt(time.Date(2025, 10, 13, 0, 0, 0, 0, loc)),
	}

	got := ReportsOn(reports, time.Date(2025, 10, 12, 11, 11, 11, 0, loc), loc)
	if len(got) != 2 {
		t.Fatalf("expected 2 reports on Oct 12, got %d", len(got))
	}
}

func TestBuildMonthEmpty(t *testing.T) {
	grid := BuildMonth(nil, 2025, 2, time.UTC)
	if len(grid.Days) != 28 {
		t.Fatalf("February 2025 should have 28 days, got %d", len(grid.Days))
	}
	for _, d := range grid.Days {
		if d.Marker != MarkerNone || d.Reports != 0 {
			t.Errorf("day %d should be empty, got %+v", d.Day, d)
		}
	}
}
