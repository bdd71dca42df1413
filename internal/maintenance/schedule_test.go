package maintenance

import (
	"testing"
	"time"

	"homewise/internal/domain"
	"homewise/internal/tester"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestNextDueEveryNPattern(t *testing.T) {
	last := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		frequency string
		want      time.Time
	}{
		{"Every 3 months", last.AddDate(0, 3, 0)},
		{"every 10 days", last.AddDate(0, 0, 10)},
		{"Every 2 weeks", last.AddDate(0, 0, 14)},
		{"every 1 year", last.AddDate(1, 0, 0)},
		{"check every 6 months or so", last.AddDate(0, 6, 0)},
	}
	for _, tc := range cases {
		got := NextDueAt(&last, tc.frequency, now)
		tester.Eq(t, got, tc.want, tc.frequency)
	}
}

func TestNextDueKeywordFrequencies(t *testing.T) {
	last := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		frequency string
		want      time.Time
	}{
		{"Daily", last.AddDate(0, 0, 1)},
		{"weekly", last.AddDate(0, 0, 7)},
		{"Biweekly", last.AddDate(0, 0, 14)},
		{"Monthly", last.AddDate(0, 1, 0)},
		{"quarterly", last.AddDate(0, 3, 0)},
		{"Annually", last.AddDate(1, 0, 0)},
		{"twice a year", last.AddDate(0, 6, 0)},
	}
	for _, tc := range cases {
		got := NextDueAt(&last, tc.frequency, now)
		tester.Eq(t, got, tc.want, tc.frequency)
	}
}

func TestNextDueUnparseableDefaultsToSixMonths(t *testing.T) {
	last := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	got := NextDueAt(&last, "whenever it squeaks", now)
	tester.Eq(t, got, last.AddDate(0, 6, 0))
}

func TestNextDueNilLastCompletedAnchorsAtNow(t *testing.T) {
	got := NextDueAt(nil, "Monthly", now)
	tester.Eq(t, got, now.AddDate(0, 1, 0))
}

func TestNextDueSeasonal(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	nov := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)

	tester.Eq(t, NextDueAt(&jan, "Spring and Fall", now),
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	tester.Eq(t, NextDueAt(&jun, "spring/fall", now),
		time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC))
	tester.Eq(t, NextDueAt(&nov, "every spring & autumn", now),
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
}

func TestStatusBuckets(t *testing.T) {
	tester.Eq(t, StatusAt(now.AddDate(0, 0, -10), false, now), domain.TaskStatusOverdue)
	tester.Eq(t, StatusAt(now.Add(3*24*time.Hour), false, now), domain.TaskStatusDue)
	tester.Eq(t, StatusAt(now.Add(30*24*time.Hour), false, now), domain.TaskStatusUpcoming)
	tester.Eq(t, StatusAt(now.AddDate(0, 0, -10), true, now), domain.TaskStatusCompleted)
}

func TestStatusBoundary(t *testing.T) {
	// Exactly at the window edge still counts as due.
	tester.Eq(t, StatusAt(now.Add(dueSoonWindow), false, now), domain.TaskStatusDue)
	tester.Eq(t, StatusAt(now.Add(dueSoonWindow+time.Second), false, now), domain.TaskStatusUpcoming)
}
