package maintenance

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"homewise/internal/domain"
)

// Frequency text is human-entered ("Every 3 months", "Monthly", "Spring & Fall").
// Parsing is best-effort: an explicit "every N <unit>" pattern wins, then common
// keyword frequencies, then the spring/fall seasonal case, then a 6-month default.

const defaultCadenceMonths = 6

// dueSoonWindow is how close a due date has to be before the task counts as "due".
const dueSoonWindow = 7 * 24 * time.Hour

var everyRe = regexp.MustCompile(`(?i)\bevery\s+(\d+)\s*(day|week|month|year)s?\b`)

// NextDueAt computes the next due timestamp from the last completion and the
// frequency text. A nil lastCompleted anchors the schedule at now. The caller
// supplies now so the function stays deterministic.
func NextDueAt(lastCompleted *time.Time, frequency string, now time.Time) time.Time {
	anchor := now
	if lastCompleted != nil && !lastCompleted.IsZero() {
		anchor = *lastCompleted
	}

	if m := everyRe.FindStringSubmatch(frequency); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			switch strings.ToLower(m[2]) {
			case "day":
				return anchor.AddDate(0, 0, n)
			case "week":
				return anchor.AddDate(0, 0, 7*n)
			case "month":
				return anchor.AddDate(0, n, 0)
			case "year":
				return anchor.AddDate(n, 0, 0)
			}
		}
	}

	switch normalizeFrequency(frequency) {
	case "daily":
		return anchor.AddDate(0, 0, 1)
	case "weekly":
		return anchor.AddDate(0, 0, 7)
	case "biweekly":
		return anchor.AddDate(0, 0, 14)
	case "monthly":
		return anchor.AddDate(0, 1, 0)
	case "quarterly":
		return anchor.AddDate(0, 3, 0)
	case "semiannual", "semiannually", "twice a year":
		return anchor.AddDate(0, 6, 0)
	case "annual", "annually", "yearly":
		return anchor.AddDate(1, 0, 0)
	}

	if isSeasonal(frequency) {
		return nextSeason(anchor)
	}

	return anchor.AddDate(0, defaultCadenceMonths, 0)
}

// NextDue is NextDueAt with a single current-time read.
func NextDue(lastCompleted *time.Time, frequency string) time.Time {
	return NextDueAt(lastCompleted, frequency, time.Now())
}

// StatusAt buckets a due date: overdue when past, due within the 7-day window,
// upcoming otherwise. Completed overrides all three.
func StatusAt(nextDue time.Time, completed bool, now time.Time) domain.TaskStatus {
	if completed {
		return domain.TaskStatusCompleted
	}
	if nextDue.Before(now) {
		return domain.TaskStatusOverdue
	}
	if nextDue.Sub(now) <= dueSoonWindow {
		return domain.TaskStatusDue
	}
	return domain.TaskStatusUpcoming
}

// Status is StatusAt with a single current-time read.
func Status(nextDue time.Time, completed bool) domain.TaskStatus {
	return StatusAt(nextDue, completed, time.Now())
}

func normalizeFrequency(frequency string) string {
	return strings.ToLower(strings.TrimSpace(frequency))
}

func isSeasonal(frequency string) bool {
	f := normalizeFrequency(frequency)
	return strings.Contains(f, "spring") || strings.Contains(f, "fall") || strings.Contains(f, "autumn")
}

// nextSeason returns the first spring (Apr 1) or fall (Oct 1) boundary after the
// anchor, whichever comes sooner.
func nextSeason(anchor time.Time) time.Time {
	spring := time.Date(anchor.Year(), time.April, 1, 0, 0, 0, 0, anchor.Location())
	fall := time.Date(anchor.Year(), time.October, 1, 0, 0, 0, 0, anchor.Location())
	switch {
	case anchor.Before(spring):
		return spring
	case anchor.Before(fall):
		return fall
	default:
		return spring.AddDate(1, 0, 0)
	}
}
