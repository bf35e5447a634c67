// Package fleet holds the derived-value computations for the asset fleet:
// asset life-cycle arithmetic, condition trend classification, display-time
// task status derivation, and the dashboard metrics aggregation.
//
// Everything here is pure: functions take snapshots and an explicit "now"
// and return plain values. Nothing reads the clock, touches the database,
// or mutates its inputs.
package fleet

import (
	"math"
	"time"

	"github.com/mwhite/waterline/internal/database/models"
)

// DefaultUpcomingWindowDays is the look-ahead window for "due soon" checks.
const DefaultUpcomingWindowDays = 30

// daysPerYear approximates a calendar year. Age math floors elapsed days
// over this value, which is imprecise near year boundaries but fine for
// decade-scale asset lifespans.
const daysPerYear = 365.25

// parseDate accepts stored calendar dates, tolerating full RFC 3339
// timestamps in old records.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Age returns the asset's age in whole years at now. A malformed install
// date yields 0; stored data must never crash a display path.
func Age(installDate string, now time.Time) int {
	install, ok := parseDate(installDate)
	if !ok {
		return 0
	}
	days := math.Abs(now.Sub(install).Hours()) / 24
	return int(math.Floor(days / daysPerYear))
}

// RemainingLife returns the years of expected service left, never negative.
func RemainingLife(installDate string, expectedLifespan int, now time.Time) int {
	remaining := expectedLifespan - Age(installDate, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// LifeUsedPercent returns how much of the expected lifespan has elapsed,
// as an integer percentage capped at 100. A non-positive lifespan reports
// 100 (fully used): the stored value is invalid, and clamping beats
// propagating a division by zero into every consumer.
func LifeUsedPercent(installDate string, expectedLifespan int, now time.Time) int {
	if expectedLifespan <= 0 {
		return 100
	}
	pct := int(math.Round(float64(Age(installDate, now)) / float64(expectedLifespan) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// IsOverdue reports whether date is strictly before now.
// Malformed dates are never overdue.
func IsOverdue(date string, now time.Time) bool {
	t, ok := parseDate(date)
	if !ok {
		return false
	}
	return t.Before(now)
}

// IsUpcoming reports whether date falls strictly between now and
// now+windowDays. Malformed dates are never upcoming.
func IsUpcoming(date string, now time.Time, windowDays int) bool {
	t, ok := parseDate(date)
	if !ok {
		return false
	}
	return t.After(now) && t.Before(now.AddDate(0, 0, windowDays))
}

func isFuture(date string, now time.Time) bool {
	t, ok := parseDate(date)
	if !ok {
		return false
	}
	return t.After(now)
}
