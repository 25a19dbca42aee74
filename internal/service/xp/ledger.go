// Package xp implements the weekly experience ledger: award amounts,
// the day-of-week bonus multiplier, week window normalization, and the
// weekly leaderboard.
package xp

import (
	"time"
)

// Award amounts. Every credit is computed from these before the bonus
// multiplier is applied.
const (
	// PerLessonQuestion is earned per question an item carries when it
	// is learned through a lesson.
	PerLessonQuestion = 10

	// PerCorrectAnswer is earned for a correct, unhinted review answer.
	PerCorrectAnswer = 10

	// BurnBonus is earned once, when an item reaches the burned stage
	// through a review answer. Manual burns never earn it.
	BurnBonus = 50
)

// bonusWeekday is the day on which all XP awards are doubled. The day
// boundary follows the ledger's configured timezone, not the server's.
const bonusWeekday = time.Sunday

// bonusMultiplier doubles awards on the bonus day.
const bonusMultiplier = 2

// Ledger computes XP award amounts and week windows. It is pure; the
// caller supplies the time and persists the result.
type Ledger struct {
	loc *time.Location
}

// NewLedger creates a Ledger whose bonus day and week boundaries are
// evaluated in the given location.
func NewLedger(loc *time.Location) *Ledger {
	if loc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("location cannot be nil")
	}
	return &Ledger{loc: loc}
}

// Multiplier returns the bonus multiplier in effect at the given instant.
func (l *Ledger) Multiplier(now time.Time) int {
	if now.In(l.loc).Weekday() == bonusWeekday {
		return bonusMultiplier
	}
	return 1
}

// Award returns the amount to credit for a base award at the given
// instant, with the bonus multiplier applied exactly once.
func (l *Ledger) Award(base int, now time.Time) int {
	if base <= 0 {
		return 0
	}
	return base * l.Multiplier(now)
}

// WeekWindow returns the half-open week window [start, end) containing
// the given instant. Weeks start Monday 00:00 in the ledger's location.
func (l *Ledger) WeekWindow(now time.Time) (time.Time, time.Time) {
	local := now.In(l.loc)

	// time.Weekday numbers Sunday as 0; shift so Monday is day 0.
	daysSinceMonday := (int(local.Weekday()) + 6) % 7

	year, month, day := local.AddDate(0, 0, -daysSinceMonday).Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, l.loc)
	return start, start.AddDate(0, 0, 7)
}
