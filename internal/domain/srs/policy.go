// Package srs implements the stage policy of the spaced-repetition
// system: the fixed interval table, stage transitions on review answers,
// and stage display names. The package is pure; it holds no state and
// performs no I/O.
package srs

import (
	"errors"
	"time"
)

// Stage boundaries. A progress record always carries a stage in
// [FirstStage, BurnedStage]; StageLocked only ever describes the absence
// of a record.
const (
	StageLocked = 0
	FirstStage  = 1
	GuruStage   = 5
	BurnedStage = 9
)

// ErrNoInterval is returned when an interval is requested for a stage
// outside the review pool.
var ErrNoInterval = errors.New("stage has no review interval")

// intervals maps a destination stage to the wall-clock duration added to
// "now" when scheduling the next review. BurnedStage has no entry: burned
// items exit the review pool.
var intervals = map[int]time.Duration{
	1: 4 * time.Hour,
	2: 8 * time.Hour,
	3: 24 * time.Hour,
	4: 2 * 24 * time.Hour,
	5: 7 * 24 * time.Hour,
	6: 14 * 24 * time.Hour,
	7: 30 * 24 * time.Hour,
	8: 120 * 24 * time.Hour,
}

// stageNames maps a stage to its display name.
var stageNames = map[int]string{
	0: "Locked",
	1: "Apprentice 1",
	2: "Apprentice 2",
	3: "Apprentice 3",
	4: "Apprentice 4",
	5: "Guru 1",
	6: "Guru 2",
	7: "Master",
	8: "Enlightened",
	9: "Burned",
}

// NextStage computes the stage transition for a review answer.
//
// A correct answer moves up one stage, capped at BurnedStage. An
// incorrect answer drops one stage below Guru and two stages from Guru
// upward, floored at FirstStage: high-confidence items answered wrong
// are judged more harshly.
func NextStage(stage int, correct bool) int {
	if correct {
		if stage+1 > BurnedStage {
			return BurnedStage
		}
		return stage + 1
	}

	drop := 1
	if stage >= GuruStage {
		drop = 2
	}
	if stage-drop < FirstStage {
		return FirstStage
	}
	return stage - drop
}

// Interval returns the review interval for the given destination stage.
// Returns ErrNoInterval for BurnedStage and for stages outside the table.
func Interval(stage int) (time.Duration, error) {
	d, ok := intervals[stage]
	if !ok {
		return 0, ErrNoInterval
	}
	return d, nil
}

// NextReviewAt computes when an item entering the given stage is next
// due. Returns nil for BurnedStage: burned items are never due again.
func NextReviewAt(stage int, now time.Time) *time.Time {
	d, ok := intervals[stage]
	if !ok {
		return nil
	}
	at := now.Add(d)
	return &at
}

// StageName returns the display name for a stage, or "Unknown" for a
// value outside the policy.
func StageName(stage int) string {
	if name, ok := stageNames[stage]; ok {
		return name
	}
	return "Unknown"
}
