// Package access decides which content levels a user's subscription
// covers, independent of SRS progress. The lesson gate still applies on
// top of a positive answer.
package access

import (
	"context"

	"github.com/google/uuid"
)

// Decider answers whether a user may study content at a given level.
type Decider interface {
	CanAccessLevel(ctx context.Context, userID uuid.UUID, level int) (bool, error)
}

// AllowAll grants every user access to every level. Used while the
// platform runs as an open beta.
type AllowAll struct{}

// CanAccessLevel implements Decider.
func (AllowAll) CanAccessLevel(context.Context, uuid.UUID, int) (bool, error) {
	return true, nil
}

// LevelCap grants access up to a fixed level, for plans that cap
// content at a proficiency tier.
type LevelCap struct {
	MaxLevel int
}

// CanAccessLevel implements Decider.
func (d LevelCap) CanAccessLevel(_ context.Context, _ uuid.UUID, level int) (bool, error) {
	return level <= d.MaxLevel, nil
}

// jlptStartLevels maps a JLPT tier to the first content level of that
// tier. Tier 5 starts at the bottom of the curriculum.
var jlptStartLevels = map[int]int{
	5: 1,
	4: 11,
	3: 26,
	2: 51,
	1: 76,
}

// JLPTStartLevel returns the first content level of the given JLPT
// tier, or false if the tier is not one of N5 through N1.
func JLPTStartLevel(tier int) (int, bool) {
	level, ok := jlptStartLevels[tier]
	return level, ok
}

// JLPTTier returns the JLPT tier (5 through 1) a content level falls
// into.
func JLPTTier(level int) int {
	switch {
	case level <= 10:
		return 5
	case level <= 25:
		return 4
	case level <= 50:
		return 3
	case level <= 75:
		return 2
	default:
		return 1
	}
}
