// Package domain contains the core entities of the progress engine:
// lessons, learning items, per-user item progress, and weekly XP ledger
// rows. Entities validate themselves; scheduling policy lives in the
// domain/srs subpackage and persistence in the store packages.
package domain
