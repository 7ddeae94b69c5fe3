// Package sensitivity defines the ordinal sensitivity scale, per-field
// classification records, FCRO sub-score extraction, and the aggregation
// rules that reduce per-field ratings to an entity-level rating.
package sensitivity

import "fmt"

// Level is an ordinal sensitivity rating on the canonical 1..5 scale.
type Level int

// Canonical sensitivity levels.
const (
	LevelPublic       Level = 1
	LevelRestreint    Level = 2
	LevelConfidentiel Level = 3
	LevelSecret       Level = 4
	LevelTresSecret   Level = 5
)

// MinLevel and MaxLevel bound the canonical scale. Derived levels outside
// the scale are clamped, never rejected at runtime.
const (
	MinLevel Level = LevelPublic
	MaxLevel Level = LevelTresSecret
)

var labels = map[Level]string{
	LevelPublic:       "Public",
	LevelRestreint:    "Restreint",
	LevelConfidentiel: "Confidentiel",
	LevelSecret:       "Secret",
	LevelTresSecret:   "Très secret",
}

// Clamp bounds a raw integer rating to the canonical scale.
func Clamp(n int) Level {
	if n < int(MinLevel) {
		return MinLevel
	}
	if n > int(MaxLevel) {
		return MaxLevel
	}
	return Level(n)
}

// Valid reports whether l is within the canonical scale.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Label returns the canonical text name for the level. Out-of-range levels
// resolve to the Public label after clamping.
func (l Level) Label() string {
	return labels[Clamp(int(l))]
}

// DisplayIndex returns the catalog-facing numeric index for the level.
// The governance catalog stores classification levels on a 0-based scale
// offset by one from the ordinal (Public is 0, Très secret is 4); this
// convention is preserved so catalog records remain comparable with those
// written by earlier tooling.
func (l Level) DisplayIndex() int {
	return int(Clamp(int(l))) - 1
}

// Format renders the level in the catalog display convention, for example
// "Confidentiel (2)" for LevelConfidentiel.
func (l Level) Format() string {
	return fmt.Sprintf("%s (%d)", l.Label(), l.DisplayIndex())
}

func (l Level) String() string {
	return l.Format()
}
