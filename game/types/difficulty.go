package types

import (
	"strings"
	"time"
)

// Difficulty is one of the three fixed presets.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// BaseInterval is the logic tick period for the preset.
func (d Difficulty) BaseInterval() time.Duration {
	switch d {
	case Medium:
		return 100 * time.Millisecond
	case Hard:
		return 60 * time.Millisecond
	default:
		return 150 * time.Millisecond
	}
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}
