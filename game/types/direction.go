package types

import (
	"fmt"
	"strings"
)

// Direction is a cardinal heading. NONE means the snake has not moved yet.
type Direction int

const (
	NONE Direction = iota
	UP
	RIGHT
	DOWN
	LEFT
)

// Delta returns the unit vector for d in cell coordinates.
func (d Direction) Delta() Point {
	switch d {
	case UP:
		return Point{X: 0, Y: -1}
	case RIGHT:
		return Point{X: 1, Y: 0}
	case DOWN:
		return Point{X: 0, Y: 1}
	case LEFT:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 0, Y: 0}
	}
}

// Opposite returns the reverse heading. NONE has no reverse.
func (d Direction) Opposite() Direction {
	switch d {
	case UP:
		return DOWN
	case RIGHT:
		return LEFT
	case DOWN:
		return UP
	case LEFT:
		return RIGHT
	default:
		return NONE
	}
}

// Reverses reports whether d is the exact reverse of other.
func (d Direction) Reverses(other Direction) bool {
	return d != NONE && other != NONE && d == other.Opposite()
}

func (d Direction) String() string {
	switch d {
	case UP:
		return "UP"
	case RIGHT:
		return "RIGHT"
	case DOWN:
		return "DOWN"
	case LEFT:
		return "LEFT"
	default:
		return "NONE"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	if strings.EqualFold(string(text), "NONE") {
		*d = NONE
		return nil
	}
	dir, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("unknown direction %q", text)
	}
	*d = dir
	return nil
}

// ParseDirection accepts "up", "DOWN", "Left"... and reports false for anything else.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return UP, true
	case "RIGHT":
		return RIGHT, true
	case "DOWN":
		return DOWN, true
	case "LEFT":
		return LEFT, true
	}
	return NONE, false
}
