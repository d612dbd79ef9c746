package entity

import (
	"snake-arena/game/types"
)

type Owner int

const (
	Player Owner = iota
	Bot
)

func (o Owner) String() string {
	if o == Bot {
		return "bot"
	}
	return "player"
}

type Color struct {
	R, G, B uint8
}

// Snake is an ordered body with the head at index 0.
type Snake struct {
	Body      []types.Point
	Direction types.Direction
	LastMove  types.Direction // heading of the last committed step
	Owner     Owner
	Color     Color
}

func NewSnake(startPos types.Point, owner Owner, color Color) *Snake {
	return &Snake{
		Body:      []types.Point{startPos},
		Direction: types.NONE,
		LastMove:  types.NONE,
		Owner:     owner,
		Color:     color,
	}
}

func (s *Snake) Alive() bool {
	return len(s.Body) > 0
}

func (s *Snake) Len() int {
	return len(s.Body)
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

// NextHead is the head position after one step in the current direction.
func (s *Snake) NextHead(grid types.Grid) types.Point {
	return grid.Advance(s.GetHead(), s.Direction)
}

// Collides reports whether pos matches any segment.
func (s *Snake) Collides(pos types.Point) bool {
	return types.Contains(s.Body, pos)
}

// BodyAfterMove is the part of the current body that survives this tick's step:
// everything when growing, everything but the tail otherwise.
func (s *Snake) BodyAfterMove(grows bool) []types.Point {
	if grows || len(s.Body) == 0 {
		return s.Body
	}
	return s.Body[:len(s.Body)-1]
}

// Grow prepends the head and keeps the tail.
func (s *Snake) Grow(newHead types.Point) {
	s.Body = append([]types.Point{newHead}, s.Body...)
	s.LastMove = s.Direction
}

// MoveOneStep prepends the head and pops the tail.
func (s *Snake) MoveOneStep(newHead types.Point) {
	s.Grow(newHead)
	s.RemoveTail()
}

func (s *Snake) RemoveTail() {
	if len(s.Body) > 0 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// Steer changes heading unless dir reverses the current heading or the last
// committed step.
func (s *Snake) Steer(dir types.Direction) bool {
	if dir == types.NONE {
		return false
	}
	if dir.Reverses(s.Direction) || dir.Reverses(s.LastMove) {
		return false
	}
	if s.Direction == dir {
		return false
	}
	s.Direction = dir
	return true
}

// Clear empties the body and forgets the heading.
func (s *Snake) Clear() {
	s.Body = nil
	s.Direction = types.NONE
	s.LastMove = types.NONE
}

// Segments returns a copy of the body safe to hand to other goroutines.
func (s *Snake) Segments() []types.Point {
	body := make([]types.Point, len(s.Body))
	copy(body, s.Body)
	return body
}
