package types

import (
	"golang.org/x/exp/rand"
)

// Point is a grid-aligned position in world units (multiples of the cell size).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid represents the game grid dimensions
type Grid struct {
	Width    int `json:"width"`     // cells
	Height   int `json:"height"`    // cells
	CellSize int `json:"cell_size"` // world units per cell
}

// Game constants
const (
	CellSize       = 20
	ArenaCells     = 30
	ClassicCells   = 20
	MaxFood        = 12
	BatchAttempts  = 100
	SingleAttempts = 50
	PullCells      = 3
	PullRadius     = PullCells * CellSize
	PointsPerLevel = 5
)

func NewGrid(width, height, cellSize int) Grid {
	return Grid{Width: width, Height: height, CellSize: cellSize}
}

// PixelWidth is the board width in world units.
func (g Grid) PixelWidth() int {
	return g.Width * g.CellSize
}

// PixelHeight is the board height in world units.
func (g Grid) PixelHeight() int {
	return g.Height * g.CellSize
}

// Cell converts cell indices to a world position.
func (g Grid) Cell(cx, cy int) Point {
	return Point{X: cx * g.CellSize, Y: cy * g.CellSize}
}

// PullRadius is the magnet reach in world units for this grid.
func (g Grid) PullRadius() int {
	return PullCells * g.CellSize
}

// InBounds reports whether p lies on the board.
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.PixelWidth() && p.Y >= 0 && p.Y < g.PixelHeight()
}

// Advance shifts p by exactly one cell in direction d.
func (g Grid) Advance(p Point, d Direction) Point {
	delta := d.Delta()
	return Point{X: p.X + delta.X*g.CellSize, Y: p.Y + delta.Y*g.CellSize}
}

// RandomCell draws a uniformly distributed cell.
func (g Grid) RandomCell(rng *rand.Rand) Point {
	return g.Cell(rng.Intn(g.Width), rng.Intn(g.Height))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Manhattan returns |dx| + |dy| between two points.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Contains reports whether p matches any point of body.
func Contains(body []Point, p Point) bool {
	for _, part := range body {
		if part == p {
			return true
		}
	}
	return false
}
