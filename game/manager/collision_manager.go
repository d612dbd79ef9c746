package manager

import (
	"snake-arena/game/entity"
	"snake-arena/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
	SnakeCollision
)

func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	case SnakeCollision:
		return "snake"
	default:
		return "none"
	}
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// isWallCollision checks if a position collides with walls
func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.InBounds(pos)
}

// CheckMove judges a step of snake to newHead. grows tells whether the tail
// stays this tick; others are checked against their current bodies.
func (cm *CollisionManager) CheckMove(snake *entity.Snake, newHead types.Point, grows bool, others ...*entity.Snake) CollisionType {
	if cm.isWallCollision(newHead) {
		return WallCollision
	}

	if types.Contains(snake.BodyAfterMove(grows), newHead) {
		return SelfCollision
	}

	for _, other := range others {
		if other == nil || other == snake || !other.Alive() {
			continue
		}
		if other.Collides(newHead) {
			return SnakeCollision
		}
	}

	return NoCollision
}

// IsSafe is the one-step lookahead used for planning: in bounds and off every
// listed body as it stands now.
func (cm *CollisionManager) IsSafe(pos types.Point, bodies ...[]types.Point) bool {
	if cm.isWallCollision(pos) {
		return false
	}
	for _, body := range bodies {
		if types.Contains(body, pos) {
			return false
		}
	}
	return true
}

// ValidateSpawnPosition checks if a position is free for a new item.
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, excluded []types.Point) bool {
	if cm.isWallCollision(pos) {
		return false
	}
	return !types.Contains(excluded, pos)
}
