package manager

import (
	"math"

	"snake-arena/game/types"

	"golang.org/x/exp/rand"
)

// ChurnSpawnChance is the probability that a food-timer tick adds one item.
const ChurnSpawnChance = 0.5

type FoodManager struct {
	grid         types.Grid
	foodList     []types.Food
	capacity     int
	typed        bool
	rng          *rand.Rand
	collisionMgr *CollisionManager
}

// NewFoodManager builds an empty manager. With typed false every item is NORMAL.
func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, rng *rand.Rand, typed bool) *FoodManager {
	return &FoodManager{
		grid:         grid,
		foodList:     make([]types.Food, 0, types.MaxFood),
		capacity:     types.MaxFood,
		typed:        typed,
		rng:          rng,
		collisionMgr: collisionMgr,
	}
}

// RandomTargetCount draws an initial population size in [0, capacity].
func (fm *FoodManager) RandomTargetCount() int {
	return fm.rng.Intn(fm.capacity + 1)
}

// SpawnBatch replaces the collection with up to targetCount items placed off
// excluded cells. It gives up after BatchAttempts draws and returns how many
// items were placed.
func (fm *FoodManager) SpawnBatch(excluded []types.Point, targetCount int) int {
	fm.foodList = fm.foodList[:0]
	if targetCount > fm.capacity {
		targetCount = fm.capacity
	}

	for attempts := 0; len(fm.foodList) < targetCount && attempts < types.BatchAttempts; attempts++ {
		fm.tryPlace(excluded)
	}
	return len(fm.foodList)
}

// SpawnOne adds a single item when the game is active and below capacity.
func (fm *FoodManager) SpawnOne(excluded []types.Point, active bool) bool {
	if len(fm.foodList) >= fm.capacity || !active {
		return false
	}

	for attempts := 0; attempts < types.SingleAttempts; attempts++ {
		if fm.tryPlace(excluded) {
			return true
		}
	}
	return false
}

// Churn is the food-timer policy: add one item half the time, never remove.
func (fm *FoodManager) Churn(excluded []types.Point, active bool) bool {
	if !active {
		return false
	}
	if fm.rng.Float64() < ChurnSpawnChance && len(fm.foodList) < fm.capacity {
		return fm.SpawnOne(excluded, active)
	}
	return false
}

func (fm *FoodManager) tryPlace(excluded []types.Point) bool {
	pos := fm.grid.RandomCell(fm.rng)
	if !fm.collisionMgr.ValidateSpawnPosition(pos, excluded) {
		return false
	}
	if _, taken := fm.FoodAt(pos); taken {
		return false
	}
	return fm.Add(types.Food{Pos: pos, Type: fm.drawType()})
}

func (fm *FoodManager) drawType() types.FoodType {
	u := fm.rng.Float64()
	if !fm.typed {
		return types.FoodNormal
	}
	return types.FoodTypeFor(u)
}

// Add inserts an item unless the board is full, the cell is off the board or
// already holds food.
func (fm *FoodManager) Add(food types.Food) bool {
	if len(fm.foodList) >= fm.capacity || !fm.grid.InBounds(food.Pos) {
		return false
	}
	if _, taken := fm.FoodAt(food.Pos); taken {
		return false
	}
	fm.foodList = append(fm.foodList, food)
	return true
}

// FoodAt returns the index of the item on pos.
func (fm *FoodManager) FoodAt(pos types.Point) (int, bool) {
	for i, f := range fm.foodList {
		if f.Pos == pos {
			return i, true
		}
	}
	return -1, false
}

// RemoveAt drops the item at index and returns it. Out of range is a no-op.
func (fm *FoodManager) RemoveAt(index int) (types.Food, bool) {
	if index < 0 || index >= len(fm.foodList) {
		return types.Food{}, false
	}
	food := fm.foodList[index]
	fm.foodList = append(fm.foodList[:index], fm.foodList[index+1:]...)
	return food, true
}

// PullToward moves every item within radius of center (and not on it) one cell
// closer along its dominant axis. Moves that would leave the board, land on a
// blocker or on another item are skipped.
func (fm *FoodManager) PullToward(center types.Point, radius int, blockers []types.Point) int {
	moved := 0
	for i := range fm.foodList {
		food := &fm.foodList[i]
		dx := food.Pos.X - center.X
		dy := food.Pos.Y - center.Y
		distance := math.Hypot(float64(dx), float64(dy))
		if distance == 0 || distance > float64(radius) {
			continue
		}

		dest := food.Pos
		if abs(dx) > abs(dy) {
			dest.X -= sign(dx) * fm.grid.CellSize
		} else {
			dest.Y -= sign(dy) * fm.grid.CellSize
		}

		if !fm.grid.InBounds(dest) || types.Contains(blockers, dest) {
			continue
		}
		if _, taken := fm.FoodAt(dest); taken {
			continue
		}
		food.Pos = dest
		moved++
	}
	return moved
}

func (fm *FoodManager) GetFoodList() []types.Food {
	foods := make([]types.Food, len(fm.foodList))
	copy(foods, fm.foodList)
	return foods
}

func (fm *FoodManager) Len() int {
	return len(fm.foodList)
}

func (fm *FoodManager) Clear() {
	fm.foodList = fm.foodList[:0]
}

func sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
