package manager

import (
	"time"

	"snake-arena/game/types"
)

// BoostFactor scales the base interval while a speed boost is active.
const BoostFactor = 0.5

// StateManager keeps score, level, the session high score and tick speed.
// The high score lives only as long as the process.
type StateManager struct {
	score      int
	level      int
	botScore   int
	highScore  int
	difficulty types.Difficulty
	baseSpeed  time.Duration
	speed      time.Duration
}

func NewStateManager(difficulty types.Difficulty) *StateManager {
	sm := &StateManager{}
	sm.SetDifficulty(difficulty)
	sm.ResetRound()
	return sm
}

// ResetRound clears per-run counters. The high score survives.
func (sm *StateManager) ResetRound() {
	sm.score = 0
	sm.botScore = 0
	sm.level = levelFor(0)
	sm.speed = sm.baseSpeed
}

func levelFor(score int) int {
	return score/types.PointsPerLevel + 1
}

// AddScore applies points, recomputes the level and raises the high score.
func (sm *StateManager) AddScore(points int) {
	sm.score += points
	sm.level = levelFor(sm.score)
	sm.UpdateScore(sm.score)
}

func (sm *StateManager) UpdateScore(score int) {
	if score > sm.highScore {
		sm.highScore = score
	}
}

func (sm *StateManager) AddBotScore(points int) {
	sm.botScore += points
}

func (sm *StateManager) ResetBotScore() {
	sm.botScore = 0
}

func (sm *StateManager) SetDifficulty(d types.Difficulty) {
	if !d.Valid() {
		d = types.Easy
	}
	sm.difficulty = d
	sm.baseSpeed = d.BaseInterval()
	sm.speed = sm.baseSpeed
}

// Boost halves the tick interval and returns the new value.
func (sm *StateManager) Boost() time.Duration {
	ms := int64(float64(sm.baseSpeed.Milliseconds()) * BoostFactor)
	sm.speed = time.Duration(ms) * time.Millisecond
	return sm.speed
}

// Unboost restores the difficulty interval.
func (sm *StateManager) Unboost() time.Duration {
	sm.speed = sm.baseSpeed
	return sm.speed
}

func (sm *StateManager) Score() int                   { return sm.score }
func (sm *StateManager) Level() int                   { return sm.level }
func (sm *StateManager) BotScore() int                { return sm.botScore }
func (sm *StateManager) GetHighScore() int            { return sm.highScore }
func (sm *StateManager) Difficulty() types.Difficulty { return sm.difficulty }
func (sm *StateManager) Speed() time.Duration         { return sm.speed }
func (sm *StateManager) Boosted() bool                { return sm.speed != sm.baseSpeed }
