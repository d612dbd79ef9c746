package game

import (
	"fmt"
	"time"

	"snake-arena/game/types"
)

// Status is the session lifecycle state.
type Status int

const (
	NotStarted Status = iota
	Running
	Paused
	GameOver
)

func (s Status) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	case GameOver:
		return "GAME_OVER"
	default:
		return "NOT_STARTED"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{NotStarted, Running, Paused, GameOver} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

type EventKind int

const (
	EventFrame EventKind = iota
	EventScore
	EventFoodEaten
	EventBotEliminated
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventScore:
		return "score"
	case EventFoodEaten:
		return "food_eaten"
	case EventBotEliminated:
		return "bot_eliminated"
	case EventGameOver:
		return "game_over"
	default:
		return "frame"
	}
}

// Result is the outcome carried by EventGameOver.
type Result struct {
	Score     int    `json:"score"`
	HighScore int    `json:"high_score"`
	Level     int    `json:"level"`
	Cause     string `json:"cause"`
}

// Event is delivered to the session listener outside the session lock.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Food     types.FoodType // EventFoodEaten only
	Result   Result         // EventGameOver only
}

// Snapshot is a self-contained copy of everything a frontend draws.
type Snapshot struct {
	ID         string           `json:"id"`
	Status     Status           `json:"status"`
	Started    bool             `json:"started"`
	Paused     bool             `json:"paused"`
	Score      int              `json:"score"`
	Level      int              `json:"level"`
	HighScore  int              `json:"high_score"`
	BotScore   int              `json:"bot_score"`
	BotMode    bool             `json:"bot_mode"`
	Speed      time.Duration    `json:"speed"`
	Boosted    bool             `json:"boosted"`
	Difficulty types.Difficulty `json:"difficulty"`
	Player     []types.Point    `json:"player"`
	Bot        []types.Point    `json:"bot"`
	Direction  types.Direction  `json:"direction"`
	Foods      []types.Food     `json:"foods"`
	Grid       types.Grid       `json:"grid"`
}

// Listener receives session events. It may call back into the session.
type Listener func(Event)
