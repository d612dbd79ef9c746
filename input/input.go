// Package input maps keys and wire actions to session commands.
package input

import (
	"strings"

	"snake-arena/game"
	"snake-arena/game/types"

	"github.com/pkg/errors"
)

type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionStart
	ActionPause
	ActionStartOrPause // space bar: start a fresh game, otherwise pause
	ActionReset
	ActionRestart
	ActionBot
	ActionEasy
	ActionMedium
	ActionHard
	ActionQuit
)

var actionNames = map[string]Action{
	"up":      ActionUp,
	"down":    ActionDown,
	"left":    ActionLeft,
	"right":   ActionRight,
	"start":   ActionStart,
	"pause":   ActionPause,
	"space":   ActionStartOrPause,
	"reset":   ActionReset,
	"restart": ActionRestart,
	"bot":     ActionBot,
	"easy":    ActionEasy,
	"medium":  ActionMedium,
	"hard":    ActionHard,
	"quit":    ActionQuit,
}

func (a Action) String() string {
	for name, action := range actionNames {
		if action == a {
			return name
		}
	}
	return "none"
}

// ParseAction reads a wire action such as "up" or "restart".
func ParseAction(s string) (Action, error) {
	if a, ok := actionNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return ActionNone, errors.Errorf("unknown action %q", s)
}

// ActionForRune maps the keyboard layout shared by every frontend: WASD to
// steer, space to start or pause, r reset, b bot, 1-3 difficulty, q quit.
func ActionForRune(r rune) Action {
	switch r {
	case 'w', 'W':
		return ActionUp
	case 's', 'S':
		return ActionDown
	case 'a', 'A':
		return ActionLeft
	case 'd', 'D':
		return ActionRight
	case ' ':
		return ActionStartOrPause
	case 'p', 'P':
		return ActionPause
	case 'r', 'R':
		return ActionReset
	case 'b', 'B':
		return ActionBot
	case '1':
		return ActionEasy
	case '2':
		return ActionMedium
	case '3':
		return ActionHard
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// Direction returns the heading for a steering action.
func (a Action) Direction() (types.Direction, bool) {
	switch a {
	case ActionUp:
		return types.UP, true
	case ActionDown:
		return types.DOWN, true
	case ActionLeft:
		return types.LEFT, true
	case ActionRight:
		return types.RIGHT, true
	}
	return types.NONE, false
}

// Controller is the command surface of a session.
type Controller interface {
	Start() bool
	TogglePause() bool
	Reset()
	Restart()
	Steer(types.Direction) bool
	SetDifficulty(types.Difficulty) bool
	ToggleBotMode() bool
	Status() game.Status
}

// Dispatch applies a to c and reports whether anything changed. Quit and
// None are left to the caller.
func Dispatch(c Controller, a Action) bool {
	if dir, ok := a.Direction(); ok {
		return c.Steer(dir)
	}

	switch a {
	case ActionStart:
		return c.Start()
	case ActionPause:
		return c.TogglePause()
	case ActionStartOrPause:
		if c.Status() == game.NotStarted {
			return c.Start()
		}
		return c.TogglePause()
	case ActionReset:
		c.Reset()
		return true
	case ActionRestart:
		c.Restart()
		return true
	case ActionBot:
		return c.ToggleBotMode()
	case ActionEasy:
		return c.SetDifficulty(types.Easy)
	case ActionMedium:
		return c.SetDifficulty(types.Medium)
	case ActionHard:
		return c.SetDifficulty(types.Hard)
	}
	return false
}
