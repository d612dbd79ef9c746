package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"snake-arena/config"
	"snake-arena/game"
	"snake-arena/game/scheduler"
	"snake-arena/input"
	"snake-arena/logging"
	"snake-arena/ui"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// arrowAction maps an arrow key to its action.
func arrowAction(key int32) (input.Action, bool) {
	switch key {
	case rl.KeyUp:
		return input.ActionUp, true
	case rl.KeyDown:
		return input.ActionDown, true
	case rl.KeyLeft:
		return input.ActionLeft, true
	case rl.KeyRight:
		return input.ActionRight, true
	}
	return input.ActionNone, false
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	variant := flag.String("variant", "", "Board preset when no config file is given (arena or classic)")
	debug := flag.Bool("debug", false, "Write logs to the log directory")
	logDir := flag.String("logdir", "logs", "Log directory used with -debug")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *variant)
	if err != nil {
		fmt.Fprintln(os.Stderr, "snake:", err)
		os.Exit(1)
	}

	logFile, err := logging.Setup(*debug || cfg.Debug, *logDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "snake:", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	rl.InitWindow(1000, 720, "Snake Arena")
	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetExitKey(0)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)

	renderer := ui.NewRenderer()
	loop := scheduler.NewLoop()
	defer loop.Stop()

	session := game.NewSession(cfg.Options(), loop, func(e game.Event) {
		if e.Kind == game.EventGameOver {
			renderer.RecordResult(e.Result.Score)
		}
	})
	defer session.Close()
	log.Printf("desktop frontend on session %s", session.ID)

	for !rl.WindowShouldClose() {
		if quit := handleKeys(session); quit {
			break
		}

		if rl.IsWindowResized() {
			renderer.UpdateDimensions()
		}

		renderer.Draw(session.Snapshot())
	}
}

func loadConfig(path, variant string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Preset(variant)
}

// handleKeys dispatches this frame's key presses in the order they were made
// and reports a quit request.
func handleKeys(session *game.Session) bool {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if action, ok := arrowAction(key); ok {
			input.Dispatch(session, action)
		}
	}

	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		action := input.ActionForRune(rune(ch))
		if action == input.ActionQuit {
			return true
		}
		input.Dispatch(session, action)
	}
	return false
}
