package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"snake-arena/config"
	"snake-arena/game"
	"snake-arena/game/scheduler"
	"snake-arena/game/types"
	"snake-arena/input"
	"snake-arena/logging"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer = tcell.StyleDefault.Background(tcell.NewRGBColor(74, 155, 106))
	styleHead   = tcell.StyleDefault.Background(tcell.NewRGBColor(96, 201, 138))
	styleBot    = tcell.StyleDefault.Background(tcell.NewRGBColor(33, 150, 243))
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

var foodStyles = map[types.FoodType]tcell.Style{
	types.FoodNormal:     tcell.StyleDefault.Foreground(tcell.ColorRed),
	types.FoodSpeedUp:    tcell.StyleDefault.Foreground(tcell.ColorYellow),
	types.FoodMultiplier: tcell.StyleDefault.Foreground(tcell.ColorPurple),
	types.FoodMagnet:     tcell.StyleDefault.Foreground(tcell.ColorAqua),
}

// Tone per food type, in Hz.
var foodTones = map[types.FoodType]int{
	types.FoodNormal:     660,
	types.FoodSpeedUp:    990,
	types.FoodMultiplier: 1320,
	types.FoodMagnet:     520,
}

var arrowKeys = map[tcell.Key]input.Action{
	tcell.KeyUp:    input.ActionUp,
	tcell.KeyDown:  input.ActionDown,
	tcell.KeyLeft:  input.ActionLeft,
	tcell.KeyRight: input.ActionRight,
}

type App struct {
	screen    tcell.Screen
	session   *game.Session
	frames    chan game.Snapshot
	audioInit bool
}

func NewApp(cfg config.Config, sched scheduler.Scheduler) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	a := &App{
		screen: screen,
		frames: make(chan game.Snapshot, 1),
	}
	if err := a.initAudio(); err != nil {
		// Non-fatal, the game runs without sound
		log.Printf("Audio initialization failed: %v", err)
	}

	a.session = game.NewSession(cfg.Options(), sched, a.onEvent)
	return a, nil
}

func (a *App) initAudio() error {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		a.audioInit = true
	}
	return err
}

func (a *App) playTone(freq int, d time.Duration) {
	if !a.audioInit {
		return
	}
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		log.Printf("tone %d Hz: %v", freq, err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// onEvent runs on the scheduler goroutine. Only the latest snapshot is kept.
func (a *App) onEvent(e game.Event) {
	switch e.Kind {
	case game.EventFoodEaten:
		a.playTone(foodTones[e.Food], 50*time.Millisecond)
	case game.EventBotEliminated:
		a.playTone(330, 80*time.Millisecond)
	case game.EventGameOver:
		a.playTone(220, 300*time.Millisecond)
	}
	offer(a.frames, e.Snapshot)
}

func offer(ch chan game.Snapshot, snap game.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func (a *App) run() {
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	a.draw(a.session.Snapshot())
	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
			a.draw(a.session.Snapshot())
		case snap := <-a.frames:
			a.draw(snap)
		}
	}
}

func (a *App) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if action, ok := arrowKeys[ev.Key()]; ok {
			input.Dispatch(a.session, action)
			return true
		}
		if ev.Key() == tcell.KeyRune {
			action := input.ActionForRune(ev.Rune())
			if action == input.ActionQuit {
				return false
			}
			input.Dispatch(a.session, action)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) draw(snap game.Snapshot) {
	a.screen.Clear()
	grid := snap.Grid

	// Two columns per cell keeps the board roughly square.
	w, h := grid.Width*2, grid.Height
	for x := 0; x < w+2; x++ {
		a.screen.SetContent(x, 0, '─', nil, styleBorder)
		a.screen.SetContent(x, h+1, '─', nil, styleBorder)
	}
	for y := 0; y < h+2; y++ {
		a.screen.SetContent(0, y, '│', nil, styleBorder)
		a.screen.SetContent(w+1, y, '│', nil, styleBorder)
	}

	for _, food := range snap.Foods {
		a.cell(grid, food.Pos, '●', foodStyles[food.Type])
	}
	if snap.BotMode {
		for _, p := range snap.Bot {
			a.cell(grid, p, ' ', styleBot)
		}
	}
	for i, p := range snap.Player {
		style := stylePlayer
		if i == 0 {
			style = styleHead
		}
		a.cell(grid, p, ' ', style)
	}

	col := w + 4
	lines := []string{
		fmt.Sprintf("Score:      %d", snap.Score),
		fmt.Sprintf("Level:      %d", snap.Level),
		fmt.Sprintf("High score: %d", snap.HighScore),
		fmt.Sprintf("Difficulty: %s", snap.Difficulty),
		fmt.Sprintf("Speed:      %v", snap.Speed),
	}
	if snap.BotMode {
		lines = append(lines, fmt.Sprintf("Bot:        %d", snap.BotScore))
	}
	if snap.Boosted {
		lines = append(lines, "BOOST")
	}
	lines = append(lines, "", snap.Status.String())
	for i, line := range lines {
		a.text(col, 1+i, line, styleText)
	}

	help := []string{"arrows/wasd steer", "space start/pause", "r reset  b bot", "1-3 difficulty", "q quit"}
	for i, line := range help {
		a.text(col, h-len(help)+1+i, line, styleDim)
	}

	a.screen.Show()
}

func (a *App) cell(grid types.Grid, p types.Point, r rune, style tcell.Style) {
	x := 1 + p.X/grid.CellSize*2
	y := 1 + p.Y/grid.CellSize
	a.screen.SetContent(x, y, r, nil, style)
	a.screen.SetContent(x+1, y, ' ', nil, style)
}

func (a *App) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (a *App) cleanup() {
	a.session.Close()
	if a.audioInit {
		speaker.Close()
	}
	a.screen.Fini()
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	variant := flag.String("variant", "", "Board preset when no config file is given (arena or classic)")
	debug := flag.Bool("debug", false, "Write logs to the log directory")
	logDir := flag.String("logdir", "logs", "Log directory used with -debug")
	flag.Parse()

	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Preset(*variant)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "snake-tui:", err)
		os.Exit(1)
	}

	// Log lines would corrupt the screen, so they only ever go to a file.
	logFile, err := logging.Setup(*debug || cfg.Debug, *logDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "snake-tui:", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	loop := scheduler.NewLoop()
	defer loop.Stop()

	app, err := NewApp(cfg, loop)
	if err != nil {
		fmt.Fprintln(os.Stderr, "snake-tui:", err)
		os.Exit(1)
	}
	defer app.cleanup()

	app.run()
}
