// Package game runs one snake session: the state machine, the per-tick update
// and the timers that drive them.
package game

import (
	"log"
	"sync"
	"time"

	"snake-arena/game/manager"
	"snake-arena/game/scheduler"
	"snake-arena/game/types"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

const (
	DefaultFoodInterval  = 1200 * time.Millisecond
	DefaultBoostDuration = 5 * time.Second
	DefaultFrameInterval = 16 * time.Millisecond
)

// Options configure a session. Zero durations fall back to the defaults.
type Options struct {
	Grid          types.Grid
	Difficulty    types.Difficulty
	BotMode       bool
	TypedFood     bool
	FoodInterval  time.Duration
	BoostDuration time.Duration
	FrameInterval time.Duration
	Seed          uint64 // 0 seeds from the clock
}

// DefaultOptions is the arena variant: 30x30, typed food, easy, no bot.
func DefaultOptions() Options {
	return Options{
		Grid:          types.NewGrid(types.ArenaCells, types.ArenaCells, types.CellSize),
		Difficulty:    types.Easy,
		TypedFood:     true,
		FoodInterval:  DefaultFoodInterval,
		BoostDuration: DefaultBoostDuration,
		FrameInterval: DefaultFrameInterval,
	}
}

func (o *Options) withDefaults() {
	if o.FoodInterval <= 0 {
		o.FoodInterval = DefaultFoodInterval
	}
	if o.BoostDuration <= 0 {
		o.BoostDuration = DefaultBoostDuration
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
}

// Session owns every piece of game state. Commands and timer callbacks are
// serialized by mu; events are handed to the listener after it is released.
type Session struct {
	ID string

	mu       sync.Mutex
	opts     Options
	grid     types.Grid
	sched    scheduler.Scheduler
	listener Listener
	pending  []Event

	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	stateMgr     *manager.StateManager
	population   *manager.PopulationManager

	status  Status
	botMode bool
	closed  bool

	logicTimer  scheduler.Handle
	churnTimer  scheduler.Handle
	revertTimer scheduler.Handle
	frameTimer  scheduler.Handle
	logicGen    uint64
	revertGen   uint64
}

// NewSession builds a session in NOT_STARTED with an initial food batch and
// the redraw timer running. listener may be nil.
func NewSession(opts Options, sched scheduler.Scheduler, listener Listener) *Session {
	opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Session{
		ID:       uuid.New().String(),
		opts:     opts,
		grid:     opts.Grid,
		sched:    sched,
		listener: listener,
		botMode:  opts.BotMode,
	}
	s.collisionMgr = manager.NewCollisionManager(s.grid)
	s.foodMgr = manager.NewFoodManager(s.grid, s.collisionMgr, rng, opts.TypedFood)
	s.stateMgr = manager.NewStateManager(opts.Difficulty)
	s.population = manager.NewPopulationManager(s.grid)

	s.mu.Lock()
	s.resetLocked()
	events := s.drain()
	s.mu.Unlock()
	s.deliver(events)

	log.Printf("[%s] session created: %dx%d, difficulty %s, bot %v", s.ID, s.grid.Width, s.grid.Height, s.stateMgr.Difficulty(), s.botMode)
	return s
}

// Start moves NOT_STARTED to RUNNING. A snake at rest starts heading right.
func (s *Session) Start() bool {
	return s.command(func() bool { return s.startLocked() })
}

// TogglePause flips between RUNNING and PAUSED.
func (s *Session) TogglePause() bool {
	return s.command(func() bool {
		switch s.status {
		case Running:
			s.status = Paused
			s.stopFrames()
		case Paused:
			s.status = Running
			s.startFrames()
		default:
			return false
		}
		log.Printf("[%s] %s", s.ID, s.status)
		s.emitScore()
		return true
	})
}

// Reset returns to NOT_STARTED with fresh snakes and food. The high score survives.
func (s *Session) Reset() {
	s.command(func() bool {
		s.resetLocked()
		return true
	})
}

// Restart is Reset issued from the game-over screen.
func (s *Session) Restart() {
	s.Reset()
}

// Steer changes the player's heading. A not-started game starts on the first
// steer; steering is ignored while paused or over.
func (s *Session) Steer(dir types.Direction) bool {
	return s.command(func() bool {
		switch s.status {
		case NotStarted:
			s.population.Player().Steer(dir)
			return s.startLocked()
		case Running:
			return s.population.Player().Steer(dir)
		default:
			return false
		}
	})
}

// SetDifficulty records a new preset. A game in progress is reset with it.
func (s *Session) SetDifficulty(d types.Difficulty) bool {
	return s.command(func() bool {
		if !d.Valid() {
			return false
		}
		s.stateMgr.SetDifficulty(d)
		if s.status == Running || s.status == Paused {
			s.resetLocked()
		} else {
			s.emitScore()
		}
		log.Printf("[%s] difficulty %s", s.ID, d)
		return true
	})
}

// SetBotMode turns the bot on or off. An eliminated bot only returns on reset.
func (s *Session) SetBotMode(on bool) bool {
	return s.command(func() bool {
		if s.botMode == on {
			return false
		}
		s.setBotModeLocked(on)
		return true
	})
}

func (s *Session) ToggleBotMode() bool {
	return s.command(func() bool {
		s.setBotModeLocked(!s.botMode)
		return true
	})
}

func (s *Session) setBotModeLocked(on bool) {
	s.botMode = on
	player := s.population.Player()
	if on && s.status == Running && player.Direction == types.NONE {
		player.Direction = types.RIGHT
	}
	log.Printf("[%s] bot mode %v", s.ID, on)
	s.emitScore()
}

// Close cancels every timer. The session ignores commands afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelTimers()
	s.stopFrames()
	s.closed = true
	log.Printf("[%s] session closed", s.ID)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Grid() types.Grid {
	return s.grid
}

func (s *Session) command(fn func() bool) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	ok := fn()
	events := s.drain()
	s.mu.Unlock()

	s.deliver(events)
	return ok
}

func (s *Session) startLocked() bool {
	if s.status != NotStarted {
		return false
	}
	player := s.population.Player()
	if player.Direction == types.NONE {
		player.Direction = types.RIGHT
	}

	s.status = Running
	s.stateMgr.Unboost()
	s.cancelTimers()
	s.scheduleLogic()
	s.churnTimer = s.sched.Every(s.opts.FoodInterval, s.onChurn)
	s.startFrames()

	log.Printf("[%s] started at %v per tick", s.ID, s.stateMgr.Speed())
	s.emitScore()
	return true
}

func (s *Session) resetLocked() {
	s.cancelTimers()
	s.stopFrames()

	s.stateMgr.ResetRound()
	s.population.InitializePopulation()
	s.foodMgr.SpawnBatch(s.population.Occupied(), s.foodMgr.RandomTargetCount())
	s.status = NotStarted

	s.startFrames()
	s.emitScore()
}

func (s *Session) scheduleLogic() {
	s.sched.Cancel(s.logicTimer)
	s.logicGen++
	gen := s.logicGen
	s.logicTimer = s.sched.Every(s.stateMgr.Speed(), func() { s.onLogic(gen) })
}

func (s *Session) cancelTimers() {
	s.sched.Cancel(s.logicTimer)
	s.sched.Cancel(s.churnTimer)
	s.sched.Cancel(s.revertTimer)
	s.logicTimer, s.churnTimer, s.revertTimer = 0, 0, 0
	s.logicGen++
	s.revertGen++
}

func (s *Session) startFrames() {
	if s.frameTimer == 0 {
		s.frameTimer = s.sched.Every(s.opts.FrameInterval, s.onFrame)
	}
}

func (s *Session) stopFrames() {
	s.sched.Cancel(s.frameTimer)
	s.frameTimer = 0
}

func (s *Session) onLogic(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.logicGen || s.status != Running {
		s.mu.Unlock()
		return
	}
	s.update()
	events := s.drain()
	s.mu.Unlock()

	s.deliver(events)
}

func (s *Session) onChurn() {
	s.mu.Lock()
	if s.closed || s.status != Running {
		s.mu.Unlock()
		return
	}
	s.foodMgr.Churn(s.population.Occupied(), true)
	s.mu.Unlock()
}

func (s *Session) onFrame() {
	s.mu.Lock()
	if s.closed || (s.status != NotStarted && s.status != Running) {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, Event{Kind: EventFrame, Snapshot: s.snapshotLocked()})
	events := s.drain()
	s.mu.Unlock()

	s.deliver(events)
}

func (s *Session) emitScore() {
	s.pending = append(s.pending, Event{Kind: EventScore, Snapshot: s.snapshotLocked()})
}

func (s *Session) drain() []Event {
	events := s.pending
	s.pending = nil
	return events
}

func (s *Session) deliver(events []Event) {
	if s.listener == nil {
		return
	}
	for _, e := range events {
		s.listener(e)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	player := s.population.Player()
	return Snapshot{
		ID:         s.ID,
		Status:     s.status,
		Started:    s.status == Running || s.status == Paused,
		Paused:     s.status == Paused,
		Score:      s.stateMgr.Score(),
		Level:      s.stateMgr.Level(),
		HighScore:  s.stateMgr.GetHighScore(),
		BotScore:   s.stateMgr.BotScore(),
		BotMode:    s.botMode,
		Speed:      s.stateMgr.Speed(),
		Boosted:    s.stateMgr.Boosted(),
		Difficulty: s.stateMgr.Difficulty(),
		Player:     player.Segments(),
		Bot:        s.population.Bot().Segments(),
		Direction:  player.Direction,
		Foods:      s.foodMgr.GetFoodList(),
		Grid:       s.grid,
	}
}
