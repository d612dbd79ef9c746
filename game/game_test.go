package game

import (
	"sync"
	"testing"
	"time"

	"snake-arena/game/scheduler"
	"snake-arena/game/types"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) last(kind EventKind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// newTestSession returns a session with an empty board and the player alone
// at head. Churn is pushed out of the way unless a test sets FoodInterval.
func newTestSession(t *testing.T, head types.Point, configure ...func(*Options)) (*Session, *scheduler.Manual, *recorder) {
	t.Helper()

	opts := DefaultOptions()
	opts.Seed = 1
	opts.FoodInterval = time.Hour
	for _, fn := range configure {
		fn(&opts)
	}

	clock := scheduler.NewManual()
	rec := &recorder{}
	s := NewSession(opts, clock, rec.listen)
	s.foodMgr.Clear()
	s.population.Player().Body = []types.Point{head}
	return s, clock, rec
}

func (s *Session) placeFood(food ...types.Food) {
	for _, f := range food {
		s.foodMgr.Add(f)
	}
}

func TestEatNormalFood(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 180, Y: 180})
	s.placeFood(types.Food{Pos: types.Point{X: 200, Y: 180}, Type: types.FoodNormal})

	if !s.Start() {
		t.Fatal("start should succeed")
	}
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Player[0] != (types.Point{X: 200, Y: 180}) {
		t.Errorf("expected head at (200,180), got %v", snap.Player[0])
	}
	if snap.Score != 1 || snap.Level != 1 {
		t.Errorf("expected score 1 level 1, got score %d level %d", snap.Score, snap.Level)
	}
	if len(snap.Player) != 2 {
		t.Errorf("eating should grow the snake to 2, got %d", len(snap.Player))
	}
	if len(snap.Foods) != 0 {
		t.Errorf("eaten food should be gone, %d left", len(snap.Foods))
	}
	if e, ok := rec.last(EventFoodEaten); !ok || e.Food != types.FoodNormal {
		t.Errorf("expected a food eaten event, got %+v", e)
	}
}

func TestLengthUnchangedWithoutFood(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 100, Y: 300})
	s.population.Player().Body = []types.Point{{X: 100, Y: 300}, {X: 80, Y: 300}, {X: 60, Y: 300}}

	s.Start()
	for i := 0; i < 10; i++ {
		clock.Advance(150 * time.Millisecond)
		if n := len(s.Snapshot().Player); n != 3 {
			t.Fatalf("tick %d: expected length 3, got %d", i+1, n)
		}
	}
	if head := s.Snapshot().Player[0]; head != (types.Point{X: 300, Y: 300}) {
		t.Errorf("expected head at (300,300) after 10 ticks, got %v", head)
	}
}

func TestWallEndsGame(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 0, Y: 100})

	if !s.Steer(types.LEFT) {
		t.Fatal("steering a fresh game should start it")
	}
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Status != GameOver {
		t.Fatalf("expected GAME_OVER, got %v", snap.Status)
	}
	if snap.Score != 0 {
		t.Errorf("score should be unchanged, got %d", snap.Score)
	}
	if snap.Player[0] != (types.Point{X: 0, Y: 100}) {
		t.Errorf("fatal move must not be committed, head at %v", snap.Player[0])
	}
	if clock.Pending() != 0 {
		t.Errorf("game over should cancel every timer, %d pending", clock.Pending())
	}
	e, ok := rec.last(EventGameOver)
	if !ok || e.Result.Cause != "wall" {
		t.Errorf("expected a wall game over event, got %+v", e.Result)
	}
}

func TestSelfCollisionEndsGame(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 100, Y: 100})
	// Head at (5,5) heading down into its own body at (5,6).
	s.population.Player().Body = []types.Point{
		{X: 100, Y: 100}, {X: 120, Y: 100}, {X: 120, Y: 120}, {X: 100, Y: 120}, {X: 80, Y: 120},
	}
	s.population.Player().Direction = types.DOWN

	s.Start()
	clock.Advance(150 * time.Millisecond)

	if s.Status() != GameOver {
		t.Errorf("expected GAME_OVER, got %v", s.Status())
	}
}

func TestMultiplierCrossesLevel(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 180, Y: 180})
	s.stateMgr.AddScore(3)
	s.placeFood(types.Food{Pos: types.Point{X: 200, Y: 180}, Type: types.FoodMultiplier})

	s.Start()
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Score != 8 || snap.Level != 2 {
		t.Errorf("expected score 8 level 2, got score %d level %d", snap.Score, snap.Level)
	}
}

func TestSpeedBoostReverts(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 20, Y: 20}, func(o *Options) {
		o.Grid = types.NewGrid(100, 100, types.CellSize)
	})
	s.placeFood(types.Food{Pos: types.Point{X: 40, Y: 20}, Type: types.FoodSpeedUp})

	s.Start()
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Speed != 75*time.Millisecond || !snap.Boosted {
		t.Fatalf("expected a 75ms boost, got %v", snap.Speed)
	}
	if snap.Score != 1 {
		t.Errorf("speed up is worth one point, got %d", snap.Score)
	}

	before := s.Snapshot().Player[0]
	clock.Advance(750 * time.Millisecond)
	if moved := (s.Snapshot().Player[0].X - before.X) / types.CellSize; moved != 10 {
		t.Errorf("expected 10 boosted ticks in 750ms, got %d", moved)
	}

	clock.Advance(5150*time.Millisecond - clock.Now() - time.Millisecond)
	if s.Snapshot().Speed != 75*time.Millisecond {
		t.Error("boost ended early")
	}
	clock.Advance(time.Millisecond)
	snap = s.Snapshot()
	if snap.Speed != 150*time.Millisecond || snap.Boosted {
		t.Errorf("expected speed back at 150ms, got %v", snap.Speed)
	}
	if snap.Status != Running {
		t.Errorf("expected RUNNING, got %v", snap.Status)
	}
}

func TestSpeedBoostRevertsWhilePaused(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 20, Y: 20}, func(o *Options) {
		o.Grid = types.NewGrid(100, 100, types.CellSize)
	})
	s.placeFood(types.Food{Pos: types.Point{X: 40, Y: 20}, Type: types.FoodSpeedUp})

	s.Start()
	clock.Advance(time.Second)
	if !s.TogglePause() {
		t.Fatal("pause should succeed while running")
	}
	head := s.Snapshot().Player[0]

	clock.Advance(5 * time.Second)
	snap := s.Snapshot()
	if snap.Speed != 150*time.Millisecond || snap.Boosted {
		t.Errorf("boost should end while paused, got %v", snap.Speed)
	}
	if snap.Status != Paused || snap.Player[0] != head {
		t.Errorf("revert must not resume the game, got %v head %v", snap.Status, snap.Player[0])
	}

	s.TogglePause()
	clock.Advance(150 * time.Millisecond)
	if moved := (s.Snapshot().Player[0].X - head.X) / types.CellSize; moved != 1 {
		t.Errorf("expected one tick at the base speed after resume, got %d", moved)
	}
}

func TestSecondSpeedUpRestartsBoost(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 20, Y: 20}, func(o *Options) {
		o.Grid = types.NewGrid(100, 100, types.CellSize)
	})
	s.placeFood(
		types.Food{Pos: types.Point{X: 40, Y: 20}, Type: types.FoodSpeedUp},
		types.Food{Pos: types.Point{X: 100, Y: 20}, Type: types.FoodSpeedUp},
	)

	s.Start()
	// First item at 150ms, then boosted ticks reach the second at 375ms.
	clock.Advance(375 * time.Millisecond)
	if snap := s.Snapshot(); snap.Score != 2 || snap.Speed != 75*time.Millisecond {
		t.Fatalf("expected both items eaten at 75ms, got score %d speed %v", snap.Score, snap.Speed)
	}

	clock.Advance(5150*time.Millisecond - clock.Now())
	if !s.Snapshot().Boosted {
		t.Error("the first boost window should have been replaced")
	}
	clock.Advance(5374*time.Millisecond - clock.Now())
	if !s.Snapshot().Boosted {
		t.Error("boost ended before the second window closed")
	}
	clock.Advance(time.Millisecond)
	if snap := s.Snapshot(); snap.Boosted || snap.Speed != 150*time.Millisecond {
		t.Errorf("expected speed back at 150ms at 5375ms, got %v", snap.Speed)
	}
}

func TestMagnetPullsNearbyFood(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 180, Y: 180})
	s.placeFood(
		types.Food{Pos: types.Point{X: 200, Y: 180}, Type: types.FoodMagnet},
		types.Food{Pos: types.Point{X: 260, Y: 180}},
		types.Food{Pos: types.Point{X: 200, Y: 260}},
	)

	s.Start()
	clock.Advance(150 * time.Millisecond)

	foods := s.Snapshot().Foods
	if len(foods) != 2 {
		t.Fatalf("expected 2 items left, got %d", len(foods))
	}
	if foods[0].Pos != (types.Point{X: 240, Y: 180}) {
		t.Errorf("item in reach should move one cell closer, got %v", foods[0].Pos)
	}
	if foods[1].Pos != (types.Point{X: 200, Y: 260}) {
		t.Errorf("item out of reach should stay, got %v", foods[1].Pos)
	}
}

func TestBotEliminatedAtWall(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 300, Y: 300}, func(o *Options) {
		o.BotMode = true
	})
	bot := s.population.Bot()
	bot.Body = []types.Point{{X: 580, Y: 0}}
	bot.Direction = types.UP
	s.stateMgr.AddBotScore(4)

	s.Start()
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if len(snap.Bot) != 0 {
		t.Errorf("bot should be removed, has %d segments", len(snap.Bot))
	}
	if snap.BotScore != 0 {
		t.Errorf("bot score should reset, got %d", snap.BotScore)
	}
	if snap.Status != Running {
		t.Errorf("player keeps playing, got %v", snap.Status)
	}
	if rec.count(EventBotEliminated) != 1 {
		t.Errorf("expected one elimination event, got %d", rec.count(EventBotEliminated))
	}
}

func TestBotEliminatedByPlayerBody(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 200, Y: 200}, func(o *Options) {
		o.BotMode = true
	})
	player := s.population.Player()
	player.Body = []types.Point{{X: 200, Y: 200}, {X: 200, Y: 220}, {X: 200, Y: 240}}
	player.Direction = types.UP
	bot := s.population.Bot()
	bot.Body = []types.Point{{X: 180, Y: 220}}
	bot.Direction = types.RIGHT
	s.stateMgr.AddBotScore(2)

	s.Start()
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if len(snap.Bot) != 0 || snap.BotScore != 0 {
		t.Errorf("bot should be removed with its score reset, got %v score %d", snap.Bot, snap.BotScore)
	}
	if snap.Status != Running {
		t.Errorf("player keeps playing, got %v", snap.Status)
	}
	if snap.Player[0] != (types.Point{X: 200, Y: 180}) {
		t.Errorf("player move should be committed, head at %v", snap.Player[0])
	}
	if rec.count(EventBotEliminated) != 1 {
		t.Errorf("expected one elimination event, got %d", rec.count(EventBotEliminated))
	}
}

func TestBotEliminatedBySelf(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 100, Y: 400}, func(o *Options) {
		o.BotMode = true
	})
	bot := s.population.Bot()
	bot.Body = []types.Point{
		{X: 300, Y: 100}, {X: 320, Y: 100}, {X: 320, Y: 120}, {X: 300, Y: 120}, {X: 280, Y: 120},
	}
	bot.Direction = types.DOWN

	s.Start()
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if len(snap.Bot) != 0 {
		t.Errorf("bot should be removed, got %v", snap.Bot)
	}
	if snap.Status != Running {
		t.Errorf("player keeps playing, got %v", snap.Status)
	}
	if rec.count(EventBotEliminated) != 1 {
		t.Errorf("expected one elimination event, got %d", rec.count(EventBotEliminated))
	}
}

func TestBotEatsFood(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 100, Y: 100}, func(o *Options) {
		o.BotMode = true
	})
	bot := s.population.Bot()
	bot.Body = []types.Point{{X: 400, Y: 300}}
	bot.Direction = types.LEFT
	s.placeFood(types.Food{Pos: types.Point{X: 380, Y: 300}, Type: types.FoodMultiplier})

	s.Start()
	clock.Advance(150 * time.Millisecond)

	snap := s.Snapshot()
	if snap.BotScore != 1 {
		t.Errorf("bot scores a flat point, got %d", snap.BotScore)
	}
	if len(snap.Bot) != 2 || snap.Bot[0] != (types.Point{X: 380, Y: 300}) {
		t.Errorf("bot should grow onto the food cell, got %v", snap.Bot)
	}
	if snap.Score != 0 || snap.Speed != 150*time.Millisecond {
		t.Errorf("bot food has no effect on the player, got score %d speed %v", snap.Score, snap.Speed)
	}
}

func TestPlayerHitsBot(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 180, Y: 180}, func(o *Options) {
		o.BotMode = true
	})
	bot := s.population.Bot()
	bot.Body = []types.Point{{X: 200, Y: 200}, {X: 200, Y: 180}, {X: 200, Y: 160}}
	bot.Direction = types.DOWN

	s.Start()
	clock.Advance(150 * time.Millisecond)

	e, ok := rec.last(EventGameOver)
	if !ok || e.Result.Cause != "snake" {
		t.Errorf("expected a snake collision, got %+v", e.Result)
	}
}

func TestPauseStopsFramesAndTicks(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 100, Y: 100})
	s.Start()
	clock.Advance(150 * time.Millisecond)

	if !s.TogglePause() {
		t.Fatal("pause should succeed while running")
	}
	frames := rec.count(EventFrame)
	head := s.Snapshot().Player[0]
	clock.Advance(time.Second)

	if rec.count(EventFrame) != frames {
		t.Error("frames should stop while paused")
	}
	if s.Snapshot().Player[0] != head {
		t.Error("snake moved while paused")
	}
	if s.Steer(types.DOWN) {
		t.Error("steering is ignored while paused")
	}

	s.TogglePause()
	clock.Advance(150 * time.Millisecond)
	if rec.count(EventFrame) == frames {
		t.Error("frames should resume")
	}
	if s.Snapshot().Player[0] == head {
		t.Error("snake should move after resume")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 100, Y: 100})

	if !s.Start() {
		t.Fatal("first start should succeed")
	}
	pending := clock.Pending()
	if s.Start() {
		t.Error("second start should be a no-op")
	}
	if clock.Pending() != pending {
		t.Errorf("second start scheduled timers: %d -> %d", pending, clock.Pending())
	}
	if s.Snapshot().Direction != types.RIGHT {
		t.Errorf("a snake at rest starts heading right, got %v", s.Snapshot().Direction)
	}
}

func TestSteer(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 100, Y: 100})

	if !s.Steer(types.UP) || s.Status() != Running {
		t.Fatal("steering should start the game")
	}
	if s.Snapshot().Direction != types.UP {
		t.Errorf("expected heading UP, got %v", s.Snapshot().Direction)
	}
	if s.Steer(types.DOWN) {
		t.Error("reversing must be rejected")
	}
	clock.Advance(150 * time.Millisecond)

	if !s.Steer(types.LEFT) {
		t.Error("a side turn should be accepted")
	}
	if s.Steer(types.DOWN) {
		t.Error("turning back into the last step must be rejected")
	}
}

func TestDifficultyChange(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 100, Y: 100})

	if !s.SetDifficulty(types.Medium) {
		t.Fatal("valid difficulty should be accepted")
	}
	if snap := s.Snapshot(); snap.Status != NotStarted || snap.Speed != 100*time.Millisecond {
		t.Errorf("expected NOT_STARTED at 100ms, got %v at %v", snap.Status, snap.Speed)
	}

	s.Start()
	s.stateMgr.AddScore(2)
	clock.Advance(100 * time.Millisecond)
	s.SetDifficulty(types.Hard)

	snap := s.Snapshot()
	if snap.Status != NotStarted || snap.Score != 0 || snap.Speed != 60*time.Millisecond {
		t.Errorf("a running game should reset at 60ms, got %v score %d at %v", snap.Status, snap.Score, snap.Speed)
	}
	if s.SetDifficulty(types.Difficulty("insane")) {
		t.Error("unknown difficulty should be rejected")
	}
}

func TestResetKeepsHighScore(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 180, Y: 180})
	s.placeFood(types.Food{Pos: types.Point{X: 200, Y: 180}, Type: types.FoodMultiplier})
	s.Start()
	clock.Advance(150 * time.Millisecond)

	s.Reset()
	snap := s.Snapshot()
	if snap.Status != NotStarted || snap.Score != 0 {
		t.Errorf("expected a fresh round, got %v score %d", snap.Status, snap.Score)
	}
	if snap.HighScore != 5 {
		t.Errorf("high score should survive reset, got %d", snap.HighScore)
	}
	if len(snap.Foods) > types.MaxFood {
		t.Errorf("reset spawned %d items", len(snap.Foods))
	}
	if len(snap.Player) != 1 || snap.Player[0] != s.population.PlayerStart() {
		t.Errorf("player should be back at the start cell, got %v", snap.Player)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	s, clock, rec := newTestSession(t, types.Point{X: 0, Y: 0})
	s.Steer(types.UP)
	clock.Advance(150 * time.Millisecond)
	if s.Status() != GameOver {
		t.Fatalf("expected GAME_OVER, got %v", s.Status())
	}

	s.Restart()
	if s.Status() != NotStarted {
		t.Errorf("restart waits for input, got %v", s.Status())
	}
	frames := rec.count(EventFrame)
	clock.Advance(100 * time.Millisecond)
	if rec.count(EventFrame) == frames {
		t.Error("frames should run again after restart")
	}
}

func TestBotModeToggle(t *testing.T) {
	s, _, _ := newTestSession(t, types.Point{X: 100, Y: 100})

	if !s.ToggleBotMode() || !s.Snapshot().BotMode {
		t.Fatal("toggle should turn the bot on")
	}
	if s.SetBotMode(true) {
		t.Error("setting the same mode reports no change")
	}
	if !s.ToggleBotMode() || s.Snapshot().BotMode {
		t.Error("toggle should turn the bot off")
	}
}

func TestConcurrentBotModeToggles(t *testing.T) {
	s, _, _ := newTestSession(t, types.Point{X: 100, Y: 100})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleBotMode()
		}()
	}
	wg.Wait()

	if s.Snapshot().BotMode {
		t.Error("an even number of toggles should leave the bot off")
	}
}

func TestFoodAvoidsBotStartWhileBotIsOff(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		opts := DefaultOptions()
		opts.Seed = seed
		s := NewSession(opts, scheduler.NewManual(), nil)
		botStart := s.population.BotStart()

		for round := 0; round < 3; round++ {
			for _, f := range s.Snapshot().Foods {
				if f.Pos == botStart {
					t.Fatalf("seed %d round %d: food spawned on the bot start cell %v", seed, round, botStart)
				}
			}
			s.Reset()
		}
	}
}

func TestChurnAddsFoodWhileRunning(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 20, Y: 20}, func(o *Options) {
		o.FoodInterval = DefaultFoodInterval
		o.Grid = types.NewGrid(400, 400, types.CellSize)
	})

	clock.Advance(10 * DefaultFoodInterval)
	if n := len(s.Snapshot().Foods); n != 0 {
		t.Fatalf("churn must wait for the game to start, got %d items", n)
	}

	s.Start()
	clock.Advance(40 * DefaultFoodInterval)
	foods := s.Snapshot().Foods
	if len(foods) == 0 || len(foods) > types.MaxFood {
		t.Errorf("expected between 1 and %d items, got %d", types.MaxFood, len(foods))
	}
}

func TestCloseCancelsTimers(t *testing.T) {
	s, clock, _ := newTestSession(t, types.Point{X: 100, Y: 100})
	s.Start()
	s.Close()

	if clock.Pending() != 0 {
		t.Errorf("expected no timers after close, got %d", clock.Pending())
	}
	if s.TogglePause() || s.Start() {
		t.Error("a closed session ignores commands")
	}
}

func TestListenerMayCallBack(t *testing.T) {
	clock := scheduler.NewManual()
	var s *Session
	snapshots := 0
	opts := DefaultOptions()
	opts.Seed = 7
	s = NewSession(opts, clock, func(e Event) {
		if s != nil {
			s.Snapshot()
			snapshots++
		}
	})

	s.Start()
	clock.Advance(time.Second)
	if snapshots == 0 {
		t.Error("listener never ran")
	}
}
