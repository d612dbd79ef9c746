package game

import (
	"log"

	"snake-arena/ai"
	"snake-arena/game/entity"
	"snake-arena/game/manager"
	"snake-arena/game/types"
)

// update advances one logic tick. The caller holds mu and has checked that the
// session is RUNNING.
func (s *Session) update() {
	player := s.population.Player()
	bot := s.population.Bot()
	botActive := s.botMode && bot.Alive()

	if botActive {
		bot.Direction = ai.Decide(s.grid, bot.Segments(), player.Segments(), s.foodMgr.GetFoodList(), bot.Direction)
	}

	newHead := player.NextHead(s.grid)
	grows := false
	if index, ok := s.foodMgr.FoodAt(newHead); ok {
		grows = true
		s.eat(index, newHead, player)
	}

	var others []*entity.Snake
	if botActive {
		others = append(others, bot)
	}
	if collision := s.collisionMgr.CheckMove(player, newHead, grows, others...); collision != manager.NoCollision {
		s.gameOver(collision)
		return
	}

	if grows {
		player.Grow(newHead)
	} else {
		player.MoveOneStep(newHead)
	}

	if botActive {
		s.stepBot(bot, player)
	}
}

// eat applies the effect of the item at index, then removes it. The magnet
// pull runs first so the eaten cell still blocks other items.
func (s *Session) eat(index int, newHead types.Point, player *entity.Snake) {
	food := s.foodMgr.GetFoodList()[index]

	s.stateMgr.AddScore(food.Type.Points())
	switch food.Type {
	case types.FoodSpeedUp:
		s.boost()
	case types.FoodMagnet:
		moved := s.foodMgr.PullToward(newHead, s.grid.PullRadius(), player.Body)
		log.Printf("[%s] magnet pulled %d items", s.ID, moved)
	}
	s.foodMgr.RemoveAt(index)

	s.pending = append(s.pending, Event{Kind: EventFoodEaten, Food: food.Type, Snapshot: s.snapshotLocked()})
	s.emitScore()
}

// stepBot moves the bot one cell. It scores a flat point per item and gets no
// effects. A fatal step removes it from the board.
func (s *Session) stepBot(bot, player *entity.Snake) {
	newHead := bot.NextHead(s.grid)
	grows := false
	if index, ok := s.foodMgr.FoodAt(newHead); ok {
		grows = true
		s.foodMgr.RemoveAt(index)
		s.stateMgr.AddBotScore(1)
	}

	if collision := s.collisionMgr.CheckMove(bot, newHead, grows, player); collision != manager.NoCollision {
		s.population.EliminateBot()
		s.stateMgr.ResetBotScore()
		log.Printf("[%s] bot eliminated: %s", s.ID, collision)
		s.pending = append(s.pending, Event{Kind: EventBotEliminated, Snapshot: s.snapshotLocked()})
		s.emitScore()
		return
	}

	if grows {
		bot.Grow(newHead)
		s.emitScore()
	} else {
		bot.MoveOneStep(newHead)
	}
}

// boost halves the tick interval and schedules the revert. A boost taken while
// boosted restarts the revert window.
func (s *Session) boost() {
	speed := s.stateMgr.Boost()
	s.scheduleLogic()

	s.sched.Cancel(s.revertTimer)
	s.revertGen++
	gen := s.revertGen
	s.revertTimer = s.sched.After(s.opts.BoostDuration, func() { s.onRevert(gen) })

	log.Printf("[%s] speed boost: %v for %v", s.ID, speed, s.opts.BoostDuration)
}

func (s *Session) onRevert(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.revertGen {
		s.mu.Unlock()
		return
	}
	s.revertTimer = 0
	speed := s.stateMgr.Unboost()
	if s.status == Running || s.status == Paused {
		s.scheduleLogic()
	}
	s.emitScore()
	events := s.drain()
	s.mu.Unlock()

	log.Printf("[%s] speed boost over: %v", s.ID, speed)
	s.deliver(events)
}

func (s *Session) gameOver(cause manager.CollisionType) {
	s.status = GameOver
	s.cancelTimers()
	s.stopFrames()

	result := Result{
		Score:     s.stateMgr.Score(),
		HighScore: s.stateMgr.GetHighScore(),
		Level:     s.stateMgr.Level(),
		Cause:     cause.String(),
	}
	log.Printf("[%s] game over (%s): score %d, high score %d", s.ID, result.Cause, result.Score, result.HighScore)
	s.pending = append(s.pending, Event{Kind: EventGameOver, Result: result, Snapshot: s.snapshotLocked()})
}
