// Package ai steers the bot snake with a greedy nearest-food heuristic.
package ai

import (
	"sort"

	"snake-arena/game/manager"
	"snake-arena/game/types"
)

// candidateOrder is the enumeration order; it breaks ranking ties.
var candidateOrder = [4]types.Direction{types.UP, types.DOWN, types.LEFT, types.RIGHT}

// State is everything the bot sees on one tick. Bodies are value copies.
type State struct {
	Grid    types.Grid
	Body    []types.Point // bot body, head first
	Other   []types.Point // opponent body
	Foods   []types.Food
	Current types.Direction
}

type candidate struct {
	dir        types.Direction
	preference int
}

// Decide picks the bot's next heading. It heads for the nearest food by
// Manhattan distance, never steps off the board or onto a body, and avoids
// reversing unless reversing is the only safe move. With no safe move it
// keeps the current heading.
func Decide(grid types.Grid, bot, other []types.Point, foods []types.Food, current types.Direction) types.Direction {
	return GetAction(State{Grid: grid, Body: bot, Other: other, Foods: foods, Current: current})
}

func GetAction(s State) types.Direction {
	if len(s.Body) == 0 {
		return s.Current
	}
	if len(s.Foods) == 0 {
		if s.Current == types.NONE {
			return types.RIGHT
		}
		return s.Current
	}

	head := s.Body[0]
	target := nearestFood(head, s.Foods)
	currentDistance := types.Manhattan(head, target)
	cm := manager.NewCollisionManager(s.Grid)

	candidates := make([]candidate, 0, len(candidateOrder))
	for _, dir := range candidateOrder {
		next := s.Grid.Advance(head, dir)
		if !cm.IsSafe(next, s.Body, s.Other) {
			continue
		}
		candidates = append(candidates, candidate{
			dir:        dir,
			preference: currentDistance - types.Manhattan(next, target),
		})
	}
	if len(candidates) == 0 {
		return s.Current
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].preference > candidates[j].preference
	})

	for _, c := range candidates {
		if !c.dir.Reverses(s.Current) {
			return c.dir
		}
	}
	return candidates[0].dir
}

// nearestFood returns the closest item; the first one wins a tie.
func nearestFood(head types.Point, foods []types.Food) types.Point {
	best := foods[0].Pos
	bestDistance := types.Manhattan(head, best)
	for _, f := range foods[1:] {
		if d := types.Manhattan(head, f.Pos); d < bestDistance {
			best, bestDistance = f.Pos, d
		}
	}
	return best
}
