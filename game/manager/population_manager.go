package manager

import (
	"snake-arena/game/entity"
	"snake-arena/game/types"
)

var (
	PlayerColor = entity.Color{R: 74, G: 155, B: 106}
	BotColor    = entity.Color{R: 33, G: 150, B: 243}
)

// PopulationManager owns the player and the bot snake.
type PopulationManager struct {
	grid   types.Grid
	player *entity.Snake
	bot    *entity.Snake
}

func NewPopulationManager(grid types.Grid) *PopulationManager {
	pm := &PopulationManager{grid: grid}
	pm.InitializePopulation()
	return pm
}

// PlayerStart is the centre cell of the board.
func (pm *PopulationManager) PlayerStart() types.Point {
	return pm.grid.Cell(pm.grid.Width/2, pm.grid.Height/2)
}

// BotStart sits five sixths of the way across, on the player's row.
func (pm *PopulationManager) BotStart() types.Point {
	return pm.grid.Cell(pm.grid.Width*5/6, pm.grid.Height/2)
}

// InitializePopulation creates fresh one-segment snakes at rest.
func (pm *PopulationManager) InitializePopulation() {
	pm.player = entity.NewSnake(pm.PlayerStart(), entity.Player, PlayerColor)
	pm.bot = entity.NewSnake(pm.BotStart(), entity.Bot, BotColor)
}

func (pm *PopulationManager) Player() *entity.Snake {
	return pm.player
}

func (pm *PopulationManager) Bot() *entity.Snake {
	return pm.bot
}

// EliminateBot removes the bot from the board until the next reset.
func (pm *PopulationManager) EliminateBot() {
	pm.bot.Clear()
}

// Occupied lists every body cell of both snakes. A bot that is switched off
// still holds its start cell, so food never lands where it will appear.
func (pm *PopulationManager) Occupied() []types.Point {
	cells := make([]types.Point, 0, pm.player.Len()+pm.bot.Len())
	cells = append(cells, pm.player.Body...)
	cells = append(cells, pm.bot.Body...)
	return cells
}
