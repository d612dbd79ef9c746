package ui

import (
	"fmt"
	"sync"

	"snake-arena/game"
	"snake-arena/game/entity"
	"snake-arena/game/manager"
	"snake-arena/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxScores     = 200 // Maximum number of finished rounds shown in the graph
	borderPadding = 10
)

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	graphHeight     int32
	graphWidth      int32
	gameWidth       int32
	gameHeight      int32
	statsPanel      int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32

	mu     sync.Mutex
	scores []int
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	r.statsPanel = r.screenWidth / 4
	r.gameWidth = r.screenWidth - r.statsPanel
	r.gameHeight = r.screenHeight

	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5
}

// RecordResult adds a finished round to the score graph. Safe to call from
// the session listener.
func (r *Renderer) RecordResult(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.scores) >= maxScores {
		r.scores = r.scores[1:]
	}
	r.scores = append(r.scores, score)
}

func min(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func toColor(c entity.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

func foodColor(t types.FoodType) rl.Color {
	switch t {
	case types.FoodSpeedUp:
		return rl.Yellow
	case types.FoodMultiplier:
		return rl.Purple
	case types.FoodMagnet:
		return rl.SkyBlue
	default:
		return rl.Red
	}
}

func (r *Renderer) Draw(snap game.Snapshot) {
	r.UpdateDimensions()
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := min(r.screenHeight/35, r.statsPanel/12)
	lineHeight := min(r.screenHeight/28, r.statsPanel/9)

	availableWidth := r.gameWidth - (borderPadding * 2)
	availableHeight := r.gameHeight - (borderPadding * 2)

	cellW := availableWidth / int32(snap.Grid.Width)
	cellH := availableHeight / int32(snap.Grid.Height)
	r.cellSize = min(cellW, cellH)

	r.totalGridWidth = r.cellSize * int32(snap.Grid.Width)
	r.totalGridHeight = r.cellSize * int32(snap.Grid.Height)

	r.offsetX = borderPadding
	r.offsetY = (r.screenHeight - r.totalGridHeight) / 2

	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.DarkGray)
	for x := 0; x < snap.Grid.Width; x++ {
		for y := 0; y < snap.Grid.Height; y++ {
			rl.DrawRectangleLines(
				r.offsetX+int32(x)*r.cellSize,
				r.offsetY+int32(y)*r.cellSize,
				r.cellSize, r.cellSize, rl.Gray)
		}
	}

	for _, food := range snap.Foods {
		x, y := r.screenPos(snap.Grid, food.Pos)
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, foodColor(food.Type))
	}

	if snap.BotMode {
		r.drawSnake(snap.Grid, snap.Bot, types.NONE, manager.BotColor)
	}
	r.drawSnake(snap.Grid, snap.Player, snap.Direction, manager.PlayerColor)

	r.drawOverlay(snap, fontSize)
	r.drawStatsPanel(snap, fontSize, lineHeight)
	rl.EndDrawing()
}

// screenPos converts a world position to the top-left pixel of its cell.
func (r *Renderer) screenPos(grid types.Grid, p types.Point) (int32, int32) {
	return r.offsetX + int32(p.X/grid.CellSize)*r.cellSize,
		r.offsetY + int32(p.Y/grid.CellSize)*r.cellSize
}

func (r *Renderer) drawSnake(grid types.Grid, body []types.Point, direction types.Direction, c entity.Color) {
	for j := len(body) - 1; j >= 0; j-- {
		color := toColor(c)
		x, y := r.screenPos(grid, body[j])
		if j == 0 {
			color = rl.Color{
				R: uint8(min(int32(float32(c.R)*1.3), 255)),
				G: uint8(min(int32(float32(c.G)*1.3), 255)),
				B: uint8(min(int32(float32(c.B)*1.3), 255)),
				A: 255,
			}
		}
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, color)
		if j == 0 {
			r.drawHeading(x, y, direction)
		}
	}
}

func (r *Renderer) drawHeading(headX, headY int32, direction types.Direction) {
	halfCell := r.cellSize / 2
	switch direction {
	case types.RIGHT:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Yellow)
	case types.LEFT:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Yellow)
	case types.DOWN:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Yellow)
	case types.UP:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Yellow)
	}
}

func (r *Renderer) drawOverlay(snap game.Snapshot, fontSize int32) {
	var text string
	switch snap.Status {
	case game.NotStarted:
		text = "Press SPACE or an arrow key to start"
	case game.Paused:
		text = "Paused"
	case game.GameOver:
		text = fmt.Sprintf("Game Over! Score %d - press R", snap.Score)
	default:
		return
	}
	textWidth := rl.MeasureText(text, fontSize)
	rl.DrawText(text,
		r.offsetX+(r.totalGridWidth-textWidth)/2,
		r.offsetY+r.totalGridHeight/2,
		fontSize, rl.White)
}

type statLine struct {
	text  string
	color rl.Color
}

func (r *Renderer) drawStatsPanel(snap game.Snapshot, fontSize, lineHeight int32) {
	statsX := r.gameWidth + 5
	statsY := int32(10)

	rl.DrawRectangle(statsX-5, 0, r.statsPanel+5, r.screenHeight, rl.DarkGray)

	lines := []statLine{
		{fmt.Sprintf("Score: %d", snap.Score), toColor(manager.PlayerColor)},
		{fmt.Sprintf("Level: %d", snap.Level), rl.White},
		{fmt.Sprintf("High Score: %d", snap.HighScore), rl.White},
		{fmt.Sprintf("Difficulty: %s", snap.Difficulty), rl.White},
		{fmt.Sprintf("Speed: %v", snap.Speed), rl.White},
	}
	if snap.Boosted {
		lines = append(lines, statLine{"BOOST", rl.Yellow})
	}
	if snap.BotMode {
		lines = append(lines, statLine{fmt.Sprintf("Bot: %d", snap.BotScore), toColor(manager.BotColor)})
	}

	for _, line := range lines {
		rl.DrawText(line.text, statsX, statsY, fontSize, line.color)
		statsY += lineHeight
	}

	statsY += lineHeight / 2
	for _, help := range []string{"Arrows/WASD: steer", "Space: start/pause", "R: reset  B: bot", "1-3: difficulty", "Q: quit"} {
		rl.DrawText(help, statsX, statsY, fontSize*3/4, rl.LightGray)
		statsY += lineHeight * 3 / 4
	}

	r.drawPerformanceGraph(statsX, fontSize)
}

// drawPerformanceGraph plots the scores of finished rounds in this process.
func (r *Renderer) drawPerformanceGraph(statsX, fontSize int32) {
	r.mu.Lock()
	scores := make([]int, len(r.scores))
	copy(scores, r.scores)
	r.mu.Unlock()

	graphX := statsX
	graphHeight := r.graphHeight
	graphY := r.screenHeight - graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, r.graphWidth, graphHeight, rl.White)
	rl.DrawText(fmt.Sprintf("Rounds: %d", len(scores)), graphX, graphY-fontSize-5, fontSize, rl.White)

	if len(scores) < 2 {
		return
	}

	maxScore := 1
	sum := 0
	for _, score := range scores {
		if score > maxScore {
			maxScore = score
		}
		sum += score
	}

	color := toColor(manager.PlayerColor)
	for j := 1; j < len(scores); j++ {
		x1 := graphX + int32(float32(r.graphWidth)*float32(j-1)/float32(maxScores))
		y1 := graphY + graphHeight - int32(float32(graphHeight)*float32(scores[j-1])/float32(maxScore))
		x2 := graphX + int32(float32(r.graphWidth)*float32(j)/float32(maxScores))
		y2 := graphY + graphHeight - int32(float32(graphHeight)*float32(scores[j])/float32(maxScore))
		rl.DrawLine(x1, y1, x2, y2, color)
	}

	avg := float32(sum) / float32(len(scores))
	avgY := graphY + graphHeight - int32(float32(graphHeight)*avg/float32(maxScore))
	for x := graphX; x < graphX+r.graphWidth; x += 5 {
		rl.DrawLine(x, avgY, x+2, avgY, color)
	}
	rl.DrawText(fmt.Sprintf("Avg: %.2f", avg), graphX, r.screenHeight-fontSize-5, fontSize, rl.White)
}
