package sumblocks

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/sumblocks/internal/core"
)

// Layout constants
const (
	cellWidth  = 5 // characters per block
	hudHeight  = 4 // lines above the board
	boxW       = Cols*cellWidth + 2
	boxH       = Rows + 2
	minScreenW = 60
	minScreenH = hudHeight + boxH + 2
	timerBarW  = 20
)

// valueColors gives each block value its own color.
var valueColors = [MaxValue + 1]core.Color{
	core.ColorDefault,
	core.ColorCyan,
	core.ColorBlue,
	core.ColorGreen,
	core.ColorBrightGreen,
	core.ColorYellow,
	core.ColorOrange,
	core.ColorRed,
	core.ColorMagenta,
	core.ColorBrightMagenta,
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	g.tooSmall = w < minScreenW || h < minScreenH
	if g.tooSmall {
		g.board = core.Rect{}
		dst.DrawTextCentered(h/2-1, "Window too small", core.ColorBrightRed)
		dst.DrawTextCentered(h/2, fmt.Sprintf("Need %dx%d, have %dx%d", minScreenW, minScreenH, w, h), core.ColorGray)
		return
	}

	s := g.engine.State()
	x0 := (w - boxW) / 2
	y0 := max((h-(hudHeight+boxH+1))/2, 0)

	g.renderHUD(dst, s, y0)

	box := core.NewRect(x0, y0+hudHeight, boxW, boxH)
	boxColor := core.ColorGray
	if inDanger(s.Grid) {
		boxColor = core.ColorBrightRed
	}
	dst.DrawBox(box, boxColor)

	g.board = box.Inset(1)
	g.renderBoard(dst, s)

	footer := "arrows/hjkl move  space select  ? hint  p pause  q quit"
	dst.DrawTextCentered(box.Bottom(), footer, core.ColorGray)

	switch g.engine.Phase() {
	case PhasePaused:
		g.renderOverlay(dst, "PAUSED", "p resume  b menu")
	case PhaseGameOver:
		g.renderOverlay(dst, "GAME OVER", fmt.Sprintf("score %d  r restart  b menu", s.Score))
	}
}

// renderHUD draws the title, counters, the timer and the last event line.
func (g *Game) renderHUD(dst *core.Screen, s State, y int) {
	title := "S U M   B L O C K S"
	if g.mode == ModeTime {
		title += "  ·  TIME ATTACK"
	}
	dst.DrawTextCentered(y, title, core.ColorBrightCyan)

	sum := s.SelectedSum()
	sumColor := core.ColorBrightWhite
	if sum > 0 {
		sumColor = core.ColorBrightYellow
	}
	stats := fmt.Sprintf("Target %d  Sum %d  Score %d  Best %d  Lv %d  Combo x%d",
		s.TargetSum, sum, s.Score, s.HighScore, s.Level, s.Combo)
	dst.DrawTextCentered(y+1, stats, sumColor)

	if s.HasTimer() {
		dst.DrawTextCentered(y+2, timerBar(s), timerColor(s))
	}
	if msg, c := outcomeMessage(g.last); msg != "" {
		dst.DrawTextCentered(y+3, msg, c)
	}
}

// renderBoard draws every cell, the selection, the hint and the cursor.
func (g *Game) renderBoard(dst *core.Screen, s State) {
	hinted := make(map[BlockID]bool, len(g.hint))
	for _, id := range g.hint {
		hinted[id] = true
	}

	for row := range Rows {
		for col := range Cols {
			x := g.board.X + col*cellWidth
			y := g.board.Y + row
			b := s.Grid[row][col]

			var text string
			color := core.ColorGray
			switch {
			case b.Empty():
				text = "  ·  "
			case s.IsSelected(b.ID):
				text = fmt.Sprintf("[ %d ]", b.Value)
				color = core.ColorSelected
			case hinted[b.ID]:
				text = fmt.Sprintf("( %d )", b.Value)
				color = core.ColorBrightYellow
			default:
				text = fmt.Sprintf("  %d  ", b.Value)
				color = valueColors[b.Value]
			}
			dst.DrawTextColored(x, y, text, color)

			if row == g.cursorRow && col == g.cursorCol && !s.GameOver {
				dst.SetColored(x, y, '>', core.ColorBrightWhite)
				dst.SetColored(x+cellWidth-1, y, '<', core.ColorBrightWhite)
			}
		}
	}
}

// renderOverlay draws a two-line message box over the middle of the board.
func (g *Game) renderOverlay(dst *core.Screen, title, detail string) {
	width := max(len(title), len(detail)) + 4
	r := g.board.Centered(width, 4)
	dst.FillRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.ColorBrightWhite)
	dst.DrawTextColored(r.X+(r.W-len(title))/2, r.Y+1, title, core.ColorBrightYellow)
	dst.DrawTextColored(r.X+(r.W-len(detail))/2, r.Y+2, detail, core.ColorWhite)
}

// inDanger reports whether a single forced row would end the game.
func inDanger(grid Grid) bool {
	for col := range Cols {
		if !grid[1][col].Empty() {
			return true
		}
	}
	return false
}

// timerBar renders the countdown as a bar with the seconds left.
func timerBar(s State) string {
	filled := 0
	if s.maxTime > 0 {
		filled = s.timeLeft * timerBarW / s.maxTime
	}
	filled = core.Clamp(filled, 0, timerBarW)
	return fmt.Sprintf("Time %s%s %4.1fs",
		strings.Repeat("█", filled), strings.Repeat("░", timerBarW-filled), s.TimeLeft())
}

// timerColor turns the timer red in the final 30%.
func timerColor(s State) core.Color {
	if s.maxTime > 0 && s.timeLeft*10 <= s.maxTime*3 {
		return core.ColorBrightRed
	}
	return core.ColorBrightGreen
}

// outcomeMessage describes the most recent transition for the HUD.
func outcomeMessage(out Outcome) (string, core.Color) {
	switch {
	case out.Matched && out.NewHighScore:
		return fmt.Sprintf("+%d  new best!", out.Points), core.ColorBrightMagenta
	case out.Matched:
		return fmt.Sprintf("+%d", out.Points), core.ColorBrightGreen
	case out.Overflow:
		return "Too much! Selection cleared", core.ColorBrightRed
	case out.RowInjected:
		return "Time's up! New row", core.ColorOrange
	default:
		return "", core.ColorDefault
	}
}
