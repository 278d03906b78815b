package render

import (
	"strconv"

	"github.com/bigball/bigball/internal/ball"
	"github.com/gdamore/tcell/v2"
)

var kindStyles = map[ball.Kind]tcell.Style{
	ball.Regular:   tcell.StyleDefault,
	ball.Monster:   tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	ball.Repellent: tcell.StyleDefault.Foreground(tcell.ColorTeal),
}

// ScreenRenderer redraws the status lines on a tcell screen. Lines beyond
// the screen height are dropped and the last row reports how many.
type ScreenRenderer struct {
	screen tcell.Screen
}

// NewScreenRenderer takes ownership of an initialized screen.
func NewScreenRenderer(screen tcell.Screen) *ScreenRenderer {
	return &ScreenRenderer{screen: screen}
}

func (r *ScreenRenderer) Render(balls []ball.Ball) error {
	r.screen.Clear()
	w, h := r.screen.Size()
	rows := len(balls)
	if rows > h {
		rows = h - 1
	}
	for i := 0; i < rows; i++ {
		r.drawLine(i, w, balls[i].String(), kindStyles[balls[i].Kind])
	}
	if rows < len(balls) && h > 0 {
		r.drawLine(h-1, w, "... "+strconv.Itoa(len(balls)-rows)+" more", tcell.StyleDefault.Dim(true))
	}
	r.screen.Show()
	return nil
}

func (r *ScreenRenderer) drawLine(y, width int, s string, style tcell.Style) {
	x := 0
	for _, c := range s {
		if x >= width {
			return
		}
		r.screen.SetContent(x, y, c, nil, style)
		x++
	}
}

// Close restores the terminal.
func (r *ScreenRenderer) Close() error {
	r.screen.Fini()
	return nil
}
