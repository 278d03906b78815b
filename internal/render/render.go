package render

import (
	"bytes"
	"io"

	"github.com/bigball/bigball/internal/ball"
)

// Renderer draws a full frame of the arena. Every call replaces the
// previous frame.
type Renderer interface {
	Render(balls []ball.Ball) error
	Close() error
}

// clearScreen homes the cursor and erases the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// TextRenderer writes one status line per ball to w.
type TextRenderer struct {
	w     io.Writer
	clear bool
	buf   bytes.Buffer
}

// NewTextRenderer returns a renderer writing to w. With clear set every frame
// starts by clearing the terminal.
func NewTextRenderer(w io.Writer, clear bool) *TextRenderer {
	return &TextRenderer{w: w, clear: clear}
}

func (r *TextRenderer) Render(balls []ball.Ball) error {
	r.buf.Reset()
	if r.clear {
		r.buf.WriteString(clearScreen)
	}
	for i := range balls {
		r.buf.WriteString(balls[i].String())
		r.buf.WriteByte('\n')
	}
	_, err := r.w.Write(r.buf.Bytes())
	return err
}

func (r *TextRenderer) Close() error { return nil }

// Nop discards every frame.
type Nop struct{}

func (Nop) Render([]ball.Ball) error { return nil }
func (Nop) Close() error             { return nil }
