package render

import (
	"fmt"

	"github.com/lixenwraith/bounce/engine"
	"github.com/lixenwraith/bounce/vmath"
)

const (
	wallRune = '█'
	ballRune = '█'
	dotRune  = '●'
)

// Pointer is the last known mouse cell, Valid is false before the first event
type Pointer struct {
	X, Y  int
	Valid bool
}

// Frame carries the per-frame inputs that are not world state
type Frame struct {
	Pointer Pointer
	Paused  bool
	Muted   bool
	Clients int
}

// ArenaRenderer draws the world, its walls and a status line into a Buffer
// The bottom row is the status line, the arena viewport uses the rows above it
type ArenaRenderer struct {
	arena *engine.Arena
	buf   *Buffer
	view  Viewport

	// outside caches the wall mask, rebuilt only on resize
	outside []bool
}

// NewArenaRenderer creates a renderer for the given arena geometry
func NewArenaRenderer(arena *engine.Arena) *ArenaRenderer {
	return &ArenaRenderer{
		arena: arena,
		buf:   NewBuffer(0, 0),
	}
}

// Viewport returns the mapping used by the last Draw
func (r *ArenaRenderer) Viewport() Viewport {
	return r.view
}

// Resize recomputes the mapping for a cols x rows canvas
func (r *ArenaRenderer) Resize(cols, rows int) {
	if w, h := r.buf.Size(); w == cols && h == rows && r.outside != nil {
		return
	}
	r.buf.Resize(cols, rows)
	r.view = NewViewport(r.arena.Width, r.arena.Height, cols, rows-1)
	r.outside = nil
}

// WorldAt maps a canvas cell to the world point at its centre
func (r *ArenaRenderer) WorldAt(x, y int) (vmath.Vec2, bool) {
	if !r.view.Valid() || !r.view.InBounds(x, y) {
		return vmath.Zero2, false
	}
	return r.view.ToWorld(x, y), true
}

// Draw composes one frame and flushes it to c
func (r *ArenaRenderer) Draw(c Canvas, w *engine.World, f Frame) {
	r.Resize(c.Size())
	r.buf.Clear()

	if r.view.Valid() {
		r.drawWalls(w.Boundaries())
		for _, b := range w.Bodies() {
			r.drawBody(b)
		}
	}
	r.drawStatus(w, f)
	r.buf.Flush(c)
}

// drawWalls shades cells outside any wall and outlines the border between inside and outside
func (r *ArenaRenderer) drawWalls(walls []engine.BoundaryView) {
	cols, rows := r.view.Cols, r.view.Rows
	if r.outside == nil {
		r.outside = make([]bool, cols*rows)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				r.outside[y*cols+x] = isOutside(r.view.ToWorld(x, y), walls)
			}
		}
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if !r.outside[y*cols+x] {
				continue
			}
			if r.bordersInside(x, y) {
				r.buf.SetContent(x, y, wallRune, nil, StyleWall)
			} else {
				r.buf.SetContent(x, y, ' ', nil, StyleOutside)
			}
		}
	}
}

func (r *ArenaRenderer) bordersInside(x, y int) bool {
	cols, rows := r.view.Cols, r.view.Rows
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if nx >= 0 && ny >= 0 && nx < cols && ny < rows && !r.outside[ny*cols+nx] {
			return true
		}
	}
	return false
}

func isOutside(p vmath.Vec2, walls []engine.BoundaryView) bool {
	for _, w := range walls {
		if p.Dot(w.Normal) > w.Limit {
			return true
		}
	}
	return false
}

// drawBody fills every cell whose centre lies inside the ball, small balls get a dot
func (r *ArenaRenderer) drawBody(b engine.BodyView) {
	style := StyleBackground.Foreground(TagColor(b.Tag))
	x0, y0 := r.view.ToCell(b.Position.Sub(vmath.V2(b.Radius, b.Radius)))
	x1, y1 := r.view.ToCell(b.Position.Add(vmath.V2(b.Radius, b.Radius)))

	filled := false
	for y := max(y0, 0); y <= min(y1, r.view.Rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.view.Cols-1); x++ {
			if r.view.ToWorld(x, y).Distance(b.Position) <= b.Radius {
				r.buf.SetContent(x, y, ballRune, nil, style)
				filled = true
			}
		}
	}
	if !filled {
		cx, cy := r.view.ToCell(b.Position)
		r.buf.SetContent(cx, cy, dotRune, nil, style)
	}
}

func (r *ArenaRenderer) drawStatus(w *engine.World, f Frame) {
	_, rows := r.buf.Size()
	y := rows - 1
	if y < 0 {
		return
	}

	stats := w.Stats()
	status := fmt.Sprintf(" bodies:%d t:%.1fs hits:%d/%d", w.Len(), w.Elapsed(), stats.BallContacts, stats.WallContacts)
	if f.Clients > 0 {
		status += fmt.Sprintf(" viewers:%d", f.Clients)
	}
	if f.Paused {
		status += " [paused]"
	}
	if f.Muted {
		status += " [muted]"
	}
	x := r.buf.Text(0, y, status, StyleStatus)

	if readout, ok := r.Readout(w, f.Pointer); ok {
		r.buf.Text(x+2, y, readout, StyleReadout)
	}
}

// Readout describes the body under the pointer
func (r *ArenaRenderer) Readout(w *engine.World, p Pointer) (string, bool) {
	if !p.Valid {
		return "", false
	}
	pos, ok := r.WorldAt(p.X, p.Y)
	if !ok {
		return "", false
	}
	b, ok := w.BodyAt(pos)
	if !ok {
		return "", false
	}
	return FormatReadout(b, r.arena.Height), true
}

// FormatReadout renders speed, height above the floor line and mass of a body
func FormatReadout(b engine.BodyView, floor float64) string {
	return fmt.Sprintf("velocity: %.1fm/s height: %.0fm mass: %.0fkg",
		b.Velocity.Magnitude(), floor-b.Position.Y, b.Mass)
}
