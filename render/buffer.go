package render

import "github.com/gdamore/tcell/v2"

// Canvas is the drawing surface, satisfied by tcell.Screen and Buffer
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// Cell is one terminal character with its style
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Buffer is an off-screen cell grid composed each frame and flushed to a Canvas
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a cleared buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blank background
func (b *Buffer) Clear() {
	blank := Cell{Rune: ' ', Style: StyleBackground}
	for i := range b.cells {
		b.cells[i] = blank
	}
}

// SetContent writes a cell, out-of-bounds writes are ignored. Combining runes are ignored.
func (b *Buffer) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: primary, Style: style}
}

// Get returns the cell at x, y or a zero Cell when out of bounds
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Size returns buffer dimensions
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Flush copies every cell to dst
func (b *Buffer) Flush(dst Canvas) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x, c := range row {
			dst.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
}

// Text writes s left to right from x, y and returns the column after the last rune
func (b *Buffer) Text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		b.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
