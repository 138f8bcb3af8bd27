package render

import (
	"math"

	"github.com/lixenwraith/bounce/vmath"
)

// CellAspect is the height of a terminal cell over its width
const CellAspect = 2.0

// Viewport maps world coordinates onto a grid of terminal cells
// The world rectangle is scaled uniformly, centred, and kept one cell clear of every edge
type Viewport struct {
	Cols, Rows int

	// Unit is the world width covered by one column, a row covers Unit·CellAspect
	Unit float64

	padX float64
	padY float64
}

// NewViewport fits a width x height world into cols x rows cells
// A grid too small to hold anything yields a zero Unit and Valid reports false
func NewViewport(width, height float64, cols, rows int) Viewport {
	v := Viewport{Cols: cols, Rows: rows}
	inner, innerRows := cols-2, rows-2
	if inner <= 0 || innerRows <= 0 || !(width > 0) || !(height > 0) {
		return v
	}

	v.Unit = math.Max(width/float64(inner), height/(float64(innerRows)*CellAspect))
	v.padX = (float64(cols) - width/v.Unit) / 2
	v.padY = (float64(rows) - height/(v.Unit*CellAspect)) / 2
	return v
}

// Valid reports whether the viewport can map points
func (v Viewport) Valid() bool {
	return v.Unit > 0
}

// ToCell returns the cell containing world point p
func (v Viewport) ToCell(p vmath.Vec2) (int, int) {
	x := v.padX + p.X/v.Unit
	y := v.padY + p.Y/(v.Unit*CellAspect)
	return int(math.Floor(x)), int(math.Floor(y))
}

// ToWorld returns the world point at the centre of cell x, y
func (v Viewport) ToWorld(x, y int) vmath.Vec2 {
	return vmath.V2(
		(float64(x)+0.5-v.padX)*v.Unit,
		(float64(y)+0.5-v.padY)*v.Unit*CellAspect,
	)
}

// InBounds reports whether cell x, y is on the grid
func (v Viewport) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Cols && y < v.Rows
}
