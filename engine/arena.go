package engine

import (
	"fmt"
	"math"

	"github.com/lixenwraith/bounce/physics"
	"github.com/lixenwraith/bounce/vmath"
)

// Arena is a rectangle with its four corners cut diagonally, an octagonal play area
type Arena struct {
	Width       float64
	Height      float64
	CornerInset float64

	// Boundaries in order: right, left, bottom, top, bottom-right, top-left, top-right, bottom-left
	Boundaries []*physics.Boundary
}

// NewArena derives the eight walls of the octagon
// cornerInset is the perpendicular distance from each rectangle corner to its cut
func NewArena(width, height, cornerInset float64) (*Arena, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("%w: arena size %vx%v", physics.ErrInvalidConfiguration, width, height)
	}
	// Each cut removes a right triangle with legs inset·√2, two cuts share every side
	if !(cornerInset >= 0) || 2*math.Sqrt2*cornerInset >= min(width, height) {
		return nil, fmt.Errorf("%w: corner inset %v too large for %vx%v arena", physics.ErrInvalidConfiguration, cornerInset, width, height)
	}

	diag := 1 / math.Sqrt2
	type wallDef struct {
		normal vmath.Vec2
		corner vmath.Vec2 // corner the wall passes through before the inset
		inset  float64
	}
	defs := []wallDef{
		// sides
		{vmath.V2(1, 0), vmath.V2(width, 0), 0},
		{vmath.V2(-1, 0), vmath.Zero2, 0},
		{vmath.V2(0, 1), vmath.V2(0, height), 0},
		{vmath.V2(0, -1), vmath.Zero2, 0},
		// corners
		{vmath.V2(diag, diag), vmath.V2(width, height), cornerInset},
		{vmath.V2(-diag, -diag), vmath.Zero2, cornerInset},
		{vmath.V2(diag, -diag), vmath.V2(width, 0), cornerInset},
		{vmath.V2(-diag, diag), vmath.V2(0, height), cornerInset},
	}

	a := &Arena{
		Width:       width,
		Height:      height,
		CornerInset: cornerInset,
		Boundaries:  make([]*physics.Boundary, 0, len(defs)),
	}
	for _, d := range defs {
		// Limit is the corner's projection on the normal, pulled inward by the inset
		w, err := physics.NewBoundary(d.normal, d.corner.Dot(d.normal)-d.inset)
		if err != nil {
			return nil, fmt.Errorf("arena wall %v: %w", d.normal, err)
		}
		a.Boundaries = append(a.Boundaries, w)
	}
	return a, nil
}

// Contains reports whether a circle at p with radius r lies fully in legal space
func (a *Arena) Contains(p vmath.Vec2, r float64) bool {
	for _, w := range a.Boundaries {
		if p.Dot(w.Normal)+r > w.Limit {
			return false
		}
	}
	return true
}

// Center returns the middle of the bounding rectangle
func (a *Arena) Center() vmath.Vec2 {
	return vmath.V2(a.Width/2, a.Height/2)
}
