package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/bounce/parameter"
	"github.com/lixenwraith/bounce/vmath"
)

// Boundary is an immovable wall: the half-plane p·Normal <= Limit is legal space,
// anything past it is penetrating
type Boundary struct {
	Normal vmath.Vec2
	Limit  float64

	// p1, p2 are two far-apart points on the line, only used for drawing
	p1, p2 vmath.Vec2
}

// NewBoundary creates a wall from a unit normal and signed offset
// The normal is used as given, never renormalized; callers pass unit vectors and
// anything off by more than parameter.NormalTolerance is rejected
func NewBoundary(normal vmath.Vec2, limit float64) (*Boundary, error) {
	if !normal.IsFinite() || math.IsNaN(limit) || math.IsInf(limit, 0) {
		return nil, fmt.Errorf("%w: boundary normal %v limit %v not finite", ErrInvalidConfiguration, normal, limit)
	}
	if math.Abs(normal.Magnitude()-1) > parameter.NormalTolerance {
		return nil, fmt.Errorf("%w: boundary normal %v is not unit length", ErrInvalidConfiguration, normal)
	}

	anchor := normal.Scale(limit)
	along := normal.Rotate(math.Pi / 2).Scale(parameter.WallDisplayExtent)
	return &Boundary{
		Normal: normal,
		Limit:  limit,
		p1:     anchor.Add(along),
		p2:     anchor.Sub(along),
	}, nil
}

// Overlaps reports whether the body's near edge has crossed into the wall
func (w *Boundary) Overlaps(b *Body) bool {
	return w.Penetration(b) > 0
}

// Penetration returns how far the body's near edge lies past the wall, negative when clear
func (w *Boundary) Penetration(b *Body) float64 {
	return b.Position.Dot(w.Normal) + b.radius - w.Limit
}

// ClosingSpeed returns the body's velocity component into the wall
func (w *Boundary) ClosingSpeed(b *Body) float64 {
	return b.Velocity.Dot(w.Normal)
}

// DisplayPoints returns two points on the wall line far enough apart to draw it as infinite
func (w *Boundary) DisplayPoints() (vmath.Vec2, vmath.Vec2) {
	return w.p1, w.p2
}
