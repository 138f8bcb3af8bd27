package physics

import (
	"fmt"
	"math"

	"github.com/lixenwraith/bounce/parameter"
	"github.com/lixenwraith/bounce/vmath"
)

// gravity points down the screen (+Y)
var gravity = vmath.V2(0, parameter.Gravity)

// Collider is anything a body can collide with, each variant supplies its own narrow phase
type Collider interface {
	// Overlaps reports whether b currently intersects the collider
	Overlaps(b *Body) bool
	// ClosingSpeed returns how fast b approaches the collider along the contact normal, positive when closing
	ClosingSpeed(b *Body) float64
}

// Body is a circular ball treated as a point mass for impulses
// Position and Velocity mutate every step; the rest is fixed at construction
type Body struct {
	Position vmath.Vec2
	Velocity vmath.Vec2

	id          uint64
	radius      float64
	restitution float64
	mass        float64
	tag         string
}

// NewBody validates parameters and derives mass = π·r² (area as mass)
func NewBody(id uint64, position, velocity vmath.Vec2, radius, restitution float64, tag string) (*Body, error) {
	if !position.IsFinite() || !velocity.IsFinite() {
		return nil, fmt.Errorf("%w: body position %v velocity %v not finite", ErrInvalidConfiguration, position, velocity)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: body radius %v must be positive", ErrInvalidConfiguration, radius)
	}
	if !(restitution >= 0 && restitution <= 1) {
		return nil, fmt.Errorf("%w: body restitution %v outside [0,1]", ErrInvalidConfiguration, restitution)
	}

	return &Body{
		Position:    position,
		Velocity:    velocity,
		id:          id,
		radius:      radius,
		restitution: restitution,
		mass:        math.Pi * radius * radius,
		tag:         tag,
	}, nil
}

func (b *Body) ID() uint64           { return b.id }
func (b *Body) Radius() float64      { return b.radius }
func (b *Body) Restitution() float64 { return b.restitution }
func (b *Body) Mass() float64        { return b.mass }

// Tag returns the opaque appearance value given at spawn
func (b *Body) Tag() string { return b.tag }

// Move advances position by velocity*delta; a negative delta rewinds exactly
func (b *Body) Move(delta float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(delta))
}

// AddGravity accumulates gravitational acceleration over delta seconds
func (b *Body) AddGravity(delta float64) {
	b.Velocity = b.Velocity.Add(gravity.Scale(delta))
}

// IsColliding runs the other party's narrow-phase test against this body
func (b *Body) IsColliding(other Collider) bool {
	return other.Overlaps(b)
}

// Approaching reports whether this body is closing on other along their contact normal
func (b *Body) Approaching(other Collider) bool {
	return other.ClosingSpeed(b) > 0
}

// Overlaps is the body-body narrow phase: centres closer than the sum of radii
func (b *Body) Overlaps(other *Body) bool {
	return b.Position.Distance(other.Position) < b.radius+other.radius
}

// ClosingSpeed returns the relative velocity of other towards b along the line of centres
// Coincident centres have no line and report zero
func (b *Body) ClosingSpeed(other *Body) float64 {
	n, err := b.Position.Sub(other.Position).Normalize()
	if err != nil {
		return 0
	}
	return other.Velocity.Sub(b.Velocity).Dot(n)
}

// KineticEnergy returns ½mv²
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.mass * b.Velocity.MagnitudeSq()
}

func (b *Body) String() string {
	return fmt.Sprintf("body#%d{p=%v v=%v r=%g}", b.id, b.Position, b.Velocity, b.radius)
}
