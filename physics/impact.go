package physics

import (
	"fmt"
	"math"
)

// ImpactTimeBall returns how long ago b and other were exactly touching
// Positive means the contact lies in the past and both should be rewound by it.
//
// Relative motion lets other be treated as a fixed point and b as a line through
// b's position along the relative velocity. The perpendicular distance d from the
// point to that line and the contact distance (sum of radii) as hypotenuse give
// the along-line offset c of the tangency point by Pythagoras.
func (b *Body) ImpactTimeBall(other *Body) (float64, error) {
	rel := b.Velocity.Sub(other.Velocity)
	speed := rel.Magnitude()
	n, err := rel.Normalize()
	if err != nil {
		return 0, fmt.Errorf("%w: bodies %d and %d have no relative velocity", ErrDegenerateMotion, b.id, other.id)
	}

	ap := b.Position.Sub(other.Position)
	along := ap.Dot(n)
	d := ap.Sub(n.Scale(along)).Magnitude()

	hyp := b.radius + other.radius
	disc := hyp*hyp - d*d
	if disc < 0 {
		// relative path never comes within contact distance
		return 0, fmt.Errorf("%w: bodies %d and %d never touch on current path", ErrDegenerateMotion, b.id, other.id)
	}
	c := math.Sqrt(disc)

	// tangency entry lies at along-line offset -c, current offset is along
	return (c + along) / speed, nil
}

// ImpactTimeWall returns how long ago the body's edge crossed the wall
// Negative means the crossing is still ahead: a body at the origin moving at (1,1)
// with radius 5 against wall (1,0)/10 reports -5.
func (b *Body) ImpactTimeWall(w *Boundary) (float64, error) {
	u := b.Velocity.Dot(w.Normal)
	if u == 0 {
		return 0, fmt.Errorf("%w: body %d moves parallel to wall", ErrDegenerateMotion, b.id)
	}
	return w.Penetration(b) / u, nil
}

// CollideBall applies the impulse response of a 1-D collision along the line of centres
// Restitution is the smaller of the two so the less bouncy body dominates energy loss.
// Tangential components are unchanged.
func (b *Body) CollideBall(other *Body) error {
	n, err := b.Position.Sub(other.Position).Normalize()
	if err != nil {
		return fmt.Errorf("%w: bodies %d and %d share a centre", ErrDegenerateMotion, b.id, other.id)
	}
	e := min(b.restitution, other.restitution)

	u1 := b.Velocity.Dot(n)
	u2 := other.Velocity.Dot(n)
	m1, m2 := b.mass, other.mass

	v1 := e * (u1*(m1-m2) + 2*m2*u2) / (m1 + m2)
	v2 := e * (u2*(m2-m1) + 2*m1*u1) / (m1 + m2)

	b.Velocity = b.Velocity.Add(n.Scale(v1 - u1))
	other.Velocity = other.Velocity.Add(n.Scale(v2 - u2))
	return nil
}

// CollideWall reflects the normal component scaled by the body's restitution
// The wall is the infinite-mass limit of the two-body formula
func (b *Body) CollideWall(w *Boundary) {
	u := b.Velocity.Dot(w.Normal)
	v := -u * b.restitution
	b.Velocity = b.Velocity.Add(w.Normal.Scale(v - u))
}
