package engine

import (
	"cmp"
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/lixenwraith/bounce/physics"
	"github.com/lixenwraith/bounce/vmath"
)

// ContactKind distinguishes resolved contact types
type ContactKind uint8

const (
	ContactBall ContactKind = iota
	ContactWall
)

func (k ContactKind) String() string {
	switch k {
	case ContactBall:
		return "ball"
	case ContactWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Contact describes one resolved collision, reported after its response is applied
type Contact struct {
	Kind ContactKind
	A    uint64 // first body
	B    uint64 // second body, zero for wall contacts
	Wall int    // boundary index for wall contacts, -1 otherwise

	// Speed is the closing speed along the contact normal at impact
	Speed float64
	// Point is where the surfaces touched, at the time of impact
	Point vmath.Vec2
}

// ContactListener receives contacts synchronously during Step
type ContactListener func(Contact)

// StepStats summarizes the last completed step
type StepStats struct {
	Delta        float64
	Bodies       int
	BallContacts int
	WallContacts int
	// Degenerate counts pairs skipped for having no defined time of impact
	Degenerate int
	// Separating counts overlapping pairs skipped because they were already moving apart
	Separating int
}

// World owns the active bodies and the fixed boundary sequence and advances them in steps
// Single mutator: callers must not use a World from more than one goroutine
type World struct {
	bodies     []*physics.Body
	boundaries []*physics.Boundary
	wallIndex  map[*physics.Boundary]int

	ids       *IDGenerator
	maxRadius float64
	onContact ContactListener

	stats   StepStats
	steps   uint64
	elapsed float64
}

// Option configures a World at construction
type Option func(*World)

// WithIDGenerator shares an ID generator, otherwise each world starts at 1
func WithIDGenerator(g *IDGenerator) Option {
	return func(w *World) { w.ids = g }
}

// WithContactListener registers the contact listener
func WithContactListener(fn ContactListener) Option {
	return func(w *World) { w.onContact = fn }
}

// NewWorld creates a world over an ordered boundary sequence
// maxRadius bounds every body radius and sizes the broad-phase sweep window
func NewWorld(boundaries []*physics.Boundary, maxRadius float64, opts ...Option) (*World, error) {
	if !(maxRadius > 0) || math.IsInf(maxRadius, 0) {
		return nil, fmt.Errorf("%w: max radius %v must be positive", physics.ErrInvalidConfiguration, maxRadius)
	}

	w := &World{
		boundaries: slices.Clone(boundaries),
		wallIndex:  make(map[*physics.Boundary]int, len(boundaries)),
		ids:        NewIDGenerator(),
		maxRadius:  maxRadius,
	}
	for i, b := range w.boundaries {
		if b == nil {
			return nil, fmt.Errorf("%w: boundary %d is nil", physics.ErrInvalidConfiguration, i)
		}
		w.wallIndex[b] = i
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// SetContactListener replaces the contact listener, nil disables reporting
func (w *World) SetContactListener(fn ContactListener) {
	w.onContact = fn
}

// Spawn creates and registers a body
func (w *World) Spawn(position, velocity vmath.Vec2, radius, restitution float64, tag string) (*physics.Body, error) {
	if radius > w.maxRadius {
		return nil, fmt.Errorf("%w: radius %v exceeds world bound %v", physics.ErrInvalidConfiguration, radius, w.maxRadius)
	}
	b, err := physics.NewBody(w.ids.Peek(), position, velocity, radius, restitution, tag)
	if err != nil {
		return nil, err
	}
	w.ids.Next()
	w.bodies = append(w.bodies, b)
	return b, nil
}

// Remove drops a body from the active set, reporting whether it was present
func (w *World) Remove(id uint64) bool {
	i := slices.IndexFunc(w.bodies, func(b *physics.Body) bool { return b.ID() == id })
	if i < 0 {
		return false
	}
	w.bodies = slices.Delete(w.bodies, i, i+1)
	return true
}

// Clear removes every body, IDs keep increasing
func (w *World) Clear() {
	clear(w.bodies)
	w.bodies = w.bodies[:0]
}

func (w *World) Len() int           { return len(w.bodies) }
func (w *World) MaxRadius() float64 { return w.maxRadius }
func (w *World) Stats() StepStats   { return w.stats }

// Elapsed returns total simulated seconds
func (w *World) Elapsed() float64 { return w.elapsed }

// Steps returns the number of completed steps
func (w *World) Steps() uint64 { return w.steps }

// Step advances the simulation by delta seconds
// Gravity and free flight first, then ball-ball contacts, then ball-wall contacts.
// Each detected pair is rewound to its time of impact, responds, and replays
// forward immediately; pairs are resolved one at a time in detection order, so a
// body hit twice in one step meets the second contact with its updated velocity.
func (w *World) Step(delta float64) error {
	if !(delta >= 0) || math.IsInf(delta, 0) {
		return fmt.Errorf("%w: step delta %v", physics.ErrInvalidConfiguration, delta)
	}

	w.stats = StepStats{Delta: delta, Bodies: len(w.bodies)}

	for _, b := range w.bodies {
		b.AddGravity(delta)
		b.Move(delta)
	}

	physics.DetectBallCollisions(w.bodies, w.maxRadius, w.resolveBall)
	physics.DetectWallCollisions(w.bodies, w.boundaries, w.resolveWall)

	w.steps++
	w.elapsed += delta
	return nil
}

// resolveBall counts degenerate motion before the separating check
func (w *World) resolveBall(a, b *physics.Body) {
	toi, err := a.ImpactTimeBall(b)
	if err != nil {
		w.stats.Degenerate++
		log.Printf("engine: skipped contact: %v", err)
		return
	}
	// Coincident centres have no normal until rewound
	if a.Position != b.Position && !a.Approaching(b) {
		w.stats.Separating++
		return
	}

	a.Move(-toi)
	b.Move(-toi)

	speed := b.ClosingSpeed(a)
	var point vmath.Vec2
	if n, err := b.Position.Sub(a.Position).Normalize(); err == nil {
		point = a.Position.Add(n.Scale(a.Radius()))
	}

	collideErr := a.CollideBall(b)
	a.Move(toi)
	b.Move(toi)

	if collideErr != nil {
		w.stats.Degenerate++
		log.Printf("engine: skipped contact: %v", collideErr)
		return
	}
	w.stats.BallContacts++

	if w.onContact != nil {
		w.onContact(Contact{Kind: ContactBall, A: a.ID(), B: b.ID(), Wall: -1, Speed: speed, Point: point})
	}
}

func (w *World) resolveWall(b *physics.Body, wall *physics.Boundary) {
	toi, err := b.ImpactTimeWall(wall)
	if err != nil {
		w.stats.Degenerate++
		log.Printf("engine: skipped contact: %v", err)
		return
	}
	if !b.Approaching(wall) {
		w.stats.Separating++
		return
	}

	b.Move(-toi)
	speed := wall.ClosingSpeed(b)
	point := b.Position.Add(wall.Normal.Scale(b.Radius()))
	b.CollideWall(wall)
	b.Move(toi)
	w.stats.WallContacts++

	if w.onContact != nil {
		w.onContact(Contact{Kind: ContactWall, A: b.ID(), Wall: w.wallIndex[wall], Speed: speed, Point: point})
	}
}

// TotalKineticEnergy sums ½mv² over all bodies
func (w *World) TotalKineticEnergy() float64 {
	var e float64
	for _, b := range w.bodies {
		e += b.KineticEnergy()
	}
	return e
}

// BodyView is a read-only copy of a body's state for presentation
type BodyView struct {
	ID          uint64     `json:"id"`
	Position    vmath.Vec2 `json:"position"`
	Velocity    vmath.Vec2 `json:"velocity"`
	Radius      float64    `json:"radius"`
	Mass        float64    `json:"mass"`
	Restitution float64    `json:"restitution"`
	Tag         string     `json:"tag"`
}

// BoundaryView is a read-only copy of a wall including its display points
type BoundaryView struct {
	Normal vmath.Vec2 `json:"normal"`
	Limit  float64    `json:"limit"`
	P1     vmath.Vec2 `json:"p1"`
	P2     vmath.Vec2 `json:"p2"`
}

// Snapshot is the complete presentation state at a step boundary
type Snapshot struct {
	Step       uint64         `json:"step"`
	Elapsed    float64        `json:"elapsed"`
	Bodies     []BodyView     `json:"bodies"`
	Boundaries []BoundaryView `json:"boundaries"`
}

func viewOf(b *physics.Body) BodyView {
	return BodyView{
		ID:          b.ID(),
		Position:    b.Position,
		Velocity:    b.Velocity,
		Radius:      b.Radius(),
		Mass:        b.Mass(),
		Restitution: b.Restitution(),
		Tag:         b.Tag(),
	}
}

// Bodies returns views of all active bodies in ID order
func (w *World) Bodies() []BodyView {
	views := make([]BodyView, len(w.bodies))
	for i, b := range w.bodies {
		views[i] = viewOf(b)
	}
	slices.SortFunc(views, func(a, b BodyView) int { return cmp.Compare(a.ID, b.ID) })
	return views
}

// Body returns the view of one body
func (w *World) Body(id uint64) (BodyView, bool) {
	for _, b := range w.bodies {
		if b.ID() == id {
			return viewOf(b), true
		}
	}
	return BodyView{}, false
}

// BodyAt returns the body covering point p, the lowest ID wins on overlap
func (w *World) BodyAt(p vmath.Vec2) (BodyView, bool) {
	var found *physics.Body
	for _, b := range w.bodies {
		if b.Position.Distance(p) <= b.Radius() && (found == nil || b.ID() < found.ID()) {
			found = b
		}
	}
	if found == nil {
		return BodyView{}, false
	}
	return viewOf(found), true
}

// Boundaries returns views of the walls in construction order
func (w *World) Boundaries() []BoundaryView {
	views := make([]BoundaryView, len(w.boundaries))
	for i, b := range w.boundaries {
		p1, p2 := b.DisplayPoints()
		views[i] = BoundaryView{Normal: b.Normal, Limit: b.Limit, P1: p1, P2: p2}
	}
	return views
}

// Snapshot captures bodies and walls together
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Step:       w.steps,
		Elapsed:    w.elapsed,
		Bodies:     w.Bodies(),
		Boundaries: w.Boundaries(),
	}
}
