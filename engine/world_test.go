package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/bounce/parameter"
	"github.com/lixenwraith/bounce/physics"
	"github.com/lixenwraith/bounce/vmath"
)

func newTestWorld(t *testing.T, width, height, inset, maxRadius float64, opts ...Option) (*World, *Arena) {
	t.Helper()
	a, err := NewArena(width, height, inset)
	if err != nil {
		t.Fatalf("NewArena failed: %v", err)
	}
	w, err := NewWorld(a.Boundaries, maxRadius, opts...)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w, a
}

func mustSpawn(t *testing.T, w *World, pos, vel vmath.Vec2, radius, restitution float64) *physics.Body {
	t.Helper()
	b, err := w.Spawn(pos, vel, radius, restitution, "")
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	return b
}

func TestNewWorldValidation(t *testing.T) {
	if _, err := NewWorld(nil, 0); !errors.Is(err, physics.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for zero max radius, got %v", err)
	}
	if _, err := NewWorld([]*physics.Boundary{nil}, 10); !errors.Is(err, physics.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for nil boundary, got %v", err)
	}
}

func TestSpawnAssignsSequentialIDs(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)

	a := mustSpawn(t, w, vmath.V2(100, 100), vmath.Zero2, 5, 0.8)
	// invalid spawn must not consume an ID
	if _, err := w.Spawn(vmath.V2(1, 1), vmath.Zero2, -1, 0.8, ""); !errors.Is(err, physics.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
	b := mustSpawn(t, w, vmath.V2(200, 100), vmath.Zero2, 5, 0.8)

	if a.ID() != 1 || b.ID() != 2 {
		t.Errorf("Expected IDs 1 and 2, got %d and %d", a.ID(), b.ID())
	}
	if w.Len() != 2 {
		t.Errorf("Expected 2 bodies, got %d", w.Len())
	}
}

func TestSpawnSharedIDGenerator(t *testing.T) {
	ids := NewIDGenerator()
	w1, _ := newTestWorld(t, 100, 100, 0, 5, WithIDGenerator(ids))
	w2, _ := newTestWorld(t, 100, 100, 0, 5, WithIDGenerator(ids))

	a := mustSpawn(t, w1, vmath.V2(50, 50), vmath.Zero2, 1, 1)
	b := mustSpawn(t, w2, vmath.V2(50, 50), vmath.Zero2, 1, 1)
	if a.ID() == b.ID() {
		t.Errorf("Expected distinct IDs from shared generator, both %d", a.ID())
	}
}

func TestSpawnRejectsRadiusAboveBound(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	if _, err := w.Spawn(vmath.V2(500, 250), vmath.Zero2, 21, 0.8, ""); !errors.Is(err, physics.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	a := mustSpawn(t, w, vmath.V2(100, 100), vmath.Zero2, 5, 0.8)
	mustSpawn(t, w, vmath.V2(200, 100), vmath.Zero2, 5, 0.8)

	if !w.Remove(a.ID()) {
		t.Error("Expected Remove to find body")
	}
	if w.Remove(a.ID()) {
		t.Error("Expected second Remove to report absence")
	}
	if _, ok := w.Body(a.ID()); ok {
		t.Error("Removed body still visible")
	}

	w.Clear()
	if w.Len() != 0 {
		t.Errorf("Expected empty world, got %d", w.Len())
	}
	for i, stale := range w.bodies[:cap(w.bodies)] {
		if stale != nil {
			t.Errorf("Expected cleared slot %d to release its body, got %v", i, stale)
		}
	}
	c := mustSpawn(t, w, vmath.V2(100, 100), vmath.Zero2, 5, 0.8)
	if c.ID() != 3 {
		t.Errorf("Expected IDs to keep increasing after Clear, got %d", c.ID())
	}
}

func TestStepRejectsInvalidDelta(t *testing.T) {
	w, _ := newTestWorld(t, 100, 100, 0, 5)
	for _, d := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		if err := w.Step(d); !errors.Is(err, physics.ErrInvalidConfiguration) {
			t.Errorf("delta %v: expected ErrInvalidConfiguration, got %v", d, err)
		}
	}
	if err := w.Step(0); err != nil {
		t.Errorf("Expected zero delta to be accepted, got %v", err)
	}
}

func TestStepFreeFlight(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	b := mustSpawn(t, w, vmath.V2(500, 250), vmath.V2(10, -5), 5, 0.8)

	if err := w.Step(0.1); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	// gravity is accumulated before motion
	vy := -5 + parameter.Gravity*0.1
	want := vmath.V2(501, 250+vy*0.1)
	if !b.Position.ApproxEqual(want, 1e-12) {
		t.Errorf("Expected position %v, got %v", want, b.Position)
	}
	if w.Steps() != 1 || math.Abs(w.Elapsed()-0.1) > 1e-15 {
		t.Errorf("Expected 1 step and 0.1s elapsed, got %d and %v", w.Steps(), w.Elapsed())
	}
}

func TestStepHeadOnCollision(t *testing.T) {
	var contacts []Contact
	w, _ := newTestWorld(t, 1000, 500, 100, 20, WithContactListener(func(c Contact) {
		contacts = append(contacts, c)
	}))
	a := mustSpawn(t, w, vmath.V2(500, 250), vmath.V2(10, 0), 1, 1)
	b := mustSpawn(t, w, vmath.V2(502.5, 250), vmath.V2(-10, 0), 1, 1)

	if err := w.Step(0.1); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	// Touching at t=0.025, elastic swap, then 0.075s of separation
	if math.Abs(a.Position.X-499.5) > 1e-9 || math.Abs(b.Position.X-503) > 1e-9 {
		t.Errorf("Expected x positions 499.5 and 503, got %v and %v", a.Position.X, b.Position.X)
	}
	if math.Abs(a.Velocity.X+10) > 1e-9 || math.Abs(b.Velocity.X-10) > 1e-9 {
		t.Errorf("Expected swapped velocities, got %v and %v", a.Velocity, b.Velocity)
	}
	if a.Position.Y != b.Position.Y {
		t.Errorf("Expected vertical motion unaffected, got %v and %v", a.Position.Y, b.Position.Y)
	}

	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	c := contacts[0]
	if c.Kind != ContactBall || c.Wall != -1 {
		t.Errorf("Expected ball contact, got %v wall %d", c.Kind, c.Wall)
	}
	if math.Abs(c.Speed-20) > 1e-9 {
		t.Errorf("Expected closing speed 20, got %v", c.Speed)
	}
	if !c.Point.ApproxEqual(vmath.V2(501.25, c.Point.Y), 1e-9) {
		t.Errorf("Expected contact at x=501.25, got %v", c.Point)
	}
	if s := w.Stats(); s.BallContacts != 1 || s.WallContacts != 0 {
		t.Errorf("Unexpected stats %+v", s)
	}
}

func TestStepFloorBounce(t *testing.T) {
	var contacts []Contact
	w, a := newTestWorld(t, 100, 100, 0, 10, WithContactListener(func(c Contact) {
		contacts = append(contacts, c)
	}))
	b := mustSpawn(t, w, vmath.V2(50, 94), vmath.V2(0, 20), 5, 1)

	if err := w.Step(0.1); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	v := 20 + parameter.Gravity*0.1
	penetration := 94 + v*0.1 + 5 - 100
	wantY := 95 - penetration
	if math.Abs(b.Position.Y-wantY) > 1e-9 {
		t.Errorf("Expected y %v, got %v", wantY, b.Position.Y)
	}
	if math.Abs(b.Velocity.Y+v) > 1e-9 {
		t.Errorf("Expected velocity.y %v, got %v", -v, b.Velocity.Y)
	}
	if !a.Contains(b.Position, b.Radius()) {
		t.Error("Expected ball back inside the arena")
	}

	if len(contacts) != 1 || contacts[0].Kind != ContactWall || contacts[0].Wall != 2 {
		t.Fatalf("Expected one contact with the bottom wall, got %+v", contacts)
	}
	if math.Abs(contacts[0].Point.Y-100) > 1e-9 {
		t.Errorf("Expected contact on the floor line, got %v", contacts[0].Point)
	}
}

func TestStepSkipsSeparatingPairs(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	a := mustSpawn(t, w, vmath.V2(500, 250), vmath.V2(-5, 0), 3, 1)
	b := mustSpawn(t, w, vmath.V2(502, 250), vmath.V2(5, 0), 3, 1)

	if err := w.Step(0.01); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if a.Velocity.X != -5 || b.Velocity.X != 5 {
		t.Errorf("Expected separating velocities untouched, got %v and %v", a.Velocity, b.Velocity)
	}
	if s := w.Stats(); s.Separating != 1 || s.BallContacts != 0 {
		t.Errorf("Unexpected stats %+v", s)
	}
}

func TestStepCoincidentBodies(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	a := mustSpawn(t, w, vmath.V2(500, 250), vmath.Zero2, 3, 1)
	b := mustSpawn(t, w, vmath.V2(500, 250), vmath.Zero2, 3, 1)

	if err := w.Step(0); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !a.Position.IsFinite() || !b.Position.IsFinite() || !a.Velocity.IsFinite() || !b.Velocity.IsFinite() {
		t.Error("Coincident bodies produced non-finite state")
	}
	if s := w.Stats(); s.Degenerate != 1 || s.Separating != 0 || s.BallContacts != 0 {
		t.Errorf("Expected one degenerate pair, got %+v", s)
	}
}

func TestStepCoincidentMovingBodies(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	a := mustSpawn(t, w, vmath.V2(500, 250), vmath.V2(4, 0), 3, 1)
	b := mustSpawn(t, w, vmath.V2(500, 250), vmath.V2(-4, 0), 3, 1)

	if err := w.Step(0); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if s := w.Stats(); s.BallContacts != 1 || s.Degenerate != 0 {
		t.Errorf("Expected coincident approaching bodies to resolve, got %+v", s)
	}
	if a.Velocity.X != -4 || b.Velocity.X != 4 {
		t.Errorf("Expected velocities exchanged, got %v and %v", a.Velocity, b.Velocity)
	}
}

func TestStepMatchedVelocityOverlap(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	a := mustSpawn(t, w, vmath.V2(500, 250), vmath.V2(3, 0), 3, 1)
	b := mustSpawn(t, w, vmath.V2(504, 250), vmath.V2(3, 0), 3, 1)

	if err := w.Step(0); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if s := w.Stats(); s.Degenerate != 1 || s.Separating != 0 || s.BallContacts != 0 {
		t.Errorf("Expected one degenerate pair, got %+v", s)
	}
	if a.Velocity != vmath.V2(3, 0) || b.Velocity != vmath.V2(3, 0) {
		t.Errorf("Expected skipped pair untouched, got %v and %v", a.Velocity, b.Velocity)
	}
}

func TestStepParallelWallMotion(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	b := mustSpawn(t, w, vmath.V2(500, 498), vmath.V2(5, 0), 5, 1)

	if err := w.Step(0); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if s := w.Stats(); s.Degenerate != 1 || s.Separating != 0 || s.WallContacts != 0 {
		t.Errorf("Expected one degenerate wall pair, got %+v", s)
	}
	if b.Velocity != vmath.V2(5, 0) {
		t.Errorf("Expected velocity untouched, got %v", b.Velocity)
	}
}

func TestStepSkipsLeavingWall(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	b := mustSpawn(t, w, vmath.V2(500, 498), vmath.V2(0, -5), 5, 1)

	if err := w.Step(0); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if s := w.Stats(); s.Separating != 1 || s.Degenerate != 0 || s.WallContacts != 0 {
		t.Errorf("Expected one separating wall pair, got %+v", s)
	}
	if b.Velocity != vmath.V2(0, -5) {
		t.Errorf("Expected velocity untouched, got %v", b.Velocity)
	}
}

func TestStepKeepsBodiesInArena(t *testing.T) {
	w, a := newTestWorld(t, parameter.ArenaWidth, parameter.ArenaHeight, parameter.ArenaCornerInset, parameter.MaxBodyRadius)
	sp := NewSpawner(SpawnConfig{
		MinRadius:      parameter.MinBodyRadius,
		MaxRadius:      parameter.MaxBodyRadius,
		MinRestitution: parameter.MinSpawnRestitution,
		MaxRestitution: parameter.MaxSpawnRestitution,
		MaxSpeed:       parameter.MaxSpawnSpeed,
		Palette:        parameter.BodyPalette,
	}, 99)

	for i := 0; i < 40; i++ {
		if _, err := sp.SpawnInside(w, a); err != nil {
			t.Fatalf("SpawnInside failed: %v", err)
		}
	}

	const slack = 2 * parameter.MaxBodyRadius
	for step := 0; step < 3000; step++ {
		if err := w.Step(0.01); err != nil {
			t.Fatalf("Step %d failed: %v", step, err)
		}
		for _, b := range w.Bodies() {
			p := b.Position
			if !p.IsFinite() {
				t.Fatalf("Step %d: body %d has non-finite position", step, b.ID)
			}
			if p.X < -slack || p.X > a.Width+slack || p.Y < -slack || p.Y > a.Height+slack {
				t.Fatalf("Step %d: body %d escaped to %v", step, b.ID, p)
			}
		}
	}
}

func TestBodiesAndSnapshot(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	mustSpawn(t, w, vmath.V2(800, 100), vmath.V2(1, 2), 10, 0.8)
	first := mustSpawn(t, w, vmath.V2(100, 100), vmath.Zero2, 5, 0.7)

	// broad phase reorders internal storage, views stay in ID order
	if err := w.Step(0.01); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	views := w.Bodies()
	if len(views) != 2 || views[0].ID != 1 || views[1].ID != 2 {
		t.Fatalf("Expected views in ID order, got %+v", views)
	}
	if views[1].Mass != first.Mass() || views[1].Radius != 5 {
		t.Errorf("Unexpected view %+v", views[1])
	}

	hit, ok := w.BodyAt(first.Position.Add(vmath.V2(3, 0)))
	if !ok || hit.ID != first.ID() {
		t.Errorf("Expected BodyAt to find body %d, got %+v %v", first.ID(), hit, ok)
	}
	if _, ok := w.BodyAt(vmath.V2(500, 400)); ok {
		t.Error("Expected BodyAt to miss empty space")
	}

	snap := w.Snapshot()
	if snap.Step != 1 || len(snap.Bodies) != 2 || len(snap.Boundaries) != 8 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
	if snap.Boundaries[0].P1.Distance(snap.Boundaries[0].P2) < 1000 {
		t.Error("Expected boundary display points far apart")
	}
}

func TestTotalKineticEnergy(t *testing.T) {
	w, _ := newTestWorld(t, 1000, 500, 100, 20)
	a := mustSpawn(t, w, vmath.V2(100, 100), vmath.V2(3, 4), 1, 1)
	b := mustSpawn(t, w, vmath.V2(300, 100), vmath.V2(0, 2), 2, 1)

	want := a.KineticEnergy() + b.KineticEnergy()
	if got := w.TotalKineticEnergy(); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
