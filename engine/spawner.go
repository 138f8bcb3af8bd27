package engine

import (
	"fmt"
	"math/rand"

	"github.com/lixenwraith/bounce/physics"
	"github.com/lixenwraith/bounce/vmath"
)

// spawnAttempts bounds the search for a free position inside the arena
const spawnAttempts = 64

// SpawnConfig holds the ranges random bodies are drawn from
type SpawnConfig struct {
	MinRadius      float64
	MaxRadius      float64
	MinRestitution float64
	MaxRestitution float64
	// MaxSpeed bounds each velocity component to [-MaxSpeed, MaxSpeed)
	MaxSpeed float64
	Palette  []string
}

// Spawner creates randomized bodies from a seeded source so runs are reproducible
type Spawner struct {
	cfg SpawnConfig
	rng *rand.Rand
}

// NewSpawner creates a spawner with its own random source
func NewSpawner(cfg SpawnConfig, seed int64) *Spawner {
	return &Spawner{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

func (s *Spawner) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// SpawnAt adds a random body centred at p
func (s *Spawner) SpawnAt(w *World, p vmath.Vec2) (*physics.Body, error) {
	vel := vmath.V2(s.between(-s.cfg.MaxSpeed, s.cfg.MaxSpeed), s.between(-s.cfg.MaxSpeed, s.cfg.MaxSpeed))
	radius := s.between(s.cfg.MinRadius, s.cfg.MaxRadius)
	restitution := s.between(s.cfg.MinRestitution, s.cfg.MaxRestitution)

	var tag string
	if len(s.cfg.Palette) > 0 {
		tag = s.cfg.Palette[s.rng.Intn(len(s.cfg.Palette))]
	}
	return w.Spawn(p, vel, radius, restitution, tag)
}

// SpawnInside adds a random body at a random position clear of walls and other bodies
func (s *Spawner) SpawnInside(w *World, a *Arena) (*physics.Body, error) {
	for range spawnAttempts {
		p := vmath.V2(s.rng.Float64()*a.Width, s.rng.Float64()*a.Height)
		if !a.Contains(p, s.cfg.MaxRadius) || w.occupied(p, s.cfg.MaxRadius) {
			continue
		}
		return s.SpawnAt(w, p)
	}
	return nil, fmt.Errorf("no free position after %d attempts", spawnAttempts)
}

// occupied reports whether a circle at p with radius r would overlap any body
func (w *World) occupied(p vmath.Vec2, r float64) bool {
	for _, b := range w.bodies {
		if b.Position.Distance(p) < b.Radius()+r {
			return true
		}
	}
	return false
}
