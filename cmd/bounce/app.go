package main

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bounce/audio"
	"github.com/lixenwraith/bounce/config"
	"github.com/lixenwraith/bounce/engine"
	"github.com/lixenwraith/bounce/render"
	"github.com/lixenwraith/bounce/stream"
)

// app owns the world and everything that reacts to it
// All methods run on the main loop goroutine
type app struct {
	cfg      *config.Config
	arena    *engine.Arena
	world    *engine.World
	spawner  *engine.Spawner
	renderer *render.ArenaRenderer

	// Optional outputs, nil when disabled
	sound *audio.SoundManager
	hub   *stream.Hub

	pointer render.Pointer
	buttons tcell.ButtonMask
	paused  bool
	muted   bool
}

// newApp builds the arena and world and fills it with the initial bodies
func newApp(cfg *config.Config, seed int64) (*app, error) {
	arena, err := engine.NewArena(cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.CornerInset)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}

	world, err := engine.NewWorld(arena.Boundaries, cfg.Bodies.MaxRadius)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	a := &app{
		cfg:      cfg,
		arena:    arena,
		world:    world,
		spawner:  engine.NewSpawner(cfg.SpawnConfig(), seed),
		renderer: render.NewArenaRenderer(arena),
		muted:    !cfg.Audio.Enabled,
	}
	world.SetContactListener(a.onContact)

	for i := 0; i < cfg.Bodies.InitialCount; i++ {
		if _, err := a.spawner.SpawnInside(world, arena); err != nil {
			log.Printf("bounce: initial spawn stopped at %d bodies: %v", i, err)
			break
		}
	}
	return a, nil
}

// step advances the world by a wall-clock delta clamped to the configured maximum
// A long stall would otherwise tunnel bodies through walls in one step
func (a *app) step(delta float64) error {
	if a.paused {
		return nil
	}
	return a.world.Step(min(delta, a.cfg.Sim.MaxDelta))
}

func (a *app) onContact(c engine.Contact) {
	if a.sound != nil && !a.muted {
		a.sound.OnContact(c)
	}
}

// handleEvent applies one terminal event, returns false when the user quits
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return true
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			if _, err := a.spawner.SpawnInside(a.world, a.arena); err != nil {
				log.Printf("bounce: spawn: %v", err)
			}
		case 'c':
			a.world.Clear()
		case 'p':
			a.paused = !a.paused
		case 'm':
			a.muted = !a.muted
		}
	}
	return true
}

// handleMouse tracks the pointer for the readout and spawns a body on each left press
func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	a.pointer = render.Pointer{X: x, Y: y, Valid: true}

	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = buttons
	if !pressed {
		return
	}

	p, ok := a.renderer.WorldAt(x, y)
	if !ok || !a.arena.Contains(p, a.cfg.Bodies.MaxRadius) {
		return
	}
	if _, err := a.spawner.SpawnAt(a.world, p); err != nil {
		log.Printf("bounce: spawn at %v: %v", p, err)
	}
}

func (a *app) frame() render.Frame {
	f := render.Frame{
		Pointer: a.pointer,
		Paused:  a.paused,
		Muted:   a.muted || a.sound == nil,
	}
	if a.hub != nil {
		f.Clients = a.hub.Clients()
	}
	return f
}

// broadcast pushes the current snapshot to stream viewers
func (a *app) broadcast() {
	if a.hub == nil || a.hub.Clients() == 0 {
		return
	}
	if err := a.hub.Broadcast(a.world.Snapshot()); err != nil {
		log.Printf("bounce: broadcast: %v", err)
	}
}
