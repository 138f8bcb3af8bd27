package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/lixenwraith/bounce/parameter"
)

// summary accumulates per-step stats over a headless run
type summary struct {
	Steps        int
	BallContacts int
	WallContacts int
	Degenerate   int
	Separating   int
	EnergyBefore float64
	EnergyAfter  float64
	Escaped      int
	ElapsedSim   float64
	ElapsedWall  time.Duration
	FinalBodies  int
	Interrupted  bool
}

// runHeadless steps the world at a fixed delta and writes a summary to out
// With stream viewers attached the steps are paced at the tick interval, otherwise they run flat out
// steps <= 0 runs until ctx ends
func runHeadless(ctx context.Context, a *app, steps int, out io.Writer) error {
	s := summary{EnergyBefore: a.world.TotalKineticEnergy()}
	start := time.Now()

	var pace <-chan time.Time
	if a.hub != nil {
		ticker := time.NewTicker(a.cfg.TickInterval())
		defer ticker.Stop()
		pace = ticker.C
	}
	lastBroadcast := time.Time{}

	for steps <= 0 || s.Steps < steps {
		if pace != nil {
			select {
			case <-ctx.Done():
				s.Interrupted = true
			case <-pace:
			}
		} else if ctx.Err() != nil {
			s.Interrupted = true
		}
		if s.Interrupted {
			break
		}

		if err := a.world.Step(parameter.HeadlessDelta); err != nil {
			return fmt.Errorf("step %d: %w", s.Steps, err)
		}
		s.Steps++

		st := a.world.Stats()
		s.BallContacts += st.BallContacts
		s.WallContacts += st.WallContacts
		s.Degenerate += st.Degenerate
		s.Separating += st.Separating

		if s.Steps%100 == 0 {
			log.Printf("bounce: step %d bodies %d energy %.1f", s.Steps, st.Bodies, a.world.TotalKineticEnergy())
		}
		if a.hub != nil && time.Since(lastBroadcast) >= parameter.StreamInterval {
			a.broadcast()
			lastBroadcast = time.Now()
		}
	}

	s.EnergyAfter = a.world.TotalKineticEnergy()
	s.ElapsedSim = a.world.Elapsed()
	s.ElapsedWall = time.Since(start)
	s.FinalBodies = a.world.Len()
	for _, b := range a.world.Bodies() {
		if !a.arena.Contains(b.Position, 0) {
			s.Escaped++
		}
	}

	s.write(out)
	return nil
}

func (s summary) write(out io.Writer) {
	fmt.Fprintf(out, "steps:          %d\n", s.Steps)
	fmt.Fprintf(out, "simulated:      %.2fs in %v\n", s.ElapsedSim, s.ElapsedWall.Round(time.Millisecond))
	fmt.Fprintf(out, "bodies:         %d (%d outside arena)\n", s.FinalBodies, s.Escaped)
	fmt.Fprintf(out, "contacts:       %d ball, %d wall\n", s.BallContacts, s.WallContacts)
	fmt.Fprintf(out, "skipped pairs:  %d degenerate, %d separating\n", s.Degenerate, s.Separating)
	fmt.Fprintf(out, "kinetic energy: %.1f -> %.1f\n", s.EnergyBefore, s.EnergyAfter)
	if s.Interrupted {
		fmt.Fprintln(out, "interrupted")
	}
}
