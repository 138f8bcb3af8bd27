package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/lixenwraith/bounce/audio"
	"github.com/lixenwraith/bounce/config"
	"github.com/lixenwraith/bounce/parameter"
	"github.com/lixenwraith/bounce/stream"
)

var (
	configFlag   = flag.String("config", "", "Path to a TOML config file")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/bounce.log")
	headlessFlag = flag.Bool("headless", false, "Run without a terminal UI and print a summary")
	stepsFlag    = flag.Int("steps", parameter.HeadlessSteps, "Headless step count, 0 runs until interrupted")
	serveFlag    = flag.String("serve", "", "Websocket listen address for snapshot viewers, overrides [stream] addr")
	muteFlag     = flag.Bool("mute", false, "Disable impact sounds")
	seedFlag     = flag.Int64("seed", 0, "Spawner seed, overrides [sim] seed")
	schemaFlag   = flag.Bool("schema", false, "Print the JSON schema of stream frames and exit")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the process exit code once every deferred shutdown has run
func run() int {
	if *schemaFlag {
		schema, err := stream.SnapshotSchema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build schema: %v\n", err)
			return 1
		}
		os.Stdout.Write(schema)
		return 0
	}

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	applyFlags(cfg)

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("bounce: seed %d", seed)

	a, err := newApp(cfg, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create world: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Stream.Addr != "" {
		hub := stream.NewHub()
		mux, err := stream.NewMux(hub)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create stream server: %v\n", err)
			return 1
		}
		srv := &http.Server{Addr: cfg.Stream.Addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("bounce: stream server: %v", err)
				fmt.Fprintf(os.Stderr, "Stream server failed: %v\n", err)
			}
		}()
		defer func() {
			hub.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		a.hub = hub
	}

	// A pipe or redirect cannot host the UI
	headless := *headlessFlag || !term.IsTerminal(int(os.Stdout.Fd()))
	if headless {
		if err := runHeadless(ctx, a, *stepsFlag, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
			return 1
		}
		return 0
	}

	if cfg.Audio.Enabled {
		audioCfg := audio.DefaultAudioConfig()
		audioCfg.MasterVolume = cfg.Audio.Volume
		audioCfg.SampleRate = cfg.Audio.SampleRate
		audioCfg.ApplyEnv()

		sound := audio.NewSoundManager(audioCfg)
		if err := sound.Initialize(); err != nil {
			// Non-fatal, the simulation runs without sound
			log.Printf("bounce: audio unavailable: %v", err)
		} else if sound.IsInitialized() {
			a.sound = sound
			defer sound.Cleanup()
		}
	}

	if err := runTerminal(ctx, a); err != nil {
		fmt.Fprintf(os.Stderr, "Terminal failed: %v\n", err)
		return 1
	}
	return 0
}

// applyFlags layers explicitly set command-line flags over the file config
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "serve":
			cfg.Stream.Addr = *serveFlag
		case "mute":
			cfg.Audio.Enabled = cfg.Audio.Enabled && !*muteFlag
		case "seed":
			cfg.Sim.Seed = *seedFlag
		}
	})
}

// runTerminal drives the interactive UI until the user quits or ctx ends
func runTerminal(ctx context.Context, a *app) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	// Panic Recovery: Ensure terminal is reset even if the simulation crashes
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mBOUNCE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	eventChan := make(chan tcell.Event, parameter.EventChannelSize)
	// Input polling uses raw goroutine as it interacts directly with terminal
	go func() {
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				fmt.Fprintf(os.Stderr, "\r\n\x1b[31mEVENT POLLER CRASHED: %v\x1b[0m\r\n", r)
				fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
				os.Exit(1)
			}
		}()
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	tickTicker := time.NewTicker(a.cfg.TickInterval())
	defer tickTicker.Stop()
	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()
	streamTicker := time.NewTicker(parameter.StreamInterval)
	defer streamTicker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
				continue
			}
			if !a.handleEvent(ev) {
				return nil
			}

		case now := <-tickTicker.C:
			delta := now.Sub(last).Seconds()
			last = now
			if err := a.step(delta); err != nil {
				return err
			}

		case <-frameTicker.C:
			a.renderer.Draw(screen, a.world, a.frame())
			screen.Show()

		case <-streamTicker.C:
			a.broadcast()
		}
	}
}
