package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/bounce/engine"
	"github.com/lixenwraith/bounce/parameter"
)

// SoundManager turns simulation contacts into impact sounds
type SoundManager struct {
	mu          sync.Mutex
	config      *AudioConfig
	mixer       *beep.Mixer
	initialized bool

	// lastPlayed throttles bursts, a resting pile reports contacts every step
	lastPlayed time.Time
	loudest    float64

	now  func() time.Time
	sink func(beep.Streamer)

	played  int
	dropped int
}

// NewSoundManager creates a sound manager, nil config uses defaults
func NewSoundManager(cfg *AudioConfig) *SoundManager {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	sm := &SoundManager{
		config: cfg,
		mixer:  &beep.Mixer{},
		now:    time.Now,
	}
	sm.sink = sm.addToMixer
	return sm
}

// Initialize opens the speaker and starts the mixer
// A disabled config initializes nothing and is not an error
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.config.Enabled {
		return nil
	}

	rate := beep.SampleRate(sm.config.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences the mixer and releases the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	sm.initialized = false
	log.Printf("audio: played %d impacts, dropped %d", sm.played, sm.dropped)
}

// IsInitialized reports whether sounds will be heard
func (sm *SoundManager) IsInitialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// PlayImpact queues an impact sound scaled by closing speed
// Within MinSoundGap of the last sound only a louder impact gets through
func (sm *SoundManager) PlayImpact(soundType SoundType, speed float64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return ErrNotInitialized
	}

	loudness := ImpactLoudness(speed)
	if loudness == 0 {
		return nil
	}

	now := sm.now()
	if now.Sub(sm.lastPlayed) < parameter.MinSoundGap && loudness <= sm.loudest {
		sm.dropped++
		return nil
	}

	streamer := CreateImpactSound(soundType, speed, sm.config)
	if streamer == nil {
		return nil
	}

	sm.lastPlayed = now
	sm.loudest = loudness
	sm.played++
	sm.sink(streamer)
	return nil
}

// OnContact adapts PlayImpact to the world contact listener
func (sm *SoundManager) OnContact(c engine.Contact) {
	kind := SoundBallImpact
	if c.Kind == engine.ContactWall {
		kind = SoundWallImpact
	}
	_ = sm.PlayImpact(kind, c.Speed)
}

// Stats returns the number of sounds played and throttled
func (sm *SoundManager) Stats() (played, dropped int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.played, sm.dropped
}

// addToMixer hands a voice to the speaker goroutine
func (sm *SoundManager) addToMixer(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
