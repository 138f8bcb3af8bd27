package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/bounce/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1.0
			if o.phase >= 0.5 {
				val = -1.0
			}
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with attack and release ramps over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear volume, zero is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// ImpactLoudness maps a closing speed to 0.0-1.0, zero below the chatter threshold
func ImpactLoudness(speed float64) float64 {
	if speed < parameter.ImpactMinSpeed {
		return 0
	}
	return min(speed/parameter.ImpactReferenceSpeed, 1)
}

// CreateImpactSound generates a short knock whose volume follows impact speed
// Returns nil when the impact is too soft to hear or the type is unknown
func CreateImpactSound(soundType SoundType, speed float64, cfg *AudioConfig) beep.Streamer {
	if soundType < 0 || soundType >= soundTypeCount {
		return nil
	}
	loudness := ImpactLoudness(speed)
	if loudness == 0 {
		return nil
	}

	rate := beep.SampleRate(cfg.SampleRate)
	freq := parameter.ImpactBaseFreq
	if soundType == SoundWallImpact {
		freq /= 2
	}

	// Tone body plus a burst of noise for the click of contact
	tone := NewEnvelope(
		NewOscillator(freq, parameter.ImpactSoundDuration, WaveSine, rate),
		parameter.ImpactSoundDuration, parameter.ImpactSoundAttack, parameter.ImpactSoundRelease, rate,
	)
	click := NewEnvelope(
		NewOscillator(0, parameter.ImpactSoundDuration/4, WaveNoise, rate),
		parameter.ImpactSoundDuration/4, 0, parameter.ImpactSoundDuration/4, rate,
	)
	mixed := beep.Mix(newVolume(tone, 0.8), newVolume(click, 0.2))

	return newVolume(mixed, loudness*cfg.EffectVolumes[soundType]*cfg.MasterVolume)
}
