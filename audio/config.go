package audio

import (
	"os"
	"strconv"

	"github.com/lixenwraith/bounce/parameter"
)

// AudioConfig holds mixer settings
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64                // 0.0-1.0
	EffectVolumes [soundTypeCount]float64 // per-sound scale, 0.0-1.0
	SampleRate    int
}

// DefaultAudioConfig returns the built-in mixer settings
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: parameter.AudioMasterVolume,
		EffectVolumes: [soundTypeCount]float64{
			SoundBallImpact: 0.8,
			SoundWallImpact: 1.0,
		},
		SampleRate: parameter.AudioSampleRate,
	}
}

// ApplyEnv overrides settings from BOUNCE_AUDIO_ENABLED and BOUNCE_MASTER_VOLUME (0-100)
// Malformed values are ignored
func (c *AudioConfig) ApplyEnv() {
	if enabled := os.Getenv("BOUNCE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Enabled = val
		}
	}

	if volume := os.Getenv("BOUNCE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			c.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}
}
