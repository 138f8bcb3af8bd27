package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// MinSoundGap between consecutive impact sounds, collapses bursts into one voice
	MinSoundGap = 30 * time.Millisecond

	// AudioMasterVolume is the default master volume (0.0-1.0)
	AudioMasterVolume = 0.5
)

// Impact Sound
const (
	ImpactSoundDuration = 60 * time.Millisecond
	ImpactSoundAttack   = 2 * time.Millisecond
	ImpactSoundRelease  = 45 * time.Millisecond

	// ImpactBaseFreq is the pitch of a ball-ball knock, wall knocks are an octave lower
	ImpactBaseFreq = 660.0

	// ImpactReferenceSpeed maps to full volume, slower impacts scale down linearly
	ImpactReferenceSpeed = 150.0

	// ImpactMinSpeed filters resting-contact chatter
	ImpactMinSpeed = 5.0
)
