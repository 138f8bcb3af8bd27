package audio

import "errors"

// SoundType represents different impact sounds
type SoundType int

const (
	SoundBallImpact SoundType = iota // Ball against ball knock
	SoundWallImpact                  // Ball against wall thud
	soundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundBallImpact:
		return "ball"
	case SoundWallImpact:
		return "wall"
	default:
		return "unknown"
	}
}

// Sentinel errors
var (
	ErrNotInitialized = errors.New("audio: speaker not initialized")
)
