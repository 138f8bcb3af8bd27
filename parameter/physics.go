package parameter

// Simulation physics, world units are metres and seconds with +Y pointing down
const (
	// Gravity is the downward acceleration applied to every body (m/s²)
	Gravity = 9.806

	// NormalTolerance is the allowed deviation from unit length for boundary normals
	NormalTolerance = 1e-9

	// WallDisplayExtent is how far each boundary display point lies from the line's anchor
	// Presentation only, large enough to look infinite at any arena size
	WallDisplayExtent = 100000.0

	// MaxStepDelta clamps wall-clock deltas so a stalled frame cannot teleport bodies
	MaxStepDelta = 0.05
)
