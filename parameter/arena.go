package parameter

// Default arena geometry
const (
	ArenaWidth       = 1000.0
	ArenaHeight      = 500.0
	ArenaCornerInset = 100.0
)

// Body spawn ranges
const (
	MinBodyRadius = 5.0
	MaxBodyRadius = 20.0

	// Restitution range for randomly spawned bodies
	MinSpawnRestitution = 0.7
	MaxSpawnRestitution = 0.9

	// MaxSpawnSpeed bounds each velocity component of a random spawn (m/s)
	MaxSpawnSpeed = 100.0

	// InitialBodyCount is spawned at startup by the driver
	InitialBodyCount = 12
)

// BodyPalette holds appearance tags assigned to spawned bodies
var BodyPalette = []string{"#F16745", "#FFC65D", "#7BC8A4", "#4CC3D9", "#93648D"}
