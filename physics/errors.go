package physics

import "errors"

// Sentinel errors
var (
	// ErrDegenerateMotion marks a contact that has no defined time of impact or normal,
	// such as zero relative velocity or coincident centres. Resolvers skip the pair.
	ErrDegenerateMotion = errors.New("physics: degenerate motion")

	// ErrInvalidConfiguration marks a body or boundary that violates construction rules
	ErrInvalidConfiguration = errors.New("physics: invalid configuration")
)
