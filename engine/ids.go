package engine

// IDGenerator hands out body identifiers, monotonically increasing from 1
// Owned by a World so identity is reproducible per world rather than per process
type IDGenerator struct {
	next uint64
}

// NewIDGenerator creates a generator whose first ID is 1
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{next: 1}
}

// Next reserves and returns a new ID
func (g *IDGenerator) Next() uint64 {
	id := g.next
	g.next++
	return id
}

// Peek returns the ID the next call to Next will produce
func (g *IDGenerator) Peek() uint64 {
	return g.next
}
