package physics

import (
	"cmp"
	"slices"
)

// BallPairFunc receives each overlapping body pair once per detection pass
type BallPairFunc func(a, b *Body)

// WallPairFunc receives each penetrating body/wall pair
type WallPairFunc func(b *Body, w *Boundary)

// DetectBallCollisions finds overlapping pairs with a sort-and-sweep on X
// bodies is sorted in place by Position.X (stable, ties keep prior order).
// maxRadius must bound every body's radius: the forward scan for a body stops
// once the next candidate's left edge, padded by maxRadius, lies past its right edge.
// Pairs are reported in ascending X of the first body, then ascending index of the second.
func DetectBallCollisions(bodies []*Body, maxRadius float64, fn BallPairFunc) {
	// A fresh sort each pass is O(n log n); an incrementally maintained order
	// would approach O(n) under temporal coherence
	slices.SortStableFunc(bodies, func(a, b *Body) int {
		return cmp.Compare(a.Position.X, b.Position.X)
	})

	for i := 0; i < len(bodies)-1; i++ {
		a := bodies[i]
		reach := a.Position.X + a.radius
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			if reach < b.Position.X-maxRadius {
				break
			}
			if a.IsColliding(b) {
				fn(a, b)
			}
		}
	}
}

// DetectWallCollisions checks every body against every wall, body order then wall order
// Wall count is small and fixed so no broad phase is used
func DetectWallCollisions(bodies []*Body, walls []*Boundary, fn WallPairFunc) {
	for _, b := range bodies {
		for _, w := range walls {
			if b.IsColliding(w) {
				fn(b, w)
			}
		}
	}
}
