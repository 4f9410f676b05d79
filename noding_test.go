package buffer

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestSegmentIntersectCross(t *testing.T) {
	_, _, p, ok := segmentIntersect(
		Point{X: 0, Y: 0}, Point{X: 2, Y: 2},
		Point{X: 0, Y: 2}, Point{X: 2, Y: 0},
	)
	test.That(t, ok)
	test.That(t, p.Equals(Point{X: 1, Y: 1}))
}

func TestSegmentIntersectParallelNone(t *testing.T) {
	_, _, _, ok := segmentIntersect(
		Point{X: 0, Y: 0}, Point{X: 1, Y: 0},
		Point{X: 0, Y: 1}, Point{X: 1, Y: 1},
	)
	test.That(t, !ok)
}

func TestMCIndexNoderSplitsCross(t *testing.T) {
	a := NewNodedSegmentString(NewSegmentString(
		[]Point{{X: 0, Y: 0}, {X: 2, Y: 2}}, Label{}))
	b := NewNodedSegmentString(NewSegmentString(
		[]Point{{X: 0, Y: 2}, {X: 2, Y: 0}}, Label{}))

	n := NewMCIndexNoder(NewFloatingPrecisionModel())
	err := n.ComputeNodes([]*NodedSegmentString{a, b})
	test.That(t, err == nil)

	out := n.NodedSubstrings([]*NodedSegmentString{a, b})
	test.That(t, len(out) == 4)
}

// TestNodedSubstringsPreservesInteriorVertices covers two intersections
// on non-adjacent segments: the vertices strictly between them must
// survive in the middle substring instead of being replaced by a chord.
func TestNodedSubstringsPreservesInteriorVertices(t *testing.T) {
	coords := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	n := NewNodedSegmentString(NewSegmentString(coords, Label{}))
	n.AddIntersection(0, 0.5, Point{X: 0.5, Y: 0})
	n.AddIntersection(2, 0.5, Point{X: 2.5, Y: 0})

	out := n.NodedSubstrings()
	test.That(t, len(out) == 3)
	test.That(t, out[0].Coords[0].Equals(Point{X: 0, Y: 0}))
	test.That(t, out[0].Coords[len(out[0].Coords)-1].Equals(Point{X: 0.5, Y: 0}))

	mid := out[1].Coords
	test.That(t, mid[0].Equals(Point{X: 0.5, Y: 0}))
	test.That(t, mid[1].Equals(Point{X: 1, Y: 0}))
	test.That(t, mid[2].Equals(Point{X: 2, Y: 0}))
	test.That(t, mid[3].Equals(Point{X: 2.5, Y: 0}))

	test.That(t, out[2].Coords[0].Equals(Point{X: 2.5, Y: 0}))
	test.That(t, out[2].Coords[len(out[2].Coords)-1].Equals(Point{X: 3, Y: 0}))
}

// TestMCIndexNoderSplitsCollinearOverlap covers two segments that share a
// collinear overlapping sub-range (no single crossing point exists), the
// case segmentIntersect alone cannot resolve.
func TestMCIndexNoderSplitsCollinearOverlap(t *testing.T) {
	a := NewNodedSegmentString(NewSegmentString(
		[]Point{{X: 0, Y: 0}, {X: 4, Y: 0}}, Label{}))
	b := NewNodedSegmentString(NewSegmentString(
		[]Point{{X: 2, Y: 0}, {X: 6, Y: 0}}, Label{}))

	n := NewMCIndexNoder(NewFloatingPrecisionModel())
	err := n.ComputeNodes([]*NodedSegmentString{a, b})
	test.That(t, err == nil)

	aOut := a.NodedSubstrings()
	bOut := b.NodedSubstrings()
	test.That(t, len(aOut) == 2)
	test.That(t, len(bOut) == 2)
	test.That(t, aOut[len(aOut)-1].Coords[0].Equals(Point{X: 2, Y: 0}))
	test.That(t, bOut[0].Coords[len(bOut[0].Coords)-1].Equals(Point{X: 4, Y: 0}))
}
