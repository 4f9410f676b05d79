package buffer

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestEdgeListDedupReversed(t *testing.T) {
	el := NewEdgeList()
	fwd := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	rev := []Point{{X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}

	e1 := el.Add(fwd, NewLabel(LocationInterior, LocationExterior))
	e2 := el.Add(rev, NewLabel(LocationInterior, LocationExterior))

	test.That(t, e1 == e2)
	test.That(t, len(el.Edges()) == 1)
	// rev's label was flipped to align with fwd before merging: its
	// Left=Interior/Right=Exterior becomes Left=Exterior/Right=Interior,
	// which the merge widens to Boundary on both sides.
	test.That(t, e1.Label.Left[0] == LocationBoundary)
	test.That(t, e1.Label.Right[0] == LocationBoundary)
}

func TestEdgeListDepthDeltaAccumulates(t *testing.T) {
	el := NewEdgeList()
	fwd := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	el.Add(fwd, NewLabel(LocationInterior, LocationExterior))
	e := el.Add(fwd, NewLabel(LocationInterior, LocationExterior))
	test.That(t, e.DepthDelta == 2)
}

func TestFindEqualEdge(t *testing.T) {
	el := NewEdgeList()
	coords := []Point{{X: 0, Y: 0}, {X: 5, Y: 5}}
	test.That(t, el.FindEqualEdge(coords) == nil)
	el.Add(coords, Label{})
	test.That(t, el.FindEqualEdge(coords) != nil)
}
