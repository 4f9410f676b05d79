package buffer

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestLabelFlip(t *testing.T) {
	l := NewLabel(LocationInterior, LocationExterior)
	f := l.Flip()
	test.That(t, f.Left[0] == LocationExterior)
	test.That(t, f.Right[0] == LocationInterior)
}

func TestLabelMerge(t *testing.T) {
	a := NewLabel(LocationInterior, LocationNone)
	b := NewLabel(LocationNone, LocationExterior)
	m := a.Merge(b)
	test.That(t, m.Left[0] == LocationInterior)
	test.That(t, m.Right[0] == LocationExterior)

	c := NewLabel(LocationInterior, LocationNone)
	d := NewLabel(LocationExterior, LocationNone)
	m2 := c.Merge(d)
	test.That(t, m2.Left[0] == LocationBoundary)
}

func TestLabelDepthDelta(t *testing.T) {
	test.That(t, NewLabel(LocationInterior, LocationExterior).depthDelta() == 1)
	test.That(t, NewLabel(LocationExterior, LocationInterior).depthDelta() == -1)
	test.That(t, NewLabel(LocationInterior, LocationInterior).depthDelta() == 0)
}
