package buffer

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/tdewolff/test"
)

func ringBounds(r orb.Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = r[0][0], r[0][1]
	maxX, maxY = minX, minY
	for _, p := range r[1:] {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	return
}

func ringArea(r orb.Ring) float64 {
	coords := fromOrbRing(r)
	return absArea(coords)
}

func TestBufferLineCapsule(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}}
	params := NewDefaultBufferParameters()
	orch := NewBufferOrchestrator(params, nil, nil)

	g, err := orch.Buffer(line, 1)
	test.That(t, err == nil)

	poly, ok := g.(orb.Polygon)
	test.That(t, ok)
	test.That(t, len(poly) == 1)

	area := ringArea(poly[0])
	test.That(t, math.Abs(area-(20+math.Pi)) < 0.2)

	minX, minY, maxX, maxY := ringBounds(poly[0])
	test.That(t, math.Abs(minX-(-1)) < 0.05)
	test.That(t, math.Abs(minY-(-1)) < 0.05)
	test.That(t, math.Abs(maxX-11) < 0.05)
	test.That(t, math.Abs(maxY-1) < 0.05)
}

func TestBufferSquareMitre(t *testing.T) {
	square := orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
	params := NewDefaultBufferParameters()
	params.JoinStyle = JoinMitre
	orch := NewBufferOrchestrator(params, nil, nil)

	g, err := orch.Buffer(square, 1)
	test.That(t, err == nil)

	poly, ok := g.(orb.Polygon)
	test.That(t, ok)

	area := ringArea(poly[0])
	test.That(t, math.Abs(area-144) < 1.0)

	minX, minY, maxX, maxY := ringBounds(poly[0])
	test.That(t, math.Abs(minX-(-1)) < 0.05)
	test.That(t, math.Abs(minY-(-1)) < 0.05)
	test.That(t, math.Abs(maxX-11) < 0.05)
	test.That(t, math.Abs(maxY-11) < 0.05)
}

func TestBufferSquareNegative(t *testing.T) {
	square := orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
	params := NewDefaultBufferParameters()
	params.JoinStyle = JoinMitre
	orch := NewBufferOrchestrator(params, nil, nil)

	g, err := orch.Buffer(square, -2)
	test.That(t, err == nil)

	poly, ok := g.(orb.Polygon)
	test.That(t, ok)

	area := ringArea(poly[0])
	test.That(t, math.Abs(area-36) < 1.0)

	minX, minY, maxX, maxY := ringBounds(poly[0])
	test.That(t, math.Abs(minX-2) < 0.05)
	test.That(t, math.Abs(minY-2) < 0.05)
	test.That(t, math.Abs(maxX-8) < 0.05)
	test.That(t, math.Abs(maxY-8) < 0.05)
}

func TestBufferLineSingleSidedLeft(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}}
	params := NewDefaultBufferParameters()

	g, err := BufferLineSingleSided(line, 1, true, params, nil, nil)
	test.That(t, err == nil)

	var coords []orb.Point
	switch t2 := g.(type) {
	case orb.LineString:
		coords = t2
	case orb.MultiLineString:
		for _, l := range t2 {
			coords = append(coords, l...)
		}
	}
	test.That(t, len(coords) >= 2)
	test.That(t, math.Abs(coords[0][1]-1) < 0.05)
	test.That(t, math.Abs(coords[len(coords)-1][1]-1) < 0.05)
}

func TestBufferPointDisc(t *testing.T) {
	p := orb.Point{0, 0}
	params := NewDefaultBufferParameters()
	params.QuadrantSegments = 8
	orch := NewBufferOrchestrator(params, nil, nil)

	g, err := orch.Buffer(p, 1)
	test.That(t, err == nil)

	poly, ok := g.(orb.Polygon)
	test.That(t, ok)

	area := ringArea(poly[0])
	test.That(t, math.Abs(area-math.Pi)/math.Pi < 0.005)
	test.That(t, len(poly[0]) >= 32)
}

func TestBufferZeroDistancePointIsEmpty(t *testing.T) {
	p := orb.Point{0, 0}
	params := NewDefaultBufferParameters()
	orch := NewBufferOrchestrator(params, nil, nil)

	g, err := orch.Buffer(p, 0)
	test.That(t, err == nil)

	poly, ok := g.(orb.Polygon)
	test.That(t, ok)
	test.That(t, len(poly) == 0)
}

func TestBufferInvalidParameters(t *testing.T) {
	params := NewDefaultBufferParameters()
	params.MitreLimit = 0
	orch := NewBufferOrchestrator(params, nil, nil)
	_, err := orch.Buffer(orb.Point{0, 0}, 1)
	test.That(t, err != nil)
	_, ok := err.(*InvalidArgumentError)
	test.That(t, ok)
}

func TestBufferTwoSquaresMerge(t *testing.T) {
	a := orb.Polygon{orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}
	b := orb.Polygon{orb.Ring{{5, 0}, {9, 0}, {9, 4}, {5, 4}, {5, 0}}}
	mp := orb.MultiPolygon{a, b}

	params := NewDefaultBufferParameters()
	params.JoinStyle = JoinMitre
	orch := NewBufferOrchestrator(params, nil, nil)

	// Expanded by d=1, the two squares' rectangles ([-1,-1,5,5] and
	// [4,-1,10,5]) overlap along x in [4,5]: their top/bottom edges are
	// collinear over that range, which the noder must split rather than
	// leave un-noded, and the result must merge into one simple polygon
	// rather than two overlapping, self-intersecting rings.
	g, err := orch.Buffer(mp, 1)
	test.That(t, err == nil)
	test.That(t, g != nil)

	poly, ok := g.(orb.Polygon)
	test.That(t, ok)
	test.That(t, len(poly) == 1)

	minX, minY, maxX, maxY := ringBounds(poly[0])
	test.That(t, math.Abs(minX-(-1)) < 0.05)
	test.That(t, math.Abs(minY-(-1)) < 0.05)
	test.That(t, math.Abs(maxX-10) < 0.05)
	test.That(t, math.Abs(maxY-5) < 0.05)

	area := ringArea(poly[0])
	test.That(t, math.Abs(area-66) < 1.0)
}

func TestBufferPolygonWithHole(t *testing.T) {
	shell := orb.Ring{{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0}}
	hole := orb.Ring{{5, 5}, {5, 15}, {15, 15}, {15, 5}, {5, 5}}
	poly := orb.Polygon{shell, hole}

	params := NewDefaultBufferParameters()
	params.JoinStyle = JoinMitre
	orch := NewBufferOrchestrator(params, nil, nil)

	// A polygon with a hole produces two disjoint subgraphs (the outer
	// boundary and the hole boundary). Their processing order depends on
	// each subgraph's true rightmost vertex, not just its graph-node
	// endpoints, for the outside-depth query to be correct.
	g, err := orch.Buffer(poly, 1)
	test.That(t, err == nil)

	out, ok := g.(orb.Polygon)
	test.That(t, ok)
	test.That(t, len(out) == 2)

	shellArea := ringArea(out[0])
	test.That(t, math.Abs(shellArea-22*22) < 2.0)

	holeArea := ringArea(out[1])
	test.That(t, math.Abs(holeArea-8*8) < 2.0)
}
