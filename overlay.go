package buffer

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// overlayScale converts between this package's floating-point coordinates
// and go.clipper's fixed-point IntPoint grid. go.clipper only accepts
// integer coordinates (other_examples/ctessum-go.clipper__clipper.go,
// "use_int32" comment at the top of the file), so every ring crossing the
// boundary into clipper is scaled up and every result ring is scaled back
// down.
const overlayScale = 1e7

// unaryUnion merges a set of possibly-overlapping shell rings (each paired
// with its own holes) into the disjoint set of result rings a proper
// polygon assembler would produce, by delegating to go.clipper's Vatti
// clipper (§4.I "component unary-union"). This is the pipeline's stand-in
// for GEOS's CascadedPolygonUnion, exercising go.clipper for exactly the
// boolean-overlay concern it's built for rather than reimplementing Vatti
// clipping locally.
func unaryUnion(polys []ResultPolygon) ([]ResultPolygon, error) {
	if len(polys) <= 1 {
		return polys, nil
	}

	c := clipper.NewClipper(clipper.IoNone)
	for _, p := range polys {
		if !c.AddPath(toClipperPath(p.Shell), clipper.PtSubject, true) {
			return nil, &InternalError{Message: "overlay: rejected degenerate shell"}
		}
		for _, h := range p.Holes {
			if !c.AddPath(toClipperPath(h), clipper.PtSubject, true) {
				return nil, &InternalError{Message: "overlay: rejected degenerate hole"}
			}
		}
	}

	solution, ok := c.Execute1(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, newTopologyError("overlay union failed to execute")
	}
	return fromClipperSolution(solution), nil
}

func toClipperPath(coords []Point) clipper.Path {
	n := len(coords)
	if n > 1 && coords[0].Equals(coords[n-1]) {
		n--
	}
	path := make(clipper.Path, n)
	for i := 0; i < n; i++ {
		path[i] = &clipper.IntPoint{
			X: clipper.CInt(math.Round(coords[i].X * overlayScale)),
			Y: clipper.CInt(math.Round(coords[i].Y * overlayScale)),
		}
	}
	return path
}

func fromClipperPath(path clipper.Path) []Point {
	out := make([]Point, 0, len(path)+1)
	for _, ip := range path {
		out = append(out, Point{X: float64(ip.X) / overlayScale, Y: float64(ip.Y) / overlayScale})
	}
	if len(out) > 0 {
		out = append(out, out[0])
	}
	return out
}

// fromClipperSolution regroups clipper's flat Paths result (a mix of
// outer and hole rings, distinguished by orientation) into ResultPolygons,
// nesting each hole inside its smallest enclosing shell exactly the way
// assembleRings does for the internal ring-tracer's output.
func fromClipperSolution(paths clipper.Paths) []ResultPolygon {
	var shells, holes [][]Point
	for _, p := range paths {
		ring := fromClipperPath(p)
		if len(ring) < 4 {
			continue
		}
		if signedArea(ring) >= 0 {
			shells = append(shells, ring)
		} else {
			holes = append(holes, ring)
		}
	}
	polys := make([]ResultPolygon, len(shells))
	for i, s := range shells {
		polys[i].Shell = s
	}
	for _, h := range holes {
		best := -1
		bestArea := math.Inf(1)
		for i, p := range polys {
			if pointInRing(h[0], p.Shell) {
				a := absArea(p.Shell)
				if a < bestArea {
					bestArea = a
					best = i
				}
			}
		}
		if best >= 0 {
			polys[best].Holes = append(polys[best].Holes, h)
		}
	}
	return polys
}
