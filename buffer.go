package buffer

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// BufferOrchestrator runs the full B->C->D->E->F->G->H pipeline for a
// single call (§4.I). An instance is single-use: once Buffer or
// BufferLineSingleSided has been called, construct a new instance for the
// next call (§5 Thread-safety).
type BufferOrchestrator struct {
	params    BufferParameters
	precision *PrecisionModel
	interrupt Interrupt
	noder     Noder
	used      bool
}

// NewBufferOrchestrator constructs an orchestrator. A nil precision model
// defaults to floating point; a nil interrupt never cancels. The noder
// starts as an MCIndexNoder; WithNoder replaces it with a caller-supplied
// Noder (e.g. a snap-rounding implementation), the dependency-injection
// point of §4.C and §9.
func NewBufferOrchestrator(params BufferParameters, precision *PrecisionModel, interrupt Interrupt) *BufferOrchestrator {
	if precision == nil {
		precision = NewFloatingPrecisionModel()
	}
	return &BufferOrchestrator{params: params, precision: precision, interrupt: interrupt, noder: NewMCIndexNoder(precision)}
}

// WithNoder overrides the default MCIndexNoder with a caller-supplied one
// (§4.C "user-supplied snap-rounding noder: optional, injected by caller").
// Must be called before Buffer/BufferLineSingleSided runs the pipeline.
func (o *BufferOrchestrator) WithNoder(noder Noder) *BufferOrchestrator {
	o.noder = noder
	return o
}

// Buffer implements §4.I's buffer(g, d): point/line/polygon/collection in,
// polygonal geometry out.
func (o *BufferOrchestrator) Buffer(g orb.Geometry, distance float64) (result orb.Geometry, err error) {
	if o.used {
		return nil, &InternalError{Message: "BufferOrchestrator reused; construct a new instance per call"}
	}
	o.used = true

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &InternalError{Message: fmt.Sprintf("%v", r)}
		}
	}()

	if verr := o.params.Validate(); verr != nil {
		return nil, verr
	}

	if o.params.SingleSided {
		if components := splitComponents(g); len(components) > 1 {
			var polys []ResultPolygon
			for _, comp := range components {
				sub := NewBufferOrchestrator(o.params, o.precision, o.interrupt).WithNoder(o.noder)
				r, serr := sub.Buffer(comp, distance)
				if serr != nil {
					return nil, serr
				}
				polys = append(polys, toResultPolygons(r)...)
			}
			if cerr := o.interrupt.check(); cerr != nil {
				return nil, cerr
			}
			merged, uerr := unaryUnion(polys)
			if uerr != nil {
				return nil, uerr
			}
			return resultPolygonsToGeometry(merged), nil
		}
	}

	curves, cerr := o.buildCurves(g, distance)
	if cerr != nil {
		return nil, cerr
	}
	if len(curves) == 0 {
		return orb.Polygon{}, nil
	}

	polys, perr := o.runPipeline(curves)
	if perr != nil {
		return nil, perr
	}
	return resultPolygonsToGeometry(polys), nil
}

// buildCurves runs component B (CurveSetBuilder) over g (§4.I step 3,
// first half).
func (o *BufferOrchestrator) buildCurves(g orb.Geometry, distance float64) ([]*SegmentString, error) {
	csb := NewCurveSetBuilder(o.precision, o.params, distance)
	if err := o.addGeometry(csb, g, distance); err != nil {
		return nil, err
	}
	if err := o.interrupt.check(); err != nil {
		return nil, err
	}
	return csb.Curves(), nil
}

func (o *BufferOrchestrator) addGeometry(csb *CurveSetBuilder, g orb.Geometry, distance float64) error {
	switch t := g.(type) {
	case orb.Point:
		csb.AddPoint(fromOrbPoint(t))
	case orb.MultiPoint:
		for _, p := range t {
			csb.AddPoint(fromOrbPoint(p))
		}
	case orb.LineString:
		o.addLine(csb, fromOrbLineString(t), distance)
	case orb.MultiLineString:
		for _, l := range t {
			o.addLine(csb, fromOrbLineString(l), distance)
		}
	case orb.Ring:
		csb.AddPolygonRing(fromOrbRing(t), true)
	case orb.Polygon:
		for i, r := range t {
			csb.AddPolygonRing(fromOrbRing(r), i == 0)
		}
	case orb.MultiPolygon:
		for _, poly := range t {
			for i, r := range poly {
				csb.AddPolygonRing(fromOrbRing(r), i == 0)
			}
		}
	case orb.Collection:
		for _, sub := range t {
			if err := o.addGeometry(csb, sub, distance); err != nil {
				return err
			}
		}
	default:
		return &InvalidArgumentError{Message: fmt.Sprintf("unsupported geometry type %T", g)}
	}
	return nil
}

// addLine emits either the two-sided capsule curve or, when the
// orchestrator's parameters request a single-sided areal buffer, the raw
// one-sided strip curve directly (§4.I: "singleSided" changes what (B)
// asks (A) for, not a postprocessing step, when the caller wants a filled
// one-sided region rather than a trimmed boundary line — that case is
// BufferLineSingleSided below). The side is fixed at Left; selecting the
// side from BufferParameters is an Open Question resolved in DESIGN.md
// since §3 does not give BufferParameters a side field.
func (o *BufferOrchestrator) addLine(csb *CurveSetBuilder, coords []Point, distance float64) {
	if o.params.SingleSided && distance > 0 {
		strip := csb.ocb.GetSingleSidedLineCurve(coords, distance, SideLeft)
		csb.addCurve(strip)
		return
	}
	csb.AddLineString(coords)
}

// runPipeline drives C->D->E->F->G->H over an already-built curve set
// (§4.I step 3, second half), polling the interrupt between each stage as
// §5 Cancellation requires.
func (o *BufferOrchestrator) runPipeline(curves []*SegmentString) ([]ResultPolygon, error) {
	noder := o.noder
	if noder == nil {
		noder = NewMCIndexNoder(o.precision)
	}
	nodedStrings := make([]*NodedSegmentString, len(curves))
	for i, c := range curves {
		nodedStrings[i] = NewNodedSegmentString(c)
	}
	if err := noder.ComputeNodes(nodedStrings); err != nil {
		return nil, err
	}
	if err := o.interrupt.check(); err != nil {
		return nil, err
	}
	substrings := noder.NodedSubstrings(nodedStrings)

	el := NewEdgeList()
	for _, s := range substrings {
		el.Add(s.Coords, s.Label)
	}
	if err := o.interrupt.check(); err != nil {
		return nil, err
	}

	pg := NewPlanarGraph()
	for _, e := range el.Edges() {
		pg.AddEdge(e)
	}
	pg.SortStars()

	se := NewSubgraphExtractor(pg)
	subgraphs := se.Extract()
	if err := o.interrupt.check(); err != nil {
		return nil, err
	}

	pa := NewPolygonAssembler(o.params)
	return pa.BuildSubgraphs(subgraphs, o.interrupt)
}

// splitComponents breaks a multi-part geometry into its single-part
// components for the "recurse per component, then unary-union" branch of
// §4.I step 1. Single-part geometries are returned unchanged as a
// one-element slice.
func splitComponents(g orb.Geometry) []orb.Geometry {
	switch t := g.(type) {
	case orb.MultiLineString:
		out := make([]orb.Geometry, len(t))
		for i, l := range t {
			out[i] = l
		}
		return out
	case orb.MultiPolygon:
		out := make([]orb.Geometry, len(t))
		for i, p := range t {
			out[i] = p
		}
		return out
	case orb.MultiPoint:
		out := make([]orb.Geometry, len(t))
		for i, p := range t {
			out[i] = p
		}
		return out
	case orb.Collection:
		return []orb.Geometry(t)
	default:
		return []orb.Geometry{g}
	}
}

func resultPolygonsToGeometry(polys []ResultPolygon) orb.Geometry {
	if len(polys) == 0 {
		return orb.Polygon{}
	}
	if len(polys) == 1 {
		return resultPolygonToOrb(polys[0])
	}
	mp := make(orb.MultiPolygon, len(polys))
	for i, p := range polys {
		mp[i] = resultPolygonToOrb(p)
	}
	return mp
}

func resultPolygonToOrb(p ResultPolygon) orb.Polygon {
	poly := make(orb.Polygon, 0, 1+len(p.Holes))
	poly = append(poly, toOrbRing(p.Shell))
	for _, h := range p.Holes {
		poly = append(poly, toOrbRing(h))
	}
	return poly
}

func toResultPolygons(g orb.Geometry) []ResultPolygon {
	switch t := g.(type) {
	case orb.Polygon:
		if len(t) == 0 {
			return nil
		}
		return []ResultPolygon{resultPolygonFromOrb(t)}
	case orb.MultiPolygon:
		out := make([]ResultPolygon, 0, len(t))
		for _, p := range t {
			out = append(out, resultPolygonFromOrb(p))
		}
		return out
	default:
		return nil
	}
}

func resultPolygonFromOrb(poly orb.Polygon) ResultPolygon {
	var rp ResultPolygon
	if len(poly) == 0 {
		return rp
	}
	rp.Shell = fromOrbRing(poly[0])
	for _, h := range poly[1:] {
		rp.Holes = append(rp.Holes, fromOrbRing(h))
	}
	return rp
}

// BufferLineSingleSided implements §4.I.1 and the `bufferLineSingleSided`
// entry point of §6: it rejects non-line input, returns a clone of the
// input for zero distance, and otherwise returns only the cleaned-up
// offset curve on the requested side as a lineal geometry.
func BufferLineSingleSided(g orb.Geometry, distance float64, leftSide bool, params BufferParameters, precision *PrecisionModel, interrupt Interrupt) (orb.Geometry, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	switch t := g.(type) {
	case orb.LineString:
		if distance == 0 {
			return t.Clone(), nil
		}
		coords := fromOrbLineString(t)
		chains, err := singleSidedChains(coords, distance, leftSide, params, precision, interrupt)
		if err != nil {
			return nil, err
		}
		return linesToGeometry(mergeLines(chains)), nil
	case orb.MultiLineString:
		if distance == 0 {
			return t.Clone(), nil
		}
		var all [][]Point
		for _, l := range t {
			chains, err := singleSidedChains(fromOrbLineString(l), distance, leftSide, params, precision, interrupt)
			if err != nil {
				return nil, err
			}
			all = append(all, chains...)
			if err := interrupt.check(); err != nil {
				return nil, err
			}
		}
		return linesToGeometry(mergeLines(all)), nil
	default:
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("bufferLineSingleSided: input must be a line, got %T", g)}
	}
}

// singleSidedChains runs §4.I.1's full clean-up for one input line,
// returning the (unmerged, already endpoint-trimmed) candidate chains.
func singleSidedChains(coords []Point, distance float64, leftSide bool, params BufferParameters, precision *PrecisionModel, interrupt Interrupt) ([][]Point, error) {
	if len(coords) < 2 {
		return nil, &InvalidArgumentError{Message: "bufferLineSingleSided: line must have at least 2 points"}
	}
	d := math.Abs(distance)

	twoSidedParams := params
	twoSidedParams.EndCapStyle = CapFlat
	twoSidedParams.SingleSided = false
	orch := NewBufferOrchestrator(twoSidedParams, precision, interrupt)
	buffered, err := orch.Buffer(toOrbLineString(coords), d)
	if err != nil {
		return nil, err
	}
	boundaries := extractRings(buffered)
	if len(boundaries) == 0 {
		return nil, nil
	}

	side := SideLeft
	if !leftSide {
		side = SideRight
	}
	ocb := NewOffsetCurveBuilder(precision, params)
	raw := ocb.offsetOpen(removeRepeated(coords), side, d)
	if len(raw) < 2 {
		return nil, nil
	}

	kept := keepOnBoundary(raw, boundaries, d)
	if len(kept) == 0 {
		return nil, nil
	}

	length := lineLength(coords)
	trimDist := math.Max(d-0.1*length, 0.98*d)
	maxSegLen := 1.02 * d
	startRef, endRef := coords[0], coords[len(coords)-1]

	var out [][]Point
	for _, chain := range kept {
		trimmed := trimEndpoints(chain, startRef, endRef, trimDist, maxSegLen)
		if len(trimmed) >= 2 {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// keepOnBoundary implements the "snap-based intersection of the two
// linestrings" step of §4.I.1. With end caps forced to FLAT, the raw
// one-sided offset curve is geometrically a literal sub-arc of the
// two-sided buffer's boundary for any simple input line, so rather than
// invoking a second, general-purpose line-overlay engine (go.clipper only
// performs polygon-vs-polygon overlay, see overlay.go), this nodes the raw
// curve and keeps only the pieces lying within snap tolerance of the
// boundary, discarding the rest as cap artefacts.
func keepOnBoundary(raw []Point, boundaries [][]Point, distance float64) [][]Point {
	nodedRaw := NewNodedSegmentString(NewSegmentString(raw, Label{}))
	boundaryStrings := make([]*NodedSegmentString, 0, len(boundaries)+1)
	boundaryStrings = append(boundaryStrings, nodedRaw)
	for _, b := range boundaries {
		boundaryStrings = append(boundaryStrings, NewNodedSegmentString(NewSegmentString(b, Label{})))
	}

	noder := NewMCIndexNoder(NewFloatingPrecisionModel())
	_ = noder.ComputeNodes(boundaryStrings)
	pieces := nodedRaw.NodedSubstrings()

	tol := math.Max(1e-7*distance, 1e-9)
	var kept [][]Point
	for _, piece := range pieces {
		onBoundary := true
		for _, p := range piece.Coords {
			best := math.Inf(1)
			for _, b := range boundaries {
				if d := distToChain(p, b); d < best {
					best = d
				}
			}
			if best > tol {
				onBoundary = false
				break
			}
		}
		if onBoundary {
			kept = append(kept, piece.Coords)
		}
	}
	return kept
}

func distToChain(p Point, chain []Point) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(chain); i++ {
		if d := distToSegment(p, chain[i], chain[i+1]); d < best {
			best = d
		}
	}
	return best
}

func distToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	t := 0.0
	if lenSq > 0 {
		t = clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	}
	proj := a.Add(ab.Mul(t))
	return p.Sub(proj).Length()
}

// trimEndpoints implements §4.I.1's endpoint trimming rule: shrink from
// each end while the end vertex lies within trimDist of either of the
// input line's own endpoints and the adjacent segment is no longer than
// maxSegLen.
func trimEndpoints(chain []Point, startRef, endRef Point, trimDist, maxSegLen float64) []Point {
	shrinkFront := func(c []Point) []Point {
		for len(c) >= 2 {
			near := c[0].Sub(startRef).Length() <= trimDist || c[0].Sub(endRef).Length() <= trimDist
			segLen := c[1].Sub(c[0]).Length()
			if near && segLen <= maxSegLen {
				c = c[1:]
				continue
			}
			break
		}
		return c
	}
	chain = shrinkFront(chain)
	chain = reversePoints(shrinkFront(reversePoints(chain)))
	return chain
}

func extractRings(g orb.Geometry) [][]Point {
	switch t := g.(type) {
	case orb.Polygon:
		out := make([][]Point, len(t))
		for i, r := range t {
			out[i] = fromOrbRing(r)
		}
		return out
	case orb.MultiPolygon:
		var out [][]Point
		for _, p := range t {
			for _, r := range p {
				out = append(out, fromOrbRing(r))
			}
		}
		return out
	default:
		return nil
	}
}

func linesToGeometry(lines [][]Point) orb.Geometry {
	var kept [][]Point
	for _, l := range lines {
		if len(l) >= 2 {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return orb.LineString{}
	}
	if len(kept) == 1 {
		return toOrbLineString(kept[0])
	}
	mls := make(orb.MultiLineString, len(kept))
	for i, l := range kept {
		mls[i] = toOrbLineString(l)
	}
	return mls
}

func fromOrbPoint(p orb.Point) Point { return Point{X: p[0], Y: p[1]} }
func toOrbPoint(p Point) orb.Point   { return orb.Point{p.X, p.Y} }

func fromOrbRing(r orb.Ring) []Point {
	out := make([]Point, len(r))
	for i, p := range r {
		out[i] = fromOrbPoint(p)
	}
	return out
}

func toOrbRing(coords []Point) orb.Ring {
	out := make(orb.Ring, len(coords))
	for i, p := range coords {
		out[i] = toOrbPoint(p)
	}
	return out
}

func fromOrbLineString(l orb.LineString) []Point {
	out := make([]Point, len(l))
	for i, p := range l {
		out[i] = fromOrbPoint(p)
	}
	return out
}

func toOrbLineString(coords []Point) orb.LineString {
	out := make(orb.LineString, len(coords))
	for i, p := range coords {
		out[i] = toOrbPoint(p)
	}
	return out
}
