package buffer

import "math"

// Noder computes all proper and improper intersections between a set of
// segment strings and reports them back onto each string so that
// NodedSubstrings produces fully noded pieces (§4.C). Two implementations
// are distinguished in §4.C: the default MCIndexNoder, and a caller
// supplied snap-rounding noder; both satisfy this same interface, chosen
// by dependency injection at orchestrator construction (§9 "Polymorphic
// noder").
type Noder interface {
	ComputeNodes(segStrings []*NodedSegmentString) error
	NodedSubstrings(segStrings []*NodedSegmentString) []*SegmentString
}

// MCIndexNoder is the default Noder: a monotone-chain style spatial index
// (here a uniform grid over segment bounding boxes, which gives the same
// average-case pruning as a monotone-chain tree for the offset curves this
// package produces) feeding a direct segment-pair intersector, plus a
// collinear-overlap fallback (nodeCollinearOverlap) for segment pairs that
// share a straight sub-range rather than crossing at a point (§4.C, §9
// Numeric robustness).
type MCIndexNoder struct {
	precision *PrecisionModel
}

func NewMCIndexNoder(pm *PrecisionModel) *MCIndexNoder {
	return &MCIndexNoder{precision: pm}
}

type segRef struct {
	str *NodedSegmentString
	idx int // segment index within str
	a, b Point
	minX, minY, maxX, maxY float64
}

func (n *MCIndexNoder) ComputeNodes(segStrings []*NodedSegmentString) error {
	var segs []segRef
	for _, s := range segStrings {
		for i := 0; i+1 < len(s.Coords); i++ {
			a, b := s.Coords[i], s.Coords[i+1]
			segs = append(segs, segRef{
				str: s, idx: i, a: a, b: b,
				minX: math.Min(a.X, b.X), maxX: math.Max(a.X, b.X),
				minY: math.Min(a.Y, b.Y), maxY: math.Max(a.Y, b.Y),
			})
		}
	}

	grid := buildGrid(segs)
	seen := make(map[[2]int]bool)
	for i := range segs {
		for _, j := range grid.candidates(segs[i]) {
			if j <= i {
				continue
			}
			key := [2]int{i, j}
			if seen[key] {
				continue
			}
			seen[key] = true
			n.intersectPair(&segs[i], &segs[j])
		}
	}
	return nil
}

func (n *MCIndexNoder) intersectPair(s1, s2 *segRef) {
	if s1.str == s2.str && abs(s1.idx-s2.idx) <= 1 {
		// adjacent segments on the same string share an endpoint by
		// construction; no need to node.
		return
	}
	if ta, tb, p, ok := segmentIntersect(s1.a, s1.b, s2.a, s2.b); ok {
		p = n.precision.MakePrecise(p)
		s1.str.AddIntersection(s1.idx, ta, p)
		s2.str.AddIntersection(s2.idx, tb, p)
		return
	}
	n.nodeCollinearOverlap(s1, s2)
}

// nodeCollinearOverlap handles the case segmentIntersect declines:
// segments too close to parallel to cross at a single point. Two offset
// curves commonly share a collinear edge over a sub-range (e.g. two
// nearby rectangular buffers whose straight sides line up), and the "no
// two distinct segments cross except at shared endpoints" invariant (§3)
// requires that overlap to be split out as its own noded piece rather
// than silently left un-noded. This adds intersection nodes at the
// overlap's own endpoints on both segments, the same way JTS's
// snap-rounding noders resolve collinear overlaps (the original source's
// BufferBuilder swaps in such a noder for exactly this case).
func (n *MCIndexNoder) nodeCollinearOverlap(s1, s2 *segRef) {
	da := s1.b.Sub(s1.a)
	lenA := da.Length()
	if lenA < 1e-12 {
		return
	}
	db := s2.b.Sub(s2.a)
	if math.Abs(da.PerpDot(db)) > 1e-9*lenA*lenA {
		return // not parallel enough to be collinear
	}
	if math.Abs(da.PerpDot(s2.a.Sub(s1.a))) > 1e-7*lenA {
		return // parallel but offset onto a different line
	}

	paramOnA := func(p Point) float64 { return p.Sub(s1.a).Dot(da) / (lenA * lenA) }
	tb0, tb1 := paramOnA(s2.a), paramOnA(s2.b)
	loB, hiB := tb0, tb1
	if loB > hiB {
		loB, hiB = hiB, loB
	}
	lo, hi := math.Max(0, loB), math.Min(1, hiB)
	if hi-lo < 1e-9 {
		return // touching at a point, or not overlapping at all
	}

	loP := s1.a.Interpolate(s1.b, lo)
	hiP := s1.a.Interpolate(s1.b, hi)

	lenB2 := db.Dot(db)
	paramOnB := func(p Point) float64 {
		if lenB2 < 1e-18 {
			return 0
		}
		return p.Sub(s2.a).Dot(db) / lenB2
	}

	addOn := func(sref *segRef, t float64, p Point) {
		if t > 1e-9 && t < 1-1e-9 {
			sref.str.AddIntersection(sref.idx, t, n.precision.MakePrecise(p))
		}
	}
	addOn(s1, lo, loP)
	addOn(s1, hi, hiP)
	addOn(s2, paramOnB(loP), loP)
	addOn(s2, paramOnB(hiP), hiP)
}

func (n *MCIndexNoder) NodedSubstrings(segStrings []*NodedSegmentString) []*SegmentString {
	var out []*SegmentString
	for _, s := range segStrings {
		out = append(out, s.NodedSubstrings()...)
	}
	return out
}

// segmentIntersect finds the single transversal intersection point of two
// segments and its parameter along each, adapted from the teacher's
// intersectionLineLine (path_intersection_util.go). It declines (ok=false)
// when the segments are parallel, including the collinear-overlap case,
// which intersectPair then hands to nodeCollinearOverlap.
func segmentIntersect(a0, a1, b0, b1 Point) (ta, tb float64, p Point, ok bool) {
	da := a1.Sub(a0)
	db := b1.Sub(b0)
	div := da.PerpDot(db)
	if math.Abs(div) < 1e-12 {
		return 0, 0, Point{}, false
	}
	ta = db.PerpDot(a0.Sub(b0)) / div
	tb = da.PerpDot(a0.Sub(b0)) / div
	if ta < -1e-9 || ta > 1+1e-9 || tb < -1e-9 || tb > 1+1e-9 {
		return 0, 0, Point{}, false
	}
	ta = clamp(ta, 0, 1)
	tb = clamp(tb, 0, 1)
	return ta, tb, a0.Interpolate(a1, ta), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// grid is a uniform-bucket spatial index over segment bounding boxes,
// standing in for the monotone-chain tree named in §4.C and §9: coarser
// than a real R-tree, but it gives the noder the same O(n log n)-ish
// behaviour for the moderate segment counts a single buffer() call
// produces, without pulling in a third-party spatial index the pack does
// not otherwise supply for planar segment data.
type grid struct {
	cell       float64
	minX, minY float64
	buckets    map[[2]int][]int
}

func buildGrid(segs []segRef) *grid {
	if len(segs) == 0 {
		return &grid{cell: 1, buckets: map[[2]int][]int{}}
	}
	minX, minY := segs[0].minX, segs[0].minY
	maxX, maxY := segs[0].maxX, segs[0].maxY
	var avgLen float64
	for _, s := range segs {
		minX, minY = math.Min(minX, s.minX), math.Min(minY, s.minY)
		maxX, maxY = math.Max(maxX, s.maxX), math.Max(maxY, s.maxY)
		avgLen += math.Hypot(s.b.X-s.a.X, s.b.Y-s.a.Y)
	}
	avgLen /= float64(len(segs))
	cell := avgLen
	if cell <= 0 {
		cell = math.Max(maxX-minX, maxY-minY)/10 + 1e-6
	}

	g := &grid{cell: cell, minX: minX, minY: minY, buckets: map[[2]int][]int{}}
	for i, s := range segs {
		for bx := g.bx(s.minX); bx <= g.bx(s.maxX); bx++ {
			for by := g.by(s.minY); by <= g.by(s.maxY); by++ {
				key := [2]int{bx, by}
				g.buckets[key] = append(g.buckets[key], i)
			}
		}
	}
	return g
}

func (g *grid) bx(x float64) int { return int(math.Floor((x - g.minX) / g.cell)) }
func (g *grid) by(y float64) int { return int(math.Floor((y - g.minY) / g.cell)) }

func (g *grid) candidates(s segRef) []int {
	seen := map[int]bool{}
	var out []int
	for bx := g.bx(s.minX); bx <= g.bx(s.maxX); bx++ {
		for by := g.by(s.minY); by <= g.by(s.maxY); by++ {
			for _, idx := range g.buckets[[2]int{bx, by}] {
				if !seen[idx] {
					seen[idx] = true
					out = append(out, idx)
				}
			}
		}
	}
	return out
}
