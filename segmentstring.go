package buffer

import "sort"

// SegmentString is an ordered coordinate sequence plus opaque user data
// (§3 SegmentString). The buffer pipeline's user data is always a Label.
type SegmentString struct {
	Coords []Point
	Label  Label
}

func NewSegmentString(coords []Point, label Label) *SegmentString {
	return &SegmentString{Coords: coords, Label: label}
}

func (s *SegmentString) size() int {
	if len(s.Coords) == 0 {
		return 0
	}
	return len(s.Coords) - 1
}

// segmentIntersection records a single crossing found during noding: the
// index of the segment it falls on and the parametric position along it.
type segmentIntersection struct {
	segIndex int
	t        float64
	coord    Point
}

// NodedSegmentString wraps a SegmentString and accumulates intersection
// points added during noding (§3). NodedSubstrings splits the string at
// every accumulated point, in segment/parameter order, producing the fully
// noded pieces the rest of the pipeline consumes.
type NodedSegmentString struct {
	*SegmentString
	intersections []segmentIntersection
}

func NewNodedSegmentString(s *SegmentString) *NodedSegmentString {
	return &NodedSegmentString{SegmentString: s}
}

// AddIntersection records a crossing at parameter t (0..1) along segment
// segIndex (the segment from Coords[segIndex] to Coords[segIndex+1]).
// Endpoints (t==0 or t==1) are recorded too so shared-endpoint noding is
// idempotent; duplicates are collapsed when substrings are built.
func (n *NodedSegmentString) AddIntersection(segIndex int, t float64, coord Point) {
	n.intersections = append(n.intersections, segmentIntersection{segIndex: segIndex, t: t, coord: coord})
}

// NodedSubstrings splits the segment string at every recorded
// intersection point, returning one SegmentString per resulting piece.
// Each substring keeps the parent's Label.
func (n *NodedSegmentString) NodedSubstrings() []*SegmentString {
	if len(n.intersections) == 0 {
		return []*SegmentString{n.SegmentString}
	}

	pts := make([]segmentIntersection, len(n.intersections))
	copy(pts, n.intersections)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].segIndex != pts[j].segIndex {
			return pts[i].segIndex < pts[j].segIndex
		}
		return pts[i].t < pts[j].t
	})

	var result []*SegmentString
	cur := []Point{n.Coords[0]}
	lastSeg, lastT := 0, 0.0
	appendVertex := func(p Point) {
		if len(cur) == 0 || !cur[len(cur)-1].Equals(p) {
			cur = append(cur, p)
		}
	}
	flush := func() {
		if len(cur) >= 2 {
			result = append(result, &SegmentString{Coords: cur, Label: n.Label})
		}
		cur = nil
	}

	for _, pt := range pts {
		if pt.segIndex == lastSeg && pt.t <= lastT {
			continue
		}
		// Re-emit the original polyline vertices strictly between the
		// previous split and this one (lastSeg+1..pt.segIndex) before the
		// split point itself, so a string with intersections on
		// non-adjacent segments doesn't collapse the vertices between
		// them into a straight chord.
		for i := lastSeg + 1; i <= pt.segIndex; i++ {
			appendVertex(n.Coords[i])
		}
		appendVertex(pt.coord)
		flush()
		cur = []Point{pt.coord}
		lastSeg, lastT = pt.segIndex, pt.t
	}
	for i := lastSeg + 1; i < len(n.Coords); i++ {
		appendVertex(n.Coords[i])
	}
	flush()

	if len(result) == 0 {
		return []*SegmentString{n.SegmentString}
	}
	return result
}
