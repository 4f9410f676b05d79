package buffer

import (
	"fmt"
	"math"
)

// Edge is an immutable coordinate chain plus a Label and a mutable
// DepthDelta (§3 Edge).
type Edge struct {
	Coords     []Point
	Label      Label
	DepthDelta int
}

func newEdge(coords []Point, label Label) *Edge {
	return &Edge{Coords: coords, Label: label, DepthDelta: label.depthDelta()}
}

// equalCoords reports whether a and b are the same chain, forward or
// reverse (§3 Edge equality).
func equalCoords(a, b []Point) (equal bool, reversed bool) {
	if len(a) != len(b) {
		return false, false
	}
	fwd := true
	for i := range a {
		if !a[i].Equals(b[i]) {
			fwd = false
			break
		}
	}
	if fwd {
		return true, false
	}
	rev := true
	n := len(a)
	for i := range a {
		if !a[i].Equals(b[n-1-i]) {
			rev = false
			break
		}
	}
	return rev, rev
}

// EdgeList is a set keyed by a canonical form of the edge's coordinate
// sequence (canonicalised under reversal), de-duplicating coincident
// arcs and combining their Labels/DepthDeltas (§4.D).
type EdgeList struct {
	buckets map[string][]*Edge
	edges   []*Edge
}

func NewEdgeList() *EdgeList {
	return &EdgeList{buckets: make(map[string][]*Edge)}
}

func (el *EdgeList) Edges() []*Edge {
	return el.edges
}

// bucketKey hashes the two endpoints and length so that both a chain and
// its reverse land in the same bucket.
func bucketKey(coords []Point) string {
	if len(coords) == 0 {
		return ""
	}
	a, b := coords[0], coords[len(coords)-1]
	// order-independent combination of endpoints.
	ax, ay, bx, by := round6(a.X), round6(a.Y), round6(b.X), round6(b.Y)
	if ax > bx || (ax == bx && ay > by) {
		ax, ay, bx, by = bx, by, ax, ay
	}
	return fmt.Sprintf("%d:%d:%d:%d:%d", ax, ay, bx, by, len(coords))
}

func round6(v float64) int64 {
	return int64(math.Round(v * 1e6))
}

// FindEqualEdge returns any previously inserted edge equal (forward or
// reverse) to coords, else nil (§4.D findEqualEdge).
func (el *EdgeList) FindEqualEdge(coords []Point) *Edge {
	for _, e := range el.buckets[bucketKey(coords)] {
		if eq, _ := equalCoords(e.Coords, coords); eq {
			return e
		}
	}
	return nil
}

// Add inserts a new edge for (coords, label), or merges into an existing
// equal edge (§4.D Add / Merge semantics): if the incoming chain runs
// opposite to the stored one, its Label is flipped before merging; the
// incoming edge's DepthDelta (computed from the possibly-flipped Label) is
// added to the existing edge's DepthDelta.
func (el *EdgeList) Add(coords []Point, label Label) *Edge {
	key := bucketKey(coords)
	for _, e := range el.buckets[key] {
		eq, reversed := equalCoords(e.Coords, coords)
		if !eq {
			continue
		}
		incoming := label
		if reversed {
			incoming = incoming.Flip()
		}
		e.Label = e.Label.Merge(incoming)
		e.DepthDelta += incoming.depthDelta()
		return e
	}

	e := newEdge(coords, label)
	el.buckets[key] = append(el.buckets[key], e)
	el.edges = append(el.edges, e)
	return e
}
