package buffer

import "math"

// minRingArea discards result rings smaller than this numeric fuzz
// tolerance, standing in for GEOS's BufferBuilder tiny-ring filter (the
// SPEC_FULL "Area-based tiny-ring filter" supplement) so noding round-off
// near a single node can't produce zero-area sliver rings in the output.
const minRingArea = 1e-8

// ResultPolygon is a shell plus its nested holes, ready for conversion to
// the public orb.Polygon type (§4.H shell/hole assembly).
type ResultPolygon struct {
	Shell []Point
	Holes [][]Point
}

// PolygonAssembler selects result half-edges by depth and emits shells
// with matched holes (§4.H).
type PolygonAssembler struct {
	params BufferParameters
	dl     *DepthLocater
}

func NewPolygonAssembler(params BufferParameters) *PolygonAssembler {
	return &PolygonAssembler{params: params, dl: NewDepthLocater()}
}

// BuildSubgraphs runs §4.H's buildSubgraphs algorithm over subgraphs that
// must already be in the descending-rightmost order SubgraphExtractor
// produces, then assembles the marked result edges into polygons.
func (pa *PolygonAssembler) BuildSubgraphs(subgraphs []*BufferSubgraph, interrupt Interrupt) ([]ResultPolygon, error) {
	for _, sg := range subgraphs {
		if err := interrupt.check(); err != nil {
			return nil, err
		}
		outsideDepth := pa.dl.GetDepth(sg.Rightmost)
		if err := propagateDepth(sg, outsideDepth); err != nil {
			return nil, err
		}
		markResultEdges(sg)
		pa.dl.AddProcessed(sg)
	}
	return assembleRings(subgraphs)
}

// propagateDepth implements §4.H step 2: seed the rightmost directed
// edge's right side with outsideDepth, then flood the rest of the
// subgraph using each Edge's DepthDelta and the planar-graph face
// adjacency at every node (two directed edges consecutive in a node's CCW
// star share the wedge between them, so the left depth of one equals the
// right depth of the next).
func propagateDepth(sg *BufferSubgraph, outsideDepth int) error {
	g := sg.graph
	if len(sg.DirEdges) == 0 {
		return nil
	}

	seed := g.DirectedEdge(sg.RightmostDE)
	setDepth(seed, 0, outsideDepth, false, true)

	queue := []DirEdgeID{sg.RightmostDE}
	steps := 0
	maxSteps := len(sg.DirEdges)*4 + 16
	for len(queue) > 0 {
		steps++
		if steps > maxSteps {
			return newTopologyError("depth propagation did not converge")
		}
		id := queue[0]
		queue = queue[1:]
		d := g.DirectedEdge(id)

		if sym := g.DirectedEdge(d.Sym); !sym.HasDepth {
			setDepth(sym, d.DepthRight, d.DepthLeft, true, true)
			queue = append(queue, d.Sym)
		}

		node := g.Node(d.From)
		idx := indexOf(node.Star, id)
		if idx < 0 || len(node.Star) == 0 {
			continue
		}
		next := node.Star[(idx+1)%len(node.Star)]
		if next != id {
			if n := g.DirectedEdge(next); !n.HasDepth {
				setDepth(n, 0, d.DepthLeft, false, true)
				queue = append(queue, next)
			}
		}
		prev := node.Star[(idx-1+len(node.Star))%len(node.Star)]
		if prev != id {
			if pv := g.DirectedEdge(prev); !pv.HasDepth {
				setDepth(pv, d.DepthRight, 0, true, false)
				queue = append(queue, prev)
			}
		}
	}

	return nil
}

// setDepth fills in whichever side is unknown from the known side using
// the edge's DepthDelta (§4.H step 2: "left depth = right depth +
// depthDelta, sign adjusted for direction" — depthDelta() already applies
// the direction adjustment).
func setDepth(d *DirectedEdge, left, right int, haveLeft, haveRight bool) {
	if haveLeft && !haveRight {
		right = left - d.depthDelta()
	} else if haveRight && !haveLeft {
		left = right + d.depthDelta()
	}
	d.DepthLeft, d.DepthRight = left, right
	d.HasDepth = true
}

func indexOf(star []DirEdgeID, id DirEdgeID) int {
	for i, s := range star {
		if s == id {
			return i
		}
	}
	return -1
}

// markResultEdges implements §4.H step 3: an edge is in the result iff
// leftDepth >= 1 and rightDepth == 0 (a buffer boundary separates interior
// from exterior). This is checked per DirectedEdge; InResult is therefore
// symmetric across Sym pairs only when exactly one direction satisfies it,
// which is the well-formed case for a buffer boundary.
func markResultEdges(sg *BufferSubgraph) {
	g := sg.graph
	for _, id := range sg.DirEdges {
		d := g.DirectedEdge(id)
		d.InResult = d.HasDepth && d.DepthLeft >= 1 && d.DepthRight == 0
	}
}

// assembleRings stitches the marked result DirectedEdges into closed
// rings (§4.H step 5, standing in for the external PolygonBuilder: we
// already have the labelled, depth-resolved half-edges, so ring assembly
// is a direct planar-graph walk rather than a second handoff), then nests
// holes inside shells by ring containment.
func assembleRings(subgraphs []*BufferSubgraph) ([]ResultPolygon, error) {
	var shells, holes [][]Point
	for _, sg := range subgraphs {
		g := sg.graph
		for _, startID := range sg.DirEdges {
			start := g.DirectedEdge(startID)
			if !start.InResult || start.Visited {
				continue
			}
			ring, err := traceRing(g, startID)
			if err != nil {
				return nil, err
			}
			if ring == nil {
				continue
			}
			if absArea(ring) < minRingArea {
				continue
			}
			if signedArea(ring) >= 0 {
				shells = append(shells, ring)
			} else {
				holes = append(holes, ring)
			}
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
	return polys, nil
}

// traceRing walks InResult, unvisited directed edges starting at startID,
// following §4.H's planar-graph ring-closure rule: having arrived at a
// node via edge `in`, the next edge is the first InResult edge found
// scanning CCW from in.Sym's position in that node's star.
func traceRing(g *PlanarGraph, startID DirEdgeID) ([]Point, error) {
	var coords []Point
	cur := startID
	steps := 0
	maxSteps := len(g.dirEdges) + 4
	for {
		steps++
		if steps > maxSteps {
			return nil, newTopologyError("ring did not close during assembly")
		}
		d := g.DirectedEdge(cur)
		d.Visited = true
		c := d.Coords()
		if len(coords) == 0 {
			coords = append(coords, c...)
		} else {
			coords = append(coords, c[1:]...)
		}

		node := g.Node(d.To)
		symIdx := indexOf(node.Star, d.Sym)
		if symIdx < 0 {
			return nil, newTopologyErrorAt("dangling edge during ring assembly", g.Node(d.To).Coord)
		}
		next := DirEdgeID(-1)
		for k := 1; k <= len(node.Star); k++ {
			cand := node.Star[(symIdx+k)%len(node.Star)]
			cd := g.DirectedEdge(cand)
			if cd.InResult && !cd.Visited {
				next = cand
				break
			}
			if cand == d.Sym {
				break
			}
		}
		if next == DirEdgeID(-1) {
			break
		}
		cur = next
		if cur == startID {
			d2 := g.DirectedEdge(cur)
			d2.Visited = true
			coords = append(coords, d2.Coords()[1:]...)
			break
		}
	}
	if len(coords) < 4 || !coords[0].Equals(coords[len(coords)-1]) {
		return nil, nil
	}
	return coords, nil
}

// pointInRing is the even-odd ray-crossing test, adapted from the
// teacher's Polyline.FillCount (polyline.go), specialised to a single
// boolean inside/outside answer for hole-to-shell nesting.
func pointInRing(p Point, ring []Point) bool {
	if len(ring) < 3 {
		return false
	}
	count := 0
	prev := ring[len(ring)-1]
	for _, cur := range ring {
		if (p.Y < cur.Y) != (p.Y < prev.Y) &&
			p.X < (prev.X-cur.X)*(p.Y-cur.Y)/(prev.Y-cur.Y)+cur.X {
			count++
		}
		prev = cur
	}
	return count%2 != 0
}
