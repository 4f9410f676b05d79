package buffer

import (
	"math"
	"sort"
)

// BufferSubgraph is a connected component of the labelled planar graph,
// with a computed rightmost coordinate used later to seed depth
// propagation (§3 BufferSubgraph, §4.F).
type BufferSubgraph struct {
	graph       *PlanarGraph
	Nodes       []NodeID
	DirEdges    []DirEdgeID
	Rightmost   Point
	RightmostDE DirEdgeID
}

// SubgraphExtractor performs the depth-first (here breadth-first, which is
// equivalent for the purpose of connectivity) partition of a PlanarGraph
// into connected BufferSubgraphs (§4.F).
type SubgraphExtractor struct {
	graph *PlanarGraph
}

func NewSubgraphExtractor(g *PlanarGraph) *SubgraphExtractor {
	return &SubgraphExtractor{graph: g}
}

// Extract returns all subgraphs, sorted in descending order of rightmost
// coordinate (max X, ties broken by max Y) as required by §4.F: this
// guarantees that when a shell's subgraph is processed, every subgraph
// that contains it as a hole has already been processed.
func (se *SubgraphExtractor) Extract() []*BufferSubgraph {
	g := se.graph
	visited := make([]bool, len(g.nodes))
	var subgraphs []*BufferSubgraph

	for start := range g.nodes {
		if visited[start] {
			continue
		}
		sg := &BufferSubgraph{graph: g}
		queue := []NodeID{NodeID(start)}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			sg.Nodes = append(sg.Nodes, id)
			node := g.Node(id)
			for _, deID := range node.Star {
				sg.DirEdges = append(sg.DirEdges, deID)
				to := g.DirectedEdge(deID).To
				if !visited[to] {
					visited[to] = true
					queue = append(queue, to)
				}
			}
		}
		sg.computeRightmost()
		subgraphs = append(subgraphs, sg)
	}

	sort.SliceStable(subgraphs, func(i, j int) bool {
		a, b := subgraphs[i].Rightmost, subgraphs[j].Rightmost
		if a.X != b.X {
			return a.X > b.X
		}
		return a.Y > b.Y
	})
	return subgraphs
}

// computeRightmost finds the rightmost vertex (max X, ties by max Y)
// across every coordinate of every edge in the subgraph, not just the
// planar-graph node endpoints: noding only inserts a node where curves
// actually intersect, so a simple un-intersected ring (the common case -
// a lone shell or hole with no peer crossings collapses to a single
// node, since the ring's start and end coincide) has interior vertices
// that are almost never its true rightmost point. It then picks the
// directed edge leaving that vertex with the smallest CCW bearing from
// the +x axis as the depth-propagation seed - the same tie-break
// SortStars applies at an actual node, generalised to a vertex that may
// fall in the interior of an edge's coordinate chain (resolved Open
// Question in DESIGN.md; JTS's RightmostEdgeFinder does the same scan
// over edges rather than graph nodes).
func (sg *BufferSubgraph) computeRightmost() {
	g := sg.graph
	if len(sg.DirEdges) == 0 {
		if len(sg.Nodes) > 0 {
			sg.Rightmost = g.Node(sg.Nodes[0]).Coord
		}
		return
	}

	best := Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, deID := range sg.DirEdges {
		for _, c := range g.DirectedEdge(deID).Edge.Coords {
			if c.X > best.X || (c.X == best.X && c.Y > best.Y) {
				best = c
			}
		}
	}
	sg.Rightmost = best

	bestBearing := math.Inf(1)
	found := false
	for _, deID := range sg.DirEdges {
		de := g.DirectedEdge(deID)
		canon := de.Edge.Coords
		fwdID, bwdID := deID, de.Sym
		if !de.Forward {
			fwdID, bwdID = de.Sym, deID
		}
		for i, c := range canon {
			if !c.Equals(best) {
				continue
			}
			if i+1 < len(canon) {
				if bearing := angleNorm(canon[i+1].Sub(c).Angle()); bearing < bestBearing {
					bestBearing, sg.RightmostDE, found = bearing, fwdID, true
				}
			}
			if i > 0 {
				if bearing := angleNorm(canon[i-1].Sub(c).Angle()); bearing < bestBearing {
					bestBearing, sg.RightmostDE, found = bearing, bwdID, true
				}
			}
		}
	}
	if !found {
		sg.RightmostDE = sg.DirEdges[0]
	}
}
