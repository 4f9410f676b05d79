package buffer

import (
	"sort"
)

// NodeID and DirEdgeID index into PlanarGraph's arenas, avoiding the
// cyclic-pointer graph the design notes warn about (§9 "Pointer graphs &
// cycles"): nodes, edges and directed edges reference each other only by
// integer index.
type NodeID int
type DirEdgeID int

// Node is a coordinate plus an ordered star of outgoing DirectedEdges,
// sorted by bearing (§3 Node).
type Node struct {
	Coord Point
	Star  []DirEdgeID
}

// DirectedEdge references an Edge plus a direction flag and the mutable
// state the depth-propagation and assembly stages attach (§3
// DirectedEdge).
type DirectedEdge struct {
	Edge     *Edge
	From, To NodeID
	Forward  bool // true if traversal direction matches Edge.Coords order
	Sym      DirEdgeID

	DepthLeft, DepthRight int
	HasDepth              bool
	InResult              bool
	Visited               bool
}

// Coords returns the coordinate chain in this directed edge's own
// traversal direction.
func (d *DirectedEdge) Coords() []Point {
	if d.Forward {
		return d.Edge.Coords
	}
	rev := make([]Point, len(d.Edge.Coords))
	n := len(rev)
	for i, p := range d.Edge.Coords {
		rev[n-1-i] = p
	}
	return rev
}

// label returns this directed edge's Left/Right locations in ITS OWN
// travel direction: the Edge's Label is always expressed in the forward
// (Coords-order) direction, so a backward DirectedEdge sees it flipped.
func (d *DirectedEdge) label() (left, right Location) {
	l := d.Edge.Label
	if !d.Forward {
		l = l.Flip()
	}
	return l.Left[0], l.Right[0]
}

// depthDelta is this directed edge's own signed depth delta (§3 depth
// delta), flipped for a backward traversal same as the label above.
func (d *DirectedEdge) depthDelta() int {
	if d.Forward {
		return d.Edge.DepthDelta
	}
	return -d.Edge.DepthDelta
}

// PlanarGraph holds arenas of nodes and directed edges, built by
// inserting each unique Edge from the EdgeList (§4.E).
type PlanarGraph struct {
	nodes     []Node
	nodeIndex map[[2]int64]NodeID
	dirEdges  []DirectedEdge
}

func NewPlanarGraph() *PlanarGraph {
	return &PlanarGraph{nodeIndex: make(map[[2]int64]NodeID)}
}

func (g *PlanarGraph) Nodes() []Node               { return g.nodes }
func (g *PlanarGraph) DirectedEdges() []DirectedEdge { return g.dirEdges }
func (g *PlanarGraph) DirectedEdge(id DirEdgeID) *DirectedEdge {
	return &g.dirEdges[id]
}
func (g *PlanarGraph) Node(id NodeID) *Node { return &g.nodes[id] }

func (g *PlanarGraph) ensureNode(p Point) NodeID {
	key := [2]int64{round6(p.X), round6(p.Y)}
	if id, ok := g.nodeIndex[key]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{Coord: p})
	g.nodeIndex[key] = id
	return id
}

// AddEdge inserts an Edge, creating two DirectedEdges (forward and
// backward) and ensuring both endpoint Nodes exist (§4.E).
func (g *PlanarGraph) AddEdge(e *Edge) {
	if len(e.Coords) < 2 {
		return
	}
	from := g.ensureNode(e.Coords[0])
	to := g.ensureNode(e.Coords[len(e.Coords)-1])

	fwdID := DirEdgeID(len(g.dirEdges))
	g.dirEdges = append(g.dirEdges, DirectedEdge{Edge: e, From: from, To: to, Forward: true})
	bwdID := DirEdgeID(len(g.dirEdges))
	g.dirEdges = append(g.dirEdges, DirectedEdge{Edge: e, From: to, To: from, Forward: false})
	g.dirEdges[fwdID].Sym = bwdID
	g.dirEdges[bwdID].Sym = fwdID

	g.nodes[from].Star = append(g.nodes[from].Star, fwdID)
	g.nodes[to].Star = append(g.nodes[to].Star, bwdID)
}

// SortStars orders each Node's outgoing DirectedEdges by bearing,
// counter-clockwise from the +x axis (§4.E "stable angular order"), using
// the direction of the edge's second coordinate as seen from the node.
func (g *PlanarGraph) SortStars() {
	for i := range g.nodes {
		node := &g.nodes[i]
		sort.SliceStable(node.Star, func(a, b int) bool {
			return outgoingBearing(g, node.Coord, node.Star[a]) < outgoingBearing(g, node.Coord, node.Star[b])
		})
	}
}

func outgoingBearing(g *PlanarGraph, from Point, id DirEdgeID) float64 {
	coords := g.DirectedEdge(id).Coords()
	next := coords[1]
	theta := next.Sub(from).Angle()
	return angleNorm(theta)
}
