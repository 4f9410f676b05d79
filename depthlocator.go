package buffer

import "math"

// DepthLocater determines the topological depth ("outside depth") at a
// query point by sweeping through the edges of subgraphs that have
// already been fully depth-processed (§4.G).
//
// The ray-casting rule mirrors the teacher's own point-in-polygon test,
// Polyline.FillCount (polyline.go): here, instead of counting crossings
// for a fill rule, we want the actual depth value carried by the nearest
// crossing to the right of p, which the buffer assembler has already
// attached to each DirectedEdge.
type DepthLocater struct {
	processed []*BufferSubgraph
}

func NewDepthLocater() *DepthLocater {
	return &DepthLocater{}
}

func (dl *DepthLocater) AddProcessed(sg *BufferSubgraph) {
	dl.processed = append(dl.processed, sg)
}

// GetDepth returns the depth of the exterior region at p (§4.G): the
// depth on the side facing p of the nearest edge segment to the right of
// p across all processed subgraphs (its left depth if the segment runs
// upward, its right depth otherwise), or 0 if none brackets p (fully
// exterior).
func (dl *DepthLocater) GetDepth(p Point) int {
	bestIntercept := math.Inf(1)
	bestDepth := 0
	found := false

	for _, sg := range dl.processed {
		for _, deID := range sg.DirEdges {
			de := sg.graph.DirectedEdge(deID)
			if !de.HasDepth {
				continue
			}
			coords := de.Coords()
			for i := 0; i+1 < len(coords); i++ {
				c0, c1 := coords[i], coords[i+1]
				minY, maxY := math.Min(c0.Y, c1.Y), math.Max(c0.Y, c1.Y)
				if p.Y < minY || p.Y >= maxY {
					continue
				}
				t := (p.Y - c0.Y) / (c1.Y - c0.Y)
				x := c0.X + t*(c1.X-c0.X)
				if x < p.X {
					continue
				}
				var depth int
				if c1.Y > c0.Y {
					depth = de.DepthLeft
				} else {
					depth = de.DepthRight
				}
				if x < bestIntercept {
					bestIntercept = x
					bestDepth = depth
					found = true
				}
			}
		}
	}

	if !found {
		return 0
	}
	return bestDepth
}
