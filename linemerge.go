package buffer

// mergeLines greedily stitches open polylines that share an endpoint
// (within the snap tolerance baked into Point.Equals) into maximal
// chains, the line-merge step named in §4.I.1's single-sided clean-up and
// §6's external "LineMerger" collaborator. JTS's LineMerger builds a full
// node graph to do this in general; here the inputs are always the
// noded, non-branching pieces of a single offset curve, so a direct
// endpoint-chase is equivalent and avoids standing up a second graph
// structure for a single clean-up step.
func mergeLines(lines [][]Point) [][]Point {
	remaining := make([][]Point, len(lines))
	copy(remaining, lines)

	var merged [][]Point
	for len(remaining) > 0 {
		chain := remaining[0]
		remaining = remaining[1:]

		progress := true
		for progress {
			progress = false
			for i, other := range remaining {
				if len(other) == 0 {
					continue
				}
				switch {
				case chain[len(chain)-1].Equals(other[0]):
					chain = append(chain, other[1:]...)
				case chain[len(chain)-1].Equals(other[len(other)-1]):
					chain = append(chain, reversePoints(other)[1:]...)
				case chain[0].Equals(other[len(other)-1]):
					chain = append(append([]Point{}, other...), chain[1:]...)
				case chain[0].Equals(other[0]):
					chain = append(reversePoints(other), chain[1:]...)
				default:
					continue
				}
				remaining = append(remaining[:i], remaining[i+1:]...)
				progress = true
				break
			}
		}
		merged = append(merged, chain)
	}
	return merged
}

func reversePoints(coords []Point) []Point {
	out := make([]Point, len(coords))
	n := len(coords)
	for i, p := range coords {
		out[n-1-i] = p
	}
	return out
}

func lineLength(coords []Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(coords); i++ {
		total += coords[i+1].Sub(coords[i]).Length()
	}
	return total
}
