package buffer

import "math"

// PrecisionModelType selects how coordinates are snapped to a grid (§3
// PrecisionModel).
type PrecisionModelType int

const (
	// Floating performs no snapping; full double precision is retained.
	Floating PrecisionModelType = iota
	// FixedScale snaps coordinates to a grid of spacing 1/Scale.
	FixedScale
)

// PrecisionModel snaps coordinates to the active grid. It is constructed
// once by the caller and treated as read-only for the lifetime of a
// BufferOrchestrator (§5 Thread-safety).
type PrecisionModel struct {
	modelType PrecisionModelType
	scale     float64
}

// NewFloatingPrecisionModel returns a model that performs no snapping.
func NewFloatingPrecisionModel() *PrecisionModel {
	return &PrecisionModel{modelType: Floating}
}

// NewFixedPrecisionModel returns a model that snaps to a grid of spacing
// 1/scale. scale must be > 0.
func NewFixedPrecisionModel(scale float64) *PrecisionModel {
	return &PrecisionModel{modelType: FixedScale, scale: scale}
}

func (pm *PrecisionModel) Type() PrecisionModelType {
	if pm == nil {
		return Floating
	}
	return pm.modelType
}

// MakePrecise snaps a single coordinate to the grid.
func (pm *PrecisionModel) MakePrecise(p Point) Point {
	if pm == nil || pm.modelType == Floating {
		return p
	}
	return Point{X: snap(p.X, pm.scale), Y: snap(p.Y, pm.scale)}
}

// MakePreciseAll snaps an entire coordinate sequence in place and returns it.
func (pm *PrecisionModel) MakePreciseAll(coords []Point) []Point {
	if pm == nil || pm.modelType == Floating {
		return coords
	}
	for i := range coords {
		coords[i] = pm.MakePrecise(coords[i])
	}
	return coords
}

func snap(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
