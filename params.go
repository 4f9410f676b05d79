package buffer

// CapStyle controls how open line ends are terminated (§3, §4.A).
type CapStyle int

const (
	CapRound CapStyle = iota
	CapFlat
	CapSquare
)

// JoinStyle controls how offset segments are connected at interior
// vertices (§3, §4.A).
type JoinStyle int

const (
	JoinRound JoinStyle = iota
	JoinMitre
	JoinBevel
)

// Side selects which side of a line or ring an offset curve is built on,
// including the side of a single-sided buffer (§4.I, §6). Labels keep
// their own Left/Right fields and do not use it.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// BufferParameters configures the whole pipeline (§3 BufferParameters).
// All fields must be set before BufferOrchestrator.Buffer is invoked; the
// struct is read-only for the duration of the call (§5).
type BufferParameters struct {
	EndCapStyle     CapStyle
	JoinStyle       JoinStyle
	QuadrantSegments int
	MitreLimit      float64
	SingleSided     bool
	SimplifyFactor  float64
}

// NewDefaultBufferParameters mirrors the defaults named in §3, following
// the teacher's DefaultXOptions() constructor convention (compare
// akhenakh-geo's DefaultBufferOperationOptions in the retrieval pack).
func NewDefaultBufferParameters() BufferParameters {
	return BufferParameters{
		EndCapStyle:      CapRound,
		JoinStyle:        JoinRound,
		QuadrantSegments: 8,
		MitreLimit:       5.0,
		SingleSided:      false,
		SimplifyFactor:   0.01,
	}
}

// Validate checks the invariants the §7 error taxonomy calls out as
// InvalidArgument ("malformed parameters").
func (bp BufferParameters) Validate() error {
	if bp.QuadrantSegments < 1 {
		return &InvalidArgumentError{Message: "quadrantSegments must be >= 1"}
	}
	if bp.MitreLimit <= 0 {
		return &InvalidArgumentError{Message: "mitreLimit must be > 0"}
	}
	if bp.SimplifyFactor < 0 {
		return &InvalidArgumentError{Message: "simplifyFactor must be >= 0"}
	}
	return nil
}

// quadrantAngle is the largest angle one chord of the round cap/join
// approximation spans: a quarter turn divided by QuadrantSegments.
func (bp BufferParameters) quadrantAngle() float64 {
	const halfPi = 1.5707963267948966
	return halfPi / float64(bp.QuadrantSegments)
}
