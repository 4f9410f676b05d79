package buffer

import "math"

// Epsilon is the default tolerance for floating point equality, matching
// the teacher's convention of a single package-wide comparison epsilon.
const Epsilon = 1e-10

// Point is a 2-D coordinate, optionally carrying a Z/M ordinate (§3
// Coordinate). The pipeline operates on X/Y only; the vector arithmetic
// and the orb conversions do not carry Z/M, so they are not present in
// the result geometry.
type Point struct {
	X, Y   float64
	Z      float64
	M      float64
	HasZ   bool
	HasM   bool
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Equals(q Point) bool {
	return equalF(p.X, q.X) && equalF(p.Y, q.Y)
}

func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Div(f float64) Point {
	return Point{X: p.X / f, Y: p.Y / f}
}

// Rot90CW rotates the point/vector 90 degrees clockwise (in a y-down screen
// sense this looks CCW, but we treat +Y as up throughout, matching the
// teacher's path_util.go convention).
func (p Point) Rot90CW() Point {
	return Point{X: p.Y, Y: -p.X}
}

func (p Point) Rot90CCW() Point {
	return Point{X: -p.Y, Y: p.X}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// PerpDot is the 2-D cross product (z-component), used throughout for
// orientation tests and shoelace-formula area/centroid computations.
func (p Point) PerpDot(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Norm returns the vector scaled to the given length.
func (p Point) Norm(length float64) Point {
	d := p.Length()
	if d == 0.0 {
		return Point{}
	}
	return p.Mul(length / d)
}

func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// AngleBetween returns the unsigned angle between p and q in [0,pi].
func (p Point) AngleBetween(q Point) float64 {
	return math.Acos(clamp(p.Dot(q)/(p.Length()*q.Length()), -1.0, 1.0))
}

func (p Point) Interpolate(q Point, t float64) Point {
	return Point{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
}

func equalF(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func angleNorm(theta float64) float64 {
	theta = math.Mod(theta, 2.0*math.Pi)
	if theta < 0.0 {
		theta += 2.0 * math.Pi
	}
	return theta
}

// Orientation3 is the sign of the cross product (b-a) x (c-a): positive for
// counter-clockwise turns, negative for clockwise, zero for collinear.
func Orientation3(a, b, c Point) float64 {
	return b.Sub(a).PerpDot(c.Sub(a))
}
