package buffer

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestPointRotate(t *testing.T) {
	p := Point{X: 1, Y: 0}
	test.That(t, p.Rot90CCW().Equals(Point{X: 0, Y: 1}))
	test.That(t, p.Rot90CW().Equals(Point{X: 0, Y: -1}))
}

func TestPointPerpDot(t *testing.T) {
	a := Point{X: 1, Y: 0}
	b := Point{X: 0, Y: 1}
	test.That(t, math.Abs(a.PerpDot(b)-1) < Epsilon)
	test.That(t, math.Abs(b.PerpDot(a)+1) < Epsilon)
}

func TestPointNorm(t *testing.T) {
	p := Point{X: 3, Y: 4}
	n := p.Norm(10)
	test.That(t, math.Abs(n.Length()-10) < Epsilon)
	test.That(t, Point{}.Norm(5).Equals(Point{}))
}

func TestOrientation3(t *testing.T) {
	a, b, c := Point{X: 0, Y: 0}, Point{X: 1, Y: 0}, Point{X: 1, Y: 1}
	test.That(t, Orientation3(a, b, c) > 0)
	test.That(t, Orientation3(a, c, b) < 0)
}
