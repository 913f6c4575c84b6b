package engine

import "github.com/goki/mat32"

// Curve is a centripetal Catmull-Rom spline interpolating through its
// control points. t in [0,1] spans the whole chain, one uniform slice per
// segment; inside a segment the centripetal knots keep the curve free of
// cusps and loops when control points are unevenly spaced.
type Curve struct {
	Pts []mat32.Vec3
}

// NewCurve returns a curve through the given control points. At least 2
// points are required; callers validate before construction.
func NewCurve(pts []mat32.Vec3) *Curve {
	cp := make([]mat32.Vec3, len(pts))
	copy(cp, pts)
	return &Curve{Pts: cp}
}

// ctrl returns control point i, extrapolating phantom points past the
// ends so the first and last segments get usable tangents.
func (cv *Curve) ctrl(i int) mat32.Vec3 {
	n := len(cv.Pts)
	if i < 0 {
		return cv.Pts[0].MulScalar(2).Sub(cv.Pts[1])
	}
	if i >= n {
		return cv.Pts[n-1].MulScalar(2).Sub(cv.Pts[n-2])
	}
	return cv.Pts[i]
}

// segment maps t in [0,1] to a segment index and local parameter.
func (cv *Curve) segment(t float32) (int, float32) {
	nseg := len(cv.Pts) - 1
	t = clamp32(t, 0, 1)
	ft := t * float32(nseg)
	i := int(ft)
	if i >= nseg {
		i = nseg - 1
	}
	return i, ft - float32(i)
}

// knot returns the centripetal knot interval between two points, sqrt of
// the chord length, floored so coincident points cannot collapse it.
func knot(a, b mat32.Vec3) float32 {
	k := mat32.Sqrt(b.Sub(a).Length())
	if k < 1e-4 {
		return 1e-4
	}
	return k
}

// lerpKnot linearly interpolates a..b as t runs over the knot span ta..tb.
func lerpKnot(a, b mat32.Vec3, ta, tb, t float32) mat32.Vec3 {
	w := (t - ta) / (tb - ta)
	return a.MulScalar(1 - w).Add(b.MulScalar(w))
}

// Point returns the world-space position at parameter t in [0,1], via the
// Barry-Goldman pyramid over the segment's four control points.
func (cv *Curve) Point(t float32) mat32.Vec3 {
	if len(cv.Pts) == 1 {
		return cv.Pts[0]
	}
	i, u := cv.segment(t)
	p0 := cv.ctrl(i - 1)
	p1 := cv.ctrl(i)
	p2 := cv.ctrl(i + 1)
	p3 := cv.ctrl(i + 2)

	t0 := float32(0)
	t1 := t0 + knot(p0, p1)
	t2 := t1 + knot(p1, p2)
	t3 := t2 + knot(p2, p3)
	tt := t1 + u*(t2-t1)

	a1 := lerpKnot(p0, p1, t0, t1, tt)
	a2 := lerpKnot(p1, p2, t1, t2, tt)
	a3 := lerpKnot(p2, p3, t2, t3, tt)
	b1 := lerpKnot(a1, a2, t0, t2, tt)
	b2 := lerpKnot(a2, a3, t1, t3, tt)
	return lerpKnot(b1, b2, t1, t2, tt)
}

// Tangent returns the normalized direction of travel at parameter t,
// using a small central difference.
func (cv *Curve) Tangent(t float32) mat32.Vec3 {
	const eps = 1e-3
	a := cv.Point(clamp32(t-eps, 0, 1))
	b := cv.Point(clamp32(t+eps, 0, 1))
	d := b.Sub(a)
	if d.IsNil() {
		return mat32.Vec3{X: 0, Y: 0, Z: 1}
	}
	return d.Normal()
}
