package machcone

import "math"

/*
	Circle/wedge intersection. A wedge is the intersection of two
	half-planes bounded by rays v1, v2 from the apex P0 (CCW, opening angle
	<= pi). Restricted to the circle x = P' + r*(cos t, sin t), each
	half-plane constraint becomes A*cos(t) + B*sin(t) >= C, whose solution
	set is a single arc; intersecting the two arcs yields 0, 1 or 2 arcs per
	wedge. Adjacent wedges share a bounding line, so shared endpoints carry
	identical angle values and the spans telescope to 2*pi over the batch.
*/

// span is an angular interval [a, a+len] with a normalized to [0, 2*pi)
type span struct {
	a, b float64
}

const (
	twoPi = 2 * math.Pi
	// minRadius keeps the constraint solve well-posed in the tau -> 0 limit;
	// direction information survives because C shrinks at the same rate
	minRadius = 1.0e-150
)

// halfPlaneArc solves A*cos(t)+B*sin(t) >= C on the circle. full means the
// whole circle satisfies the constraint, empty that none of it does.
func halfPlaneArc(A, B, C float64) (s span, full, empty bool) {
	R := math.Hypot(A, B)
	switch {
	case C <= -R:
		full = true
	case C >= R:
		empty = true
	default:
		thetaC := math.Atan2(B, A)
		delta := math.Acos(math.Max(-1, math.Min(1, C/R)))
		s = normalizeSpan(thetaC-delta, thetaC+delta)
	}
	return
}

func normalizeSpan(a, b float64) span {
	length := b - a
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return span{a: a, b: a + length}
}

// intersectSpans intersects two partial arcs on the circle, returning up to
// two components; zero-length overlaps are dropped (they contribute nothing
// downstream)
func intersectSpans(s1, s2 span, out [][2]float64) [][2]float64 {
	for _, k := range [3]float64{-twoPi, 0, twoPi} {
		lo := math.Max(s1.a, s2.a+k)
		hi := math.Min(s1.b, s2.b+k)
		if hi > lo {
			out = append(out, [2]float64{lo, hi})
		}
	}
	return out
}

// circleInWedge returns the angular intervals of the circle (P', r) lying in
// the wedge at P0 between rays v1 and v2
func circleInWedge(pPrime [2]float64, r float64, p0 [2]float64, v1, v2 [2]float64) (arcs [][2]float64) {
	if r < minRadius {
		r = minRadius
	}
	// cross(v1, x-P0) >= 0  ->  n1 . (x-P0) >= 0 with n1 = perp(v1)
	// cross(x-P0, v2) >= 0  ->  n2 . (x-P0) >= 0 with n2 = -perp(v2)
	n1 := [2]float64{-v1[1], v1[0]}
	n2 := [2]float64{v2[1], -v2[0]}
	constraint := func(n [2]float64) (span, bool, bool) {
		C := n[0]*(p0[0]-pPrime[0]) + n[1]*(p0[1]-pPrime[1])
		return halfPlaneArc(r*n[0], r*n[1], C)
	}
	s1, full1, empty1 := constraint(n1)
	s2, full2, empty2 := constraint(n2)
	switch {
	case empty1 || empty2:
		// no part of the circle in this wedge
	case full1 && full2:
		arcs = append(arcs, [2]float64{0, twoPi})
	case full1:
		arcs = append(arcs, [2]float64{s2.a, s2.b})
	case full2:
		arcs = append(arcs, [2]float64{s1.a, s1.b})
	default:
		arcs = intersectSpans(s1, s2, arcs)
	}
	return
}
