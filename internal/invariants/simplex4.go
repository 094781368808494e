package invariants

const invSqrt2 = 0.70710678118654752440

// opposite4 pairs each tetrahedron edge with the edge sharing no atom:
// 12|34, 13|24, 14|23.
var opposite4 = [3][2]int{{0, 5}, {1, 4}, {2, 3}}

// simplex4 evaluates the tetrahedral invariants. With dprim == nil the
// Jacobians are skipped.
//
// primaries:   Σa, Σa², Σa³, Σb⁴, Σb², b1·b2·b3
// secondaries: 1, Σac, Σa²c, Σac², Σa²c², V(a)·V(c)
//
// with c = b², V the Vandermonde product (v1-v2)(v2-v3)(v3-v1).
func simplex4(x, prim, sec, dprim, dsec []float64) {
	var a, b, c [3]float64
	for k, p := range opposite4 {
		xi, xj := x[p[0]], x[p[1]]
		a[k] = (xi + xj) * invSqrt2
		b[k] = (xi - xj) * invSqrt2
		c[k] = b[k] * b[k]
	}

	prim[0] = a[0] + a[1] + a[2]
	prim[1] = a[0]*a[0] + a[1]*a[1] + a[2]*a[2]
	prim[2] = a[0]*a[0]*a[0] + a[1]*a[1]*a[1] + a[2]*a[2]*a[2]
	prim[3] = c[0]*c[0] + c[1]*c[1] + c[2]*c[2]
	prim[4] = c[0] + c[1] + c[2]
	prim[5] = b[0] * b[1] * b[2]

	u, v, w := a[0]-a[1], a[1]-a[2], a[2]-a[0]
	cu, cv, cw := c[0]-c[1], c[1]-c[2], c[2]-c[0]
	va := u * v * w
	vc := cu * cv * cw

	sec[0] = 1
	sec[1], sec[2], sec[3], sec[4] = 0, 0, 0, 0
	for k := 0; k < 3; k++ {
		ac := a[k] * c[k]
		sec[1] += ac
		sec[2] += a[k] * ac
		sec[3] += ac * c[k]
		sec[4] += ac * ac
	}
	sec[5] = va * vc

	if dprim == nil {
		return
	}

	dva := [3]float64{v * (w - u), w * (u - v), u * (v - w)}
	dvc := [3]float64{cv * (cw - cu), cw * (cu - cv), cu * (cv - cw)}

	for k, p := range opposite4 {
		i, j := p[0], p[1]
		ak, bk, ck := a[k], b[k], c[k]

		put4(dprim, 0, i, j, 1, 0)
		put4(dprim, 1, i, j, 2*ak, 0)
		put4(dprim, 2, i, j, 3*ak*ak, 0)
		put4(dprim, 3, i, j, 0, 4*ck*bk)
		put4(dprim, 4, i, j, 0, 2*bk)
		put4(dprim, 5, i, j, 0, b[(k+1)%3]*b[(k+2)%3])

		put4(dsec, 0, i, j, 0, 0)
		put4(dsec, 1, i, j, ck, 2*ak*bk)
		put4(dsec, 2, i, j, 2*ak*ck, 2*ak*ak*bk)
		put4(dsec, 3, i, j, ck*ck, 4*ak*ck*bk)
		put4(dsec, 4, i, j, 2*ak*ck*ck, 4*ak*ak*ck*bk)
		put4(dsec, 5, i, j, vc*dva[k], 2*va*dvc[k]*bk)
	}
}

// put4 maps a gradient with respect to (a_k, b_k) back onto the two edges
// of pair k.
func put4(d []float64, row, i, j int, ga, gb float64) {
	d[row*6+i] = (ga + gb) * invSqrt2
	d[row*6+j] = (ga - gb) * invSqrt2
}
