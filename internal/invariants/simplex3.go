package invariants

// Elementary symmetric polynomials of the three triangle edges.

func simplex3(x, prim, sec []float64) {
	x1, x2, x3 := x[0], x[1], x[2]
	prim[0] = x1 + x2 + x3
	prim[1] = x1*x2 + x1*x3 + x2*x3
	prim[2] = x1 * x2 * x3
	sec[0] = 1
}

func simplex3Grad(x, dprim, dsec []float64) {
	x1, x2, x3 := x[0], x[1], x[2]

	dprim[0], dprim[1], dprim[2] = 1, 1, 1
	dprim[3], dprim[4], dprim[5] = x2+x3, x1+x3, x1+x2
	dprim[6], dprim[7], dprim[8] = x2*x3, x1*x3, x1*x2

	dsec[0], dsec[1], dsec[2] = 0, 0, 0
}
