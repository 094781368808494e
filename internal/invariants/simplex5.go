package invariants

type edge5 struct {
	i, j int
	// for each third atom k: the (i,k) and (j,k) edge indices
	others [3][2]int
}

var (
	edges5     [10]edge5
	triangles5 [10][3]int
)

func init() {
	const n = 5
	t := 0
	for e, p := range Pairs(n) {
		i, j := p[0], p[1]
		ed := edge5{i: i, j: j}
		o := 0
		for k := 0; k < n; k++ {
			if k == i || k == j {
				continue
			}
			ed.others[o] = [2]int{EdgeIndex(n, i, k), EdgeIndex(n, j, k)}
			o++
			if k > j {
				triangles5[t] = [3]int{e, EdgeIndex(n, i, k), EdgeIndex(n, j, k)}
				t++
			}
		}
		edges5[e] = ed
	}
}

// simplex5 evaluates the partial 5-body invariant set. With d the vertex
// degrees (sum of incident edges) and q the sums of squared incident edges:
//
// primaries:   Σx, Σx², Σd², Σx³, Σd³, Σx⁴, Σd⁴, Σx⁵, Σd⁵, Σx⁶
// secondaries: 1, Σ_tri xxx, Σdq, Σq², Σd²q, Σdq², Σ_tri (xxx)²
func simplex5(x, prim, sec, dprim, dsec []float64) {
	const m = 10

	var d, q [5]float64
	var p [7]float64
	for e := 0; e < m; e++ {
		xe := x[e]
		x2 := xe * xe
		ed := &edges5[e]
		d[ed.i] += xe
		d[ed.j] += xe
		q[ed.i] += x2
		q[ed.j] += x2
		pw := xe
		for k := 1; k <= 6; k++ {
			p[k] += pw
			pw *= xe
		}
	}

	var s2, s3, s4, s5 float64
	var dq, qq, ddq, dqq float64
	for i := range d {
		di, qi := d[i], q[i]
		d2 := di * di
		s2 += d2
		s3 += d2 * di
		s4 += d2 * d2
		s5 += d2 * d2 * di
		dq += di * qi
		qq += qi * qi
		ddq += d2 * qi
		dqq += di * qi * qi
	}

	var tri, tri2 float64
	for _, t := range triangles5 {
		v := x[t[0]] * x[t[1]] * x[t[2]]
		tri += v
		tri2 += v * v
	}

	prim[0], prim[1], prim[2], prim[3], prim[4] = p[1], p[2], s2, p[3], s3
	prim[5], prim[6], prim[7], prim[8], prim[9] = p[4], s4, p[5], s5, p[6]

	sec[0], sec[1], sec[2], sec[3] = 1, tri, dq, qq
	sec[4], sec[5], sec[6] = ddq, dqq, tri2

	if dprim == nil {
		return
	}

	for e := 0; e < m; e++ {
		xe := x[e]
		ed := &edges5[e]
		di, dj := d[ed.i], d[ed.j]
		qi, qj := q[ed.i], q[ed.j]
		x2 := xe * xe
		x3 := x2 * xe
		di2, dj2 := di*di, dj*dj

		dprim[0*m+e] = 1
		dprim[1*m+e] = 2 * xe
		dprim[2*m+e] = 2 * (di + dj)
		dprim[3*m+e] = 3 * x2
		dprim[4*m+e] = 3 * (di2 + dj2)
		dprim[5*m+e] = 4 * x3
		dprim[6*m+e] = 4 * (di2*di + dj2*dj)
		dprim[7*m+e] = 5 * x2 * x2
		dprim[8*m+e] = 5 * (di2*di2 + dj2*dj2)
		dprim[9*m+e] = 6 * x3 * x2

		var dtri, dtri2 float64
		for _, o := range ed.others {
			w := x[o[0]] * x[o[1]]
			dtri += w
			dtri2 += w * w
		}

		dsec[0*m+e] = 0
		dsec[1*m+e] = dtri
		dsec[2*m+e] = qi + qj + 2*xe*(di+dj)
		dsec[3*m+e] = 4 * xe * (qi + qj)
		dsec[4*m+e] = 2*(di*qi+dj*qj) + 2*xe*(di2+dj2)
		dsec[5*m+e] = qi*qi + qj*qj + 4*xe*(di*qi+dj*qj)
		dsec[6*m+e] = 2 * xe * dtri2
	}
}
