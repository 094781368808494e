package invariants

import (
	"math"
	"math/rand"
	"testing"
)

func permutations(n int) [][]int {
	var out [][]int
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	var rec func(k int)
	rec = func(k int) {
		if k == n {
			out = append(out, append([]int(nil), p...))
			return
		}
		for i := k; i < n; i++ {
			p[k], p[i] = p[i], p[k]
			rec(k + 1)
			p[k], p[i] = p[i], p[k]
		}
	}
	rec(0)
	return out
}

func randomEdges(rng *rand.Rand, n int) []float64 {
	x := make([]float64, NumEdges(n))
	for i := range x {
		x[i] = 0.5 + rng.Float64()
	}
	return x
}

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestEdgeIndex(t *testing.T) {
	for n := 2; n <= MaxBodyOrder; n++ {
		for e, p := range Pairs(n) {
			if got := EdgeIndex(n, p[0], p[1]); got != e {
				t.Errorf("n=%d EdgeIndex(%d,%d) = %d, want %d", n, p[0], p[1], got, e)
			}
			if got := EdgeIndex(n, p[1], p[0]); got != e {
				t.Errorf("n=%d EdgeIndex(%d,%d) = %d, want %d", n, p[1], p[0], got, e)
			}
		}
	}
}

func TestTableSizes(t *testing.T) {
	tests := []struct {
		n, edges, prim, sec int
	}{
		{2, 1, 1, 1},
		{3, 3, 3, 1},
		{4, 6, 6, 6},
		{5, 10, 10, 7},
	}

	for _, tt := range tests {
		if NumEdges(tt.n) != tt.edges {
			t.Errorf("n=%d: NumEdges = %d, want %d", tt.n, NumEdges(tt.n), tt.edges)
		}
		if NumPrimary(tt.n) != tt.prim || len(PrimaryDegrees(tt.n)) != tt.prim {
			t.Errorf("n=%d: NumPrimary = %d, want %d", tt.n, NumPrimary(tt.n), tt.prim)
		}
		if NumSecondary(tt.n) != tt.sec || len(SecondaryDegrees(tt.n)) != tt.sec {
			t.Errorf("n=%d: NumSecondary = %d, want %d", tt.n, NumSecondary(tt.n), tt.sec)
		}
		if SecondaryDegrees(tt.n)[0] != 0 {
			t.Errorf("n=%d: first secondary must be the constant", tt.n)
		}
	}
}

func TestDegreesAreCopies(t *testing.T) {
	d := PrimaryDegrees(4)
	d[0] = 99
	if PrimaryDegrees(4)[0] != 1 {
		t.Error("PrimaryDegrees exposed internal table")
	}
}

func TestUnsupportedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for n=6")
		}
	}()
	NumPrimary(6)
}

func TestPermutationInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 2; n <= MaxBodyOrder; n++ {
		x := randomEdges(rng, n)
		prim := make([]float64, NumPrimary(n))
		sec := make([]float64, NumSecondary(n))
		Invariants(n, x, prim, sec)

		xp := make([]float64, len(x))
		pp := make([]float64, len(prim))
		sp := make([]float64, len(sec))
		for _, perm := range permutations(n) {
			sigma := EdgePermutation(n, perm)
			for e := range xp {
				xp[e] = x[sigma[e]]
			}
			Invariants(n, xp, pp, sp)
			for k := range prim {
				if !relClose(prim[k], pp[k], 1e-10) {
					t.Fatalf("n=%d perm=%v primary %d: %v != %v", n, perm, k, prim[k], pp[k])
				}
			}
			for k := range sec {
				if !relClose(sec[k], sp[k], 1e-10) {
					t.Fatalf("n=%d perm=%v secondary %d: %v != %v", n, perm, k, sec[k], sp[k])
				}
			}
		}
	}
}

// Scaling all edges by lambda scales each invariant by lambda^degree.
func TestHomogeneousDegrees(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const lambda = 1.7

	for n := 2; n <= MaxBodyOrder; n++ {
		x := randomEdges(rng, n)
		xs := make([]float64, len(x))
		for i := range x {
			xs[i] = lambda * x[i]
		}

		prim := make([]float64, NumPrimary(n))
		sec := make([]float64, NumSecondary(n))
		ps := make([]float64, len(prim))
		ss := make([]float64, len(sec))
		Invariants(n, x, prim, sec)
		Invariants(n, xs, ps, ss)

		for k, d := range PrimaryDegrees(n) {
			want := prim[k] * math.Pow(lambda, float64(d))
			if !relClose(ps[k], want, 1e-10) {
				t.Errorf("n=%d primary %d: degree %d not consistent", n, k, d)
			}
		}
		for k, d := range SecondaryDegrees(n) {
			want := sec[k] * math.Pow(lambda, float64(d))
			if !relClose(ss[k], want, 1e-10) {
				t.Errorf("n=%d secondary %d: degree %d not consistent", n, k, d)
			}
		}
	}
}

func TestGradMatchesValues(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for n := 2; n <= MaxBodyOrder; n++ {
		x := randomEdges(rng, n)
		m, np, ns := NumEdges(n), NumPrimary(n), NumSecondary(n)

		p1, s1 := make([]float64, np), make([]float64, ns)
		p2, s2 := make([]float64, np), make([]float64, ns)
		Invariants(n, x, p1, s1)
		InvariantsGrad(n, x, p2, s2, make([]float64, np*m), make([]float64, ns*m))

		for k := range p1 {
			if p1[k] != p2[k] {
				t.Errorf("n=%d primary %d differs between value and grad paths", n, k)
			}
		}
		for k := range s1 {
			if s1[k] != s2[k] {
				t.Errorf("n=%d secondary %d differs between value and grad paths", n, k)
			}
		}
	}
}

func TestJacobianFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const h = 1e-6

	for n := 2; n <= MaxBodyOrder; n++ {
		x := randomEdges(rng, n)
		m, np, ns := NumEdges(n), NumPrimary(n), NumSecondary(n)

		prim, sec := make([]float64, np), make([]float64, ns)
		dprim, dsec := make([]float64, np*m), make([]float64, ns*m)
		// poison the buffers to catch entries that are never written
		for i := range dprim {
			dprim[i] = math.NaN()
		}
		for i := range dsec {
			dsec[i] = math.NaN()
		}
		InvariantsGrad(n, x, prim, sec, dprim, dsec)

		pp, sp := make([]float64, np), make([]float64, ns)
		pm, sm := make([]float64, np), make([]float64, ns)
		for e := 0; e < m; e++ {
			xe := x[e]
			x[e] = xe + h
			Invariants(n, x, pp, sp)
			x[e] = xe - h
			Invariants(n, x, pm, sm)
			x[e] = xe

			for k := 0; k < np; k++ {
				fd := (pp[k] - pm[k]) / (2 * h)
				if !relClose(dprim[k*m+e], fd, 1e-5) {
					t.Errorf("n=%d d prim[%d]/dx[%d] = %v, fd %v", n, k, e, dprim[k*m+e], fd)
				}
			}
			for k := 0; k < ns; k++ {
				fd := (sp[k] - sm[k]) / (2 * h)
				if !relClose(dsec[k*m+e], fd, 1e-5) {
					t.Errorf("n=%d d sec[%d]/dx[%d] = %v, fd %v", n, k, e, dsec[k*m+e], fd)
				}
			}
		}
	}
}

func TestSimplex3Known(t *testing.T) {
	prim := make([]float64, 3)
	sec := make([]float64, 1)
	Invariants(3, []float64{1, 2, 3}, prim, sec)

	want := []float64{6, 11, 6}
	for k := range want {
		if prim[k] != want[k] {
			t.Errorf("prim[%d] = %v, want %v", k, prim[k], want[k])
		}
	}
	if sec[0] != 1 {
		t.Errorf("sec[0] = %v, want 1", sec[0])
	}
}

// A regular tetrahedron has all b = 0, so every b-dependent invariant vanishes.
func TestSimplex4Regular(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1, 1}
	prim := make([]float64, 6)
	sec := make([]float64, 6)
	Invariants(4, x, prim, sec)

	a := math.Sqrt2
	want := []float64{3 * a, 6, 3 * a * a * a, 0, 0, 0}
	for k := range want {
		if math.Abs(prim[k]-want[k]) > 1e-12 {
			t.Errorf("prim[%d] = %v, want %v", k, prim[k], want[k])
		}
	}
	for k := 1; k < 6; k++ {
		if sec[k] != 0 {
			t.Errorf("sec[%d] = %v, want 0", k, sec[k])
		}
	}
}

func TestSimplex5Triangles(t *testing.T) {
	seen := map[[3]int]bool{}
	for _, tri := range triangles5 {
		if seen[tri] {
			t.Fatalf("duplicate triangle %v", tri)
		}
		seen[tri] = true
	}
	if len(seen) != 10 {
		t.Errorf("got %d triangles, want 10", len(seen))
	}

	x := make([]float64, 10)
	for i := range x {
		x[i] = 1
	}
	prim := make([]float64, 10)
	sec := make([]float64, 7)
	Invariants(5, x, prim, sec)
	if sec[1] != 10 || sec[6] != 10 {
		t.Errorf("unit edges: triangle sums = %v, %v, want 10", sec[1], sec[6])
	}
	// every vertex has degree 4
	if prim[2] != 5*16 {
		t.Errorf("Σd² = %v, want 80", prim[2])
	}
}

func BenchmarkInvariantsGrad4(b *testing.B) {
	x := []float64{1.1, 0.9, 1.3, 1.05, 0.8, 1.2}
	prim, sec := make([]float64, 6), make([]float64, 6)
	dprim, dsec := make([]float64, 36), make([]float64, 36)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		InvariantsGrad(4, x, prim, sec, dprim, dsec)
	}
}
