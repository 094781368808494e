package invariants

import "fmt"

const (
	MaxBodyOrder = 5
	MaxEdges     = MaxBodyOrder * (MaxBodyOrder - 1) / 2
	MaxPrimary   = 10
	MaxSecondary = 7
)

var primaryDegrees = [MaxBodyOrder + 1][]int{
	2: {1},
	3: {1, 2, 3},
	4: {1, 2, 3, 4, 2, 3},
	5: {1, 2, 2, 3, 3, 4, 4, 5, 5, 6},
}

var secondaryDegrees = [MaxBodyOrder + 1][]int{
	2: {0},
	3: {0},
	4: {0, 3, 4, 5, 6, 9},
	5: {0, 3, 3, 4, 4, 5, 6},
}

var pairTables [MaxBodyOrder + 1][][2]int

func init() {
	for n := 2; n <= MaxBodyOrder; n++ {
		pairs := make([][2]int, 0, NumEdges(n))
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, [2]int{i, j})
			}
		}
		pairTables[n] = pairs
	}
}

// Supported reports whether n has an invariant set.
func Supported(n int) bool {
	return n >= 2 && n <= MaxBodyOrder
}

// NumEdges is the number of pairwise distances of an n-cluster.
func NumEdges(n int) int { return n * (n - 1) / 2 }

func NumPrimary(n int) int {
	mustSupport(n)
	return len(primaryDegrees[n])
}

func NumSecondary(n int) int {
	mustSupport(n)
	return len(secondaryDegrees[n])
}

// PrimaryDegrees returns the polynomial degree of each primary invariant.
func PrimaryDegrees(n int) []int {
	mustSupport(n)
	return append([]int(nil), primaryDegrees[n]...)
}

// SecondaryDegrees returns the polynomial degree of each secondary invariant.
func SecondaryDegrees(n int) []int {
	mustSupport(n)
	return append([]int(nil), secondaryDegrees[n]...)
}

// Pairs lists the atom pairs of an n-cluster in edge order. The returned
// slice is shared and must not be modified.
func Pairs(n int) [][2]int {
	mustSupport(n)
	return pairTables[n]
}

// EdgeIndex returns the position of the (i, j) distance in the edge vector.
func EdgeIndex(n, i, j int) int {
	if i > j {
		i, j = j, i
	}
	// edges before row i: sum_{k<i} (n-1-k)
	return i*(2*n-i-1)/2 + (j - i - 1)
}

// EdgePermutation returns sigma such that relabelling atom i as perm[i]
// turns a distance vector x into x'[e] = x[sigma[e]].
func EdgePermutation(n int, perm []int) []int {
	sigma := make([]int, NumEdges(n))
	for e, p := range Pairs(n) {
		sigma[e] = EdgeIndex(n, perm[p[0]], perm[p[1]])
	}
	return sigma
}

// Invariants writes the primary and secondary invariants of x into prim and
// sec. x must hold NumEdges(n) values, prim NumPrimary(n) and sec
// NumSecondary(n).
func Invariants(n int, x, prim, sec []float64) {
	switch n {
	case 2:
		prim[0] = x[0]
		sec[0] = 1
	case 3:
		simplex3(x, prim, sec)
	case 4:
		simplex4(x, prim, sec, nil, nil)
	case 5:
		simplex5(x, prim, sec, nil, nil)
	default:
		mustSupport(n)
	}
}

// InvariantsGrad is Invariants plus the Jacobians dprim (NumPrimary(n) x M)
// and dsec (NumSecondary(n) x M), both row-major. The Jacobian buffers are
// overwritten entirely.
func InvariantsGrad(n int, x, prim, sec, dprim, dsec []float64) {
	switch n {
	case 2:
		prim[0] = x[0]
		sec[0] = 1
		dprim[0] = 1
		dsec[0] = 0
	case 3:
		simplex3(x, prim, sec)
		simplex3Grad(x, dprim, dsec)
	case 4:
		simplex4(x, prim, sec, dprim, dsec)
	case 5:
		simplex5(x, prim, sec, dprim, dsec)
	default:
		mustSupport(n)
	}
}

func mustSupport(n int) {
	if !Supported(n) {
		panic(fmt.Sprintf("invariants: unsupported body order %d", n))
	}
}
