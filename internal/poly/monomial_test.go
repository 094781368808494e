package poly

import (
	"math"
	"math/rand"
	"testing"
)

func TestMonomialBasic(t *testing.T) {
	alpha := []int{2, 0, 1}
	x := []float64{3, 5, 2}

	if got := Monomial(alpha, x); got != 18 {
		t.Errorf("Monomial = %v, want 18", got)
	}

	grad := make([]float64, 3)
	v := MonomialGrad(alpha, x, grad)
	if v != 18 {
		t.Errorf("MonomialGrad value = %v, want 18", v)
	}
	want := []float64{12, 0, 9}
	for i := range want {
		if grad[i] != want[i] {
			t.Errorf("grad[%d] = %v, want %v", i, grad[i], want[i])
		}
	}
}

func TestIpow(t *testing.T) {
	tests := []struct {
		x    float64
		n    int
		want float64
	}{
		{2, 0, 1},
		{2, 1, 2},
		{2, 10, 1024},
		{-1.5, 3, -3.375},
		{0, 5, 0},
		{0, 0, 1},
	}

	for _, tt := range tests {
		if got := ipow(tt.x, tt.n); got != tt.want {
			t.Errorf("ipow(%v, %d) = %v, want %v", tt.x, tt.n, got, tt.want)
		}
	}
}

func TestMonomialGradZeroVariable(t *testing.T) {
	// x_1 = 0 with exponent 1: only d/dx_1 survives
	alpha := []int{1, 1, 2, 0}
	x := []float64{2, 0, 3, 7}
	grad := make([]float64, 4)

	v := MonomialGrad(alpha, x, grad)
	if v != 0 {
		t.Errorf("value = %v, want 0", v)
	}
	want := []float64{0, 18, 0, 0}
	for i := range want {
		if grad[i] != want[i] {
			t.Errorf("grad[%d] = %v, want %v", i, grad[i], want[i])
		}
	}
}

func TestMonomialGradFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const h = 1e-6

	for _, n := range []int{1, 2, 3, 6, 10, MaxArity} {
		alpha := make([]int, n)
		x := make([]float64, n)
		for i := range alpha {
			alpha[i] = rng.Intn(4)
			x[i] = 0.5 + rng.Float64()
		}

		grad := make([]float64, n)
		v := MonomialGrad(alpha, x, grad)
		if math.Abs(v-Monomial(alpha, x)) > 1e-12*math.Abs(v) {
			t.Fatalf("n=%d: value paths disagree", n)
		}

		for i := range x {
			xi := x[i]
			x[i] = xi + h
			fp := Monomial(alpha, x)
			x[i] = xi - h
			fm := Monomial(alpha, x)
			x[i] = xi

			fd := (fp - fm) / (2 * h)
			if math.Abs(fd-grad[i]) > 1e-6*math.Max(1, math.Abs(grad[i])) {
				t.Errorf("n=%d grad[%d] = %v, fd %v", n, i, grad[i], fd)
			}
		}
	}
}

func TestMonomialGradNoAlloc(t *testing.T) {
	alpha := []int{1, 2, 0, 3, 1, 1}
	x := []float64{1.1, 0.9, 1.2, 0.8, 1.3, 1.0}
	grad := make([]float64, len(x))

	allocs := testing.AllocsPerRun(100, func() {
		MonomialGrad(alpha, x, grad)
	})
	if allocs != 0 {
		t.Errorf("MonomialGrad allocated %v times", allocs)
	}
}

func TestMonomialGradArityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic above MaxArity")
		}
	}()
	alpha := make([]int, MaxArity+1)
	x := make([]float64, MaxArity+1)
	MonomialGrad(alpha, x, make([]float64, MaxArity+1))
}
