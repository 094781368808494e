// Package poly evaluates multivariate monomials x^alpha and their gradients
// without heap allocation.
package poly

// MaxArity bounds the number of variables a monomial may have. It covers the
// largest primary invariant set.
const MaxArity = 16

// Monomial returns prod_i x[i]^alpha[i]. Only the first len(alpha) entries
// of x are read.
func Monomial(alpha []int, x []float64) float64 {
	v := 1.0
	for i, a := range alpha {
		if a != 0 {
			v *= ipow(x[i], a)
		}
	}
	return v
}

// MonomialGrad returns the monomial value and writes d/dx_i into grad[i] for
// i < len(alpha). Each factor x_i^alpha_i is computed once; the gradient is
// assembled from prefix and suffix products, so zeros in x are handled
// without division. Panics if len(alpha) > MaxArity.
func MonomialGrad(alpha []int, x, grad []float64) float64 {
	n := len(alpha)
	switch n {
	case 0:
		return 1
	case 1:
		f, df := factor(x[0], alpha[0])
		grad[0] = df
		return f
	case 3:
		return monomialGrad3(alpha, x, grad)
	}
	if n > MaxArity {
		panic("poly: monomial arity exceeds MaxArity")
	}

	var f, df [MaxArity]float64
	for i := 0; i < n; i++ {
		f[i], df[i] = factor(x[i], alpha[i])
	}

	// grad[i] temporarily holds the prefix product f[0..i)
	prefix := 1.0
	for i := 0; i < n; i++ {
		grad[i] = prefix
		prefix *= f[i]
	}
	suffix := 1.0
	for i := n - 1; i >= 0; i-- {
		grad[i] *= suffix * df[i]
		suffix *= f[i]
	}
	return prefix
}

func monomialGrad3(alpha []int, x, grad []float64) float64 {
	f0, d0 := factor(x[0], alpha[0])
	f1, d1 := factor(x[1], alpha[1])
	f2, d2 := factor(x[2], alpha[2])
	grad[0] = d0 * f1 * f2
	grad[1] = f0 * d1 * f2
	grad[2] = f0 * f1 * d2
	return f0 * f1 * f2
}

// factor returns x^a and a*x^(a-1); the derivative of x^0 is 0.
func factor(x float64, a int) (float64, float64) {
	switch a {
	case 0:
		return 1, 0
	case 1:
		return x, 1
	case 2:
		return x * x, 2 * x
	}
	p := ipow(x, a-1)
	return p * x, float64(a) * p
}

func ipow(x float64, n int) float64 {
	r := 1.0
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}
