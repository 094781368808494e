// Package fit determines basis coefficients by linear least squares on
// reference energies.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/logger"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/numeric"
	"github.com/san-kum/polypot/internal/potential"
)

var (
	ErrNoData   = errors.New("fit: no training data")
	ErrSingular = errors.New("fit: singular design matrix")
)

// Sample is a reference configuration with its total energy. A zero
// weight counts as one.
type Sample struct {
	Atoms  *atoms.Atoms
	Energy float64
	Weight float64
}

func (s Sample) weight() float64 {
	if s.Weight == 0 {
		return 1
	}
	return s.Weight
}

// FromFrames turns XYZ frames into samples, skipping frames without an
// energy.
func FromFrames(frames []atoms.Frame) []Sample {
	out := make([]Sample, 0, len(frames))
	for _, f := range frames {
		if !f.HasEnergy {
			continue
		}
		out = append(out, Sample{Atoms: f.Atoms, Energy: f.Energy})
	}
	return out
}

type Options struct {
	Ridge   float64
	Workers int
}

type Result struct {
	Potential *potential.Potential
	Coeffs    []float64
	// errors per atom over the training set
	RMSE     float64
	MaxError float64
}

// Fit solves min |W(Ac - E)|^2 + ridge |c|^2 where A[s][k] is the energy
// of basis[k] on sample s. The fitted terms are combined into a potential.
func Fit(basis []nbody.Term, samples []Sample, opts Options) (*Result, error) {
	sys, err := assemble(basis, samples, opts.Workers)
	if err != nil {
		return nil, err
	}
	return sys.result(basis, opts)
}

// DesignMatrix returns the unweighted matrix of per-term energies, one row
// per sample.
func DesignMatrix(basis []nbody.Term, samples []Sample, workers int) (*mat.Dense, error) {
	sys, err := assemble(basis, samples, workers)
	if err != nil {
		return nil, err
	}
	return sys.a, nil
}

type system struct {
	a   *mat.Dense
	e   []float64
	w   []float64
	nat []float64
}

func assemble(basis []nbody.Term, samples []Sample, workers int) (*system, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}
	if len(basis) == 0 {
		return nil, fmt.Errorf("%w: empty basis", ErrNoData)
	}

	sys := &system{
		a:   mat.NewDense(len(samples), len(basis), nil),
		e:   make([]float64, len(samples)),
		w:   make([]float64, len(samples)),
		nat: make([]float64, len(samples)),
	}
	for i, s := range samples {
		row, err := potential.Energies(basis, s.Atoms, potential.WithWorkers(workers))
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		sys.a.SetRow(i, row)
		sys.e[i] = s.Energy
		sys.w[i] = s.weight()
		sys.nat[i] = float64(max(s.Atoms.Len(), 1))
	}
	logger.Debug("design matrix assembled", "samples", len(samples), "basis", len(basis))
	return sys, nil
}

func (s *system) solve(ridge float64) ([]float64, error) {
	rows, cols := s.a.Dims()
	extra := 0
	if ridge > 0 {
		extra = cols
	}

	a := mat.NewDense(rows+extra, cols, nil)
	b := mat.NewVecDense(rows+extra, nil)
	for i := 0; i < rows; i++ {
		for k := 0; k < cols; k++ {
			a.Set(i, k, s.w[i]*s.a.At(i, k))
		}
		b.SetVec(i, s.w[i]*s.e[i])
	}
	if ridge > 0 {
		l := math.Sqrt(ridge)
		for k := 0; k < cols; k++ {
			a.Set(rows+k, k, l)
		}
	}

	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		logger.Warn("ill-conditioned fit", "condition", float64(cond), "ridge", ridge)
	}

	out := make([]float64, cols)
	for k := range out {
		out[k] = c.AtVec(k)
	}
	return out, nil
}

// residuals returns the per-atom RMSE and largest absolute error of c.
func (s *system) residuals(c []float64) (rmse, maxErr float64) {
	rows, _ := s.a.Dims()
	pred := mat.NewVecDense(rows, nil)
	pred.MulVec(s.a, mat.NewVecDense(len(c), c))

	var sq numeric.Sum
	for i := 0; i < rows; i++ {
		d := math.Abs(pred.AtVec(i)-s.e[i]) / s.nat[i]
		sq.Add(d * d)
		maxErr = math.Max(maxErr, d)
	}
	return math.Sqrt(sq.Value() / float64(rows)), maxErr
}

func (s *system) result(basis []nbody.Term, opts Options) (*Result, error) {
	c, err := s.solve(opts.Ridge)
	if err != nil {
		return nil, err
	}
	terms, err := nbody.Combine(basis, c)
	if err != nil {
		return nil, err
	}
	rmse, maxErr := s.residuals(c)
	logger.Debug("fit solved", "ridge", opts.Ridge, "rmse", rmse, "max", maxErr)
	return &Result{
		Potential: potential.New(terms, potential.WithWorkers(opts.Workers)),
		Coeffs:    c,
		RMSE:      rmse,
		MaxError:  maxErr,
	}, nil
}
