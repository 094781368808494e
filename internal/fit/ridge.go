package fit

import (
	"context"
	"math"

	"github.com/san-kum/polypot/internal/nbody"
)

// RidgeSearch scans a grid of ridge parameters and keeps the one with the
// lowest per-atom RMSE on a validation set.
type RidgeSearch struct {
	values []float64
}

func NewRidgeSearch(values []float64) *RidgeSearch {
	return &RidgeSearch{values: append([]float64(nil), values...)}
}

// Search fits on train for every grid value and returns the best result
// together with its validation RMSE. Each design matrix is assembled once.
func (g *RidgeSearch) Search(ctx context.Context, basis []nbody.Term, train, valid []Sample, opts Options) (*Result, float64, error) {
	if len(g.values) == 0 {
		return nil, 0, ErrNoData
	}
	tr, err := assemble(basis, train, opts.Workers)
	if err != nil {
		return nil, 0, err
	}
	va, err := assemble(basis, valid, opts.Workers)
	if err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	bestRidge := g.values[0]
	for _, ridge := range g.values {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		c, err := tr.solve(ridge)
		if err != nil {
			continue
		}
		if rmse, _ := va.residuals(c); rmse < best {
			best, bestRidge = rmse, ridge
		}
	}
	if math.IsInf(best, 1) {
		return nil, 0, ErrSingular
	}

	opts.Ridge = bestRidge
	res, err := tr.result(basis, opts)
	if err != nil {
		return nil, 0, err
	}
	return res, best, nil
}
