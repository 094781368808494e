package md

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/logger"
)

type Simulator struct {
	ff        ForceField
	metrics   []Metric
	observers []Observer
}

func New(ff ForceField) *Simulator {
	return &Simulator{ff: ff}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates at and vel in place for cfg.Steps steps. On cancellation
// the partial result is returned along with ctx.Err().
func (s *Simulator) Run(ctx context.Context, at *atoms.Atoms, vel []r3.Vec, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(vel) != at.Len() {
		return nil, fmt.Errorf("md: %d velocities for %d atoms", len(vel), at.Len())
	}

	every := max(cfg.Every, 1)
	result := &Result{
		Snapshots: make([]Snapshot, 0, cfg.Steps/every+1),
		Metrics:   make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	integ := NewVerlet(s.ff, cfg.Mass)
	if err := integ.Prime(at); err != nil {
		return nil, StepError{Step: 0, Err: err}
	}

	snap := s.snapshot(0, 0, integ.Potential(), vel, cfg.Mass)
	initial := snap.Total()
	s.record(result, snap, true)

	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initial, snap)
			return result, ctx.Err()
		default:
		}

		if err := integ.Step(at, vel, cfg.Dt); err != nil {
			s.finish(result, initial, snap)
			return result, StepError{Step: i, Err: err}
		}
		result.StepsTaken++

		snap = s.snapshot(i, float64(i)*cfg.Dt, integ.Potential(), vel, cfg.Mass)
		if !finite(snap.Total()) {
			s.finish(result, initial, snap)
			return result, StepError{Step: i, Err: ErrUnstable}
		}
		s.record(result, snap, i%every == 0 || i == cfg.Steps)
	}

	s.finish(result, initial, snap)
	logger.Debug("md finished", "steps", result.StepsTaken, "drift", result.EnergyDrift)
	return result, nil
}

func (s *Simulator) snapshot(step int, t, epot float64, vel []r3.Vec, mass float64) Snapshot {
	return Snapshot{
		Step:        step,
		Time:        t,
		Potential:   epot,
		Kinetic:     Kinetic(vel, mass),
		Temperature: Temperature(vel, mass),
	}
}

// record feeds metrics on every step and keeps or broadcasts only the
// sampled ones.
func (s *Simulator) record(result *Result, snap Snapshot, sample bool) {
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	if !sample {
		return
	}
	result.Snapshots = append(result.Snapshots, snap)
	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
}

func (s *Simulator) finish(result *Result, initial float64, last Snapshot) {
	if initial != 0 {
		result.EnergyDrift = math.Abs(last.Total()-initial) / math.Abs(initial)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
