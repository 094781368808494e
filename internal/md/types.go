// Package md runs constant-energy molecular dynamics on a potential.
// Units are reduced: kB = 1 and all atoms share one mass.
package md

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
)

var ErrUnstable = errors.New("md: non-finite state")

// ForceField is what the integrator needs from a potential.
type ForceField interface {
	EnergyForces(at *atoms.Atoms) (float64, []r3.Vec, error)
}

type Snapshot struct {
	Step        int
	Time        float64
	Potential   float64
	Kinetic     float64
	Temperature float64
}

func (s Snapshot) Total() float64 { return s.Potential + s.Kinetic }

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnStep(s Snapshot) { f(s) }

type Config struct {
	Dt    float64
	Steps int
	Mass  float64
	// snapshots are recorded every Every steps; 0 records every step
	Every int
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %f", c.Mass)
	}
	return nil
}

type Result struct {
	Snapshots   []Snapshot
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}

// StepError reports the step at which the trajectory broke down.
type StepError struct {
	Step int
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("md: step %d: %v", e.Step, e.Err)
}

func (e StepError) Unwrap() error { return e.Err }
