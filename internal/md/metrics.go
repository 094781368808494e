package md

import (
	"math"

	"github.com/san-kum/polypot/internal/numeric"
)

type MeanTemperature struct {
	total   numeric.Sum
	samples int
}

func NewMeanTemperature() *MeanTemperature { return &MeanTemperature{} }

func (m *MeanTemperature) Name() string { return "mean_temperature" }

func (m *MeanTemperature) Observe(s Snapshot) {
	m.total.Add(s.Temperature)
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total.Value() / float64(m.samples)
}

func (m *MeanTemperature) Reset() {
	m.total.Reset()
	m.samples = 0
}

// EnergyDrift tracks the largest deviation of the total energy from its
// first observed value, relative to that value when it is non-zero.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s Snapshot) {
	energy := s.Total()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initial)
	if e.initial != 0 {
		drift /= math.Abs(e.initial)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
