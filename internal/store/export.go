package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/polypot/internal/md"
)

type Trajectory struct {
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Times       []float64          `json:"times"`
	Potential   []float64          `json:"potential"`
	Kinetic     []float64          `json:"kinetic"`
	Temperature []float64          `json:"temperature"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

func NewTrajectory(dt float64, res *md.Result) Trajectory {
	tr := Trajectory{
		Dt:          dt,
		Steps:       res.StepsTaken,
		Times:       make([]float64, len(res.Snapshots)),
		Potential:   make([]float64, len(res.Snapshots)),
		Kinetic:     make([]float64, len(res.Snapshots)),
		Temperature: make([]float64, len(res.Snapshots)),
		EnergyDrift: res.EnergyDrift,
		Metrics:     res.Metrics,
	}
	for i, s := range res.Snapshots {
		tr.Times[i] = s.Time
		tr.Potential[i] = s.Potential
		tr.Kinetic[i] = s.Kinetic
		tr.Temperature[i] = s.Temperature
	}
	return tr
}

// WriteTrajectory encodes an MD run as indented JSON.
func WriteTrajectory(w io.Writer, dt float64, res *md.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewTrajectory(dt, res))
}

func ExportTrajectory(path string, dt float64, res *md.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTrajectory(f, dt, res)
}
