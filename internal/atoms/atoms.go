// Package atoms holds atomic configurations and enumerates the N-atom
// clusters a potential is evaluated on.
package atoms

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrCell indicates a periodic direction with a non-positive box length.
	ErrCell = errors.New("atoms: invalid cell")

	// ErrBodyOrder indicates a cluster size outside [1, MaxBodyOrder].
	ErrBodyOrder = errors.New("atoms: unsupported body order")

	// ErrCutoff indicates a non-positive cutoff radius.
	ErrCutoff = errors.New("atoms: cutoff must be positive")
)

// Atoms is a configuration in an orthorhombic box. Cell holds the box
// lengths; only directions with PBC set are periodic.
type Atoms struct {
	Pos     []r3.Vec
	Species []string
	Cell    r3.Vec
	PBC     [3]bool
}

// New returns an open-boundary configuration.
func New(pos []r3.Vec) *Atoms {
	return &Atoms{Pos: append([]r3.Vec(nil), pos...)}
}

func (a *Atoms) Len() int { return len(a.Pos) }

func (a *Atoms) Clone() *Atoms {
	c := *a
	c.Pos = append([]r3.Vec(nil), a.Pos...)
	c.Species = append([]string(nil), a.Species...)
	return &c
}

// Periodic reports whether any direction is periodic.
func (a *Atoms) Periodic() bool {
	return a.PBC[0] || a.PBC[1] || a.PBC[2]
}

// Volume is the box volume, or 0 without periodic boundaries.
func (a *Atoms) Volume() float64 {
	if !a.Periodic() {
		return 0
	}
	return a.Cell.X * a.Cell.Y * a.Cell.Z
}

func (a *Atoms) validate() error {
	l := [3]float64{a.Cell.X, a.Cell.Y, a.Cell.Z}
	for k, p := range a.PBC {
		if p && !(l[k] > 0) {
			return fmt.Errorf("%w: periodic axis %d has length %v", ErrCell, k, l[k])
		}
	}
	return nil
}

// Wrap maps positions back into the box along periodic directions.
func (a *Atoms) Wrap() {
	for i, p := range a.Pos {
		if a.PBC[0] {
			p.X -= a.Cell.X * math.Floor(p.X/a.Cell.X)
		}
		if a.PBC[1] {
			p.Y -= a.Cell.Y * math.Floor(p.Y/a.Cell.Y)
		}
		if a.PBC[2] {
			p.Z -= a.Cell.Z * math.Floor(p.Z/a.Cell.Z)
		}
		a.Pos[i] = p
	}
}

// Scale stretches positions and cell by f.
func (a *Atoms) Scale(f float64) {
	for i, p := range a.Pos {
		a.Pos[i] = r3.Scale(f, p)
	}
	a.Cell = r3.Scale(f, a.Cell)
}
