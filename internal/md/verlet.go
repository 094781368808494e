package md

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
)

// Verlet is the velocity Verlet integrator. It caches the forces of the
// last evaluation so each step costs one force call.
type Verlet struct {
	ff     ForceField
	mass   float64
	forces []r3.Vec
	epot   float64
}

func NewVerlet(ff ForceField, mass float64) *Verlet {
	return &Verlet{ff: ff, mass: mass}
}

// Prime evaluates the forces of the starting configuration.
func (v *Verlet) Prime(at *atoms.Atoms) error {
	e, f, err := v.ff.EnergyForces(at)
	if err != nil {
		return err
	}
	v.epot, v.forces = e, f
	return nil
}

func (v *Verlet) Potential() float64 { return v.epot }

// Step advances positions and velocities in place by dt.
func (v *Verlet) Step(at *atoms.Atoms, vel []r3.Vec, dt float64) error {
	if v.forces == nil {
		if err := v.Prime(at); err != nil {
			return err
		}
	}

	halfDt := 0.5 * dt / v.mass
	for i := range at.Pos {
		vel[i] = r3.Add(vel[i], r3.Scale(halfDt, v.forces[i]))
		at.Pos[i] = r3.Add(at.Pos[i], r3.Scale(dt, vel[i]))
	}
	at.Wrap()

	e, f, err := v.ff.EnergyForces(at)
	if err != nil {
		return err
	}
	for i := range vel {
		vel[i] = r3.Add(vel[i], r3.Scale(halfDt, f[i]))
	}
	v.epot, v.forces = e, f
	return nil
}

func Kinetic(vel []r3.Vec, mass float64) float64 {
	var k float64
	for _, u := range vel {
		k += r3.Norm2(u)
	}
	return 0.5 * mass * k
}

// Temperature is 2K/(3N).
func Temperature(vel []r3.Vec, mass float64) float64 {
	if len(vel) == 0 {
		return 0
	}
	return 2 * Kinetic(vel, mass) / (3 * float64(len(vel)))
}

// InitVelocities draws Maxwell-Boltzmann velocities, removes the centre of
// mass drift and rescales to exactly temp.
func InitVelocities(n int, temp, mass float64, seed int64) []r3.Vec {
	vel := make([]r3.Vec, n)
	if n == 0 || temp <= 0 {
		return vel
	}

	rng := rand.New(rand.NewSource(seed))
	sigma := math.Sqrt(temp / mass)
	var mean r3.Vec
	for i := range vel {
		vel[i] = r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		vel[i] = r3.Scale(sigma, vel[i])
		mean = r3.Add(mean, vel[i])
	}
	mean = r3.Scale(1/float64(n), mean)
	for i := range vel {
		vel[i] = r3.Sub(vel[i], mean)
	}

	if t := Temperature(vel, mass); t > 0 {
		s := math.Sqrt(temp / t)
		for i := range vel {
			vel[i] = r3.Scale(s, vel[i])
		}
	}
	return vel
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
