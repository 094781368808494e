package dict

import (
	"fmt"
	"math"
	"sort"
)

// Transform reparametrizes a pair distance before it enters the invariants.
type Transform interface {
	// Eval returns s(r) and ds/dr.
	Eval(r float64) (s, ds float64)
	// String returns the descriptor that parses back to this transform.
	String() string
}

type Identity struct{}

func (Identity) Eval(r float64) (float64, float64) { return r, 1 }
func (Identity) String() string                     { return "id" }

// InversePower is s = (r0/r)^p.
type InversePower struct {
	R0, P float64
}

func (t InversePower) Eval(r float64) (float64, float64) {
	s := math.Pow(t.R0/r, t.P)
	return s, -t.P * s / r
}

func (t InversePower) String() string { return formatDescriptor("inv", t.R0, t.P) }

// Exponential is s = exp(-a(r/r0 - 1)). Name is kept so that the "morse"
// alias survives a round trip.
type Exponential struct {
	R0, A float64
	Name  string
}

func (t Exponential) Eval(r float64) (float64, float64) {
	s := math.Exp(-t.A * (r/t.R0 - 1))
	return s, -t.A / t.R0 * s
}

func (t Exponential) String() string {
	name := t.Name
	if name == "" {
		name = "exp"
	}
	return formatDescriptor(name, t.R0, t.A)
}

var transforms = map[string]func(d descriptor) (Transform, error){
	"id": func(d descriptor) (Transform, error) {
		if err := d.expect(0); err != nil {
			return nil, err
		}
		return Identity{}, nil
	},
	"inv": func(d descriptor) (Transform, error) {
		if err := d.expect(2); err != nil {
			return nil, err
		}
		if d.args[0] <= 0 || d.args[1] <= 0 {
			return nil, fmt.Errorf("%w: inv needs r0 > 0 and p > 0", ErrConfiguration)
		}
		return InversePower{R0: d.args[0], P: d.args[1]}, nil
	},
	"exp":   exponential,
	"morse": exponential,
}

func exponential(d descriptor) (Transform, error) {
	if err := d.expect(2); err != nil {
		return nil, err
	}
	if d.args[0] <= 0 {
		return nil, fmt.Errorf("%w: %s needs r0 > 0", ErrConfiguration, d.name)
	}
	return Exponential{R0: d.args[0], A: d.args[1], Name: d.name}, nil
}

// ParseTransform builds a transform from its descriptor, e.g. "inv(2.5,3)".
func ParseTransform(s string) (Transform, error) {
	d, err := parseDescriptor(s)
	if err != nil {
		return nil, err
	}
	build, ok := transforms[d.name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown transform: %s", ErrConfiguration, d.name)
	}
	return build(d)
}

// TransformNames lists the accepted transform names.
func TransformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
