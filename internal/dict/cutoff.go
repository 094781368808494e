package dict

import (
	"fmt"
	"math"
	"sort"
)

// Cutoff is a smooth envelope that vanishes for r >= Radius().
type Cutoff interface {
	// Eval returns fc(r) and dfc/dr.
	Eval(r float64) (fc, dfc float64)
	Radius() float64
	String() string
}

// CosineSwitch is 1 below Rc1 and falls to 0 at Rc2 along half a cosine.
type CosineSwitch struct {
	Rc1, Rc2 float64
}

func (c CosineSwitch) Eval(r float64) (float64, float64) {
	switch {
	case r <= c.Rc1:
		return 1, 0
	case r >= c.Rc2:
		return 0, 0
	}
	w := math.Pi / (c.Rc2 - c.Rc1)
	t := w * (r - c.Rc1)
	return 0.5 * (1 + math.Cos(t)), -0.5 * w * math.Sin(t)
}

func (c CosineSwitch) Radius() float64 { return c.Rc2 }
func (c CosineSwitch) String() string  { return formatDescriptor("cos", c.Rc1, c.Rc2) }

// TwoSidedCosine rises from 0 at Ri1 to 1 at Ri2, stays 1 up to Ro1 and
// falls back to 0 at Ro2.
type TwoSidedCosine struct {
	Ri1, Ri2, Ro1, Ro2 float64
}

func (c TwoSidedCosine) Eval(r float64) (float64, float64) {
	switch {
	case r <= c.Ri1 || r >= c.Ro2:
		return 0, 0
	case r < c.Ri2:
		w := math.Pi / (c.Ri2 - c.Ri1)
		t := w * (r - c.Ri1)
		return 0.5 * (1 - math.Cos(t)), 0.5 * w * math.Sin(t)
	case r <= c.Ro1:
		return 1, 0
	}
	w := math.Pi / (c.Ro2 - c.Ro1)
	t := w * (r - c.Ro1)
	return 0.5 * (1 + math.Cos(t)), -0.5 * w * math.Sin(t)
}

func (c TwoSidedCosine) Radius() float64 { return c.Ro2 }
func (c TwoSidedCosine) String() string {
	return formatDescriptor("cos2s", c.Ri1, c.Ri2, c.Ro1, c.Ro2)
}

// QuinticSwitch is 1 - 10t^3 + 15t^4 - 6t^5 with t = (r-Rc1)/(Rc2-Rc1); C2 at
// both ends.
type QuinticSwitch struct {
	Rc1, Rc2 float64
}

func (c QuinticSwitch) Eval(r float64) (float64, float64) {
	switch {
	case r <= c.Rc1:
		return 1, 0
	case r >= c.Rc2:
		return 0, 0
	}
	w := c.Rc2 - c.Rc1
	t := (r - c.Rc1) / w
	t2 := t * t
	fc := 1 + t2*t*(-10+t*(15-6*t))
	dfc := t2 * (-30 + t*(60-30*t)) / w
	return fc, dfc
}

func (c QuinticSwitch) Radius() float64 { return c.Rc2 }
func (c QuinticSwitch) String() string  { return formatDescriptor("sw", c.Rc1, c.Rc2) }

// PolyEnvelope is ((Rc-r)/Rc)^P.
type PolyEnvelope struct {
	P  int
	Rc float64
}

func (c PolyEnvelope) Eval(r float64) (float64, float64) {
	if r >= c.Rc {
		return 0, 0
	}
	u := (c.Rc - r) / c.Rc
	p := 1.0
	for i := 1; i < c.P; i++ {
		p *= u
	}
	return p * u, -float64(c.P) * p / c.Rc
}

func (c PolyEnvelope) Radius() float64 { return c.Rc }
func (c PolyEnvelope) String() string {
	return formatDescriptor("penv", float64(c.P), c.Rc)
}

var cutoffs = map[string]func(d descriptor) (Cutoff, error){
	"cos": func(d descriptor) (Cutoff, error) {
		if err := d.expect(2); err != nil {
			return nil, err
		}
		c := CosineSwitch{Rc1: d.args[0], Rc2: d.args[1]}
		if c.Rc1 < 0 || c.Rc2 <= c.Rc1 {
			return nil, fmt.Errorf("%w: cos needs 0 <= rc1 < rc2", ErrConfiguration)
		}
		return c, nil
	},
	"cos2s": func(d descriptor) (Cutoff, error) {
		if err := d.expect(4); err != nil {
			return nil, err
		}
		c := TwoSidedCosine{Ri1: d.args[0], Ri2: d.args[1], Ro1: d.args[2], Ro2: d.args[3]}
		if c.Ri1 < 0 || c.Ri2 <= c.Ri1 || c.Ro1 < c.Ri2 || c.Ro2 <= c.Ro1 {
			return nil, fmt.Errorf("%w: cos2s needs 0 <= ri1 < ri2 <= ro1 < ro2", ErrConfiguration)
		}
		return c, nil
	},
	"sw": func(d descriptor) (Cutoff, error) {
		if err := d.expect(2); err != nil {
			return nil, err
		}
		c := QuinticSwitch{Rc1: d.args[0], Rc2: d.args[1]}
		if c.Rc1 < 0 || c.Rc2 <= c.Rc1 {
			return nil, fmt.Errorf("%w: sw needs 0 <= rc1 < rc2", ErrConfiguration)
		}
		return c, nil
	},
	"penv": func(d descriptor) (Cutoff, error) {
		if err := d.expect(2); err != nil {
			return nil, err
		}
		p := d.args[0]
		if p < 1 || p != math.Trunc(p) {
			return nil, fmt.Errorf("%w: penv exponent must be a positive integer, got %v", ErrConfiguration, p)
		}
		if d.args[1] <= 0 {
			return nil, fmt.Errorf("%w: penv needs rc > 0", ErrConfiguration)
		}
		return PolyEnvelope{P: int(p), Rc: d.args[1]}, nil
	},
}

// ParseCutoff builds a cutoff from its descriptor, e.g. "cos(4.5,6.0)".
func ParseCutoff(s string) (Cutoff, error) {
	d, err := parseDescriptor(s)
	if err != nil {
		return nil, err
	}
	build, ok := cutoffs[d.name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown cutoff: %s", ErrConfiguration, d.name)
	}
	return build(d)
}

// CutoffNames lists the accepted cutoff names.
func CutoffNames() []string {
	names := make([]string, 0, len(cutoffs))
	for name := range cutoffs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
