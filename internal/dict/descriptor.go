package dict

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrConfiguration indicates a malformed transform or cutoff descriptor.
var ErrConfiguration = errors.New("dict: invalid configuration")

// descriptor is a parsed "name(arg, arg, ...)" string. A bare name has no
// arguments.
type descriptor struct {
	name string
	args []float64
}

func parseDescriptor(s string) (descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return descriptor{}, fmt.Errorf("%w: empty descriptor", ErrConfiguration)
	}

	open := strings.IndexByte(s, '(')
	if open < 0 {
		if strings.ContainsAny(s, ",)") {
			return descriptor{}, fmt.Errorf("%w: malformed descriptor %q", ErrConfiguration, s)
		}
		return descriptor{name: strings.ToLower(s)}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return descriptor{}, fmt.Errorf("%w: missing ')' in %q", ErrConfiguration, s)
	}

	d := descriptor{name: strings.ToLower(strings.TrimSpace(s[:open]))}
	if d.name == "" {
		return descriptor{}, fmt.Errorf("%w: missing name in %q", ErrConfiguration, s)
	}

	body := strings.TrimSpace(s[open+1 : len(s)-1])
	if body == "" {
		return d, nil
	}
	for _, field := range strings.Split(body, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return descriptor{}, fmt.Errorf("%w: bad argument %q in %q", ErrConfiguration, field, s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return descriptor{}, fmt.Errorf("%w: non-finite argument %q in %q", ErrConfiguration, field, s)
		}
		d.args = append(d.args, v)
	}
	return d, nil
}

func (d descriptor) expect(n int) error {
	if len(d.args) != n {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrConfiguration, d.name, n, len(d.args))
	}
	return nil
}

func formatDescriptor(name string, args ...float64) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.FormatFloat(a, 'g', -1, 64)
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}
