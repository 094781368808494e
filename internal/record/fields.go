package record

import (
	"fmt"
	"math"
)

// Field accessors accept both the native Go types written by ToRecord and
// the generic shapes produced by JSON/YAML decoding ([]any, float64 for
// every JSON number, int for integral YAML scalars).

func (r Record) String(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", illTyped(key, "string", v)
	}
	return s, nil
}

func (r Record) Bool(key string) (bool, error) {
	v, ok := r[key]
	if !ok {
		return false, missing(key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, illTyped(key, "bool", v)
	}
	return b, nil
}

// BoolOr returns def when key is absent.
func (r Record) BoolOr(key string, def bool) (bool, error) {
	if _, ok := r[key]; !ok {
		return def, nil
	}
	return r.Bool(key)
}

func (r Record) Float(key string) (float64, error) {
	v, ok := r[key]
	if !ok {
		return 0, missing(key)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, illTyped(key, "number", v)
	}
	return f, nil
}

func (r Record) Int(key string) (int, error) {
	v, ok := r[key]
	if !ok {
		return 0, missing(key)
	}
	i, ok := toInt(v)
	if !ok {
		return 0, illTyped(key, "integer", v)
	}
	return i, nil
}

func (r Record) Floats(key string) ([]float64, error) {
	v, ok := r[key]
	if !ok {
		return nil, missing(key)
	}
	switch xs := v.(type) {
	case []float64:
		out := make([]float64, len(xs))
		copy(out, xs)
		return out, nil
	case []any:
		out := make([]float64, len(xs))
		for i, x := range xs {
			f, ok := toFloat(x)
			if !ok {
				return nil, illTyped(fmt.Sprintf("%s[%d]", key, i), "number", x)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, illTyped(key, "number list", v)
}

// IntLists reads a list of integer lists.
func (r Record) IntLists(key string) ([][]int, error) {
	v, ok := r[key]
	if !ok {
		return nil, missing(key)
	}
	switch xs := v.(type) {
	case [][]int:
		out := make([][]int, len(xs))
		for i, x := range xs {
			out[i] = append([]int(nil), x...)
		}
		return out, nil
	case []any:
		out := make([][]int, len(xs))
		for i, x := range xs {
			row, err := intList(fmt.Sprintf("%s[%d]", key, i), x)
			if err != nil {
				return nil, err
			}
			out[i] = row
		}
		return out, nil
	}
	return nil, illTyped(key, "list of integer lists", v)
}

// Sub reads a nested record.
func (r Record) Sub(key string) (Record, error) {
	v, ok := r[key]
	if !ok {
		return nil, missing(key)
	}
	rec, ok := asRecord(v)
	if !ok {
		return nil, illTyped(key, "record", v)
	}
	return rec, nil
}

// Records reads a list of nested records.
func (r Record) Records(key string) ([]Record, error) {
	v, ok := r[key]
	if !ok {
		return nil, missing(key)
	}
	switch xs := v.(type) {
	case []Record:
		return xs, nil
	case []any:
		out := make([]Record, len(xs))
		for i, x := range xs {
			rec, ok := asRecord(x)
			if !ok {
				return nil, illTyped(fmt.Sprintf("%s[%d]", key, i), "record", x)
			}
			out[i] = rec
		}
		return out, nil
	}
	return nil, illTyped(key, "record list", v)
}

func intList(key string, v any) ([]int, error) {
	switch xs := v.(type) {
	case []int:
		return append([]int(nil), xs...), nil
	case []any:
		out := make([]int, len(xs))
		for i, x := range xs {
			n, ok := toInt(x)
			if !ok {
				return nil, illTyped(fmt.Sprintf("%s[%d]", key, i), "integer", x)
			}
			out[i] = n
		}
		return out, nil
	}
	return nil, illTyped(key, "integer list", v)
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int(x), true
		}
	}
	return 0, false
}

func missing(key string) error {
	return fmt.Errorf("%w: missing %q", ErrMalformed, key)
}

func illTyped(key, want string, got any) error {
	return fmt.Errorf("%w: %q should be %s, got %T", ErrMalformed, key, want, got)
}
