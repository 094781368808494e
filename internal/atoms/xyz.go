package atoms

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrXYZ indicates a malformed XYZ stream.
var ErrXYZ = errors.New("atoms: malformed xyz")

// Frame is one configuration of an (extended) XYZ file.
type Frame struct {
	Atoms     *Atoms
	Energy    float64
	HasEnergy bool
}

// ReadXYZ reads all frames of an extended XYZ stream. The comment line may
// carry Lattice="Lx 0 0 0 Ly 0 0 0 Lz", pbc="T T T" and energy=<value>.
func ReadXYZ(r io.Reader) ([]Frame, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return sc.Text(), true
	}

	var frames []Frame
	for {
		head, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(head) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(head))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: line %d: bad atom count %q", ErrXYZ, line, head)
		}

		comment, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing comment line", ErrXYZ, line)
		}
		f := Frame{Atoms: &Atoms{}}
		if err := parseComment(comment, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		for i := 0; i < n; i++ {
			text, ok := next()
			if !ok {
				return nil, fmt.Errorf("%w: expected %d atoms, got %d", ErrXYZ, n, i)
			}
			fields := strings.Fields(text)
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: %q", ErrXYZ, line, text)
			}
			var xyz [3]float64
			for k := range xyz {
				if xyz[k], err = strconv.ParseFloat(fields[k+1], 64); err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrXYZ, line, err)
				}
			}
			f.Atoms.Species = append(f.Atoms.Species, fields[0])
			f.Atoms.Pos = append(f.Atoms.Pos, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

func parseComment(s string, f *Frame) error {
	props := commentProperties(s)
	pbcSet := false

	if v, ok := props["lattice"]; ok {
		nums, err := parseFloats(v)
		if err != nil || len(nums) != 9 {
			return fmt.Errorf("%w: Lattice needs 9 numbers, got %q", ErrXYZ, v)
		}
		for k, x := range nums {
			if k%4 != 0 && x != 0 {
				return fmt.Errorf("%w: only orthorhombic cells are supported", ErrCell)
			}
		}
		f.Atoms.Cell = r3.Vec{X: nums[0], Y: nums[4], Z: nums[8]}
	}
	if v, ok := props["pbc"]; ok {
		flags := strings.Fields(v)
		if len(flags) != 3 {
			return fmt.Errorf("%w: pbc needs 3 flags, got %q", ErrXYZ, v)
		}
		for k, fl := range flags {
			f.Atoms.PBC[k] = strings.EqualFold(fl, "T") || strings.EqualFold(fl, "true")
		}
		pbcSet = true
	}
	if _, ok := props["lattice"]; ok && !pbcSet {
		f.Atoms.PBC = [3]bool{true, true, true}
	}
	if v, ok := props["energy"]; ok {
		e, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: energy %q", ErrXYZ, v)
		}
		f.Energy, f.HasEnergy = e, true
	}
	return nil
}

// commentProperties splits key=value and key="quoted value" pairs; keys
// are lower-cased.
func commentProperties(s string) map[string]string {
	props := map[string]string{}
	for s = strings.TrimSpace(s); s != ""; s = strings.TrimSpace(s) {
		eq := strings.IndexByte(s, '=')
		sp := strings.IndexAny(s, " \t")
		if eq < 0 || (sp >= 0 && sp < eq) {
			// bare word
			if sp < 0 {
				break
			}
			s = s[sp:]
			continue
		}
		key := strings.ToLower(s[:eq])
		s = s[eq+1:]
		var val string
		if strings.HasPrefix(s, `"`) {
			end := strings.IndexByte(s[1:], '"')
			if end < 0 {
				val, s = s[1:], ""
			} else {
				val, s = s[1:end+1], s[end+2:]
			}
		} else if sp := strings.IndexAny(s, " \t"); sp >= 0 {
			val, s = s[:sp], s[sp:]
		} else {
			val, s = s, ""
		}
		props[key] = val
	}
	return props
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteXYZ appends one extended XYZ frame. Atoms without species are
// written as "X".
func WriteXYZ(w io.Writer, at *Atoms, energy float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", at.Len())
	if at.Periodic() {
		fmt.Fprintf(bw, "Lattice=\"%g 0 0 0 %g 0 0 0 %g\" pbc=\"%s %s %s\" ",
			at.Cell.X, at.Cell.Y, at.Cell.Z, flag(at.PBC[0]), flag(at.PBC[1]), flag(at.PBC[2]))
	}
	fmt.Fprintf(bw, "energy=%.10g\n", energy)
	for i, p := range at.Pos {
		sym := "X"
		if i < len(at.Species) {
			sym = at.Species[i]
		}
		fmt.Fprintf(bw, "%s %.10f %.10f %.10f\n", sym, p.X, p.Y, p.Z)
	}
	return bw.Flush()
}

func flag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}
