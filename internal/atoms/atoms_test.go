package atoms

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestLatticeSizes(t *testing.T) {
	tests := []struct {
		kind string
		reps [3]int
		want int
	}{
		{"sc", [3]int{3, 3, 3}, 27},
		{"bcc", [3]int{2, 2, 2}, 16},
		{"fcc", [3]int{2, 2, 2}, 32},
		{"fcc", [3]int{1, 2, 3}, 24},
		{"dimer", [3]int{}, 2},
		{"trimer", [3]int{}, 3},
	}

	for _, tt := range tests {
		at, err := Lattice(tt.kind, 1.5, tt.reps)
		if err != nil {
			t.Fatalf("%s: %v", tt.kind, err)
		}
		if at.Len() != tt.want {
			t.Errorf("%s %v: %d atoms, want %d", tt.kind, tt.reps, at.Len(), tt.want)
		}
	}

	if _, err := Lattice("hcp", 1, [3]int{1, 1, 1}); err == nil {
		t.Error("expected error for unknown lattice")
	}
	if _, err := Lattice("fcc", 1, [3]int{0, 1, 1}); !errors.Is(err, ErrCell) {
		t.Errorf("expected ErrCell, got %v", err)
	}
}

func TestNeighboursFCC(t *testing.T) {
	at, _ := Lattice("fcc", 1, [3]int{2, 2, 2})
	nn := 1 / math.Sqrt2
	nbrs, err := Neighbours(at, 1.05*nn)
	if err != nil {
		t.Fatal(err)
	}
	for i, list := range nbrs {
		if len(list) != 12 {
			t.Fatalf("atom %d has %d neighbours, want 12", i, len(list))
		}
		for _, nb := range list {
			if math.Abs(nb.Dist-nn) > 1e-12 {
				t.Errorf("atom %d: neighbour at %v, want %v", i, nb.Dist, nn)
			}
		}
	}
}

// With a cutoff larger than the box, an atom sees its own images.
func TestNeighboursSelfImages(t *testing.T) {
	at, _ := Lattice("sc", 1, [3]int{1, 1, 1})
	nbrs, err := Neighbours(at, 1.01)
	if err != nil {
		t.Fatal(err)
	}
	if len(nbrs[0]) != 6 {
		t.Errorf("single sc atom has %d neighbours, want 6", len(nbrs[0]))
	}
	for _, nb := range nbrs[0] {
		if nb.Index != 0 {
			t.Errorf("unexpected neighbour index %d", nb.Index)
		}
	}
}

func TestNeighboursUnwrapped(t *testing.T) {
	box := func(x float64) *Atoms {
		at := New([]r3.Vec{{X: 1, Y: 1, Z: 1}, {X: x, Y: 1, Z: 1}})
		at.Cell = r3.Vec{X: 4, Y: 4, Z: 4}
		at.PBC = [3]bool{true, true, true}
		return at
	}

	for _, x := range []float64{2.5, 2.5 - 8, 2.5 + 12} {
		nbrs, err := Neighbours(box(x), 2)
		if err != nil {
			t.Fatal(err)
		}
		for i, list := range nbrs {
			if len(list) != 1 {
				t.Fatalf("x=%v: atom %d has %d neighbours, want 1", x, i, len(list))
			}
			if math.Abs(list[0].Dist-1.5) > 1e-12 {
				t.Errorf("x=%v: atom %d neighbour at %v, want 1.5", x, i, list[0].Dist)
			}
		}
	}
}

// Moving atoms by whole cell vectors leaves the cluster set unchanged.
func TestClustersImageIndependent(t *testing.T) {
	at, _ := Lattice("fcc", 1, [3]int{2, 2, 2})
	Rattle(at, 0.03, 7)
	rcut := 1.05 / math.Sqrt2

	moved := at.Clone()
	for i := range moved.Pos {
		moved.Pos[i].X += float64(i%3-1) * 3 * moved.Cell.X
		moved.Pos[i].Z -= float64(i%2) * 2 * moved.Cell.Z
	}

	for n := 2; n <= 4; n++ {
		want, err := NeighbourList{}.Clusters(at, n, rcut)
		if err != nil {
			t.Fatal(err)
		}
		got, err := NeighbourList{}.Clusters(moved, n, rcut)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(want) {
			t.Fatalf("n=%d: %d clusters after moving images, want %d", n, len(got), len(want))
		}
		var sw, sg float64
		for k := range want {
			for _, r := range want[k].R {
				sw += r
			}
			for _, r := range got[k].R {
				sg += r
			}
		}
		if math.Abs(sw-sg) > 1e-9*sw {
			t.Errorf("n=%d: edge length sum %v, want %v", n, sg, sw)
		}
	}
}

func TestNeighboursErrors(t *testing.T) {
	at := New([]r3.Vec{{}, {X: 1}})
	if _, err := Neighbours(at, 0); !errors.Is(err, ErrCutoff) {
		t.Errorf("expected ErrCutoff, got %v", err)
	}
	at.PBC = [3]bool{true, false, false}
	if _, err := Neighbours(at, 2); !errors.Is(err, ErrCell) {
		t.Errorf("expected ErrCell, got %v", err)
	}
	if _, err := (NeighbourList{}).Clusters(at, 6, 2); !errors.Is(err, ErrBodyOrder) {
		t.Errorf("expected ErrBodyOrder, got %v", err)
	}
}

func TestClusterCounts(t *testing.T) {
	at, _ := Lattice("fcc", 1, [3]int{2, 2, 2})
	rcut := 1.05 / math.Sqrt2
	src := NeighbourList{}

	tests := []struct {
		n       int
		perAtom int
	}{
		{1, 1},
		{2, 12},
		// each atom sits in 24 nearest-neighbour triangles
		{3, 24},
		// and in 8 regular tetrahedra
		{4, 8},
	}

	for _, tt := range tests {
		clusters, err := src.Clusters(at, tt.n, rcut)
		if err != nil {
			t.Fatal(err)
		}
		if want := tt.perAtom * at.Len(); len(clusters) != want {
			t.Errorf("n=%d: %d clusters, want %d", tt.n, len(clusters), want)
		}
		for _, c := range clusters {
			if c.Size() != tt.n || c.Atoms[0] != c.Center || len(c.R) != tt.n*(tt.n-1)/2 {
				t.Fatalf("n=%d: malformed cluster %+v", tt.n, c)
			}
			for _, r := range c.R {
				if r >= rcut {
					t.Fatalf("n=%d: edge %v beyond cutoff", tt.n, r)
				}
			}
		}
	}
}

func TestClusterPairOrder(t *testing.T) {
	at := New([]r3.Vec{{}, {X: 1}, {Y: 2}})
	clusters, err := NeighbourList{}.Clusters(at, 3, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 3 {
		t.Fatalf("%d clusters, want 3", len(clusters))
	}
	c := clusters[0]
	want := []float64{1, 2, math.Sqrt(5)}
	for e := range want {
		if math.Abs(c.R[e]-want[e]) > 1e-15 {
			t.Errorf("R[%d] = %v, want %v", e, c.R[e], want[e])
		}
	}
}

func pairSum(at *Atoms, rcut float64) float64 {
	clusters, _ := NeighbourList{}.Clusters(at, 2, rcut)
	e, _ := SiteValues(at.Len(), clusters, func(c *Cluster) (float64, error) {
		d := c.R[0] - 1
		return d * d, nil
	})
	var s float64
	for _, v := range e {
		s += v
	}
	return s
}

func TestSiteGradientsFiniteDifference(t *testing.T) {
	at, _ := Lattice("sc", 1.1, [3]int{2, 2, 2})
	Rattle(at, 0.05, 3)
	const rcut, h = 1.6, 1e-6

	clusters, err := NeighbourList{}.Clusters(at, 2, rcut)
	if err != nil {
		t.Fatal(err)
	}
	grad, err := SiteGradients(at.Len(), clusters, func(c *Cluster, g []float64) error {
		g[0] = 2 * (c.R[0] - 1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := range at.Pos {
		p := at.Pos[i]
		at.Pos[i].X = p.X + h
		ep := pairSum(at, rcut)
		at.Pos[i].X = p.X - h
		em := pairSum(at, rcut)
		at.Pos[i] = p

		fd := (ep - em) / (2 * h)
		if math.Abs(fd-grad[i].X) > 1e-6 {
			t.Errorf("atom %d: dE/dx = %v, fd %v", i, grad[i].X, fd)
		}
	}
}

func TestAddVirialDimer(t *testing.T) {
	at, _ := Lattice("dimer", 2, [3]int{})
	clusters, _ := NeighbourList{}.Clusters(at, 2, 3)
	var w [9]float64
	for k := range clusters {
		AddVirial(&clusters[k], []float64{0.5}, &w)
	}
	// two site-centred copies of the bond along x
	if math.Abs(w[0]-(-2)) > 1e-14 {
		t.Errorf("W_xx = %v, want -2", w[0])
	}
	for k := 1; k < 9; k++ {
		if w[k] != 0 {
			t.Errorf("W[%d] = %v, want 0", k, w[k])
		}
	}
}

func TestWrap(t *testing.T) {
	at := &Atoms{
		Pos:  []r3.Vec{{X: -0.5, Y: 3.5, Z: 7}},
		Cell: r3.Vec{X: 2, Y: 2, Z: 2},
		PBC:  [3]bool{true, true, false},
	}
	at.Wrap()
	want := r3.Vec{X: 1.5, Y: 1.5, Z: 7}
	if at.Pos[0] != want {
		t.Errorf("Wrap = %v, want %v", at.Pos[0], want)
	}
}

func TestXYZRoundTrip(t *testing.T) {
	at, _ := Lattice("bcc", 2.5, [3]int{1, 1, 2})
	var buf bytes.Buffer
	if err := WriteXYZ(&buf, at, -12.5); err != nil {
		t.Fatal(err)
	}
	trimer, _ := Lattice("trimer", 1, [3]int{})
	if err := WriteXYZ(&buf, trimer, 0.25); err != nil {
		t.Fatal(err)
	}

	frames, err := ReadXYZ(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Fatalf("read %d frames, want 2", len(frames))
	}

	got := frames[0]
	if !got.HasEnergy || got.Energy != -12.5 {
		t.Errorf("energy = %v (%v)", got.Energy, got.HasEnergy)
	}
	if got.Atoms.Cell != at.Cell || got.Atoms.PBC != at.PBC {
		t.Errorf("cell %v pbc %v", got.Atoms.Cell, got.Atoms.PBC)
	}
	for i := range at.Pos {
		if r3.Norm(r3.Sub(got.Atoms.Pos[i], at.Pos[i])) > 1e-9 {
			t.Errorf("atom %d moved: %v vs %v", i, got.Atoms.Pos[i], at.Pos[i])
		}
	}
	if frames[1].Atoms.Periodic() || frames[1].Atoms.Len() != 3 {
		t.Errorf("second frame: %+v", frames[1].Atoms)
	}
}

func TestReadXYZErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"bad count", "two\n\n", ErrXYZ},
		{"truncated", "2\nenergy=1\nH 0 0 0\n", ErrXYZ},
		{"bad coordinate", "1\n\nH 0 x 0\n", ErrXYZ},
		{"triclinic", "1\nLattice=\"1 0.5 0 0 1 0 0 0 1\"\nH 0 0 0\n", ErrCell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadXYZ(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
