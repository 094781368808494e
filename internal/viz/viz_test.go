package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/dict"
	"github.com/san-kum/polypot/internal/md"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/potential"
)

func TestCanvasProjection(t *testing.T) {
	c := NewCanvas(10, 5)
	pts := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}
	v := Fit(c, 0, 0, pts)

	wantCorners := [][2]int{{0, 19}, {19, 19}, {0, 0}, {19, 0}}
	for i, p := range pts {
		x, y := v.Project(c, p)
		if x != wantCorners[i][0] || y != wantCorners[i][1] {
			t.Errorf("point %v projected to (%d,%d), want %v", p, x, y, wantCorners[i])
		}
	}

	c.DrawPoints(v, pts[:1])
	if !c.IsSet(0, 19) {
		t.Error("expected pixel at (0,19)")
	}
	c.Clear()
	if c.IsSet(0, 19) {
		t.Error("pixel survived Clear")
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
	if c.IsSet(-1, 0) || c.IsSet(100, 0) {
		t.Error("out of range pixels reported as set")
	}
	if lines := strings.Count(c.String(), "\n"); lines != 2 {
		t.Errorf("%d rows rendered, want 2", lines)
	}
}

func dimerModel(t *testing.T) Model {
	t.Helper()
	d, err := dict.New(2, "id", "cos(3,4)")
	if err != nil {
		t.Fatal(err)
	}
	b, err := nbody.New(d, []nbody.Tuple{{1, 0}, {2, 0}}, []float64{-1, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	at, _ := atoms.Lattice("dimer", 1.1, [3]int{})
	cfg := md.Config{Dt: 0.01, Steps: 25, Mass: 1, Every: 10}
	return NewModel("dimer", potential.New([]nbody.Term{b}), at, make([]r3.Vec, 2), cfg)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelSteps(t *testing.T) {
	m := dimerModel(t)
	if m.err != nil {
		t.Fatal(m.err)
	}

	for i := 0; i < 5; i++ {
		next, cmd := m.Update(TickMsg{})
		m = next.(Model)
		if cmd == nil {
			t.Fatal("tick should schedule the next frame")
		}
	}
	if m.step != 25 {
		t.Errorf("step = %d, want 25 (capped at the run length)", m.step)
	}
	if m.drift() > 1e-3 {
		t.Errorf("drift %v", m.drift())
	}
	if view := m.View(); !strings.Contains(view, "DONE") || !strings.Contains(view, "DIMER") {
		t.Errorf("unexpected view:\n%s", view)
	}

	next, _ := m.Update(key("r"))
	m = next.(Model)
	if m.step != 0 || len(m.total) != 1 {
		t.Errorf("after reset: step %d, history %d", m.step, len(m.total))
	}
}

func TestModelKeys(t *testing.T) {
	m := dimerModel(t)

	next, _ := m.Update(key(" "))
	m = next.(Model)
	if m.running {
		t.Fatal("space should pause")
	}
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.step != 0 {
		t.Errorf("paused model advanced to %d", m.step)
	}

	next, _ = m.Update(key("+"))
	m = next.(Model)
	if m.perTick != 20 {
		t.Errorf("perTick = %d, want 20", m.perTick)
	}
	next, _ = m.Update(key("t"))
	m = next.(Model)
	if m.theme != 1 {
		t.Errorf("theme = %d", m.theme)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}
