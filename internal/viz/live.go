package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/md"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
	maxPerTick      = 256
)

type TickMsg time.Time

// Model steps an MD run a few steps per frame and renders it.
type Model struct {
	title string
	ff    md.ForceField
	cfg   md.Config
	integ *md.Verlet

	at, initial  *atoms.Atoms
	vel, initVel []r3.Vec

	step    int
	perTick int
	running bool
	err     error

	e0    float64
	total []float64
	temp  []float64

	canvas *Canvas
	ax, ay float64
	theme  int
	st     styles
}

func NewModel(title string, ff md.ForceField, at *atoms.Atoms, vel []r3.Vec, cfg md.Config) Model {
	m := Model{
		title:   title,
		ff:      ff,
		cfg:     cfg,
		initial: at.Clone(),
		initVel: append([]r3.Vec(nil), vel...),
		perTick: max(cfg.Every, 1),
		running: true,
		canvas:  NewCanvas(width, height),
		ax:      0.3,
		ay:      0.4,
		st:      newStyles(Themes[0]),
	}
	m.reset()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.perTick = min(2*m.perTick, maxPerTick)
		case "-", "_":
			m.perTick = max(m.perTick/2, 1)
		case "x":
			m.ax += 0.1
		case "X":
			m.ax -= 0.1
		case "y":
			m.ay += 0.1
		case "Y":
			m.ay -= 0.1
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.st = newStyles(Themes[m.theme])
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() {
	m.at = m.initial.Clone()
	m.vel = append([]r3.Vec(nil), m.initVel...)
	m.integ = md.NewVerlet(m.ff, m.cfg.Mass)
	m.step = 0
	m.err = nil
	m.total = m.total[:0]
	m.temp = m.temp[:0]

	if err := m.integ.Prime(m.at); err != nil {
		m.err = err
		return
	}
	m.record()
	if len(m.total) > 0 {
		m.e0 = m.total[0]
	}
}

// advance runs up to perTick steps, stopping at the end of the run or on
// the first error.
func (m *Model) advance() {
	for k := 0; k < m.perTick && m.err == nil && m.step < m.cfg.Steps; k++ {
		if err := m.integ.Step(m.at, m.vel, m.cfg.Dt); err != nil {
			m.err = md.StepError{Step: m.step + 1, Err: err}
			return
		}
		m.step++
	}
	m.record()
}

func (m *Model) record() {
	e := m.integ.Potential() + md.Kinetic(m.vel, m.cfg.Mass)
	if math.IsNaN(e) || math.IsInf(e, 0) {
		m.err = md.StepError{Step: m.step, Err: md.ErrUnstable}
		return
	}
	m.total = appendCapped(m.total, e)
	m.temp = appendCapped(m.temp, md.Temperature(m.vel, m.cfg.Mass))
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) drift() float64 {
	if len(m.total) == 0 || m.e0 == 0 {
		return 0
	}
	return math.Abs(m.total[len(m.total)-1]-m.e0) / math.Abs(m.e0)
}

func (m Model) draw() {
	m.canvas.Clear()
	pts := m.at.Pos
	if m.at.Periodic() {
		pts = append([]r3.Vec{{}, m.at.Cell}, pts...)
	}
	v := Fit(m.canvas, m.ax, m.ay, pts)
	if m.at.Periodic() {
		m.canvas.DrawBox(v, m.at.Cell)
	}
	m.canvas.DrawPoints(v, m.at.Pos)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.st.failed.Render("FAILED: " + m.err.Error())
	case m.step >= m.cfg.Steps:
		return m.st.running.Render("DONE")
	case !m.running:
		return m.st.paused.Render("PAUSED")
	}
	return m.st.running.Render("RUNNING")
}

func (m Model) View() string {
	m.draw()
	canvasView := m.st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.st.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.total) > 1 {
		chart := asciigraph.Plot(m.total, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total energy"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
		chart = asciigraph.Plot(m.temp, asciigraph.Height(3), asciigraph.Width(30), asciigraph.Caption("Temperature"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d / %d", m.step, m.cfg.Steps))
	row("Time", fmt.Sprintf("%.3f", float64(m.step)*m.cfg.Dt))
	row("Atoms", fmt.Sprintf("%d", m.at.Len()))
	if n := len(m.total); n > 0 {
		row("Energy", fmt.Sprintf("%.6f", m.total[n-1]))
		row("Temp", fmt.Sprintf("%.4f", m.temp[n-1]))
	}
	row("Drift", fmt.Sprintf("%.2e", m.drift()))
	row("Steps/frame", fmt.Sprintf("%d", m.perTick))

	done := 1.0
	if m.cfg.Steps > 0 {
		done = float64(m.step) / float64(m.cfg.Steps)
	}
	s.WriteString("\n" + m.st.progressBar(done, 30) + "\n")
	s.WriteString(m.st.help.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed X/Y:Rotate T:Theme"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.stats.Render(s.String()))
}

// Run shows the live view until the user quits.
func Run(title string, ff md.ForceField, at *atoms.Atoms, vel []r3.Vec, cfg md.Config) error {
	_, err := tea.NewProgram(NewModel(title, ff, at, vel, cfg), tea.WithAltScreen()).Run()
	return err
}
