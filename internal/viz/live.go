package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/sim"
	"github.com/san-kum/roversim/internal/statectl"
	"github.com/san-kum/roversim/internal/world"
)

const (
	canvasWidth  = 64
	canvasHeight = 20
	trailCap     = 400
	historyCap   = 600
	frameRate    = 30

	// Dots per meter; the view follows the vehicle.
	viewScale = 2.5
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

	stateStyles = map[statectl.State]lipgloss.Style{
		statectl.Idle:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		statectl.Navigate:      lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true),
		statectl.AvoidObstacle: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		statectl.Recover:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
)

type TickMsg time.Time

// Model drives one simulation interactively, stepping enough ticks per
// frame to keep sim time close to wall time.
type Model struct {
	runner *sim.Runner
	field  *world.Field
	start  geom.Pose

	scenario string
	mode     string
	dt       float64
	steps    int

	t         float64
	last      sim.Sample
	running   bool
	done      bool
	canvas    *Canvas
	trail     []geom.Vec3
	clearance []float64
}

func NewModel(runner *sim.Runner, field *world.Field, start geom.Pose, dt float64, scenario, mode string) Model {
	steps := int(math.Round(1 / (float64(frameRate) * dt)))
	if steps < 1 {
		steps = 1
	}
	return Model{
		runner:    runner,
		field:     field,
		start:     start,
		scenario:  scenario,
		mode:      mode,
		dt:        dt,
		steps:     steps,
		running:   true,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		trail:     make([]geom.Vec3, 0, trailCap),
		clearance: make([]float64, 0, historyCap),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

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
		}
	case TickMsg:
		if m.running && !m.done {
			m.step()
		}
		return m, tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.steps; i++ {
		m.last = m.runner.Tick(m.t, m.dt)
		m.t += m.dt
		if m.runner.Course().Done() {
			m.done = true
			break
		}
	}
	if len(m.trail) == trailCap {
		m.trail = m.trail[1:]
	}
	m.trail = append(m.trail, m.last.Pose.Position)
	if len(m.clearance) == historyCap {
		m.clearance = m.clearance[1:]
	}
	d := m.last.Reading.NearestDistance
	if math.IsInf(d, 1) {
		d = 20
	}
	m.clearance = append(m.clearance, d)
}

func (m *Model) reset() {
	m.runner.Reset(m.start)
	m.t = 0
	m.done = false
	m.running = true
	m.last = sim.Sample{}
	m.trail = m.trail[:0]
	m.clearance = m.clearance[:0]
}

func (m Model) View() string {
	m.draw()
	left := canvasStyle.Render(m.canvas.String())
	right := statsStyle.Render(m.stats())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	help := helpStyle.Render("space pause · r reset · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

// project maps a world point to dot coordinates in a view centered on
// the vehicle. World +X maps right, +Z maps up.
func (m Model) project(p geom.Vec3) (int, int) {
	dw, dh := m.canvas.Dots()
	center := m.last.Pose.Position
	x := dw/2 + int(math.Round((p.X-center.X)*viewScale))
	y := dh/2 - int(math.Round((p.Z-center.Z)*viewScale))
	return x, y
}

func (m Model) draw() {
	m.canvas.Clear()

	for _, w := range m.field.Walls() {
		x0, y0 := m.project(w.A)
		x1, y1 := m.project(w.B)
		m.canvas.Line(x0, y0, x1, y1)
	}
	for _, c := range m.field.Circles() {
		x, y := m.project(c.Center)
		m.canvas.Circle(x, y, int(math.Round(c.Radius*viewScale)))
	}
	for i, cp := range m.runner.Course().Checkpoints() {
		x, y := m.project(cp.Position)
		r := 1
		if i == m.runner.Course().NextIndex() {
			r = int(math.Round(cp.Radius * viewScale))
		}
		m.canvas.Circle(x, y, r)
	}
	for _, p := range m.trail {
		x, y := m.project(p)
		m.canvas.Set(x, y)
	}
	if !m.last.Reading.NoObstacle() {
		x, y := m.project(m.last.Reading.NearestPoint)
		m.canvas.Set(x, y)
		m.canvas.Set(x+1, y)
		m.canvas.Set(x, y+1)
	}

	// Vehicle: position dot plus a heading whisker.
	pos := m.last.Pose.Position
	tip := pos.Add(m.last.Pose.Forward().Scale(2))
	x0, y0 := m.project(pos)
	x1, y1 := m.project(tip)
	m.canvas.Line(x0, y0, x1, y1)
}

func (m Model) stats() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("roversim · %s", m.scenario)))
	b.WriteByte('\n')

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteByte('\n')
	}

	stateStyle, ok := stateStyles[m.last.State]
	if !ok {
		stateStyle = valueStyle
	}

	row("mode", m.mode)
	row("time", fmt.Sprintf("%.1fs", m.t))
	b.WriteString(labelStyle.Render("state"))
	b.WriteString(stateStyle.Render(m.last.State.String()))
	b.WriteByte('\n')
	row("speed", fmt.Sprintf("%.2f m/s", m.last.Speed))
	row("clearance", clearanceString(m.last.Reading.NearestDistance))
	row("throttle", fmt.Sprintf("%+.2f", m.last.Command.Throttle))
	row("steer", fmt.Sprintf("%+.2f", m.last.Command.Steer))
	row("checkpoints", fmt.Sprintf("%d/%d", m.runner.Course().Reached(), len(m.runner.Course().Checkpoints())))
	if m.last.StuckTimer > 0 {
		row("stuck", fmt.Sprintf("%.1fs", m.last.StuckTimer))
	}

	if len(m.clearance) > 1 {
		n := len(m.clearance)
		if n > 120 {
			n = 120
		}
		plot := asciigraph.Plot(m.clearance[len(m.clearance)-n:],
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Precision(1))
		b.WriteString(graphStyle.Render(plot))
		b.WriteByte('\n')
	}

	if m.done {
		b.WriteString(doneStyle.Render("course complete"))
		b.WriteByte('\n')
	} else if !m.running {
		b.WriteString(helpStyle.Render("paused"))
		b.WriteByte('\n')
	}

	return b.String()
}

func clearanceString(d float64) string {
	if math.IsInf(d, 1) {
		return "clear"
	}
	return fmt.Sprintf("%.2f m", d)
}
