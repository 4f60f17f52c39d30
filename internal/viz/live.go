package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/procanim/internal/metrics"
	"github.com/san-kum/procanim/internal/scene"
	"github.com/san-kum/procanim/internal/verlet"
)

const (
	canvasWidth     = 60
	canvasHeight    = 30
	historyCapacity = 300
	maxIterations   = 50
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveModel steps a World once per frame and draws it.
type LiveModel struct {
	world    *verlet.World
	scene    string
	dt       float32
	gravity  mgl32.Vec3
	running  bool
	canvas   *Canvas
	residual *metrics.LinkResidual
	kinetic  *metrics.Kinetic
	report   verlet.TickReport
	history  []float64
	err      error
	log      *logrus.Logger
}

// NewLiveModel wraps a world built from the named scene. The world's
// current gravity is what the g key toggles back on.
func NewLiveModel(world *verlet.World, sceneName string, dt float32) LiveModel {
	return LiveModel{
		world:    world,
		scene:    sceneName,
		dt:       dt,
		gravity:  world.Gravity(),
		running:  true,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		residual: metrics.NewLinkResidual(),
		kinetic:  metrics.NewKinetic(),
		history:  make([]float64, 0, historyCapacity),
		log:      logrus.StandardLogger(),
	}
}

// SetLogger routes reset and tick failures to log.
func (m *LiveModel) SetLogger(log *logrus.Logger) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m.log = log
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "g":
			m.toggleGravity()
		case "+", "=":
			m.adjustIterations(1)
		case "-", "_":
			m.adjustIterations(-1)
		case "n":
			if !m.running {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	report, err := m.world.Tick(m.dt)
	if err != nil {
		m.err = err
		m.running = false
		m.log.WithError(err).Error("tick failed, pausing")
		return
	}
	m.report = report

	snap := m.world.Snapshot()
	m.residual.Observe(snap, m.dt)
	m.kinetic.Observe(snap, m.dt)

	m.history = append(m.history, m.residual.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *LiveModel) reset() {
	if err := scene.Reset(m.world, m.scene); err != nil {
		m.err = err
		m.running = false
		m.log.WithError(err).WithField("scene", m.scene).Error("reset failed")
		return
	}
	m.err = nil
	m.report = verlet.TickReport{}
	m.residual.Reset()
	m.kinetic.Reset()
	m.history = m.history[:0]
}

func (m *LiveModel) toggleGravity() {
	if m.world.Gravity() == (mgl32.Vec3{}) {
		m.world.SetGravity(m.gravity)
		return
	}
	m.world.SetGravity(mgl32.Vec3{})
}

func (m *LiveModel) adjustIterations(delta int) {
	s := m.world.Settings()
	s.Iterations = max(1, min(s.Iterations+delta, maxIterations))
	m.world.SetSettings(s)
}

func (m LiveModel) View() string {
	snap := m.world.Snapshot()
	settings := m.world.Settings()
	RenderSnapshot(m.canvas, snap, settings.Bounds)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(m.scene)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(statusFailed.Render("FAILED") + "\n" + valueStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Link residual"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(Sparkline(m.history, 30) + "\n\n")

	s.WriteString(row("Tick", fmt.Sprintf("%d", m.world.Ticks())))
	s.WriteString(row("Particles", fmt.Sprintf("%d", m.world.Len())))
	s.WriteString(row("Links", fmt.Sprintf("%d", m.world.LinkCount())))
	s.WriteString(row("Iterations", fmt.Sprintf("%d", settings.Iterations)))
	s.WriteString(row("Gravity", fmt.Sprintf("%.2f", settings.Gravity.Y())))
	s.WriteString(row("Passes", fmt.Sprintf("%d", m.report.Passes)))
	s.WriteString(row("Early exits", fmt.Sprintf("%d/%d", m.report.EarlyExits, m.report.Links)))
	s.WriteString(row("Clamped", fmt.Sprintf("%d", m.report.Clamped)))
	s.WriteString(row("Broken", fmt.Sprintf("%d", m.report.Broken)))
	s.WriteString(row("Residual", fmt.Sprintf("%.4f (peak %.4f)", m.residual.Value(), m.residual.Peak())))
	s.WriteString(row("Kinetic", fmt.Sprintf("%.1f", m.kinetic.Value())))

	s.WriteString(helpStyle.Render("SP:Pause N:Step R:Reset\nG:Gravity +/-:Iterations Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
}
