package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/crustsim/internal/experiment"
	"github.com/san-kum/crustsim/internal/fracture"
	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const maxSpeed = 64

type model struct {
	exp     *experiment.Experiment
	run     *fracture.Run
	paused  bool
	speed   int
	history []float64
	theme   int
	frame   int

	width  int
	height int
}

// NewModel seeds a fresh run of exp and returns a bubbletea model that
// steps its convergence on every tick.
func NewModel(exp *experiment.Experiment) (*model, error) {
	m := &model{exp: exp, speed: 1, width: 80, height: 24}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *model) reset() error {
	run, err := m.exp.Start()
	if err != nil {
		return err
	}
	m.run = run
	m.history = []float64{float64(run.Mask().ClaimedCount())}
	return nil
}

func (m model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.frame++
		if !m.paused {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) advance(steps int) {
	for i := 0; i < steps && !m.run.Done(); i++ {
		m.run.Step()
		m.history = append(m.history, float64(m.run.Mask().ClaimedCount()))
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "n":
		m.advance(1)
	case "f":
		for !m.run.Done() {
			m.advance(maxSpeed)
		}
	case "r":
		if err := m.reset(); err == nil {
			return m, tea.ClearScreen
		}
	case "t":
		m.theme = (m.theme + 1) % len(viz.Themes)
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "0":
		m.speed = 1
	}
	return m, nil
}

func (m model) View() string {
	theme := viz.Themes[m.theme]
	grid := m.exp.Grid()
	regions := m.run.Regions()
	plateMap := fracture.Map(regions, m.exp.Fracturing().Policy())
	counts := fracture.Counts(regions)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("growing")
	switch {
	case m.run.Done():
		statusIcon, statusText = cyan.Render("■"), cyan.Render("converged")
	case m.paused:
		statusIcon, statusText = yellow.Render("○"), yellow.Render("paused")
	default:
		statusIcon = green.Render(viz.AnimatedSpinner(m.frame))
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.exp.Config().Mesh.Kind), statusText,
		dim.Render(fmt.Sprintf("iter %d  x%d  %s", m.run.Iterations(), m.speed, theme.Name))))

	n := grid.VertexCount()
	claimed := m.run.Mask().ClaimedCount()
	b.WriteString(fmt.Sprintf("   %s %s\n\n",
		viz.ProgressBar(float64(claimed)/float64(n), 36),
		dim.Render(fmt.Sprintf("%d/%d claimed  %d queued", claimed, n, m.run.Outstanding()))))

	for _, line := range strings.Split(m.render(plateMap, counts, theme), "\n") {
		b.WriteString("   " + line + "\n")
	}

	b.WriteString("\n   " + viz.Legend(fracture.Sizes(regions), theme) + "\n")
	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("growth"), viz.Sparkline(m.history, 32)))
	}

	b.WriteString("\n" + dim.Render("   space pause  n step  f finish  ±speed  t theme  r reseed  q quit") + "\n")
	return b.String()
}

func (m model) render(plateMap, counts []int, theme viz.Theme) string {
	cw := max(m.width-6, 20)
	ch := max(m.height-12, 8)

	if l, ok := m.exp.Grid().(*mesh.Lattice); ok {
		return viz.RenderLatticeFit(l, plateMap, counts, cw, ch, theme)
	}
	return viz.RenderProjection(m.exp.Grid(), plateMap, counts, cw, ch, theme)
}

// Done reports whether the run has converged.
func (m model) Done() bool { return m.run.Done() }

// RunInteractive opens the live viewer for exp in the alternate screen.
func RunInteractive(exp *experiment.Experiment) error {
	m, err := NewModel(exp)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
