package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/crustsim/internal/fracture"
	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/viz"
)

var dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws the plate map to out at most frameRate times per
// second. It implements experiment.Observer.
type LiveRenderer struct {
	out       io.Writer
	policy    fracture.Policy
	frameRate int
	lastFrame time.Time
	theme     viz.Theme
	frames    int
}

func NewLiveRenderer(out io.Writer, policy fracture.Policy, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{out: out, policy: policy, frameRate: frameRate, theme: viz.CurrentTheme}
}

func (r *LiveRenderer) OnStep(iteration int, run *fracture.Run) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) && !run.Done() {
		return
	}
	r.lastFrame = time.Now()
	r.frames++
	r.render(iteration, run)
}

// Frames returns how many frames were drawn.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) render(iteration int, run *fracture.Run) {
	regions := run.Regions()
	plateMap := fracture.Map(regions, r.policy)
	counts := fracture.Counts(regions)

	var body string
	if l, ok := run.Grid().(*mesh.Lattice); ok {
		body = viz.RenderLatticeFit(l, plateMap, counts, width, height, r.theme)
	} else {
		body = viz.RenderProjection(run.Grid(), plateMap, counts, width, height, r.theme)
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  iteration %d  claimed %d/%d  queued %d\n",
		iteration, run.Mask().ClaimedCount(), run.Grid().VertexCount(), run.Outstanding()))
	b.WriteString("  " + dimRule(width) + "\n")
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + dimRule(width) + "\n")
	b.WriteString("  " + viz.Legend(fracture.Sizes(regions), r.theme) + "\n")

	fmt.Fprint(r.out, b.String())
}

func dimRule(n int) string {
	return dimmer.Render(strings.Repeat("─", n))
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
