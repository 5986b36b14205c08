package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/doubleswing/internal/angle"
	"github.com/san-kum/doubleswing/internal/drag"
	"github.com/san-kum/doubleswing/internal/engine"
	"github.com/san-kum/doubleswing/internal/physics"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
	trailCapacity   = 200

	// MinFrame is the shortest frame the driver will report to the engine.
	MinFrame = 1.0 / 2400
	// grab distance from a bob, in sub-pixels
	grabRadius = 8
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// ClampFrame bounds a wall-clock frame time to [MinFrame, engine.MaxStep].
func ClampFrame(dt float64) float64 {
	if math.IsNaN(dt) || dt < MinFrame {
		return MinFrame
	}
	if dt > engine.MaxStep {
		return engine.MaxStep
	}
	return dt
}

type point struct{ x, y int }

// Model is the live simulation: engine, per-link drag filters, pointer and
// rendering buffers.
type Model struct {
	eng      *engine.Engine
	initial  physics.State
	settings drag.Settings
	filters  [2]drag.Filter

	held          int
	pointerX      float64
	pointerY      float64
	lastTick      time.Time
	t             float64
	running       bool
	canvas        *Canvas
	trail         []point
	energyHistory []float64
	paramKeys     []string
	initialParams map[string]float64
	selected      int
	showHelp      bool
	log           *zap.Logger
}

// NewModel builds a running model. A nil logger discards output.
func NewModel(p physics.Params, s0 physics.State, settings drag.Settings, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	eng := engine.New(p, s0)
	params := eng.ParamsRef().GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		eng:           eng,
		initial:       eng.State(),
		settings:      settings,
		running:       true,
		canvas:        NewCanvas(width, height),
		trail:         make([]point, 0, trailCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		paramKeys:     keys,
		initialParams: params,
		log:           log,
	}
}

// Run starts the program on the terminal with mouse motion reporting.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func (m Model) Engine() *engine.Engine { return m.eng }

// Held is the link currently under the pointer, 0 when none.
func (m Model) Held() int { return m.held }

func (m Model) Init() tea.Cmd {
	return tick()
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
			m.hang()
		case "i":
			m.restart()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		x, y := m.cellToMetres(msg.X, msg.Y)
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				m.grab(x, y)
			}
		case tea.MouseActionMotion:
			if m.held != 0 {
				m.pointerX, m.pointerY = x, y
			}
		case tea.MouseActionRelease:
			m.release()
		}
	case TickMsg:
		now := time.Time(msg)
		dt := 1.0 / 60
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if m.running {
			m.advance(ClampFrame(dt))
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one frame through whichever engine entry point the pointer
// calls for.
func (m *Model) advance(dt float64) {
	switch m.held {
	case 1:
		target := angle.FromOffset(m.pointerX, m.pointerY)
		w := m.filters[0].Estimate(target, dt, m.settings)
		m.eng.StepDrag(dt, target, w, 0)
	case 2:
		pos := m.eng.BobPositions()
		target := angle.FromOffset(m.pointerX-pos.X1, m.pointerY-pos.Y1)
		w := m.filters[1].Estimate(target, dt, m.settings)
		m.eng.StepHoldLink2(dt, target, w)
	default:
		m.eng.Step(dt)
	}
	m.t += dt

	m.energyHistory = append(m.energyHistory, m.eng.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	g := m.geometry()
	pos := m.eng.BobPositions()
	bx, by := g.toPixel(pos.X2, pos.Y2)
	m.trail = append(m.trail, point{bx, by})
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

func (m *Model) grab(x, y float64) {
	g := m.geometry()
	pos := m.eng.BobPositions()
	reach := grabRadius / g.scale

	d1 := angle.Distance(x, y, pos.X1, pos.Y1)
	d2 := angle.Distance(x, y, pos.X2, pos.Y2)

	link := 0
	switch {
	case d2 <= reach && d2 <= d1:
		link = 2
	case d1 <= reach:
		link = 1
	}
	if link == 0 {
		return
	}

	s := m.eng.State()
	if link == 1 {
		m.filters[0].Reset(s.Th1)
	} else {
		m.filters[1].Reset(s.Th2)
	}
	m.held = link
	m.pointerX, m.pointerY = x, y
	m.log.Debug("grab", zap.Int("link", link), zap.Float64("t", m.t))
}

func (m *Model) release() {
	if m.held == 0 {
		return
	}
	m.log.Debug("release",
		zap.Int("link", m.held),
		zap.Float64("omega", m.filters[m.held-1].Omega()))
	m.held = 0
}

func (m *Model) hang() {
	m.eng.Hang()
	m.resetView()
}

func (m *Model) restart() {
	m.eng.SetState(m.initial)
	m.resetView()
}

func (m *Model) resetView() {
	s := m.eng.State()
	m.filters[0].Reset(s.Th1)
	m.filters[1].Reset(s.Th2)
	m.held = 0
	m.t = 0
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	p := m.eng.ParamsRef()
	key := m.paramKeys[m.selected]
	val := p.GetParams()[key]

	next := val * factor
	if val == 0 && factor > 1 {
		next = 0.01
	}
	if err := p.SetParam(key, next); err != nil {
		m.log.Warn("tune failed", zap.String("param", key), zap.Error(err))
	}
}

type geometry struct {
	cx, cy int
	scale  float64 // sub-pixels per metre
}

func (m *Model) geometry() geometry {
	return geometryFor(m.canvas, m.eng.Params())
}

// geometryFor centers the pivot on c and fits a pendulum at full reach.
func geometryFor(c *Canvas, p physics.Params) geometry {
	cw, ch := c.PixelSize()
	reach := p.L1 + p.L2
	if !(reach > 0) {
		reach = 1
	}
	half := cw
	if ch < half {
		half = ch
	}
	half = half/2 - 3
	return geometry{cx: cw / 2, cy: ch / 2, scale: float64(half) / reach}
}

func (g geometry) toPixel(x, y float64) (int, int) {
	return g.cx + int(math.Round(x*g.scale)), g.cy + int(math.Round(y*g.scale))
}

// cellToMetres maps a terminal cell to pivot-relative metres, +y down.
func (m *Model) cellToMetres(col, row int) (float64, float64) {
	g := m.geometry()
	px := (col-canvasPadLeft)*2 + 1
	py := (row-canvasPadTop)*4 + 2
	return float64(px-g.cx) / g.scale, float64(py-g.cy) / g.scale
}

// metresToCell is the inverse of cellToMetres up to cell resolution.
func (m *Model) metresToCell(x, y float64) (int, int) {
	px, py := m.geometry().toPixel(x, y)
	return px/2 + canvasPadLeft, py/4 + canvasPadTop
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
	drawPendulum(m.canvas, m.geometry(), m.eng.BobPositions(), m.held)
}

// drawPendulum draws the pivot, both rods and both bobs. The held bob is
// drawn larger.
func drawPendulum(c *Canvas, g geometry, pos physics.Positions, held int) {
	b1x, b1y := g.toPixel(pos.X1, pos.Y1)
	b2x, b2y := g.toPixel(pos.X2, pos.Y2)

	c.Disc(g.cx, g.cy, 1)
	c.DrawLine(g.cx, g.cy, b1x, b1y)
	c.DrawLine(b1x, b1y, b2x, b2y)

	r1, r2 := 2, 2
	if held == 1 {
		r1 = 3
	} else if held == 2 {
		r2 = 3
	}
	c.Disc(b1x, b1y, r1)
	c.Disc(b2x, b2y, r2)
}

// Snapshot draws the pendulum at s on a fresh canvas the size of the live
// view, with the bob 2 path through trail behind it.
func Snapshot(p physics.Params, s physics.State, trail []physics.State) *Canvas {
	c := NewCanvas(width, height)
	g := geometryFor(c, p)
	for _, ts := range trail {
		pos := p.BobPositions(ts)
		c.Set(g.toPixel(pos.X2, pos.Y2))
	}
	drawPendulum(c, g, p.BobPositions(s), 0)
	return c
}

func (m Model) status() string {
	switch {
	case m.held != 0:
		return heldStyle().Render(fmt.Sprintf("HOLDING LINK %d", m.held))
	case !m.running:
		return "PAUSED"
	}
	return "RUNNING"
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle().Render(m.canvas.String())

	s := m.eng.State()
	e := m.eng.EnergyBreakdown()
	label, value := labelStyle(), valueStyle()
	row := func(name, v string) string {
		return label.Render(name) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle().Render("DOUBLE PENDULUM") + "\n")
	b.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		b.WriteString(chart + "\n\n")
	}

	b.WriteString(row("Time", fmt.Sprintf("%.2fs", m.t)))
	b.WriteString(row("Energy", fmt.Sprintf("%.3f J", e.Total())))
	b.WriteString(row("Kinetic", fmt.Sprintf("%.3f J", e.Kinetic)))
	b.WriteString(row("Potential", fmt.Sprintf("%.3f J", e.Potential)))
	b.WriteString(row("θ1 / ω1", fmt.Sprintf("%7.1f° %6.2f", angle.RadToDeg(s.Th1), s.W1)))
	b.WriteString(row("θ2 / ω2", fmt.Sprintf("%7.1f° %6.2f", angle.RadToDeg(s.Th2), s.W2)))
	if m.held != 0 {
		b.WriteString(row("Drag ω", fmt.Sprintf("%.2f rad/s", m.filters[m.held-1].Omega())))
	}

	b.WriteString("\nPARAMETERS\n")
	params := m.eng.ParamsRef().GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-8s %s %.3f", k, ParamBar(params[k], m.initialParams[k], 10), params[k])
		if i == m.selected {
			b.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + mutedStyle().Render(line) + "\n")
		}
	}
	b.WriteString(helpStyle().Render("─────────────────────\nSP:Pause R:Hang I:Initial Q:Quit\nTab/↑↓:Tune T:Theme ?:Help\nDrag a bob with the mouse"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle().Render(b.String()))
	if m.showHelp {
		return mainView + "\n" + helpOverlay
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Hang at rest             ║
║  I        - Back to initial state    ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Mouse    - Drag either bob          ║
╚══════════════════════════════════════╝`
