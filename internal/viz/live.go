package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/carrysim/internal/experiment"
	"github.com/san-kum/carrysim/internal/input"
	"github.com/san-kum/carrysim/internal/sim"
)

const (
	viewWidth       = 56
	viewHeight      = 18
	historyCapacity = 240
	frameRate       = 60
	maxFrameDt      = 0.25
	// lookSteps is how many arrow presses make up LookSpeed degrees.
	lookSteps = 18
	moveSteps = 10
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Options struct {
	Preset string
	// Scripted replays the configured input script alongside the keyboard.
	Scripted bool
	Theme    string
}

// Model is the live carry session: keyboard and mouse feed input frames to a
// sim.Loop once per TickMsg.
type Model struct {
	exp    *experiment.Experiment
	opts   Options
	cfg    sim.Config
	loop   *sim.Loop
	script *input.Script

	theme       int
	styles      styles
	canvas      *Canvas
	proj        Projector
	topDown     TopDown
	firstPerson bool
	showHelp    bool
	paused      bool

	pending input.Frame
	pointer mgl64.Vec2
	last    time.Time
	t       float64
	sample  sim.Sample
	errHist []float64
	ticks   int
}

func NewModel(exp *experiment.Experiment, opts Options) (Model, error) {
	m := Model{
		exp:         exp,
		opts:        opts,
		cfg:         exp.Config().SimConfig(),
		canvas:      NewCanvas(viewWidth, viewHeight),
		proj:        DefaultProjector(),
		topDown:     TopDown{Scale: 10},
		firstPerson: true,
		errHist:     make([]float64, 0, historyCapacity),
	}
	for i, name := range ThemeNames() {
		if name == opts.Theme {
			m.theme = i
		}
	}
	m.styles = newStyles(Themes[m.theme])
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	if err := m.exp.Setup(); err != nil {
		return err
	}
	m.loop = m.exp.Loop()
	m.script = m.exp.Script()
	m.pending = input.Frame{}
	m.t = 0
	m.ticks = 0
	m.sample = sim.Sample{}
	m.errHist = m.errHist[:0]
	return nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		now := time.Time(msg)
		dt := 1.0 / frameRate
		if !m.last.IsZero() {
			dt = min(maxFrameDt, now.Sub(m.last).Seconds())
		}
		m.last = now
		if !m.paused && dt > 0 {
			m.frame(dt)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cc := m.exp.Config().Camera
	look := cc.LookSpeed / lookSteps
	step := cc.MoveSpeed / moveSteps
	cam := m.loop.Camera()
	params := m.loop.Controller().Params()

	name := msg.String()
	if name == " " {
		name = "space"
	}
	if k, err := input.ParseKey(name); err == nil && (k == params.PickupKey || k == params.RotateKey) {
		m.pending.Pressed = append(m.pending.Pressed, k)
		return m, nil
	}

	switch name {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		m.paused = !m.paused
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "v":
		m.firstPerson = !m.firstPerson
	case "ctrl+r":
		if err := m.reset(); err != nil {
			return m, tea.Quit
		}
	case "w":
		cam.Move(step, 0)
	case "s":
		cam.Move(-step, 0)
	case "a":
		cam.Move(0, -step)
	case "d":
		cam.Move(0, step)
	case "left":
		m.pending.Look[0] += look
	case "right":
		m.pending.Look[0] -= look
	case "up":
		m.pending.Look[1] += look
	case "down":
		m.pending.Look[1] -= look
	case "space", "f":
		m.pending.PrimaryPressed = true
	case "+", "=":
		m.pending.Scroll++
	case "-":
		m.pending.Scroll--
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	m.pointer = mgl64.Vec2{float64(msg.X), float64(msg.Y)}
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress {
			m.pending.PrimaryPressed = true
		}
	case tea.MouseButtonWheelUp:
		m.pending.Scroll++
	case tea.MouseButtonWheelDown:
		m.pending.Scroll--
	}
}

// frame runs one loop frame with the input gathered since the last one.
func (m *Model) frame(dt float64) {
	f := m.pending
	f.Time, f.Dt, f.Pointer = m.t, dt, m.pointer
	if m.opts.Scripted && m.script != nil {
		sf := m.script.Next(m.t, dt)
		f.Pressed = append(sf.Pressed, f.Pressed...)
		f.PrimaryPressed = f.PrimaryPressed || sf.PrimaryPressed
		f.Scroll += sf.Scroll
		f.Look = f.Look.Add(sf.Look)
		f.Pointer = sf.Pointer
	}

	for _, s := range m.loop.Frame(f, m.cfg) {
		m.sample = s
		m.ticks++
		m.errHist = append(m.errHist, s.Error)
		if len(m.errHist) > historyCapacity {
			m.errHist = m.errHist[1:]
		}
	}
	m.pending = input.Frame{}
	m.t += dt
}

func (m Model) heldName() string {
	if !m.sample.Holding() {
		return "-"
	}
	if e, ok := m.loop.World().Get(m.sample.Held); ok && e.Name() != "" {
		return e.Name()
	}
	return m.sample.Held.String()
}

func (m Model) draw() {
	ctrl := m.loop.Controller()
	if m.firstPerson {
		RenderView(m.canvas, m.loop.Camera(), m.loop.World(), m.exp.Config().Physics.GroundY, ctrl.HeldEntity(), m.proj)
		return
	}
	RenderTopDown(m.canvas, m.loop.Camera(), m.loop.World(), ctrl.HeldEntity(), ctrl.HoldTarget(), m.topDown)
}

// View renders the scene and the stats panel.
func (m Model) View() string {
	m.draw()
	st := m.styles
	ctrl := m.loop.Controller()
	params := ctrl.Params()
	cam := m.loop.Camera()

	title := "VIEW"
	if !m.firstPerson {
		title = "TOP DOWN"
	}
	canvasView := st.panel.Render(st.header.UnsetMarginBottom().Render(title) + "\n" + m.canvas.String())

	var s strings.Builder
	name := "CARRYSIM"
	if m.opts.Preset != "" {
		name += " · " + m.opts.Preset
	}
	s.WriteString(st.header.Render(name) + "\n")

	mode := ctrl.Mode().String()
	status := st.mode[mode].Render(strings.ToUpper(mode))
	if m.paused {
		status += st.help.Render("  (paused)")
	}
	s.WriteString(st.label.Render("Mode") + status + "\n")
	s.WriteString(st.label.Render("Holding") + st.value.Render(m.heldName()) + "\n")

	span := params.MaxHoldDistance - params.MinHoldDistance
	frac := 0.0
	if span > 0 {
		frac = (ctrl.HoldDistance() - params.MinHoldDistance) / span
	}
	s.WriteString(st.label.Render("Distance") + st.ProgressBar(frac, 12) + st.value.Render(fmt.Sprintf(" %.2f", ctrl.HoldDistance())) + "\n")
	s.WriteString(st.label.Render("Error") + st.value.Render(fmt.Sprintf("%.4f", m.sample.Error)) + "\n")

	q := ctrl.RotationOffset()
	s.WriteString(st.label.Render("Offset") + st.value.Render(fmt.Sprintf("w=%.2f (%.2f %.2f %.2f)", q.W, q.V[0], q.V[1], q.V[2])) + "\n")
	s.WriteString(st.label.Render("Camera") + st.value.Render(fmt.Sprintf("yaw %.0f° pitch %.0f°", cam.Yaw(), cam.Pitch())) + "\n")
	s.WriteString(st.label.Render("Time") + st.value.Render(fmt.Sprintf("%.2fs  %d ticks", m.t, m.ticks)) + "\n")

	if len(m.errHist) > 1 {
		chart := asciigraph.Plot(m.errHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("hold error"))
		s.WriteString("\n" + st.graph.Render(chart) + "\n")
	} else {
		s.WriteString("\n" + st.Sparkline(nil, 30) + "\n")
	}

	s.WriteString(st.help.Render(fmt.Sprintf("\n%s:pick  %s:rotate  click/space:throw\nwheel/+-:distance  wasd:move  ←↑↓→:look\nv:view t:theme p:pause ctrl+r:reset q:quit", params.PickupKey, params.RotateKey)))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return m.helpText() + "\n" + mainView
	}
	return mainView
}

func (m Model) helpText() string {
	p := m.loop.Controller().Params()
	lines := []string{
		fmt.Sprintf("%-10s pick up / drop what the crosshair is on", p.PickupKey),
		fmt.Sprintf("%-10s toggle rotate; move the mouse to turn the held object", p.RotateKey),
		fmt.Sprintf("%-10s throw", "click"),
		fmt.Sprintf("%-10s push / pull the held object", "wheel +/-"),
		fmt.Sprintf("%-10s walk", "w a s d"),
		fmt.Sprintf("%-10s look", "arrows"),
		fmt.Sprintf("%-10s first person / top down", "v"),
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

// RunLive starts a live session for exp.
func RunLive(exp *experiment.Experiment, opts Options) error {
	m, err := NewModel(exp, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
