package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/carrysim/internal/config"
	"github.com/san-kum/carrysim/internal/experiment"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// tunable is one setting editable from the config screen.
type tunable struct {
	name string
	step float64
}

var tunables = []tunable{
	{"carry.pickup_force", 10},
	{"carry.throw_force", 1},
	{"carry.hold_distance", 0.1},
	{"carry.rotation_speed", 10},
	{"carry.held_linear_damping", 1},
	{"sim.fixed_dt", 0.005},
}

type app struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	log           *slog.Logger
	liveModel     Model
}

func NewInteractiveApp(log *slog.Logger) tea.Model {
	return app{
		state:   stateMenu,
		presets: config.ListPresets(),
		log:     log,
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		if msg.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg, err := config.GetPreset(m.presets[m.cursor])
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.selected, m.cfg = m.presets[m.cursor], cfg
		m.state, m.paramCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.set(val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", m.get(m.paramCursor))
	case "left", "h":
		m.set(m.get(m.paramCursor) - tunables[m.paramCursor].step)
	case "right", "l":
		m.set(m.get(m.paramCursor) + tunables[m.paramCursor].step)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m app) get(i int) float64 {
	v, _ := m.cfg.Param(tunables[i].name)
	return v
}

// set writes the setting under the cursor into the shared config.
func (m app) set(v float64) {
	_ = m.cfg.SetParam(tunables[m.paramCursor].name, v)
}

func (m app) start() (app, tea.Cmd) {
	live, err := NewModel(experiment.New(m.cfg, m.log), Options{Preset: m.selected})
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.liveModel, m.state, m.err = live, stateSim, ""
	return m, m.liveModel.Init()
}

func (m app) View() string {
	switch m.state {
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	default:
		return m.viewMenu()
	}
}

func (m app) viewMenu() string {
	st := newStyles(Themes[0])
	var b strings.Builder
	b.WriteString(st.header.Render("CARRYSIM") + "\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, config.Presets[name].Description)
		if i == m.cursor {
			b.WriteString(st.cursor.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	b.WriteString(st.help.Render("\n↑↓ select  enter choose  q quit"))
	if m.err != "" {
		b.WriteString("\n" + st.high.Render(m.err))
	}
	return st.panel.Padding(1, 2).Render(b.String())
}

func (m app) viewConfig() string {
	st := newStyles(Themes[0])
	var b strings.Builder
	b.WriteString(st.header.Render(strings.ToUpper(m.selected)) + "\n")
	for i, t := range tunables {
		val := fmt.Sprintf("%g", m.get(i))
		if m.editing && i == m.paramCursor {
			val = m.editBuf + "_"
		}
		line := fmt.Sprintf("%-28s %s", t.name, val)
		if i == m.paramCursor {
			b.WriteString(st.cursor.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	b.WriteString(st.help.Render("\n↑↓ select  ←→ adjust  enter edit  s start  esc back"))
	if m.err != "" {
		b.WriteString("\n" + st.high.Render(m.err))
	}
	return st.panel.Padding(1, 2).Render(b.String())
}

// RunInteractive opens the preset menu and runs live sessions from it.
func RunInteractive(log *slog.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(log), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
