package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/scenario"
	"github.com/san-kum/polysim/internal/sim"
)

const (
	historyLen = 120
	maxFrameDt = 0.1
)

type view int

const (
	viewMenu view = iota
	viewSim
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is a bubbletea program that runs a scenario live and shows scene
// statistics. It never draws the bodies themselves.
type Model struct {
	registry *scenario.Registry
	base     *config.Config
	names    []string
	cursor   int
	view     view

	cfg    *config.Config
	exp    *scenario.Experiment
	sample sim.Sample
	err    error

	running   bool
	paused    bool
	speed     float64
	history   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

// New opens on the scenario menu. base supplies dt, duration, seed and
// params for whichever scenario is picked.
func New(registry *scenario.Registry, base *config.Config) Model {
	return Model{
		registry: registry,
		base:     base,
		names:    registry.List(),
		view:     viewMenu,
		speed:    1.0,
		width:    80,
		height:   24,
	}
}

// NewWatch starts running cfg immediately.
func NewWatch(registry *scenario.Registry, cfg *config.Config) Model {
	m := New(registry, cfg)
	m.start(cfg)
	return m
}

func (m Model) Init() tea.Cmd {
	if m.view == viewSim {
		return tick()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.view != viewSim || !m.running {
			return m, nil
		}
		now := time.Time(msg)
		frameDt := 0.0
		if !m.lastFrame.IsZero() {
			frameDt = now.Sub(m.lastFrame).Seconds()
			if frameDt > 0 {
				m.fps = 1.0 / frameDt
			}
		}
		m.lastFrame = now
		if !m.paused {
			m.advance(frameDt)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.view == viewMenu {
		return m.menuKey(msg)
	}
	return m.simKey(msg)
}

func (m Model) menuKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg := *m.base
		cfg.Scenario = m.names[m.cursor]
		if preset := firstPreset(cfg.Scenario); preset != nil {
			cfg.Params = preset.Params
		}
		m.start(&cfg)
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m Model) simKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.stop()
		m.view = viewMenu
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.start(m.cfg)
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func firstPreset(name string) *config.Config {
	presets := config.ListPresets(name)
	if len(presets) == 0 {
		return nil
	}
	// map order is random; pick deterministically
	first := presets[0]
	for _, p := range presets[1:] {
		if p < first {
			first = p
		}
	}
	return config.GetPreset(name, first)
}

func (m *Model) start(cfg *config.Config) {
	m.stop()
	m.cfg = cfg
	m.view = viewSim
	m.history = make([]float64, 0, historyLen)
	m.lastFrame = time.Time{}
	m.speed = 1.0
	m.paused = false
	m.err = nil

	exp := scenario.NewExperiment(cfg)
	if err := exp.Setup(m.registry); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.exp = exp
	m.running = true
}

func (m *Model) stop() {
	if m.exp != nil {
		m.exp.World().Scene.Close()
		m.exp = nil
	}
	m.running = false
	m.sample = sim.Sample{}
}

// advance steps the scene for one frame. Fixed-step runs take speed steps
// of cfg.Dt. Realtime runs take a single step of the measured frame time.
func (m *Model) advance(frameDt float64) {
	if m.exp == nil {
		return
	}
	s := m.exp.Simulator()
	if s.Scene().Time() >= m.cfg.Duration {
		m.paused = true
		return
	}

	if m.cfg.Realtime {
		dt := math.Min(frameDt*m.speed, maxFrameDt)
		if dt <= 0 {
			return
		}
		m.record(s.Step(dt))
		return
	}

	steps := int(m.speed)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		m.record(s.Step(m.cfg.Dt))
	}
}

func (m *Model) record(smp sim.Sample) {
	m.sample = smp
	m.history = append(m.history, smp.Kinetic)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m Model) View() string {
	if m.view == viewMenu {
		return m.viewMenu()
	}
	return m.viewSim()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("p o l y s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.names {
		desc := m.registry.Describe(name)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m Model) viewSim() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString("\n   " + red.Render("error: "+m.err.Error()) + "\n")
		b.WriteString("\n" + dim.Render("   q back") + "\n")
		return b.String()
	}

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.cfg.Scenario), statusText, dim.Render(fmt.Sprintf("x%.2g", m.speed))))

	progress := m.sample.Time / m.cfg.Duration
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.1fs/%.0fs", m.sample.Time, m.cfg.Duration)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", bar, dim.Render(timeStr), dim.Render(fmt.Sprintf("%.0ffps", m.fps))))

	removed := 0
	if m.exp != nil {
		removed = m.exp.Simulator().Scene().Removed()
	}
	row := func(label, value string) {
		b.WriteString("   " + dim.Render(fmt.Sprintf("%-10s", label)) + white.Render(value) + "\n")
	}
	row("bodies", fmt.Sprintf("%d", m.sample.Bodies))
	row("forces", fmt.Sprintf("%d", m.sample.Forces))
	row("removed", fmt.Sprintf("%d", removed))
	row("kinetic", fmt.Sprintf("%.3f", m.sample.Kinetic))
	row("momentum", m.sample.Momentum.String())
	if m.sample.HasTracked {
		row("tracked", magenta.Render(m.sample.Tracked.String()))
	}

	if len(m.history) > 1 {
		width := m.width - 16
		if width < 20 {
			width = 20
		}
		if width > historyLen {
			width = historyLen
		}
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(width),
			asciigraph.Caption("kinetic energy"),
		)
		b.WriteString("\n" + cyan.Render(graph) + "\n")
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  r reset  q back") + "\n")

	return b.String()
}

// Run starts the program on the scenario menu, or on cfg when watch is set.
func Run(registry *scenario.Registry, cfg *config.Config, watch bool) error {
	m := New(registry, cfg)
	if watch {
		m = NewWatch(registry, cfg)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
