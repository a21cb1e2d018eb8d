// Package tui is the interactive terminal explorer: it renders the living
// force layout in the terminal, with mouse pan/zoom/drag, hover tooltips,
// and click-to-dive navigation.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bubbledive/sparkmap/internal/dive"
	"github.com/bubbledive/sparkmap/internal/layout"
	"github.com/bubbledive/sparkmap/internal/scene"
	"github.com/bubbledive/sparkmap/internal/session"
)

// frameInterval paces simulation stepping and redraws.
const frameInterval = time.Second / 30

// chromeRows is the header plus footer row count around the canvas.
const chromeRows = 2

// Builder produces maps for topics and dives. Satisfied by *session.Session.
type Builder interface {
	BuildMap(ctx context.Context, topic string, fresh bool) (*session.Map, error)
	Dive(ctx context.Context, dctx dive.Context) (*session.Map, error)
}

type state int

const (
	stateLoading state = iota
	stateMap
	stateError
)

type mapReadyMsg struct {
	m *session.Map
}

type mapErrMsg struct {
	err error
}

type frameMsg time.Time

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	cachedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	loadingStyle = lipgloss.NewStyle().Padding(1, 2)
)

// Model is the bubbletea model for the explorer.
type Model struct {
	builder  Builder
	diveOpts dive.Options

	state   state
	topic   string
	loading string
	err     error
	history []string

	current *session.Map
	sim     *layout.Simulation
	ctrl    *scene.Controller

	spinner    spinner.Model
	buildFresh bool

	width, height int
	// Virtual pixels per terminal cell; cells are about twice as tall as
	// they are wide, so the two factors differ.
	pxPerCol, pxPerRow float64
}

// New creates an explorer model that starts by building the given topic.
func New(builder Builder, topic string, fresh bool, diveOpts dive.Options) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("33"))))
	m := Model{
		builder:  builder,
		diveOpts: diveOpts,
		state:    stateLoading,
		topic:    topic,
		loading:  fmt.Sprintf("Generating SparkMap for %q", topic),
		spinner:  sp,
		width:    80,
		height:   24,
	}
	m.resize(m.width, m.height)
	m.buildFresh = fresh
	return m
}

// Init starts the spinner, the frame clock, and the initial build.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, frameCmd(), m.buildCmd(m.topic, m.buildFresh))
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) buildCmd(topic string, fresh bool) tea.Cmd {
	return func() tea.Msg {
		built, err := m.builder.BuildMap(context.Background(), topic, fresh)
		if err != nil {
			return mapErrMsg{err: err}
		}
		return mapReadyMsg{m: built}
	}
}

func (m Model) diveCmd(dctx dive.Context) tea.Cmd {
	return func() tea.Msg {
		built, err := m.builder.Dive(context.Background(), dctx)
		if err != nil {
			return mapErrMsg{err: err}
		}
		return mapReadyMsg{m: built}
	}
}

// Update is the bubbletea event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		if m.state == stateMap && m.sim != nil && !m.sim.Converged() {
			m.sim.Tick()
		}
		return m, frameCmd()

	case mapReadyMsg:
		return m.showMap(msg.m), nil

	case mapErrMsg:
		m.state = stateError
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		if m.state == stateMap && m.sim != nil {
			m.sim.Reheat()
		}
		return m, nil

	case "g":
		if m.state != stateMap {
			return m, nil
		}
		m.state = stateLoading
		m.loading = fmt.Sprintf("Regenerating SparkMap for %q", m.topic)
		return m, tea.Batch(m.spinner.Tick, m.buildCmd(m.topic, true))

	case "b":
		if m.state != stateMap || len(m.history) == 0 {
			return m, nil
		}
		prev := m.history[len(m.history)-1]
		m.history = m.history[:len(m.history)-1]
		m.state = stateLoading
		m.loading = fmt.Sprintf("Returning to %q", prev)
		return m, tea.Batch(m.spinner.Tick, m.buildCmd(prev, false))

	case "+", "=":
		if m.ctrl != nil {
			px, py := m.centerPointer()
			m.ctrl.ZoomBy(1.2, px, py)
		}
		return m, nil

	case "-":
		if m.ctrl != nil {
			px, py := m.centerPointer()
			m.ctrl.ZoomBy(1/1.2, px, py)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateMap || m.ctrl == nil {
		return m, nil
	}
	// Row 0 is the header.
	px := (float64(msg.X) + 0.5) * m.pxPerCol
	py := (float64(msg.Y-1) + 0.5) * m.pxPerRow

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.ZoomBy(1.1, px, py)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.ctrl.ZoomBy(1/1.1, px, py)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.PointerDown(px, py)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(px, py)
	case tea.MouseActionRelease:
		if dctx := m.ctrl.PointerUp(px, py); dctx != nil {
			m.history = append(m.history, m.topic)
			m.state = stateLoading
			m.loading = fmt.Sprintf("Diving into %q", dctx.ClickedLabel)
			return m, tea.Batch(m.spinner.Tick, m.diveCmd(*dctx))
		}
	}
	return m, nil
}

// showMap swaps in a freshly built map with a new simulation and controller.
func (m Model) showMap(built *session.Map) Model {
	m.current = built
	m.topic = built.Topic
	m.sim = layout.New(built.Graph, layout.DefaultWidth, layout.DefaultHeight, layout.DefaultParams())
	m.ctrl = scene.NewController(built.Graph, m.sim, m.diveOpts)
	m.state = stateMap
	m.err = nil
	return m
}

func (m *Model) resize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < chromeRows+5 {
		height = chromeRows + 5
	}
	m.width = width
	m.height = height
	m.pxPerCol = layout.DefaultWidth / float64(width)
	m.pxPerRow = layout.DefaultHeight / float64(height-chromeRows)
}

func (m Model) centerPointer() (px, py float64) {
	return layout.DefaultWidth / 2, layout.DefaultHeight / 2
}

// View renders the current frame.
func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return loadingStyle.Render(m.spinner.View() + " " + m.loading)
	case stateError:
		help := footerStyle.Render("q: quit")
		if len(m.history) > 0 {
			help = footerStyle.Render("b: back · q: quit")
		}
		return loadingStyle.Render(errStyle.Render("Error: "+m.err.Error()) + "\n\n" + help)
	}
	return m.viewMap()
}

func (m Model) viewMap() string {
	header := headerStyle.Render("BubbleDive SparkMap: " + m.topic)
	if m.current.FromCache {
		header += cachedStyle.Render("  (cached)")
	}

	cv := newCanvas(m.width, m.height-chromeRows)
	m.drawScene(cv)

	footer := footerStyle.Render("drag: move · wheel: zoom · click bubble: dive · r: reheat · g: regenerate · b: back · q: quit")

	return header + "\n" + cv.String() + "\n" + footer
}

// drawScene paints edges, bubbles, and the hover tooltip into the canvas.
func (m Model) drawScene(cv *canvas) {
	view := m.ctrl.Viewport()
	cells := make(map[string][2]int, len(m.current.Graph.Nodes))
	for _, p := range m.sim.Positions() {
		sx, sy := view.ToScreen(p.X, p.Y)
		cells[p.ID] = [2]int{int(sx / m.pxPerCol), int(sy / m.pxPerRow)}
	}

	for _, e := range m.current.Graph.Edges {
		s, t := cells[e.Source], cells[e.Target]
		cv.drawLine(s[0], s[1], t[0], t[1])
	}

	for _, n := range m.current.Graph.Nodes {
		c := cells[n.ID]
		style := styleChild
		if n.IsRoot {
			style = styleRoot
		}
		cv.drawLabel(c[0], c[1], scene.WrapNodeLabel(n.Label, n.IsRoot), style)
	}

	if h, ok := m.ctrl.Hover(); ok {
		lines := scene.Wrap(h.Tooltip, 40, 6)
		cv.drawBox(int(h.X/m.pxPerCol), int(h.Y/m.pxPerRow), lines, styleTooltip)
	}
}

// Run starts the explorer program. With SPARKMAP_DEBUG set, bubbletea logs
// to sparkmap-debug.log in the working directory.
func Run(builder Builder, topic string, fresh bool, diveOpts dive.Options) error {
	if os.Getenv("SPARKMAP_DEBUG") != "" {
		f, err := tea.LogToFile("sparkmap-debug.log", "debug")
		if err == nil {
			defer f.Close()
		}
	}

	p := tea.NewProgram(New(builder, topic, fresh, diveOpts),
		tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("running explorer: %w", err)
	}
	return nil
}
