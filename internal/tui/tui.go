package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"topowatch/internal/dashboard"
)

// Styles
var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// Rows above and below the canvas
const (
	headerRows = 1
	footerRows = 1
)

// Controls is the part of the dashboard the terminal UI drives
type Controls interface {
	Input(ctx context.Context, ev dashboard.InputEvent) error
	Resize(ctx context.Context, width, height float64) error
	Select(ctx context.Context, name string) error
}

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Help key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next topology"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev topology"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Help, k.Quit},
	}
}

// framesMsg carries a newly published frame set
type framesMsg dashboard.FrameSet

// errMsg reports a failed control request
type errMsg struct{ err error }

// Model is the bubbletea model of the terminal dashboard
type Model struct {
	ctx      context.Context
	controls Controls
	events   <-chan dashboard.Event
	input    chan<- dashboard.InputEvent

	frames   dashboard.FrameSet
	dragging bool
	width    int
	height   int
	help     help.Model
	keys     keyMap
	err      error
}

// NewModel creates a model. Pointer events are queued on input in arrival
// order; events delivers the dashboard's published frames.
func NewModel(ctx context.Context, controls Controls, events <-chan dashboard.Event, input chan<- dashboard.InputEvent) Model {
	return Model{
		ctx:      ctx,
		controls: controls,
		events:   events,
		input:    input,
		help:     help.New(),
		keys:     keys,
	}
}

func (m Model) waitForFrames() tea.Cmd {
	return func() tea.Msg {
		for ev := range m.events {
			if fs, ok := ev.Payload.(dashboard.FrameSet); ok && ev.Type == dashboard.EventFrames {
				return framesMsg(fs)
			}
		}
		return nil
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.waitForFrames()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.resize()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Next):
			return m, m.cycle(1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.cycle(-1)
		}

	case tea.MouseMsg:
		m.pointer(msg)

	case framesMsg:
		m.frames = dashboard.FrameSet(msg)
		return m, m.waitForFrames()

	case errMsg:
		m.err = msg.err
	}

	return m, nil
}

// pointer maps terminal mouse events to surface pointer events. The centre
// of the clicked cell is used as the pointer position.
func (m *Model) pointer(msg tea.MouseMsg) {
	x := float64(msg.X)*CellWidth + CellWidth/2
	y := float64(msg.Y-headerRows)*CellHeight + CellHeight/2

	var kind dashboard.InputKind
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		kind = dashboard.PointerDown
		m.dragging = true
	case msg.Action == tea.MouseActionMotion && m.dragging:
		kind = dashboard.PointerMove
	case msg.Action == tea.MouseActionRelease && m.dragging:
		kind = dashboard.PointerUp
		m.dragging = false
	default:
		return
	}

	ev := dashboard.InputEvent{Kind: kind, X: x, Y: y}
	if kind == dashboard.PointerMove {
		// Moves are superseded by the next one, so they may be dropped
		select {
		case m.input <- ev:
		default:
		}
		return
	}
	m.input <- ev
}

func (m Model) canvasSize() (int, int) {
	rows := m.height - headerRows - footerRows
	if rows < 0 {
		rows = 0
	}
	return m.width, rows
}

func (m Model) resize() tea.Cmd {
	cols, rows := m.canvasSize()
	controls, ctx := m.controls, m.ctx
	return func() tea.Msg {
		if err := controls.Resize(ctx, float64(cols)*CellWidth, float64(rows)*CellHeight); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) cycle(step int) tea.Cmd {
	names := m.frames.Names
	if len(names) == 0 {
		return nil
	}

	next := 0
	for i, name := range names {
		if name == m.frames.Selected {
			next = ((i+step)%len(names) + len(names)) % len(names)
			break
		}
	}

	name := names[next]
	controls, ctx := m.controls, m.ctx
	return func() tea.Msg {
		if err := controls.Select(ctx, name); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Measuring terminal..."
	}

	var tabs []string
	for _, name := range m.frames.Names {
		if name == m.frames.Selected {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := statusStyle.Render(fmt.Sprintf("topowatch #%d ", m.frames.Seq)) + strings.Join(tabs, "")

	cols, rows := m.canvasSize()
	body := render(m.frames, cols, rows)

	footer := helpStyle.Render(m.help.View(m.keys))
	if m.err != nil {
		footer = errorStyle.Render(m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Run starts the terminal dashboard and blocks until the user quits or ctx
// is cancelled
func Run(ctx context.Context, controls Controls, bus *dashboard.EventBus) error {
	events := make(chan dashboard.Event, 16)
	bus.Subscribe(events)
	defer bus.Unsubscribe(events)

	input := make(chan dashboard.InputEvent, 64)
	go func() {
		for {
			select {
			case ev := <-input:
				if err := controls.Input(ctx, ev); err != nil && ctx.Err() == nil {
					log.Printf("Failed to forward pointer event: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	p := tea.NewProgram(
		NewModel(ctx, controls, events, input),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
