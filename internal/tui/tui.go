// Package tui emulates the LED matrix and its two buttons in the terminal,
// so the simulation can be exercised without hardware. The bubbletea model
// drives the same scheduler loop the hardware path uses; the p and s keys
// stand in for the pause and step buttons.
package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"ledlife/internal/control"
	"ledlife/internal/life"
	"ledlife/internal/metrics"
	"ledlife/internal/sched"
)

const (
	tickInterval    = 50 * time.Millisecond
	historyCapacity = 120
)

var (
	litCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).SetString("●")
	darkCell = lipgloss.NewStyle().Foreground(lipgloss.Color("236")).SetString("·")

	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pauseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg drives the emulated scheduler.
type TickMsg time.Time

// Screen is the emulator's stand-in for the hardware scan driver: Refresh
// latches a snapshot of the board instead of pulsing GPIO lines.
type Screen struct {
	mu    sync.Mutex
	frame [life.Rows * life.Cols]uint8
	lit   bool
}

// NewScreen returns a blanked screen.
func NewScreen() *Screen { return &Screen{} }

// Refresh latches the board for the next View.
func (s *Screen) Refresh(g *life.Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.Snapshot(&s.frame)
	s.lit = true
	return nil
}

// Blank clears the emulated matrix.
func (s *Screen) Blank() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = [life.Rows * life.Cols]uint8{}
	s.lit = false
	return nil
}

// Frame returns the last latched board.
func (s *Screen) Frame() [life.Rows * life.Cols]uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Model is the bubbletea model for the emulator.
type Model struct {
	loop    *sched.Loop
	flags   *control.Flags
	screen  *Screen
	pop     *metrics.Population
	stag    *metrics.Stagnation
	reseed  func(*life.Grid)
	history []float64
}

// NewModel wires a model around an already-seeded loop. reseed is invoked on
// the r key with the loop's grid; passing nil disables reseeding.
func NewModel(loop *sched.Loop, flags *control.Flags, screen *Screen, pop *metrics.Population, stag *metrics.Stagnation, reseed func(*life.Grid)) Model {
	return Model{
		loop:    loop,
		flags:   flags,
		screen:  screen,
		pop:     pop,
		stag:    stag,
		reseed:  reseed,
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// The Update goroutine is the loop's single thread of control
		// here; Tick refreshes the screen and advances on period.
		if err := m.loop.Tick(time.Time(msg)); err != nil {
			return m, tea.Quit
		}
		m.history = append(m.history, m.pop.Value())
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			m.flags.TogglePause()
		case "s":
			m.flags.RequestStep()
		case "r":
			if m.reseed != nil {
				m.reseed(m.loop.Grid())
			}
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	frame := m.screen.Frame()

	var b strings.Builder
	for r := 0; r < life.Rows; r++ {
		for c := 0; c < life.Cols; c++ {
			if frame[life.Index(r, c)] == 1 {
				b.WriteString(litCell.String())
			} else {
				b.WriteString(darkCell.String())
			}
			if c < life.Cols-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	matrix := panelStyle.Render(strings.TrimRight(b.String(), "\n"))

	state := runStyle.Render("RUNNING")
	if m.flags.Paused() {
		state = pauseStyle.Render("PAUSED")
	}

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("ledlife") + "\n\n")
	stats.WriteString(labelStyle.Render("state") + state + "\n")
	stats.WriteString(labelStyle.Render("generation") + valueStyle.Render(fmt.Sprintf("%d", m.loop.Grid().Generation())) + "\n")
	stats.WriteString(labelStyle.Render("population") + valueStyle.Render(fmt.Sprintf("%d", int(m.pop.Value()))) + "\n")
	stats.WriteString(labelStyle.Render("avg pop") + valueStyle.Render(fmt.Sprintf("%.1f", m.pop.Average())) + "\n")
	stats.WriteString(labelStyle.Render("still for") + valueStyle.Render(fmt.Sprintf("%d gen", int(m.stag.Value()))))

	body := lipgloss.JoinHorizontal(lipgloss.Top, matrix, "  ", panelStyle.Render(stats.String()))

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(48),
			asciigraph.Caption("population"))
		body = lipgloss.JoinVertical(lipgloss.Left, body, graphStyle.Render(graph))
	}

	help := helpStyle.Render("p pause/resume · s step (while paused) · r reseed · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

// Run starts the emulator and blocks until quit.
func Run(m Model) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
