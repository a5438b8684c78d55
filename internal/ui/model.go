// ABOUTME: Bubbletea model for the clip inspector TUI
// ABOUTME: Drives the controller from keys, mouse clicks and frame ticks
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Resonate-Protocol/clipscope/pkg/inspector"
	"github.com/Resonate-Protocol/clipscope/pkg/tick"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

// Screen layout
const (
	headerLines = 2 // title and clip lines above the waveform
	waveRows    = 12
	minCols     = 16
	defaultCols = 78
	scaleStep   = 0.1
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Config holds TUI configuration
type Config struct {
	Title      string
	Controller *inspector.Controller
	Clock      *tick.FrameClock
	Clips      []inspector.ClipRef
	Events     *EventLog

	// FPS is the redraw and playback polling rate (default: 60)
	FPS int
}

// frameMsg drives the frame clock
type frameMsg time.Time

// Model represents the TUI state
type Model struct {
	title  string
	ctrl   *inspector.Controller
	clock  *tick.FrameClock
	clips  []inspector.ClipRef
	events *EventLog
	frame  time.Duration

	selected int
	snap     inspector.Snapshot
	status   string

	width    int
	height   int
	quitting bool
}

// NewModel creates the model and selects the first clip
func NewModel(config Config) Model {
	if config.FPS <= 0 {
		config.FPS = 60
	}
	if config.Clock == nil {
		config.Clock = tick.NewFrameClock()
	}
	if config.Events == nil {
		config.Events = NewEventLog(4)
	}
	if config.Title == "" {
		config.Title = "clipscope"
	}

	m := Model{
		title:    config.Title,
		ctrl:     config.Controller,
		clock:    config.Clock,
		clips:    config.Clips,
		events:   config.Events,
		frame:    time.Second / time.Duration(config.FPS),
		selected: -1,
	}
	if len(m.clips) > 0 {
		m.selectClip(0)
	}
	m.refresh()
	return m
}

// Init starts the frame ticker
func (m Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		m.clock.Fire(time.Time(msg))
		m.refresh()
		return m, m.nextFrame()
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Closing...\n"
	}

	var b strings.Builder
	cols := m.waveCols()

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(m.positionText()))
	b.WriteString("\n")
	b.WriteString(m.clipLine())
	b.WriteString("\n")

	grid := cellGrid(m.snap.Image, cols, waveRows)
	playheadCol := 0
	if m.snap.Image != nil {
		playheadCol = cellColumn(m.snap.PlayheadX, m.snap.Image.Width, cols)
	}
	for _, line := range renderWave(grid, playheadCol, m.snap.PlayheadVisible) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.markerRow(cols))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	for _, line := range m.events.Lines() {
		b.WriteString(valueStyle.Render("  " + line))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space:Play/Stop  ←/→:Seek  ↑/↓:Clip  +/-:Scale  m:Mode  l:Loop  a:Add marker  x:Remove marker  q:Quit"))

	return b.String()
}

func (m Model) clipLine() string {
	if m.snap.Clip == nil {
		return headerStyle.Render("Clip: ") + valueStyle.Render("(none selected)")
	}
	line := headerStyle.Render("Clip: ") + valueStyle.Render(m.snap.Clip.Name)
	if m.snap.SampleCount > 0 {
		line += valueStyle.Render(fmt.Sprintf("  %d samples @ %d Hz  (%d/%d)",
			m.snap.SampleCount, m.snap.SampleRate, m.selected+1, len(m.clips)))
	}
	return line
}

func (m Model) markerRow(cols int) string {
	if m.snap.Image == nil || len(m.snap.Markers) == 0 {
		return ""
	}
	samples := make([]int, len(m.snap.Markers))
	for i, mk := range m.snap.Markers {
		samples[i] = mk.Sample
	}
	return renderMarkerRow(cols, markerColumns(samples, m.snap.SampleCount, m.snap.Image.Width, cols))
}

func (m Model) statusLine() string {
	icon := "■"
	if m.snap.State == inspector.Playing {
		icon = "▶"
	}
	loop := "off"
	if m.ctrl != nil && m.ctrl.Loop() {
		loop = "on"
	}
	return fmt.Sprintf("%s %s  %s  %s  %s  %s",
		icon,
		headerStyle.Render("["+m.snap.State.ButtonLabel()+"]"),
		valueStyle.Render(fmt.Sprintf("scale %.1f", m.snap.Scale)),
		valueStyle.Render("mode "+m.snap.Mode.String()),
		valueStyle.Render("loop "+loop),
		valueStyle.Render(fmt.Sprintf("markers %d", len(m.snap.Markers))),
	)
}

func (m Model) positionText() string {
	if m.snap.SampleRate <= 0 {
		return ""
	}
	pos := time.Duration(m.snap.Playhead) * time.Second / time.Duration(m.snap.SampleRate)
	return fmt.Sprintf("%s / %s", formatDuration(pos), formatDuration(m.snap.Duration))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ", "enter":
		m.report(m.ctrl.TogglePlayback())
	case "s":
		m.report(m.ctrl.Stop())
	case "left":
		m.seekBy(-1)
	case "right":
		m.seekBy(1)
	case "home":
		m.report(m.ctrl.Click(0, inspector.ButtonLeft))
	case "up", "k":
		m.selectClip(m.selected - 1)
	case "down", "j":
		m.selectClip(m.selected + 1)
	case "+", "=":
		m.ctrl.SetScale(m.ctrl.Scale() + scaleStep)
	case "-":
		m.ctrl.SetScale(m.ctrl.Scale() - scaleStep)
	case "m":
		if m.snap.Mode == waveform.ModePeak {
			m.ctrl.SetMode(waveform.ModeAverage)
		} else {
			m.ctrl.SetMode(waveform.ModePeak)
		}
	case "l":
		m.ctrl.SetLoop(!m.ctrl.Loop())
	case "a":
		if mk, err := m.ctrl.AddMarkerAtPlayhead(); err != nil {
			m.report(err)
		} else {
			m.events.Addf("marker %d added at sample %d", mk.ID, mk.Sample)
		}
	case "x":
		if mk, ok := m.ctrl.RemoveMarkerNearPlayhead(m.samplesPerCell()); ok {
			m.events.Addf("marker %d removed", mk.ID)
		}
	}

	m.refresh()
	return m, nil
}

// handleMouse seeks when the waveform is clicked
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || m.snap.Image == nil {
		return
	}

	var button inspector.Button
	switch msg.Button {
	case tea.MouseButtonLeft:
		button = inspector.ButtonLeft
	case tea.MouseButtonMiddle:
		button = inspector.ButtonMiddle
	case tea.MouseButtonRight:
		button = inspector.ButtonRight
	default:
		return
	}

	cols := m.waveCols()
	col := msg.X - 1
	row := msg.Y - headerLines
	if col < 0 || col >= cols || row < 0 || row >= waveRows {
		return
	}

	m.report(m.ctrl.Click(localX(col, m.snap.Image.Width, cols), button))
	m.refresh()
}

// seekBy moves the playhead by whole character columns
func (m *Model) seekBy(delta int) {
	if m.snap.Image == nil {
		return
	}
	cols := m.waveCols()
	col := cellColumn(m.snap.PlayheadX, m.snap.Image.Width, cols) + delta
	if col < 0 {
		col = 0
	}
	if col >= cols {
		col = cols - 1
	}
	m.report(m.ctrl.Click(localX(col, m.snap.Image.Width, cols), inspector.ButtonLeft))
}

// selectClip selects clips[i], wrapping around the list
func (m *Model) selectClip(i int) {
	if len(m.clips) == 0 {
		return
	}
	i = ((i % len(m.clips)) + len(m.clips)) % len(m.clips)
	m.selected = i
	ref := m.clips[i]
	m.report(m.ctrl.Select(&ref))
}

func (m *Model) report(err error) {
	if err == nil {
		m.status = ""
		return
	}
	if errors.Is(err, inspector.ErrNoClip) {
		m.status = "No clip selected"
		return
	}
	m.status = err.Error()
}

func (m *Model) refresh() {
	if m.ctrl != nil {
		m.snap = m.ctrl.Snapshot()
	}
}

func (m Model) waveCols() int {
	if m.width <= 0 {
		return defaultCols
	}
	cols := m.width - 2
	if cols < minCols {
		cols = minCols
	}
	return cols
}

func (m Model) samplesPerCell() int {
	cols := m.waveCols()
	if m.snap.SampleCount <= 0 {
		return 0
	}
	return (m.snap.SampleCount + cols - 1) / cols
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, d/time.Millisecond)
}
