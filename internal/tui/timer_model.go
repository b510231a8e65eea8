package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tempo/internal/clock"
	"github.com/balkashynov/tempo/internal/models"
)

const (
	headerText     = "TRACKING TIME"
	splitViewWidth = 90
)

// TimerModel is the full-screen timer shown while a session runs.
type TimerModel struct {
	width   int
	height  int
	session *models.Session
	project *models.ProjectSummary
	clock   clock.Clock

	elapsed time.Duration
	frame   int
	shimmer *Shimmer

	keys keyMap
	help help.Model

	stopping bool // s pressed; caller ends the session
	exiting  bool // esc/q or ctrl+c; session keeps running
}

type timerTickMsg struct{}

type animationTickMsg struct{}

// NewTimerModel builds a timer for session. project may be nil.
func NewTimerModel(session *models.Session, project *models.ProjectSummary, clk clock.Clock) TimerModel {
	m := TimerModel{
		session: session,
		project: project,
		clock:   clk,
		shimmer: NewShimmer(DefaultShimmerConfig()),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.elapsed = m.sinceStart()
	return m
}

func (m TimerModel) sinceStart() time.Duration {
	d := m.clock.Now().Sub(m.session.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

func (m TimerModel) timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

func (m TimerModel) animationTick() tea.Cmd {
	return tea.Tick(m.shimmer.Interval(), func(time.Time) tea.Msg { return animationTickMsg{} })
}

// Init starts the clock and animation tickers.
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(m.timerTick(), m.animationTick())
}

// Stopping reports whether the user asked to end the session.
func (m TimerModel) Stopping() bool { return m.stopping }

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.sinceStart()
		if m.done() {
			return m, nil
		}
		return m, m.timerTick()

	case animationTickMsg:
		m.frame++
		m.shimmer.Advance(len(headerText))
		if m.done() {
			return m, nil
		}
		return m, m.animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			m.stopping = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Detach), key.Matches(msg, m.keys.Quit):
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) done() bool { return m.stopping || m.exiting }

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - lipgloss.Height(helpBar) - 1

	if m.width < splitViewWidth {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderProjectPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TimerModel) projectName() string {
	if m.project == nil {
		return fmt.Sprintf("project #%d", m.session.ProjectID)
	}
	return m.project.Name
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	centered := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	icons := []string{"⏱", "⏲"}
	icon := icons[(m.frame/2)%len(icons)]
	header := fmt.Sprintf("%s  %s  %s", icon, m.shimmer.Render(headerText), icon)

	idStyle := centered.
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	nameStyle := centered.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true)
	startedStyle := centered.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)

	name := truncate(m.projectName(), width-4)

	clockLines := strings.Split(renderBigClock(m.elapsed), "\n")
	for i, line := range clockLines {
		clockLines[i] = centered.Render(line)
	}

	components := []string{
		centered.Render(header),
		idStyle.Render(fmt.Sprintf("session #%d", m.session.ID)),
		nameStyle.Render(name),
		strings.Join(clockLines, "\n"),
		startedStyle.Render("Started at " + m.session.StartTime.Format("15:04:05 -07:00")),
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

var logoLines = []string{
	"▀█▀ █▀▀ █▀▄▀█ █▀█ █▀█",
	" █  ██▄ █ ▀ █ █▀▀ █▄█",
}

func (m TimerModel) renderProjectPanel(width, _ int) string {
	inner := width - 8
	row := lipgloss.NewStyle().Align(lipgloss.Center).Width(inner)

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(row.
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(row.
		Foreground(lipgloss.Color(ColorBorder)).
		Render(strings.Repeat("─", max(0, min(width-12, 40)))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(max(1, width-12)).
		Padding(0, 1).
		Render(m.projectName()))
	b.WriteString("\n\n")

	value := func(s string, color string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
	}

	description := value("none", ColorDisabledText)
	sessions := value("?", ColorDisabledText)
	tracked := value("?", ColorDisabledText)
	created := value("?", ColorDisabledText)
	if p := m.project; p != nil {
		if p.Description != nil {
			description = value(*p.Description, ColorSecondaryText)
		}
		sessions = value(fmt.Sprintf("%d", p.TotalSessions), ColorAccentBright)
		tracked = value(fmt.Sprintf("%dh", p.TotalHours), ColorAccentBright)
		created = value(p.CreatedAt.Format("Jan 02, 2006"), ColorSecondaryText)
	}

	lines := []string{
		"📝 Description: " + description,
		"📊 Sessions: " + sessions,
		"⌛ Tracked: " + tracked,
		"📅 Created: " + created,
	}
	for i, line := range lines {
		b.WriteString(row.Render(line))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m TimerModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(m.keys))
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width < 4 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	switch {
	case d.Hours() >= 1:
		return fmt.Sprintf("%.1fh", d.Hours())
	case d.Minutes() >= 1:
		return fmt.Sprintf("%.0fm", d.Minutes())
	default:
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
