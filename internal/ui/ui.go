// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/population"
	"github.com/litescript/ls-stellar/internal/stars"
	"github.com/litescript/ls-stellar/internal/state"
	"github.com/litescript/ls-stellar/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSky ViewMode = iota
	ViewStars
)

const (
	defaultTimeStep = 1e6
	minTimeStep     = 1.0
	maxTimeStep     = 1e10
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// ProgressMsg reports population generation progress.
	ProgressMsg struct {
		Progress population.Progress
	}

	// DataUpdateMsg signals a new population is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a generation error.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	timeStep  float64

	// Sub-models
	skyView  SkyViewModel
	starList StarListModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, observer astro.Observer) Model {
	return Model{
		state:    stateMgr,
		viewMode: ViewSky,
		timeStep: defaultTimeStep,
		skyView:  NewSkyViewModel(observer),
		starList: NewStarListModel(),
		snapshot: stateMgr.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewSky
		case "2":
			m.viewMode = ViewStars
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case "t":
			m = m.stepTime(m.timeStep)
		case "T":
			m = m.stepTime(-m.timeStep)
		case "0":
			m.state.SetYears(0)
			m = m.refresh()
			m.statusMsg = "Back to the epoch"
		case "+", "=":
			m.timeStep = math.Min(m.timeStep*10, maxTimeStep)
			m.statusMsg = "Time step: " + stars.FormatYears(m.timeStep)
		case "-", "_":
			m.timeStep = math.Max(m.timeStep/10, minTimeStep)
			m.statusMsg = "Time step: " + stars.FormatYears(m.timeStep)

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~11 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.starList = m.starList.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.skyView = m.skyView.SetTime(time.Time(msg))
		m = m.refresh()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case ProgressMsg:
		m.snapshot.Progress = msg.Progress

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.skyView = m.skyView.UpdateData(m.snapshot)
		m.starList = m.starList.UpdateData(m.snapshot)

	case ErrorMsg:
		m.snapshot.LastError = msg.Error
		m.snapshot.Loading = false

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// stepTime moves simulation time and refreshes the views.
func (m Model) stepTime(delta float64) Model {
	if !m.state.HasData() {
		return m
	}
	changed := m.state.Advance(delta)
	m = m.refresh()
	m.statusMsg = fmt.Sprintf("Now +%s (%d stars changed)",
		stars.FormatYears(m.snapshot.YearsSinceEpoch), changed)
	return m
}

// refresh pulls a fresh snapshot from the state manager.
func (m Model) refresh() Model {
	m.snapshot = m.state.Snapshot()
	m.skyView = m.skyView.UpdateData(m.snapshot)
	m.starList = m.starList.UpdateData(m.snapshot)
	return m
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewStars:
		m.starList, cmd = m.starList.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch {
	case m.snapshot.LastError != nil && !m.state.HasData():
		content = m.renderError()
	case m.snapshot.Loading:
		content = m.renderLoading()
	default:
		switch m.viewMode {
		case ViewSky:
			content = m.skyView.View()
		case ViewStars:
			content = m.starList.View()
		}
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗      ███████╗████████╗███████╗██╗     ██╗      █████╗ ██████╗`,
		`  ██║     ██╔════╝      ██╔════╝╚══██╔══╝██╔════╝██║     ██║     ██╔══██╗██╔══██╗`,
		`  ██║     ███████╗█████╗███████╗   ██║   █████╗  ██║     ██║     ███████║██████╔╝`,
		`  ██║     ╚════██║╚════╝╚════██║   ██║   ██╔══╝  ██║     ██║     ██╔══██║██╔══██╗`,
		`  ███████╗███████║      ███████║   ██║   ███████╗███████╗███████╗██║  ██║██║  ██║`,
		`  ╚══════╝╚══════╝      ╚══════╝   ╚═╝   ╚══════╝╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Naked-eye sky synthesis · v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient,
// running along the main sequence from hot blue to cool red.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	temp := 30000 - xRatio*(30000-3000)
	c := astro.ColorFromTemperature(temp)

	// Vertical fade: brighter at top, darker toward bottom
	f := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X",
		uint8(float64(c.R)*f), uint8(float64(c.G)*f), uint8(float64(c.B)*f))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sky", "[2] Stars"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderLoading() string {
	p := m.snapshot.Progress
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.renderShimmerText("Generating stars..."))
	b.WriteString("\n\n  ")
	b.WriteString(accentStyle.Render(progressBar(p.Fraction(), 40)))
	b.WriteString(fmt.Sprintf(" %3.0f%%\n\n", p.Fraction()*100))
	if p.Total > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  drawn %d of %d, %d visible so far", p.Drawn, p.Total, p.Kept)))
	} else {
		b.WriteString(dimStyle.Render("  loading stellar tracks"))
	}
	b.WriteString("\n")
	return b.String()
}

// progressBar renders a fixed-width bar for a fraction in [0, 1].
func progressBar(fraction float64, width int) string {
	fraction = math.Max(0, math.Min(1, fraction))
	filled := int(math.Round(fraction * float64(width)))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (m Model) renderError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	return "\n  " + errorStyle.Render("Error: "+m.snapshot.LastError.Error()) + "\n"
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	if m.snapshot.Loading {
		status = accentStyle.Render(spinner) + dimStyle.Render(" generating")
	} else {
		status = dimStyle.Render(fmt.Sprintf("+%s | step %s | %d visible",
			stars.FormatYears(m.snapshot.YearsSinceEpoch),
			stars.FormatYears(m.timeStep),
			m.snapshot.VisibleCount()))
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = dimStyle.Render("j/k: focus | l: labels | r: reference | d: twilight | t/T: time | +/-: step | 0: epoch")
	default:
		help = dimStyle.Render("↑↓: navigate | t/T: time | +/-: step | tab: switch view")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
