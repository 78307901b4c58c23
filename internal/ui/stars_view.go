package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/stars"
	"github.com/litescript/ls-stellar/internal/state"
)

// Styles for the star list
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// starRow is one visible star in the list.
type starRow struct {
	index int
	name  string
	mag   float64
	class string
	color astro.Color
}

// StarListModel lists the visible stars, brightest first, with a class
// breakdown and the latest events.
type StarListModel struct {
	width    int
	height   int
	cursor   int
	rows     []starRow
	snapshot state.Snapshot
}

// NewStarListModel creates a new star list model.
func NewStarListModel() StarListModel {
	return StarListModel{}
}

// Init implements the Bubble Tea model interface.
func (m StarListModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m StarListModel) SetSize(width, height int) StarListModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot.
func (m StarListModel) UpdateData(snapshot state.Snapshot) StarListModel {
	m.snapshot = snapshot
	m.rows = nil
	for i, app := range snapshot.Appearances {
		if !app.Visible() {
			continue
		}
		p := snapshot.Stars[i].At(snapshot.YearsSinceEpoch)
		m.rows = append(m.rows, starRow{
			index: i,
			name:  starName(i, snapshot.Stars[i]),
			mag:   app.ApparentMagnitude(),
			class: astro.SpectralClass(p.TemperatureK),
			color: app.Color,
		})
	}
	sort.SliceStable(m.rows, func(a, b int) bool { return m.rows[a].mag < m.rows[b].mag })

	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	return m
}

// Update handles messages.
func (m StarListModel) Update(msg tea.Msg) (StarListModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if len(m.rows) > 0 {
				m.cursor = len(m.rows) - 1
			}
		}
	}
	return m, nil
}

// View renders the star list.
func (m StarListModel) View() string {
	var b strings.Builder

	if m.snapshot.Stars == nil {
		b.WriteString("Waiting for stars...\n")
		return b.String()
	}

	b.WriteString(m.renderClassSummary())
	b.WriteString("\n")
	b.WriteString(m.renderStarTable())
	b.WriteString("\n")
	b.WriteString(m.renderEvents(5))
	return b.String()
}

func (m StarListModel) renderClassSummary() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Visible Stars within %s", stars.FormatDistance(m.snapshot.MaxDistanceLy))))
	b.WriteString("\n")

	counts := make(map[string]int)
	for _, r := range m.rows {
		counts[r.class]++
	}

	for _, class := range astro.SpectralClasses {
		share := 0.0
		if len(m.rows) > 0 {
			share = float64(counts[class]) / float64(len(m.rows))
		}
		b.WriteString(fmt.Sprintf("  %s %s %d\n", class, m.renderShareBar(class, share, 20), counts[class]))
	}
	return b.String()
}

// renderShareBar draws a bar tinted with the typical color of the class.
func (m StarListModel) renderShareBar(class string, share float64, width int) string {
	filled := int(share * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(classColor(class).Hex()))
	return "[" + style.Render(bar) + "]"
}

// classColor is the display color of a representative star of the class.
func classColor(class string) astro.Color {
	temps := map[string]float64{"O": 35000, "B": 15000, "A": 8500, "F": 6500, "G": 5600, "K": 4400, "M": 3200}
	return astro.ColorFromTemperature(temps[class])
}

func (m StarListModel) renderStarTable() string {
	var b strings.Builder

	header := fmt.Sprintf("%-12s %6s %-3s %-10s %-10s %-10s %-18s",
		"Star", "Mag", "Cls", "Temp", "Distance", "Mass", "Fate")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString("  No visible stars\n")
		return b.String()
	}

	maxRows := m.height - 18 // class summary and events
	if maxRows < 5 {
		maxRows = 5
	}

	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := min(startIdx+maxRows, len(m.rows))

	years := m.snapshot.YearsSinceEpoch
	for i := startIdx; i < endIdx; i++ {
		r := m.rows[i]
		s := m.snapshot.Stars[r.index]
		p := s.At(years)

		fate := s.Evolution.Fate().String()
		if ttd, ok := s.Evolution.TimeUntilDeath(years); ok && ttd < 0 {
			fate = "dead, " + fate
		}

		row := fmt.Sprintf("%-12s %6.2f %-3s %-10s %-10s %-10s %-18s",
			truncate(r.name, 12),
			r.mag,
			r.class,
			fmt.Sprintf("%.0f K", p.TemperatureK),
			stars.FormatDistance(s.DistanceLy),
			fmt.Sprintf("%.2f M☉", p.MassSolar),
			truncate(fate, 18),
		)

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(m.rows) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d stars", startIdx+1, endIdx, len(m.rows)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m StarListModel) renderEvents(n int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(dimStyle.Render("  Nothing has happened yet. Press t to move time forward."))
		b.WriteString("\n")
		return b.String()
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		b.WriteString("  " + formatEvent(e) + "\n")
	}
	return b.String()
}

// formatEvent renders one event line.
func formatEvent(e state.Event) string {
	when := dimStyle.Render(fmt.Sprintf("+%-10s", stars.FormatYears(e.YearsSinceEpoch)))
	switch e.Type {
	case state.EventDeath:
		return when + " " + e.Star + " died as a " + e.Fate
	case state.EventAppear:
		return when + " " + e.Star + " became visible"
	case state.EventFadeOut:
		return when + " " + e.Star + " faded from view"
	default:
		return when + " " + e.Star + " " + string(e.Type)
	}
}

// SelectedStar returns the star under the cursor, if any.
func (m StarListModel) SelectedStar() (stars.Star, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return stars.Star{}, false
	}
	return m.snapshot.Stars[m.rows[m.cursor].index], true
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
