package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-stellar/internal/astro"
	"github.com/litescript/ls-stellar/internal/stars"
	"github.com/litescript/ls-stellar/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0 // horizontal FOV
	fovEl = 60.0  // vertical FOV

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	colorFocused   = "229" // bright gold
	colorLabel     = "#d0c8ff"
	colorReference = "240"

	// Star glyphs by apparent magnitude
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '•' // mag 3.0-4.5
	glyphStarVeryDim = '·' // mag > 4.5
	glyphFocused     = '◆'
)

// LabelMode controls how star labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only focused star
	LabelAll                      // All named or bright stars
)

// skyObject is a visible star placed in the observer's sky.
type skyObject struct {
	index int // into the snapshot's stars
	name  string
	mag   float64
	color astro.Color
	coord astro.SkyCoord
}

// SkyViewModel renders the sky dome with the visible population.
type SkyViewModel struct {
	width  int
	height int

	// Camera position (center of view)
	camAz float64
	camEl float64

	// Animation state
	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	observer astro.Observer
	now      time.Time

	// Visible stars above the horizon, brightest first
	objects  []skyObject
	focusIdx int
	snapshot state.Snapshot

	labelMode     LabelMode
	showReference bool
	twilight      bool // hide stars washed out by the Sun
	starCatalog   astro.StarCatalog
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel(observer astro.Observer) SkyViewModel {
	return SkyViewModel{
		camAz:       180,
		camEl:       45,
		observer:    observer,
		now:         time.Now(),
		labelMode:   LabelFocused,
		starCatalog: astro.DefaultStarCatalog(),
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// SetTime sets the wall-clock time used to orient the sky.
func (m SkyViewModel) SetTime(t time.Time) SkyViewModel {
	m.now = t
	return m
}

// UpdateData rebuilds the sky from a state snapshot.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	var focusedIndex = -1
	if m.focusIdx < len(m.objects) {
		focusedIndex = m.objects[m.focusIdx].index
	}

	m.snapshot = snapshot
	m.objects = buildSkyObjects(snapshot, m.observer, m.now)
	if m.twilight {
		m.objects = brighterThan(m.objects, astro.TwilightAt(m.observer, m.now).LimitingMagnitude())
	}

	// Keep focus on the same star if it is still up
	m.focusIdx = 0
	for i, o := range m.objects {
		if o.index == focusedIndex {
			m.focusIdx = i
			break
		}
	}

	if !m.animating && len(m.objects) > 0 {
		coord := m.objects[m.focusIdx].coord
		m.camAz = coord.AzDeg
		m.camEl = coord.ElDeg
	}
	return m
}

// buildSkyObjects places every visible star of the snapshot above the horizon.
func buildSkyObjects(snapshot state.Snapshot, observer astro.Observer, now time.Time) []skyObject {
	var objs []skyObject
	for i, app := range snapshot.Appearances {
		if !app.Visible() {
			continue
		}
		coord := astro.DirectionToHorizontal(app.Direction, snapshot.Stars[i].DistanceLy, observer, now)
		if coord.ElDeg <= 0 {
			continue
		}
		objs = append(objs, skyObject{
			index: i,
			name:  starName(i, snapshot.Stars[i]),
			mag:   app.ApparentMagnitude(),
			color: app.Color,
			coord: coord,
		})
	}
	sort.SliceStable(objs, func(a, b int) bool { return objs[a].mag < objs[b].mag })
	return objs
}

// brighterThan keeps the objects at or above the limiting magnitude.
func brighterThan(objs []skyObject, limit float64) []skyObject {
	var kept []skyObject
	for _, o := range objs {
		if o.mag <= limit {
			kept = append(kept, o)
		}
	}
	return kept
}

func starName(i int, s stars.Star) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			return m.focusPrev()
		case "down", "j":
			return m.focusNext()
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "r":
			m.showReference = !m.showReference
		case "d":
			m.twilight = !m.twilight
			return m.UpdateData(m.snapshot), nil
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) focusNext() (SkyViewModel, tea.Cmd) {
	if len(m.objects) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.objects)
	return m.startAnimation()
}

func (m SkyViewModel) focusPrev() (SkyViewModel, tea.Cmd) {
	if len(m.objects) == 0 {
		return m, nil
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.objects) - 1
	}
	return m.startAnimation()
}

func (m SkyViewModel) startAnimation() (SkyViewModel, tea.Cmd) {
	if m.focusIdx >= len(m.objects) {
		return m, nil
	}

	coord := m.objects[m.focusIdx].coord
	m.animating = true
	m.animStartAz = m.camAz
	m.animStartEl = m.camEl
	m.animTargAz = coord.AzDeg
	m.animTargEl = coord.ElDeg
	m.animStart = time.Now()

	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	elapsed := time.Since(m.animStart)
	t := float64(elapsed) / float64(animDuration)

	if t >= 1.0 {
		m.animating = false
		m.camAz = m.animTargAz
		m.camEl = m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	m.camAz = lerpAngle(m.animStartAz, m.animTargAz, t)
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)

	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	// Reserve lines for header and status
	viewHeight := m.height - 4
	canvas := m.renderSkyCanvas(m.width, viewHeight)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(canvas)
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	title := titleStyle.Render("Sky View")
	site := dimStyle.Render(fmt.Sprintf("Lat:%.1f° Lon:%.1f°", m.observer.LatDeg, m.observer.LonDeg))

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelFocused:
		labelStr = accentStyle.Render("Labels: focus")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f°", m.camAz, m.camEl))
	epoch := accentStyle.Render("+" + stars.FormatYears(m.snapshot.YearsSinceEpoch))

	sky := astro.TwilightAt(m.observer, m.now).String()
	if m.twilight {
		sky = accentStyle.Render(sky)
	} else {
		sky = dimStyle.Render(sky + " (ignored)")
	}

	return fmt.Sprintf("%s | %s | %s | %s | %s | %s", title, site, labelStr, compass, epoch, sky)
}

func (m SkyViewModel) renderStatus() string {
	if len(m.objects) == 0 {
		return "No stars above the horizon"
	}
	if m.focusIdx >= len(m.objects) {
		return ""
	}

	o := m.objects[m.focusIdx]
	s := m.snapshot.Stars[o.index]
	p := s.At(m.snapshot.YearsSinceEpoch)

	line1 := fmt.Sprintf(">>> %s | Az:%.0f° El:%.0f° | mag %.2f | %s | %.0f K",
		o.name, o.coord.AzDeg, o.coord.ElDeg, o.mag,
		stars.FormatDistance(s.DistanceLy), p.TemperatureK)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocused))
	status := accentStyle.Render(line1)

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))
	line2 := fmt.Sprintf("    %.2f M☉, ends as a %s", p.MassSolar, s.Evolution.Fate())
	if ttd, ok := s.Evolution.TimeUntilDeath(m.snapshot.YearsSinceEpoch); ok {
		if ttd >= 0 {
			line2 += " in " + stars.FormatYears(ttd)
		} else {
			line2 += ", " + stars.FormatYears(-ttd) + " ago"
		}
	}

	_, dec := s.Direction.Equatorial()
	if astro.Circumpolar(m.observer, dec) {
		line2 += " | circumpolar"
	} else {
		line2 += fmt.Sprintf(" | culminates at %.0f°", astro.Culmination(m.observer, dec))
	}
	line2 += " (" + astro.GetElevationTier(o.coord.ElDeg).String() + ")"

	return status + "\n" + dimStyle.Render(line2)
}

// starPos tracks a drawn star for label rendering.
type starPos struct {
	x, y       int
	name       string
	isFocused  bool
	labelStart int
	labelEnd   int
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2

	// Real stars underneath the generated ones
	if m.showReference {
		for _, star := range m.starCatalog.Stars {
			eq := astro.SkyCoord{RAdeg: star.RAdeg, DecDeg: star.DecDeg}
			horiz := astro.EquatorialToHorizontal(eq, m.observer, m.now)
			if horiz.ElDeg <= 0 {
				continue
			}
			x, y, visible := m.projectToScreen(horiz.AzDeg, horiz.ElDeg, width, height)
			if !visible || x < 0 || x >= width || y < 0 || y >= horizonY {
				continue
			}
			glyph, _ := starGlyph(star.Mag)
			canvas[y][x] = glyph
			colors[y][x] = colorReference
		}
	}

	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}

	m.drawCardinal(canvas, colors, width, height, "N", 0)
	m.drawCardinal(canvas, colors, width, height, "E", 90)
	m.drawCardinal(canvas, colors, width, height, "S", 180)
	m.drawCardinal(canvas, colors, width, height, "W", 270)

	// Draw dimmest first so bright stars win shared cells
	var positions []starPos
	for i := len(m.objects) - 1; i >= 0; i-- {
		o := m.objects[i]
		x, y, visible := m.projectToScreen(o.coord.AzDeg, o.coord.ElDeg, width, height)
		if !visible || x < 0 || x >= width || y < 0 || y >= horizonY {
			continue
		}

		isFocused := i == m.focusIdx
		glyph, color := starGlyph(o.mag)
		if color == "" {
			color = lipgloss.Color(o.color.Hex())
		}
		if isFocused {
			glyph = glyphFocused
			color = colorFocused
		}
		canvas[y][x] = glyph
		colors[y][x] = color

		if isFocused || m.snapshot.Stars[o.index].Name != "" || o.mag < 1.5 {
			positions = append(positions, starPos{x: x, y: y, name: o.name, isFocused: isFocused})
		}
	}

	m.renderLabels(canvas, colors, width, horizonY, positions)

	// Observer marker at bottom center
	obsX := width / 2
	obsY := height - 1
	if obsY >= 0 && obsX < width {
		canvas[obsY][obsX] = '▲'
		colors[obsY][obsX] = "46"
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLabels draws star labels on the canvas based on label mode.
// The focused label takes priority in overlapping regions.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width, horizonY int, positions []starPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for i := range positions {
		pos := &positions[i]
		pos.labelStart = pos.x + 2
		labelLen := len([]rune(pos.name))
		if pos.isFocused {
			labelLen += 2
		}
		pos.labelEnd = pos.labelStart + labelLen
	}

	focusedClaims := make(map[int]map[int]bool) // y -> x -> claimed
	for _, pos := range positions {
		if !pos.isFocused {
			continue
		}
		if focusedClaims[pos.y] == nil {
			focusedClaims[pos.y] = make(map[int]bool)
		}
		for x := pos.labelStart; x < pos.labelEnd; x++ {
			focusedClaims[pos.y][x] = true
		}
	}

	for _, pos := range positions {
		showLabel := false
		switch m.labelMode {
		case LabelFocused:
			showLabel = pos.isFocused
		case LabelAll:
			showLabel = true
		}
		if !showLabel {
			continue
		}

		labelColor := lipgloss.Color(colorLabel)
		labelText := pos.name
		if pos.isFocused {
			labelColor = colorFocused
			labelText = "◄ " + pos.name
		}

		for i, r := range []rune(labelText) {
			x := pos.labelStart + i
			if x < 0 || x >= width || pos.y < 0 || pos.y >= horizonY {
				continue
			}
			if !pos.isFocused && focusedClaims[pos.y][x] {
				continue
			}
			canvas[pos.y][x] = r
			colors[pos.y][x] = labelColor
		}
	}
}

// starGlyph returns the glyph for a star of the given apparent magnitude.
// Bright stars keep their own color; faint ones fade to gray.
func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, ""
	case mag < 3.0:
		return glyphStarMedium, ""
	case mag < 4.5:
		return glyphStarDim, "250"
	default:
		return glyphStarVeryDim, "244"
	}
}

func (m SkyViewModel) drawCardinal(canvas [][]rune, colors [][]lipgloss.Color, width, height int, label string, az float64) {
	x, _, visible := m.projectToScreen(az, 0, width, height)
	if !visible {
		return
	}
	y := height - 2

	if x >= 0 && x < width && y >= 0 && y < height {
		canvas[y][x] = rune(label[0])
		colors[y][x] = "252"
	}
}

// projectToScreen converts az/el to screen coordinates relative to camera
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := el - m.camEl

	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if dEl < -fovEl/2 || dEl > fovEl/2 {
		return 0, 0, false
	}

	// X: -fovAz/2..+fovAz/2 -> 0..width
	// Y: +fovEl/2..-fovEl/2 -> 0..horizon (higher el = higher on screen)
	horizonY := height - 2

	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl/2 - dEl) / fovEl * float64(horizonY))

	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Init returns nil cmd
func (m SkyViewModel) Init() tea.Cmd {
	return nil
}
