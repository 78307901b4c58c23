package stars

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/litescript/ls-stellar/internal/astro"
)

// MiniSkyConfig configures the ASCII sky chart.
type MiniSkyConfig struct {
	Width    int
	Height   int
	Observer astro.Observer
	Time     time.Time
	Legend   int // brightest stars listed under the chart
}

// DefaultMiniSkyConfig returns a chart sized for an 80-column terminal.
func DefaultMiniSkyConfig(obs astro.Observer, t time.Time) MiniSkyConfig {
	return MiniSkyConfig{
		Width:    60,
		Height:   12,
		Observer: obs,
		Time:     t,
		Legend:   5,
	}
}

type plotted struct {
	name   string
	mag    float64
	az, el float64
}

// WriteMiniSky draws the visible stars above the horizon as an
// azimuth/elevation chart with north at both edges.
func WriteMiniSky(w io.Writer, population []Star, yearsSinceEpoch float64, cfg MiniSkyConfig) {
	var objs []plotted
	for i, s := range population {
		app := s.Appearance(yearsSinceEpoch)
		if !app.Visible() {
			continue
		}
		coord := astro.DirectionToHorizontal(s.Direction, s.DistanceLy, cfg.Observer, cfg.Time)
		if coord.ElDeg <= 0 {
			continue
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		objs = append(objs, plotted{name: name, mag: app.ApparentMagnitude(), az: coord.AzDeg, el: coord.ElDeg})
	}

	if len(objs) == 0 {
		fmt.Fprintln(w, "No visible stars above the horizon")
		return
	}
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].mag < objs[j].mag })

	grid := make([][]rune, cfg.Height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cfg.Width))
	}

	// Dimmest first so bright stars win shared cells
	for i := len(objs) - 1; i >= 0; i-- {
		o := objs[i]
		x := int(o.az / 360 * float64(cfg.Width))
		y := int((90 - o.el) / 90 * float64(cfg.Height))
		x = min(max(x, 0), cfg.Width-1)
		y = min(max(y, 0), cfg.Height-1)
		grid[y][x] = miniGlyph(o.mag)
	}

	fmt.Fprintf(w, "Sky from %.1f°, %.1f° @ %s\n",
		cfg.Observer.LatDeg, cfg.Observer.LonDeg, cfg.Time.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, "┌"+strings.Repeat("─", cfg.Width)+"┐")
	for _, row := range grid {
		fmt.Fprintln(w, "│"+string(row)+"│")
	}
	fmt.Fprintln(w, "└"+strings.Repeat("─", cfg.Width)+"┘")
	fmt.Fprintln(w, compassRuler(cfg.Width))

	n := min(cfg.Legend, len(objs))
	for _, o := range objs[:n] {
		fmt.Fprintf(w, "  %c %-16s mag %5.2f  Az %3.0f° El %2.0f°\n",
			miniGlyph(o.mag), truncateStr(o.name, 16), o.mag, o.az, o.el)
	}
	if len(objs) > n {
		fmt.Fprintf(w, "  ... and %d more\n", len(objs)-n)
	}
}

func miniGlyph(mag float64) rune {
	switch {
	case mag < 1.5:
		return '*'
	case mag < 3:
		return '+'
	case mag < 4.5:
		return '.'
	default:
		return '\''
	}
}

// compassRuler places N E S W under the chart columns.
func compassRuler(width int) string {
	ruler := []rune(strings.Repeat(" ", width+2))
	for i, c := range "NESW" {
		ruler[1+i*width/4] = c
	}
	return string(ruler)
}
