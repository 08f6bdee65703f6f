package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	glyphCompleted  = "█"
	glyphIncomplete = "▒"
	glyphEmpty      = "·"

	defaultRadius = 4
	// fraction of the radius left hollow
	cutout = 0.55
)

// Donut is a two-segment ring chart: completed vs incomplete. Create it
// once and feed it new data with SetData.
type Donut struct {
	Labels [2]string
	Radius int

	data    [2]int
	updates int
}

func NewDonut(completed, incomplete int) *Donut {
	return &Donut{
		Labels: [2]string{"Completed", "Incomplete"},
		Radius: defaultRadius,
		data:   [2]int{completed, incomplete},
	}
}

// SetData replaces both segment values in place.
func (d *Donut) SetData(completed, incomplete int) {
	d.data = [2]int{completed, incomplete}
	d.updates++
}

func (d *Donut) Data() (completed, incomplete int) { return d.data[0], d.data[1] }

// Updates counts SetData calls since creation.
func (d *Donut) Updates() int { return d.updates }

func (d *Donut) Percent() float64 {
	total := d.data[0] + d.data[1]
	if total == 0 {
		return 0
	}
	return float64(d.data[0]) / float64(total) * 100
}

// Render draws the ring, percentage in the hole, and a legend below.
// Terminal cells are about twice as tall as wide, so x is halved.
func (d *Donut) Render(t Theme) string {
	r := d.Radius
	if r < 2 {
		r = 2
	}
	total := d.data[0] + d.data[1]
	frac := 0.0
	if total > 0 {
		frac = float64(d.data[0]) / float64(total)
	}
	pct := fmt.Sprintf("%d%%", int(math.Round(d.Percent())))
	inner := float64(r) * cutout
	outer := float64(r) + 0.5

	var b strings.Builder
	for y := -r; y <= r; y++ {
		row := make([]string, 0, 4*r+1)
		for x := -2 * r; x <= 2*r; x++ {
			dx := float64(x) / 2
			dist := math.Hypot(dx, float64(y))
			if dist < inner || dist > outer {
				row = append(row, " ")
				continue
			}
			switch {
			case total == 0:
				row = append(row, t.ChartEmpty.Render(glyphEmpty))
			case clockwise(dx, float64(y)) < frac:
				row = append(row, t.ChartCompleted.Render(glyphCompleted))
			default:
				row = append(row, t.ChartIncomplete.Render(glyphIncomplete))
			}
		}
		if y == 0 {
			row = overlayCenter(row, pct, t.Title)
		}
		b.WriteString(strings.TrimRight(strings.Join(row, ""), " "))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s %s %d\n", t.ChartCompleted.Render(glyphCompleted), d.Labels[0], d.data[0])
	fmt.Fprintf(&b, "%s %s %d", t.ChartIncomplete.Render(glyphIncomplete), d.Labels[1], d.data[1])
	return b.String()
}

// clockwise returns the angle of (dx, y) measured clockwise from 12
// o'clock, as a fraction of a full turn in [0, 1).
func clockwise(dx, y float64) float64 {
	a := math.Atan2(dx, -y)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a / (2 * math.Pi)
}

// overlayCenter writes label over the middle cells of row.
func overlayCenter(row []string, label string, style lipgloss.Style) []string {
	start := len(row)/2 - len(label)/2
	for i := range label {
		row[start+i] = ""
	}
	row[start] = style.Render(label)
	return row
}
