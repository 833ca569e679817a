package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cptspacemanspiff/watt-monitor/internal/chart"
)

// yLabelWidth is the left gutter holding axis values.
const yLabelWidth = 6

// brailleBase plus a dot bitmask yields the cell's rune. Each terminal cell
// holds a 2x4 dot grid.
const brailleBase = 0x2800

var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas is a braille dot grid: width*2 dot columns by height*4 dot rows.
type canvas struct {
	width  int
	height int
	cells  []rune
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, cells: make([]rune, width*height)}
	for i := range c.cells {
		c.cells[i] = brailleBase
	}
	return c
}

func (c *canvas) setDot(x, y int) {
	if x < 0 || y < 0 || x >= c.width*2 || y >= c.height*4 {
		return
	}
	c.cells[(y/4)*c.width+x/2] |= brailleDots[y%4][x%2]
}

// lineTo draws a dot line between two dot coordinates by stepping the longer
// axis one dot at a time.
func (c *canvas) lineTo(x1, y1, x2, y2 int) {
	dx, dy := x2-x1, y2-y1
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		c.setDot(x1, y1)
		return
	}
	for i := 0; i <= steps; i++ {
		c.setDot(x1+dx*i/steps, y1+dy*i/steps)
	}
}

func (c *canvas) rows() []string {
	rows := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		rows[y] = string(c.cells[y*c.width : (y+1)*c.width])
	}
	return rows
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// renderChart draws one series as a braille line chart with a y-value gutter,
// a sleep-marker axis row, and the snapshot's time labels.
func renderChart(title string, pts []chart.Point, snap chart.Snapshot, yMin, yMax float64, width, height int, style lipgloss.Style) string {
	if yMax-yMin < 1e-9 {
		yMax = yMin + 1
	}

	c := newCanvas(width, height)
	dotW := float64(width*2 - 1)
	dotH := float64(height*4 - 1)

	toDot := func(p chart.Point) (int, int) {
		x := int(p.X / snap.XMax * dotW)
		yFrac := (p.Y - yMin) / (yMax - yMin)
		if yFrac < 0 {
			yFrac = 0
		}
		if yFrac > 1 {
			yFrac = 1
		}
		return x, int((1 - yFrac) * dotH)
	}

	for i := 1; i < len(pts); i++ {
		x1, y1 := toDot(pts[i-1])
		x2, y2 := toDot(pts[i])
		c.lineTo(x1, y1, x2, y2)
	}
	if len(pts) == 1 {
		c.setDot(toDot(pts[0]))
	}

	gutter := strings.Repeat(" ", yLabelWidth)
	var b strings.Builder
	b.WriteString(gutter)
	b.WriteString(axisStyle.Render(title))
	b.WriteByte('\n')

	for i, row := range c.rows() {
		switch i {
		case 0:
			b.WriteString(axisStyle.Render(fmt.Sprintf("%*.0f ", yLabelWidth-1, yMax)))
		case height - 1:
			b.WriteString(axisStyle.Render(fmt.Sprintf("%*.0f ", yLabelWidth-1, yMin)))
		default:
			b.WriteString(gutter)
		}
		b.WriteString(style.Render(row))
		b.WriteByte('\n')
	}

	b.WriteString(gutter)
	b.WriteString(markerRow(snap, width))
	b.WriteByte('\n')

	b.WriteString(gutter)
	b.WriteString(axisStyle.Render(labelRow(snap.Labels, width)))
	return b.String()
}

// markerRow renders the x axis with a sleep glyph at each elided period.
func markerRow(snap chart.Snapshot, width int) string {
	axis := make([]bool, width)
	for _, mk := range snap.Markers {
		cell := int(mk.X / snap.XMax * float64(width-1))
		if cell >= 0 && cell < width {
			axis[cell] = true
		}
	}

	var b strings.Builder
	run := make([]rune, 0, width)
	flush := func(style lipgloss.Style) {
		if len(run) > 0 {
			b.WriteString(style.Render(string(run)))
			run = run[:0]
		}
	}
	for _, isMarker := range axis {
		if isMarker {
			flush(axisStyle)
			b.WriteString(sleepStyle.Render("⏾"))
			continue
		}
		run = append(run, '─')
	}
	flush(axisStyle)
	return b.String()
}

// labelRow lays the start/mid/end time labels across the axis width.
func labelRow(labels [3]string, width int) string {
	row := []rune(strings.Repeat(" ", width))
	place := func(s string, at int) {
		for i, r := range s {
			if at+i >= 0 && at+i < width {
				row[at+i] = r
			}
		}
	}
	place(labels[0], 0)
	place(labels[1], (width-len(labels[1]))/2)
	place(labels[2], width-len(labels[2]))
	return string(row)
}
