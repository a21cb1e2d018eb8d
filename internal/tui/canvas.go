package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell styles. Runs of same-styled cells render as one lipgloss span.
type styleID byte

const (
	stylePlain styleID = iota
	styleEdge
	styleRoot
	styleChild
	styleTooltip
)

var cellStyles = map[styleID]lipgloss.Style{
	stylePlain:   lipgloss.NewStyle(),
	styleEdge:    lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	styleRoot:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	styleChild:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	styleTooltip: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
}

type cell struct {
	r rune
	s styleID
}

// canvas is a character grid the map renders into each frame.
type canvas struct {
	cols, rows int
	cells      []cell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', s: stylePlain}
	}
}

func (c *canvas) set(x, y int, r rune, s styleID) {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = cell{r: r, s: s}
}

// drawLine draws a Bresenham line of dots between two cells. Node labels
// drawn afterwards overwrite the dots they cross.
func (c *canvas) drawLine(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.set(x0, y0, '·', styleEdge)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawLabel centers a block of text lines on a cell.
func (c *canvas) drawLabel(cx, cy int, lines []string, s styleID) {
	top := cy - len(lines)/2
	for i, line := range lines {
		runes := []rune(line)
		left := cx - len(runes)/2
		for j, r := range runes {
			c.set(left+j, top+i, r, s)
		}
	}
}

// drawBox draws a text block with one cell of padding, clamped to the grid.
func (c *canvas) drawBox(x, y int, lines []string, s styleID) {
	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	width += 2
	if x+width > c.cols {
		x = c.cols - width
	}
	if y+len(lines) > c.rows {
		y = c.rows - len(lines)
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	for i, line := range lines {
		runes := []rune(line)
		for j := 0; j < width; j++ {
			r := ' '
			if j >= 1 && j-1 < len(runes) {
				r = runes[j-1]
			}
			c.set(x+j, y+i, r, s)
		}
	}
}

// String renders the grid, merging runs of equally styled cells.
func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.rows {
		var run strings.Builder
		runStyle := stylePlain
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle == stylePlain {
				b.WriteString(run.String())
			} else {
				b.WriteString(cellStyles[runStyle].Render(run.String()))
			}
			run.Reset()
		}
		for x := range c.cols {
			cl := c.cells[y*c.cols+x]
			if cl.s != runStyle {
				flush()
				runStyle = cl.s
			}
			run.WriteRune(cl.r)
		}
		flush()
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
