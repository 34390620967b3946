package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// paint is a comparable cell style, so runs of equal cells can share one
// lipgloss render.
type paint struct {
	fg    string
	bg    string
	bold  bool
	faint bool
}

func (p paint) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if p.fg != "" {
		s = s.Foreground(lipgloss.Color(p.fg))
	}
	if p.bg != "" {
		s = s.Background(lipgloss.Color(p.bg))
	}
	return s.Bold(p.bold).Faint(p.faint)
}

type cell struct {
	r rune
	p paint
}

// canvas is a grid of styled character cells.
type canvas struct {
	width  int
	height int
	cells  [][]cell
}

func newCanvas(width, height int, base paint) *canvas {
	width, height = max(width, 0), max(height, 0)
	c := &canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{r: ' ', p: base}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if c.in(x, y) {
		c.cells[y][x] = cell{r: r, p: p}
	}
}

// text writes s from (x, y), clipped at maxX (exclusive).
func (c *canvas) text(x, y, maxX int, s string, p paint) {
	for _, r := range s {
		if x >= maxX {
			return
		}
		c.set(x, y, r, p)
		x++
	}
}

// fill paints the cell rectangle [x1,x2]x[y1,y2].
func (c *canvas) fill(x1, y1, x2, y2 int, r rune, p paint) {
	for y := max(y1, 0); y <= min(y2, c.height-1); y++ {
		for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
			c.cells[y][x] = cell{r: r, p: p}
		}
	}
}

// boxChars are the glyphs of one border style.
type boxChars struct {
	h, v, tl, tr, bl, br rune
}

var (
	singleBox = boxChars{'─', '│', '┌', '┐', '└', '┘'}
	doubleBox = boxChars{'═', '║', '╔', '╗', '╚', '╝'}
	dashedBox = boxChars{'┄', '┆', '┌', '┐', '└', '┘'}
)

// box draws a border around [x1,x2]x[y1,y2].
func (c *canvas) box(x1, y1, x2, y2 int, b boxChars, p paint) {
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x <= x2; x++ {
		c.set(x, y1, b.h, p)
		c.set(x, y2, b.h, p)
	}
	for y := y1; y <= y2; y++ {
		c.set(x1, y, b.v, p)
		c.set(x2, y, b.v, p)
	}
	c.set(x1, y1, b.tl, p)
	c.set(x2, y1, b.tr, p)
	c.set(x1, y2, b.bl, p)
	c.set(x2, y2, b.br, p)
}

// lines renders every row, grouping runs of equal paint.
func (c *canvas) lines() []string {
	out := make([]string, c.height)
	styles := make(map[paint]lipgloss.Style)
	var sb, run strings.Builder
	for y, row := range c.cells {
		sb.Reset()
		for x := 0; x < len(row); {
			p := row[x].p
			run.Reset()
			for x < len(row) && row[x].p == p {
				run.WriteRune(row[x].r)
				x++
			}
			st, ok := styles[p]
			if !ok {
				st = p.style()
				styles[p] = st
			}
			sb.WriteString(st.Render(run.String()))
		}
		out[y] = sb.String()
	}
	return out
}

// plain renders the grid without styling, for tests and logs.
func (c *canvas) plain() []string {
	out := make([]string, c.height)
	for y, row := range c.cells {
		rs := make([]rune, len(row))
		for x, cl := range row {
			rs[x] = cl.r
		}
		out[y] = string(rs)
	}
	return out
}
