package tui

import (
	"github.com/1broseidon/termdesk/internal/app"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/focus"
)

// barRows is the height of the title bar above the desktop.
const barRows = 1

// grid maps host units onto terminal cells. Row 0 is the title bar, the
// desktop starts at row barRows and the last row holds the dock.
type grid struct {
	cellW  int
	cellH  int
	width  int
	height int
}

// host is the surface covered by desktop rows, title bar excluded.
func (g grid) host() desktop.Rect {
	return desktop.Rect{Width: g.width * g.cellW, Height: max(g.height-barRows, 0) * g.cellH}
}

// cells converts a host rectangle into inclusive cell bounds.
func (g grid) cells(r desktop.Rect) (x1, y1, x2, y2 int) {
	x1 = floorDiv(r.Left, g.cellW)
	y1 = barRows + floorDiv(r.Top, g.cellH)
	x2 = floorDiv(r.Right()-1, g.cellW)
	y2 = barRows + floorDiv(r.Bottom()-1, g.cellH)
	return x1, y1, x2, y2
}

// point returns the host coordinates at the center of a cell.
func (g grid) point(col, row int) (x, y int) {
	return col*g.cellW + g.cellW/2, (row-barRows)*g.cellH + g.cellH/2
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

type spanKind int

const (
	spanMenu spanKind = iota
	spanLabel
	spanTab
	spanCreate
	spanDock
)

// span is a clickable run of cells [start, end) on a single row.
type span struct {
	kind  spanKind
	start int
	end   int
	text  string
	title string
	index int
	tab   focus.TabKind
}

func (s span) contains(col int) bool { return col >= s.start && col < s.end }

// layoutRow places texts left to right, dropping whatever no longer fits.
func layoutRow(width int, items []span) []span {
	out := make([]span, 0, len(items))
	col := 0
	for _, it := range items {
		n := len([]rune(it.text))
		if col+n > width {
			break
		}
		it.start, it.end = col, col+n
		out = append(out, it)
		col += n
	}
	return out
}

// barLayout lays out the title bar: menu button, label, then tabs.
func barLayout(f app.Frame, width int) []span {
	items := []span{
		{kind: spanMenu, text: " ≡ "},
		{kind: spanLabel, text: " " + f.Label + " "},
	}
	for i, t := range f.Tabs {
		text := " " + t.Title + " "
		if t.Icon != "" {
			text = " " + t.Icon + " " + t.Title + " "
		}
		items = append(items, span{kind: spanTab, text: text, title: t.Title, index: i, tab: t.Kind})
	}
	return layoutRow(width, items)
}

// dockLayout lays out the dock row: the create button, then one slot per
// minimized window.
func dockLayout(f app.Frame, width int) []span {
	items := []span{{kind: spanCreate, text: " + "}}
	for i, e := range f.Dock {
		icon := e.Icon
		if icon == "" {
			icon = "▪"
		}
		items = append(items, span{kind: spanDock, text: " " + icon + " " + e.Title + " ", title: e.Title, index: i})
	}
	return layoutRow(width, items)
}

func spanAt(spans []span, col int) (span, bool) {
	for _, s := range spans {
		if s.contains(col) {
			return s, true
		}
	}
	return span{}, false
}

// panel is an overlay box with a scrolling list.
type panel struct {
	x1, y1, x2, y2 int
	listTop        int
	rows           int
	offset         int
}

// launcherPanel centers the launcher over the desktop rows. The first inner
// row holds the query; entries follow.
func launcherPanel(width, height, entries, cursor int) panel {
	w := min(max(width*2/5, 30), width-2)
	h := min(entries+4, max(height-barRows-3, 5))
	x1 := (width - w) / 2
	y1 := barRows + max((height-barRows-1-h)/2, 0)
	p := panel{x1: x1, y1: y1, x2: x1 + w - 1, y2: y1 + h - 1, listTop: y1 + 3}
	p.rows = max(p.y2-p.listTop, 0)
	if cursor >= p.rows {
		p.offset = cursor - p.rows + 1
	}
	return p
}

// item returns the list index under (col, row), or -1.
func (p panel) item(col, row, n int) int {
	if col <= p.x1 || col >= p.x2 || row < p.listTop || row >= p.listTop+p.rows {
		return -1
	}
	i := p.offset + row - p.listTop
	if i >= n {
		return -1
	}
	return i
}

func (p panel) contains(col, row int) bool {
	return col >= p.x1 && col <= p.x2 && row >= p.y1 && row <= p.y2
}

// menuPanel drops the window menu below the menu button.
func menuPanel(width, height int) panel {
	w := min(20, width)
	h := min(len(focus.Commands)+2, max(height-barRows-1, 3))
	p := panel{x1: 0, y1: barRows, x2: w - 1, y2: barRows + h - 1, listTop: barRows + 1}
	p.rows = max(p.y2-p.listTop, 0)
	return p
}

type zone int

const (
	zoneNone zone = iota
	zoneBody
	zoneTitle
	zoneMinimize
	zoneMaximize
	zoneClose
	zoneEdge
)

// windowZone classifies a cell inside a window's frame. Edge zones report
// the resize handle; the title row is reserved for dragging and buttons.
func windowZone(g grid, info desktop.WindowInfo, col, row int) (zone, desktop.Direction) {
	x1, y1, x2, y2 := g.cells(info.Geometry)
	if col < x1 || col > x2 || row < y1 || row > y2 {
		return zoneNone, 0
	}
	if row == y1 {
		if x2-x1 >= 10 {
			switch col {
			case x2 - 2:
				return zoneClose, 0
			case x2 - 4:
				return zoneMaximize, 0
			case x2 - 6:
				return zoneMinimize, 0
			}
		}
		if info.State != desktop.StateMaximized {
			switch col {
			case x1:
				return zoneEdge, desktop.NorthWest
			case x2:
				return zoneEdge, desktop.NorthEast
			}
		}
		return zoneTitle, 0
	}
	if info.State == desktop.StateMaximized {
		return zoneBody, 0
	}
	switch {
	case row == y2 && col == x1:
		return zoneEdge, desktop.SouthWest
	case row == y2 && col == x2:
		return zoneEdge, desktop.SouthEast
	case row == y2:
		return zoneEdge, desktop.South
	case col == x1:
		return zoneEdge, desktop.West
	case col == x2:
		return zoneEdge, desktop.East
	}
	return zoneBody, 0
}

// windowAt returns the topmost frame window under a cell. Frame windows are
// in paint order, so the last hit wins.
func windowAt(g grid, windows []desktop.WindowInfo, col, row int) (desktop.WindowInfo, zone, desktop.Direction) {
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if w.State == desktop.StateMinimized {
			continue
		}
		if z, dir := windowZone(g, w, col, row); z != zoneNone {
			return w, z, dir
		}
	}
	return desktop.WindowInfo{}, zoneNone, 0
}
