package tui

import "strings"

// Palette colors, as ANSI 256 indexes.
const (
	colorDesktop   = "236"
	colorBar       = "235"
	colorText      = "252"
	colorMuted     = "244"
	colorAccent    = "39"
	colorWarn      = "203"
	colorPanel     = "238"
	colorSelection = "24"
)

var (
	desktopPaint  = paint{fg: colorMuted, bg: colorDesktop}
	barPaint      = paint{fg: colorText, bg: colorBar}
	labelPaint    = paint{fg: colorAccent, bg: colorBar, bold: true}
	tabPaint      = paint{fg: colorMuted, bg: colorBar}
	activeTab     = paint{fg: colorText, bg: colorSelection, bold: true}
	minimizedTab  = paint{fg: colorMuted, bg: colorBar, faint: true}
	dockPaint     = paint{fg: colorText, bg: colorBar}
	dockNewPaint  = paint{fg: colorAccent, bg: colorBar, bold: true}
	panelPaint    = paint{fg: colorText, bg: colorPanel}
	panelBorder   = paint{fg: colorAccent, bg: colorPanel}
	selectedPaint = paint{fg: colorText, bg: colorSelection, bold: true}
	mutedPaint    = paint{fg: colorMuted, bg: colorPanel}
	closeBtnPaint = paint{fg: colorWarn, bold: true}
	statusPaint   = paint{fg: colorMuted, bg: colorBar}
)

// namedColors maps catalog color names onto ANSI indexes.
var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

// windowColor resolves a window accent. Hex and numeric colors pass
// through; unknown names fall back to the accent color.
func windowColor(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return colorAccent
	}
	if strings.HasPrefix(c, "#") {
		return c
	}
	if ansi, ok := namedColors[c]; ok {
		return ansi
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return colorAccent
		}
	}
	return c
}

// windowPaints returns the frame, title and body paints of a window.
func windowPaints(color string, active, ghost bool) (frame, title, body paint) {
	accent := windowColor(color)
	frame = paint{fg: accent}
	title = paint{fg: colorText, bold: active}
	body = paint{fg: colorMuted}
	if !active {
		frame.faint = true
		title.fg = colorMuted
	}
	if ghost {
		frame = paint{fg: colorMuted, faint: true}
		title = paint{fg: colorMuted, faint: true}
		body = paint{fg: colorMuted, faint: true}
	}
	return frame, title, body
}
