package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/app"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/focus"
	"github.com/1broseidon/termdesk/internal/gesture"
)

// mode is what keyboard input currently drives.
type mode int

const (
	modeDesktop mode = iota
	modeMenu
	modeMove
	modeResize
)

// changeMsg reports that the session state moved under us.
type changeMsg struct{}

// waitForChange blocks on the session's change feed. The loop never sends
// into the program directly, so Update may block on the loop safely.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changeMsg{}
	}
}

// model is the root bubbletea model: a terminal host surface for one
// desktop session.
type model struct {
	sess  *app.Session
	frame app.Frame
	grid  grid

	keys  keyMap
	help  help.Model
	query textinput.Model

	mode       mode
	menuCursor int
	showHelp   bool
	status     string
	closed     bool
}

func newModel(sess *app.Session) model {
	cfg := sess.Config()
	q := textinput.New()
	q.Prompt = ""
	q.Placeholder = "search"
	q.CharLimit = 64

	h := help.New()
	h.ShowAll = true

	return model{
		sess:  sess,
		grid:  grid{cellW: cfg.Host.CellWidth, cellH: cfg.Host.CellHeight},
		keys:  newKeyMap(cfg.Launcher),
		help:  h,
		query: q,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.sess.Changes()))
}

// apply runs fn on the desktop loop and adopts the resulting frame.
func (m *model) apply(fn func()) {
	f, err := m.sess.Apply(context.Background(), fn)
	if err != nil {
		if errors.Is(err, desktop.ErrLoopClosed) {
			m.closed = true
		}
		m.status = err.Error()
		return
	}
	m.frame = f
	m.syncQuery()
}

// syncQuery keeps the text input focused exactly while the launcher is
// visible, however it was opened.
func (m *model) syncQuery() {
	visible := m.frame.Launcher.Visible
	switch {
	case visible && !m.query.Focused():
		m.query.Reset()
		m.query.SetValue(m.frame.Launcher.Query)
		m.query.Focus()
		m.mode = modeDesktop
	case !visible && m.query.Focused():
		m.query.Blur()
		m.query.Reset()
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.grid.width, m.grid.height = msg.Width, msg.Height
		host := m.grid.host()
		m.apply(func() { m.sess.Registry().SetHost(host) })

	case changeMsg:
		m.apply(nil)
		cmd = waitForChange(m.sess.Changes())

	case tea.BlurMsg:
		m.apply(func() {
			m.sess.Trigger().Reset()
			m.sess.Gestures().Abort()
			m.sess.Launcher().Hide()
		})
		m.mode = modeDesktop

	case tea.FocusMsg:
		m.apply(nil)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		cmd = m.handleKey(msg)
	}

	if m.closed {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	k := msg.String()

	// Every key the terminal reports is a non-modifier, so it cancels a
	// pending dwell.
	var cmd tea.Cmd
	m.apply(func() {
		m.sess.Trigger().KeyDown(k)
		switch {
		case m.frame.Launcher.Visible:
			cmd = m.launcherKey(msg)
		case m.mode == modeMenu:
			m.menuKey(msg)
		case m.mode == modeMove || m.mode == modeResize:
			m.gestureKey(msg)
		default:
			m.desktopKey(msg)
		}
	})
	return cmd
}

// launcherKey runs on the loop while the launcher is open.
func (m *model) launcherKey(msg tea.KeyMsg) tea.Cmd {
	l := m.sess.Launcher()
	switch {
	case key.Matches(msg, m.keys.Dismiss, m.keys.Launcher):
		l.Hide()
	case key.Matches(msg, m.keys.Up):
		l.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		l.MoveCursor(1)
	case key.Matches(msg, m.keys.Select):
		if _, err := l.SelectCursor(); err != nil {
			m.status = err.Error()
		}
	default:
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		l.SetQuery(m.query.Value())
		return cmd
	}
	return nil
}

// menuKey runs on the loop while the window menu is open.
func (m *model) menuKey(msg tea.KeyMsg) {
	n := len(focus.Commands)
	switch {
	case key.Matches(msg, m.keys.Dismiss, m.keys.Menu):
		m.mode = modeDesktop
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = (m.menuCursor - 1 + n) % n
	case key.Matches(msg, m.keys.Down):
		m.menuCursor = (m.menuCursor + 1) % n
	case key.Matches(msg, m.keys.Select):
		m.mode = modeDesktop
		m.dispatch(focus.Commands[m.menuCursor])
	}
}

// gestureKey nudges the keyboard move or resize session.
func (m *model) gestureKey(msg tea.KeyMsg) {
	s, ok := m.sess.Gestures().Current()
	if !ok {
		m.mode = modeDesktop
		return
	}
	switch {
	case key.Matches(msg, m.keys.Select):
		s.End()
		m.mode = modeDesktop
	case key.Matches(msg, m.keys.Dismiss):
		s.Revert()
		m.mode = modeDesktop
	default:
		head, ok := heading(msg.String())
		if !ok {
			return
		}
		dx, dy := gesture.Step(head, 1)
		s.Nudge(dx*m.grid.cellW, dy*m.grid.cellH)
	}
}

// desktopKey handles window management keys.
func (m *model) desktopKey(msg tea.KeyMsg) {
	reg := m.sess.Registry()
	active, hasActive := reg.Active()
	switch {
	case key.Matches(msg, m.keys.Launcher):
		m.sess.ToggleLauncher()
	case key.Matches(msg, m.keys.Menu):
		m.mode = modeMenu
		m.menuCursor = 0
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Dismiss):
		if m.showHelp {
			m.showHelp = false
			return
		}
		reg.ClearActive()
	case key.Matches(msg, m.keys.New):
		m.dispatch(focus.CommandNew)
	case key.Matches(msg, m.keys.Close):
		m.dispatch(focus.CommandClose)
	case key.Matches(msg, m.keys.Minimize):
		if hasActive {
			reg.Minimize(active)
		}
	case key.Matches(msg, m.keys.Maximize):
		if hasActive {
			if err := reg.ToggleMaximize(active); err != nil {
				m.status = err.Error()
			}
		}
	case key.Matches(msg, m.keys.Cycle):
		m.cycle(msg.String() == "shift+tab")
	case key.Matches(msg, m.keys.Navigate):
		head, _ := heading(strings.TrimPrefix(msg.String(), "alt+"))
		m.navigate(head)
	case key.Matches(msg, m.keys.Dock):
		m.sess.Dock().ActivateIndex(dockIndex(msg.String()))
	case key.Matches(msg, m.keys.Move):
		if hasActive && m.sess.Gestures().BeginDrag(active, 0, 0) != nil {
			m.mode = modeMove
		}
	case key.Matches(msg, m.keys.Resize):
		if hasActive && m.sess.Gestures().BeginResize(active, desktop.SouthEast, 0, 0) != nil {
			m.mode = modeResize
		}
	}
}

func (m *model) dispatch(cmd focus.Command) {
	if err := m.sess.Focus().Dispatch(cmd); err != nil {
		m.status = err.Error()
	}
}

// cycle focuses the next background tab, skipping minimized ones.
func (m *model) cycle(reverse bool) {
	tabs := m.sess.Focus().Tabs()
	var titles []string
	current := -1
	for _, t := range tabs {
		if t.Kind == focus.TabMinimized {
			continue
		}
		if t.Kind == focus.TabActive {
			current = len(titles)
		}
		titles = append(titles, t.Title)
	}
	if len(titles) == 0 {
		return
	}
	step := 1
	if reverse {
		step = -1
	}
	next := 0
	if current >= 0 {
		next = (current + step + len(titles)) % len(titles)
	}
	m.sess.Focus().ActivateTab(titles[next])
}

// navigate moves focus to the nearest visible window in a heading.
func (m *model) navigate(head gesture.Heading) {
	reg := m.sess.Registry()
	var (
		windows []*desktop.Window
		frames  []desktop.Rect
	)
	current := -1
	for _, w := range reg.Windows() {
		if w.State() == desktop.StateMinimized {
			continue
		}
		if w.Title() == reg.ActiveTitle() {
			current = len(windows)
		}
		windows = append(windows, w)
		frames = append(frames, w.Geometry())
	}
	if i := gesture.Neighbor(current, head, frames); i >= 0 {
		reg.Focus(windows[i])
	}
}

func heading(k string) (gesture.Heading, bool) {
	switch k {
	case "up":
		return gesture.HeadUp, true
	case "down":
		return gesture.HeadDown, true
	case "left":
		return gesture.HeadLeft, true
	case "right":
		return gesture.HeadRight, true
	}
	return 0, false
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	x, y := m.grid.point(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		if m.frame.Gesture != gesture.PhaseIdle {
			m.apply(func() { m.sess.Gestures().Move(x, y) })
		}
	case tea.MouseActionRelease:
		if m.frame.Gesture != gesture.PhaseIdle {
			m.apply(func() { m.sess.Gestures().Release(x, y) })
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.status = ""
		if m.showHelp {
			m.showHelp = false
			return
		}
		m.apply(func() { m.press(msg.X, msg.Y, x, y) })
	}
}

// press routes a left click at cell (col, row), host point (x, y). It runs
// on the loop.
func (m *model) press(col, row, x, y int) {
	m.sess.Trigger().Reset()

	if m.frame.Launcher.Visible {
		lv := m.frame.Launcher
		p := launcherPanel(m.grid.width, m.grid.height, len(lv.Entries), lv.Cursor)
		if !p.contains(col, row) {
			m.sess.Launcher().Hide()
			return
		}
		if i := p.item(col, row, len(lv.Entries)); i >= 0 {
			if _, err := m.sess.Launcher().SelectIndex(i); err != nil {
				m.status = err.Error()
			}
		}
		return
	}

	if m.mode == modeMenu {
		m.mode = modeDesktop
		p := menuPanel(m.grid.width, m.grid.height)
		if i := p.item(col, row, len(focus.Commands)); i >= 0 {
			m.dispatch(focus.Commands[i])
		}
		return
	}
	if m.mode == modeMove || m.mode == modeResize {
		m.sess.Gestures().Abort()
		m.mode = modeDesktop
	}

	switch row {
	case 0:
		s, ok := spanAt(barLayout(m.frame, m.grid.width), col)
		if !ok {
			return
		}
		switch s.kind {
		case spanMenu:
			m.mode = modeMenu
			m.menuCursor = 0
		case spanTab:
			m.sess.Focus().ActivateTab(s.title)
		}
		return
	case m.grid.height - 1:
		if s, ok := spanAt(dockLayout(m.frame, m.grid.width), col); ok {
			switch s.kind {
			case spanCreate:
				m.sess.Dock().Create()
			case spanDock:
				m.sess.Dock().Activate(s.title)
			}
			return
		}
	}

	reg := m.sess.Registry()
	info, z, dir := windowAt(m.grid, m.frame.Windows, col, row)
	w, ok := reg.Window(info.Title)
	if z == zoneNone || !ok {
		reg.ClearActive()
		return
	}
	switch z {
	case zoneClose:
		reg.Close(w)
	case zoneMaximize:
		if err := reg.ToggleMaximize(w); err != nil {
			m.status = err.Error()
		}
	case zoneMinimize:
		reg.Minimize(w)
	case zoneTitle:
		if w.State() == desktop.StateMaximized {
			reg.Focus(w)
			return
		}
		m.sess.Gestures().BeginDrag(w, x, y)
	case zoneEdge:
		m.sess.Gestures().BeginResize(w, dir, x, y)
	default:
		reg.Focus(w)
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.grid.width <= 0 || m.grid.height <= 0 {
		return ""
	}
	c := m.render()
	lines := c.lines()
	if m.showHelp {
		lines = m.overlayHelp(lines)
	}
	return strings.Join(lines, "\n")
}

// render paints the frame onto a fresh canvas.
func (m model) render() *canvas {
	g := m.grid
	c := newCanvas(g.width, g.height, desktopPaint)

	for _, info := range m.frame.Closing {
		m.drawWindow(c, info, true)
	}
	for _, info := range m.frame.Windows {
		m.drawWindow(c, info, info.State == desktop.StateMinimized)
	}

	m.drawDock(c)
	m.drawBar(c)

	switch {
	case m.frame.Launcher.Visible:
		m.drawLauncher(c)
	case m.mode == modeMenu:
		m.drawMenu(c)
	}
	return c
}

func (m model) drawWindow(c *canvas, info desktop.WindowInfo, ghost bool) {
	x1, y1, x2, y2 := m.grid.cells(info.Geometry)
	if x2-x1 < 2 || y2-y1 < 1 {
		return
	}
	ghost = ghost || info.Opacity < 1
	framePaint, titlePaint, bodyPaint := windowPaints(info.Color, info.Active, ghost)

	c.fill(x1+1, y1+1, x2-1, y2-1, ' ', bodyPaint)
	border := singleBox
	switch {
	case ghost:
		border = dashedBox
	case info.Active:
		border = doubleBox
	}
	c.box(x1, y1, x2, y2, border, framePaint)

	title := info.Title
	if info.Icon != "" {
		title = info.Icon + " " + title
	}
	buttons := x2-x1 >= 10
	titleEnd := x2
	if buttons {
		titleEnd = x2 - 7
	}
	c.text(x1+2, y1, titleEnd, " "+title+" ", titlePaint)
	if buttons {
		maxGlyph := '□'
		if info.State == desktop.StateMaximized {
			maxGlyph = '❐'
		}
		c.set(x2-6, y1, '_', titlePaint)
		c.set(x2-4, y1, maxGlyph, titlePaint)
		btn := closeBtnPaint
		if ghost {
			btn = titlePaint
		}
		c.set(x2-2, y1, '×', btn)
	}

	if y2-y1 >= 3 {
		geo := info.Geometry
		detail := fmt.Sprintf("%d×%d at %d,%d", geo.Width, geo.Height, geo.Left, geo.Top)
		c.text(x1+2, y1+2, x2-1, detail, bodyPaint)
		state := info.StateName
		if info.Transition != "" {
			state += " (" + string(info.Transition) + ")"
		}
		c.text(x1+2, y1+3, x2-1, state, bodyPaint)
	}
}

func (m model) drawBar(c *canvas) {
	c.fill(0, 0, c.width-1, 0, ' ', barPaint)
	for _, s := range barLayout(m.frame, c.width) {
		p := barPaint
		switch s.kind {
		case spanLabel:
			p = labelPaint
		case spanMenu:
			p.bold = true
		case spanTab:
			switch s.tab {
			case focus.TabActive:
				p = activeTab
			case focus.TabMinimized:
				p = minimizedTab
			default:
				p = tabPaint
			}
		}
		c.text(s.start, 0, s.end, s.text, p)
	}
}

func (m model) drawDock(c *canvas) {
	row := c.height - 1
	if row < barRows {
		return
	}
	c.fill(0, row, c.width-1, row, ' ', dockPaint)
	end := 0
	for _, s := range dockLayout(m.frame, c.width) {
		p := dockPaint
		if s.kind == spanCreate {
			p = dockNewPaint
		}
		c.text(s.start, row, s.end, s.text, p)
		end = s.end
	}

	status := m.statusText()
	if status == "" {
		return
	}
	start := max(end+1, c.width-len([]rune(status))-1)
	c.text(start, row, c.width, status, statusPaint)
}

func (m model) statusText() string {
	switch {
	case m.status != "":
		return m.status
	case m.mode == modeMove:
		return "move: arrows, enter to drop, esc to revert"
	case m.mode == modeResize:
		return "resize: arrows, enter to keep, esc to revert"
	case m.frame.Gesture != gesture.PhaseIdle:
		return m.frame.Gesture.String() + " " + m.frame.Active
	}
	return hint(m.keys.Launcher, m.keys.Help, m.keys.Quit)
}

// hint renders bindings as unstyled "key desc" pairs for the dock row.
func hint(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m model) drawLauncher(c *canvas) {
	lv := m.frame.Launcher
	p := launcherPanel(c.width, c.height, len(lv.Entries), lv.Cursor)
	border := panelBorder
	if lv.Transition != "" {
		border.faint = true
	}
	c.fill(p.x1, p.y1, p.x2, p.y2, ' ', panelPaint)
	c.box(p.x1, p.y1, p.x2, p.y2, doubleBox, border)
	c.text(p.x1+2, p.y1, p.x2, " Launch ", border)

	// Query line with a block cursor at the input position.
	c.text(p.x1+2, p.y1+1, p.x2, "› ", border)
	qx := p.x1 + 4
	value := m.query.Value()
	if value == "" {
		c.text(qx+1, p.y1+1, p.x2, m.query.Placeholder, mutedPaint)
	} else {
		c.text(qx, p.y1+1, p.x2, value, panelPaint)
	}
	cursor := qx + m.query.Position()
	if cursor < p.x2 {
		r := ' '
		if pos := m.query.Position(); pos < len([]rune(value)) {
			r = []rune(value)[pos]
		}
		c.set(cursor, p.y1+1, r, selectedPaint)
	}
	for x := p.x1 + 1; x < p.x2; x++ {
		c.set(x, p.y1+2, '─', mutedPaint)
	}

	if len(lv.Entries) == 0 {
		c.text(p.x1+2, p.listTop, p.x2, "no matches", mutedPaint)
		return
	}
	for row := 0; row < p.rows; row++ {
		i := p.offset + row
		if i >= len(lv.Entries) {
			break
		}
		e := lv.Entries[i]
		y := p.listTop + row
		ep := panelPaint
		if i == lv.Cursor {
			ep = selectedPaint
			c.fill(p.x1+1, y, p.x2-1, y, ' ', ep)
		}
		icon := e.Icon
		if icon == "" {
			icon = " "
		}
		c.text(p.x1+2, y, p.x2, icon+" "+e.Title, ep)
		size := fmt.Sprintf("%d×%d", e.Width, e.Height)
		c.text(p.x2-1-len([]rune(size)), y, p.x2, size, ep)
	}
}

func (m model) drawMenu(c *canvas) {
	p := menuPanel(c.width, c.height)
	c.fill(p.x1, p.y1, p.x2, p.y2, ' ', panelPaint)
	c.box(p.x1, p.y1, p.x2, p.y2, singleBox, panelBorder)
	for row := 0; row < p.rows && row < len(focus.Commands); row++ {
		y := p.listTop + row
		ep := panelPaint
		if row == m.menuCursor {
			ep = selectedPaint
			c.fill(p.x1+1, y, p.x2-1, y, ' ', ep)
		}
		c.text(p.x1+2, y, p.x2, menuLabel(focus.Commands[row]), ep)
	}
}

func menuLabel(cmd focus.Command) string {
	s := strings.ReplaceAll(string(cmd), "-", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// overlayHelp replaces the rows above the dock with the full key help.
func (m model) overlayHelp(lines []string) []string {
	m.help.Width = m.grid.width
	box := lipgloss.NewStyle().
		Width(m.grid.width).
		Padding(0, 1).
		Background(lipgloss.Color(colorBar)).
		Render(m.help.View(m.keys))
	helpLines := strings.Split(box, "\n")
	end := len(lines) - 1
	start := max(end-len(helpLines), barRows)
	for i := start; i < end; i++ {
		lines[i] = helpLines[i-start]
	}
	return lines
}
