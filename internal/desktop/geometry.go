package desktop

import "strings"

// Minimum window dimensions enforced by Resize.
const (
	MinWidth  = 300
	MinHeight = 200
)

// Rect describes a window frame in host-surface units.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Inset shrinks the rect by the given insets.
func (r Rect) Inset(in Insets) Rect {
	out := Rect{
		Left:   r.Left + in.Left,
		Top:    r.Top + in.Top,
		Width:  r.Width - in.Left - in.Right,
		Height: r.Height - in.Top - in.Bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Insets are per-edge margins.
type Insets struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// Direction identifies one of the eight resize handles.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [...]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

// String returns the compass abbreviation of the handle.
func (d Direction) String() string {
	if d < North || d > NorthWest {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection parses a compass abbreviation such as "ne".
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return 0, false
}

func (d Direction) north() bool { return d == North || d == NorthEast || d == NorthWest }
func (d Direction) south() bool { return d == South || d == SouthEast || d == SouthWest }
func (d Direction) east() bool  { return d == East || d == NorthEast || d == SouthEast }
func (d Direction) west() bool  { return d == West || d == NorthWest || d == SouthWest }
