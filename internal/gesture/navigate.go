package gesture

import "github.com/1broseidon/termdesk/internal/desktop"

// Heading is an arrow-key direction used for keyboard focus navigation.
type Heading int

const (
	HeadUp Heading = iota
	HeadDown
	HeadLeft
	HeadRight
)

// Neighbor picks the index of the frame nearest to frames[current] in the
// given heading, measured center to center with Manhattan distance. When
// nothing lies in that heading it wraps to the frame furthest in the
// opposite heading, preferring the same row or column. It returns current
// when there is nothing else to choose.
func Neighbor(current int, head Heading, frames []desktop.Rect) int {
	if current < 0 || current >= len(frames) {
		if len(frames) == 0 {
			return -1
		}
		return 0
	}

	cx, cy := center(frames[current])

	best, bestDist := -1, 0
	for i, f := range frames {
		if i == current {
			continue
		}
		fx, fy := center(f)
		var ahead bool
		switch head {
		case HeadUp:
			ahead = fy < cy
		case HeadDown:
			ahead = fy > cy
		case HeadLeft:
			ahead = fx < cx
		case HeadRight:
			ahead = fx > cx
		}
		if !ahead {
			continue
		}
		dist := abs(fx-cx) + abs(fy-cy)
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		return best
	}

	// Wrap around to the far edge.
	bestScore := 0
	for i, f := range frames {
		if i == current {
			continue
		}
		fx, fy := center(f)
		var score int
		switch head {
		case HeadUp:
			score = fy*10000 - abs(fx-cx)
		case HeadDown:
			score = -fy*10000 - abs(fx-cx)
		case HeadLeft:
			score = fx*10000 - abs(fy-cy)
		case HeadRight:
			score = -fx*10000 - abs(fy-cy)
		}
		if best == -1 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return best
	}
	return current
}

// Step converts a heading into a delta of the given size.
func Step(head Heading, size int) (dx, dy int) {
	switch head {
	case HeadUp:
		return 0, -size
	case HeadDown:
		return 0, size
	case HeadLeft:
		return -size, 0
	case HeadRight:
		return size, 0
	}
	return 0, 0
}

func center(r desktop.Rect) (int, int) {
	return r.Left + r.Width/2, r.Top + r.Height/2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
