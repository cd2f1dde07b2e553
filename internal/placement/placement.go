// Package placement computes where the popup appears relative to the
// cursor, the monitor and the panel reserving part of it.
package placement

// Point is a screen coordinate.
type Point struct {
	X, Y int
}

// Size is a window size in pixels.
type Size struct {
	Width, Height int
}

// Rect is a screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the rectangle width.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the rectangle height.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Left >= r.Left && o.Top >= r.Top && o.Right <= r.Right && o.Bottom <= r.Bottom
}

// Edge is the monitor edge occupied by a panel.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "none"
	}
}

// ParseEdge parses an edge name. Unknown names map to EdgeNone.
func ParseEdge(s string) Edge {
	switch s {
	case "top":
		return EdgeTop
	case "bottom":
		return EdgeBottom
	case "left":
		return EdgeLeft
	case "right":
		return EdgeRight
	default:
		return EdgeNone
	}
}

// Result is the computed popup rectangle.
type Result struct {
	X, Y          int
	Width, Height int
	Edge          Edge // panel edge the popup was anchored to
}

// Rect returns the result as a rectangle.
func (r Result) Rect() Rect {
	return Rect{Left: r.X, Top: r.Y, Right: r.X + r.Width, Bottom: r.Y + r.Height}
}

// DetectPanelEdge compares the work area with the monitor bounds and
// returns the edge where space is reserved. Edges are checked top,
// bottom, left, right.
func DetectPanelEdge(work, bounds Rect) Edge {
	switch {
	case work.Top > bounds.Top:
		return EdgeTop
	case work.Bottom < bounds.Bottom:
		return EdgeBottom
	case work.Left > bounds.Left:
		return EdgeLeft
	case work.Right < bounds.Right:
		return EdgeRight
	default:
		return EdgeNone
	}
}

// Place positions a window of the given size near the cursor. The window
// is anchored flush against the panel edge when one is reserved, otherwise
// at the cursor with its bottom on the work area's bottom. The result is
// clamped into the work area; when the window is larger than the work
// area its top-left corner is pinned to the work area's top-left.
func Place(cursor Point, work, bounds Rect, size Size) Result {
	left, top := cursor.X, cursor.Y
	edge := DetectPanelEdge(work, bounds)

	switch edge {
	case EdgeTop:
		top = work.Top
	case EdgeBottom:
		top = work.Bottom - size.Height
	case EdgeLeft:
		left = work.Left
	case EdgeRight:
		left = work.Right - size.Width
	default:
		top = work.Bottom - size.Height
	}

	if left+size.Width > work.Right {
		left = work.Right - size.Width
	}
	if left < work.Left {
		left = work.Left
	}
	if top+size.Height > work.Bottom {
		top = work.Bottom - size.Height
	}
	if top < work.Top {
		top = work.Top
	}

	return Result{X: left, Y: top, Width: size.Width, Height: size.Height, Edge: edge}
}

// Inset returns bounds with size pixels reserved along edge. It builds a
// work area when the desktop does not report one.
func Inset(bounds Rect, edge Edge, size int) Rect {
	if size <= 0 {
		return bounds
	}
	work := bounds
	switch edge {
	case EdgeTop:
		work.Top += size
	case EdgeBottom:
		work.Bottom -= size
	case EdgeLeft:
		work.Left += size
	case EdgeRight:
		work.Right -= size
	}
	return work
}
