package popup

import "image"

// Layout is the popup's fixed geometry in window coordinates.
type Layout struct {
	Width        int
	Height       int
	HeaderHeight int
	StatusHeight int
	IconSize     int
	IconPadding  int
}

// DefaultLayout returns the stock popup geometry.
func DefaultLayout() Layout {
	return Layout{
		Width:        320,
		Height:       400,
		HeaderHeight: 36,
		StatusHeight: 24,
		IconSize:     32,
		IconPadding:  8,
	}
}

// CellSize is the side of one square icon cell.
func (l Layout) CellSize() int {
	return l.IconSize + 2*l.IconPadding
}

// Columns is the number of cells per grid row, at least one.
func (l Layout) Columns() int {
	cell := l.CellSize()
	if cell <= 0 {
		return 1
	}
	return max(1, l.Width/cell)
}

// Bounds is the whole window.
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.Width, l.Height)
}

// HeaderRect is the title band.
func (l Layout) HeaderRect() image.Rectangle {
	return image.Rect(0, 0, l.Width, l.HeaderHeight)
}

// StatusRect is the status band at the bottom.
func (l Layout) StatusRect() image.Rectangle {
	return image.Rect(0, l.Height-l.StatusHeight, l.Width, l.Height)
}

// GridRect is the area between header and status band holding the icons.
func (l Layout) GridRect() image.Rectangle {
	return image.Rect(0, l.HeaderHeight, l.Width, l.Height-l.StatusHeight)
}

// gridInset centres the columns horizontally.
func (l Layout) gridInset() int {
	return (l.Width - l.Columns()*l.CellSize()) / 2
}

// CellRect returns the window rectangle of cell i at the given vertical
// scroll offset. The rectangle may fall outside GridRect when scrolled.
func (l Layout) CellRect(i, scroll int) image.Rectangle {
	cell := l.CellSize()
	cols := l.Columns()
	x := l.gridInset() + (i%cols)*cell
	y := l.HeaderHeight + (i/cols)*cell - scroll
	return image.Rect(x, y, x+cell, y+cell)
}

// IconRect returns the icon square centred in cell i.
func (l Layout) IconRect(i, scroll int) image.Rectangle {
	c := l.CellRect(i, scroll)
	return image.Rect(c.Min.X+l.IconPadding, c.Min.Y+l.IconPadding,
		c.Min.X+l.IconPadding+l.IconSize, c.Min.Y+l.IconPadding+l.IconSize)
}

// ContentHeight is the total height of count cells laid out in rows.
func (l Layout) ContentHeight(count int) int {
	if count <= 0 {
		return 0
	}
	cols := l.Columns()
	rows := (count + cols - 1) / cols
	return rows * l.CellSize()
}

// MaxScroll is the largest useful scroll offset for count entries.
func (l Layout) MaxScroll(count int) int {
	return max(0, l.ContentHeight(count)-l.GridRect().Dy())
}

// HitTest maps a window point to an entry index, or -1 when the point is
// outside the grid or over an empty cell.
func (l Layout) HitTest(p image.Point, count, scroll int) int {
	if !p.In(l.GridRect()) {
		return -1
	}
	cell := l.CellSize()
	if cell <= 0 {
		return -1
	}
	x := p.X - l.gridInset()
	y := p.Y - l.HeaderHeight + scroll
	if x < 0 || y < 0 {
		return -1
	}
	col := x / cell
	if col >= l.Columns() {
		return -1
	}
	i := (y/cell)*l.Columns() + col
	if i >= count {
		return -1
	}
	return i
}

// InHeader reports whether p lies on the title band.
func (l Layout) InHeader(p image.Point) bool {
	return p.In(l.HeaderRect())
}
