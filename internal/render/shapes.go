package render

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"
)

// roundRect adds a closed rounded rectangle to z. Reversing the winding of
// an inner path against an outer one cuts a hole.
func roundRect(z *vector.Rasterizer, x0, y0, x1, y1, radius float32, reverse bool) {
	r := min(radius, (x1-x0)/2, (y1-y0)/2)
	if !reverse {
		z.MoveTo(x0+r, y0)
		z.LineTo(x1-r, y0)
		z.QuadTo(x1, y0, x1, y0+r)
		z.LineTo(x1, y1-r)
		z.QuadTo(x1, y1, x1-r, y1)
		z.LineTo(x0+r, y1)
		z.QuadTo(x0, y1, x0, y1-r)
		z.LineTo(x0, y0+r)
		z.QuadTo(x0, y0, x0+r, y0)
		z.ClosePath()
		return
	}
	z.MoveTo(x0+r, y0)
	z.QuadTo(x0, y0, x0, y0+r)
	z.LineTo(x0, y1-r)
	z.QuadTo(x0, y1, x0+r, y1)
	z.LineTo(x1-r, y1)
	z.QuadTo(x1, y1, x1, y1-r)
	z.LineTo(x1, y0+r)
	z.QuadTo(x1, y0, x1-r, y0)
	z.ClosePath()
}

// fillRoundRect fills cell, clipped to clip, with an anti-aliased rounded
// rectangle.
func fillRoundRect(dst *image.RGBA, clip, cell image.Rectangle, radius float32, c color.Color) {
	clip = clip.Intersect(dst.Bounds())
	if clip.Empty() || !cell.Overlaps(clip) {
		return
	}
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	o := cell.Sub(clip.Min)
	roundRect(z, float32(o.Min.X), float32(o.Min.Y), float32(o.Max.X), float32(o.Max.Y), radius, false)
	z.Draw(dst, clip, image.NewUniform(c), image.Point{})
}

// strokeRoundRect draws a ring of the given width along the inside of cell,
// clipped to clip.
func strokeRoundRect(dst *image.RGBA, clip, cell image.Rectangle, radius, width float32, c color.Color) {
	clip = clip.Intersect(dst.Bounds())
	if clip.Empty() || !cell.Overlaps(clip) {
		return
	}
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	o := cell.Sub(clip.Min)
	x0, y0, x1, y1 := float32(o.Min.X), float32(o.Min.Y), float32(o.Max.X), float32(o.Max.Y)
	roundRect(z, x0, y0, x1, y1, radius, false)
	roundRect(z, x0+width, y0+width, x1-width, y1-width, max(radius-width, 0), true)
	z.Draw(dst, clip, image.NewUniform(c), image.Point{})
}
