// Package render composes popup frames off-screen. Every call to Paint is
// a full recompute from the snapshot and state; the host uploads the
// returned image in one piece.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/jmylchreest/folderpop/internal/popup"
	"github.com/jmylchreest/folderpop/internal/snapshot"
)

const (
	textInset     = 12
	headerReserve = 36 // room kept free at the right of the title
	ringRadius    = 6
	ringWidth     = 2
)

// Options configures a Renderer.
type Options struct {
	Layout  popup.Layout
	Palette Palette
	Faces   Faces
	// Rings draws the hover and click highlight rings.
	Rings bool
}

// Renderer paints popup frames. It implements popup.Painter.
type Renderer struct {
	layout  popup.Layout
	palette Palette
	faces   Faces
	rings   bool
}

// New creates a renderer. Missing faces are loaded from the embedded fonts.
func New(opts Options) (*Renderer, error) {
	layout := opts.Layout
	if layout.Width == 0 || layout.Height == 0 {
		layout = popup.DefaultLayout()
	}
	faces := opts.Faces
	if faces.Title == nil || faces.Status == nil {
		loaded, err := LoadFaces(14, 11)
		if err != nil {
			return nil, err
		}
		faces = loaded
	}
	return &Renderer{
		layout:  layout,
		palette: opts.Palette,
		faces:   faces,
		rings:   opts.Rings,
	}, nil
}

// SetPalette switches colours, e.g. when the desktop colour scheme changes.
func (r *Renderer) SetPalette(p Palette) {
	r.palette = p
}

// Palette returns the palette in use.
func (r *Renderer) Palette() Palette {
	return r.palette
}

// Paint renders one frame.
func (r *Renderer) Paint(snap *snapshot.Snapshot, st popup.State) *image.RGBA {
	l := r.layout
	frame := image.NewRGBA(l.Bounds())
	p := r.palette

	fill(frame, l.Bounds(), p.Background)

	header := l.HeaderRect()
	fill(frame, header, p.Header)
	drawText(frame, r.faces.Title, p.Text,
		image.Rect(textInset, header.Min.Y, header.Max.X-headerReserve, header.Max.Y),
		snap.Title())

	status := l.StatusRect()
	fill(frame, status, p.StatusBand)
	drawText(frame, r.faces.Status, p.StatusText,
		image.Rect(textInset, status.Min.Y, status.Max.X-textInset, status.Max.Y),
		snap.StatusText())

	grid := l.GridRect()
	for i := range snap.Len() {
		cell := l.CellRect(i, st.Scroll)
		if !cell.Overlaps(grid) {
			continue
		}
		e, _ := snap.At(i)
		r.drawIcon(frame, grid, l.IconRect(i, st.Scroll), e.Icon)
	}

	if r.rings {
		r.drawRings(frame, grid, snap, st)
	}

	outline(frame, p.Border)
	return frame
}

func (r *Renderer) drawIcon(dst *image.RGBA, clip, at image.Rectangle, icon *snapshot.Icon) {
	img := icon.Image()
	if img == nil {
		fillRoundRect(dst, clip, at, 4, r.palette.Placeholder)
		return
	}
	if b := img.Bounds(); b.Dx() > at.Dx() || b.Dy() > at.Dy() {
		img = imaging.Fit(img, at.Dx(), at.Dy(), imaging.Lanczos)
	}
	b := img.Bounds()
	// Centre smaller icons in their square.
	off := image.Pt((at.Dx()-b.Dx())/2, (at.Dy()-b.Dy())/2)
	target := image.Rectangle{Min: at.Min.Add(off), Max: at.Min.Add(off).Add(b.Size())}
	sub := dst.SubImage(clip).(*image.RGBA)
	draw.Draw(sub, target, img, b.Min, draw.Over)
}

func (r *Renderer) drawRings(dst *image.RGBA, grid image.Rectangle, snap *snapshot.Snapshot, st popup.State) {
	l := r.layout
	if st.Hover != popup.NoIndex && st.Hover != st.Clicked && st.Hover < snap.Len() {
		strokeRoundRect(dst, grid, l.CellRect(st.Hover, st.Scroll).Inset(1), ringRadius, ringWidth, r.palette.Hover)
	}
	if st.Clicked != popup.NoIndex && st.Clicked < snap.Len() {
		c := Lerp(r.palette.Background, r.palette.Hover, st.Pulse.Alpha)
		strokeRoundRect(dst, grid, l.CellRect(st.Clicked, st.Scroll).Inset(1), ringRadius, ringWidth, c)
	}
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// outline draws a one pixel border around the frame.
func outline(dst *image.RGBA, c color.Color) {
	b := dst.Bounds()
	fill(dst, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1), c)
	fill(dst, image.Rect(b.Min.X, b.Max.Y-1, b.Max.X, b.Max.Y), c)
	fill(dst, image.Rect(b.Min.X, b.Min.Y, b.Min.X+1, b.Max.Y), c)
	fill(dst, image.Rect(b.Max.X-1, b.Min.Y, b.Max.X, b.Max.Y), c)
}
