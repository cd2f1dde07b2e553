package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const ellipsis = "…"

// Faces holds the fonts used for the header and status band.
type Faces struct {
	Title  font.Face
	Status font.Face
}

// LoadFaces parses the embedded Go fonts at the given pixel sizes.
func LoadFaces(titleSize, statusSize float64) (Faces, error) {
	title, err := newFace(gomedium.TTF, titleSize)
	if err != nil {
		return Faces{}, fmt.Errorf("title font: %w", err)
	}
	status, err := newFace(goregular.TTF, statusSize)
	if err != nil {
		return Faces{}, fmt.Errorf("status font: %w", err)
	}
	return Faces{Title: title, Status: status}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Ellipsize shortens s so that it fits in maxWidth pixels, ending it with
// an ellipsis when anything was cut.
func Ellipsize(face font.Face, s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	limit := fixed.I(maxWidth)
	if font.MeasureString(face, s) <= limit {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cut := string(runes[:n]) + ellipsis
		if font.MeasureString(face, cut) <= limit {
			return cut
		}
	}
	if font.MeasureString(face, ellipsis) <= limit {
		return ellipsis
	}
	return ""
}

// drawText draws a single line in r, vertically centred, left aligned at
// r.Min.X and truncated with an ellipsis to r's width.
func drawText(dst *image.RGBA, face font.Face, c color.Color, r image.Rectangle, s string) {
	s = Ellipsize(face, s, r.Dx())
	if s == "" {
		return
	}
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	baseline := r.Min.Y + (r.Dy()-(ascent+descent))/2 + ascent

	d := font.Drawer{
		Dst:  dst.SubImage(r).(*image.RGBA),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(r.Min.X, baseline),
	}
	d.DrawString(s)
}
