package render

import (
	"fmt"
	"image/color"
)

// Palette holds the colours of one theme.
type Palette struct {
	Background  color.RGBA
	Header      color.RGBA
	Text        color.RGBA
	StatusBand  color.RGBA
	StatusText  color.RGBA
	Border      color.RGBA
	Hover       color.RGBA
	Placeholder color.RGBA
}

// DarkPalette is used when the desktop prefers a dark colour scheme.
func DarkPalette() Palette {
	return Palette{
		Background:  rgb(45, 45, 45),
		Header:      rgb(56, 56, 56),
		Text:        rgb(255, 255, 255),
		StatusBand:  rgb(37, 37, 37),
		StatusText:  rgb(157, 157, 157),
		Border:      rgb(61, 61, 61),
		Hover:       rgb(98, 160, 234),
		Placeholder: rgb(80, 80, 80),
	}
}

// LightPalette is the default palette.
func LightPalette() Palette {
	return Palette{
		Background:  rgb(243, 243, 243),
		Header:      rgb(255, 255, 255),
		Text:        rgb(26, 26, 26),
		StatusBand:  rgb(249, 249, 249),
		StatusText:  rgb(102, 102, 102),
		Border:      rgb(229, 229, 229),
		Hover:       rgb(53, 132, 228),
		Placeholder: rgb(210, 210, 210),
	}
}

// PaletteFor returns the dark or light palette.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette()
	}
	return LightPalette()
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Lerp blends from a towards b by weight w, where 0 yields a and 255
// yields b.
func Lerp(a, b color.RGBA, w uint8) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8((int(x)*(255-int(w)) + int(y)*int(w) + 127) / 255)
	}
	return color.RGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}

// ParseHex parses "#rrggbb" into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return rgb(r, g, b), nil
}
