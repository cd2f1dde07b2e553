package display

import (
	"image"
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/folderpop/internal/icons"
)

// ThemeLookup returns an icons.Lookup backed by the display's icon theme.
// It must be called on the main loop, and so must the returned func.
func ThemeLookup(logger *slog.Logger) icons.Lookup {
	if logger == nil {
		logger = slog.Default()
	}
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil
	}
	theme := gtk.IconThemeGetForDisplay(display)

	return func(names []string, size int) (image.Image, bool) {
		for _, name := range names {
			if !theme.HasIcon(name) {
				continue
			}
			paintable := theme.LookupIcon(name, nil, size, 1, gtk.TextDirNone, 0)
			if paintable == nil {
				continue
			}
			file := paintable.File()
			if file == nil {
				continue // resource-only icon
			}
			path := file.Path()
			if path == "" {
				continue
			}
			img, err := loadTexture(path)
			if err != nil {
				logger.Debug("icon decode failed", "name", name, "path", path, "error", err)
				continue
			}
			return img, true
		}
		return nil, false
	}
}

// loadTexture decodes an image file through GDK, which also handles SVG
// icons, and copies the pixels out.
func loadTexture(path string) (*image.RGBA, error) {
	tex, err := gdk.NewTextureFromFilename(path)
	if err != nil {
		return nil, err
	}
	w, h := tex.Width(), tex.Height()
	stride := w * 4
	pix := make([]byte, stride*h)
	tex.Download(pix, uint(stride))
	return icons.FromPremultipliedBGRA(pix, w, h, stride), nil
}
