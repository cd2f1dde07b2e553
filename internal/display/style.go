package display

import (
	_ "embed"
	"log/slog"
	"os"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

//go:embed style.css
var defaultStyle string

// ApplyStyle installs the built-in stylesheet for the window and its
// context menu, followed by the user's stylesheet at userPath if it
// exists. Rules in the user file win.
func ApplyStyle(userPath string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	display := gdk.DisplayGetDefault()
	if display == nil {
		logger.Warn("no display available, cannot apply style")
		return
	}

	base := gtk.NewCSSProvider()
	base.LoadFromString(defaultStyle)
	gtk.StyleContextAddProviderForDisplay(display, base, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)

	if userPath == "" {
		return
	}
	data, err := os.ReadFile(userPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read stylesheet", "path", userPath, "error", err)
		}
		return
	}
	user := gtk.NewCSSProvider()
	user.LoadFromString(string(data))
	gtk.StyleContextAddProviderForDisplay(display, user, gtk.STYLE_PROVIDER_PRIORITY_USER)
	logger.Debug("applied user stylesheet", "path", userPath)
}
