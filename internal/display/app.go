package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// App wraps the libadwaita application that owns the popup window.
type App struct {
	app    *adw.Application
	logger *slog.Logger
}

// NewApp creates the application. Every invocation gets its own instance
// so popups for different folders never hand off to each other.
func NewApp(appID string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		app:    adw.NewApplication(appID, gio.ApplicationNonUnique),
		logger: logger,
	}
}

// OnActivate registers the startup callback. It runs on the main loop once
// the display connection exists.
func (a *App) OnActivate(f func()) {
	a.app.ConnectActivate(f)
}

// OnShutdown registers a callback run when the main loop exits.
func (a *App) OnShutdown(f func()) {
	a.app.ConnectShutdown(f)
}

// Run blocks in the main loop and returns the exit status. Command-line
// parsing is done by the caller, so only the program name is passed on.
func (a *App) Run(program string) int {
	return a.app.Run([]string{program})
}

// Quit stops the main loop. It is safe to call from any goroutine.
func (a *App) Quit() {
	glib.IdleAdd(func() {
		a.app.Quit()
	})
}

func (a *App) gtk() *gtk.Application {
	return &a.app.Application
}

// RunOnMain queues f on the main loop. Watchers use it to hand results to
// GTK from their own goroutines.
func RunOnMain(f func()) {
	glib.IdleAdd(f)
}

// ApplyColorScheme forces libadwaita widgets such as the context menu into
// the configured scheme and reports whether the result is dark.
func ApplyColorScheme(scheme string) bool {
	sm := adw.StyleManagerGetDefault()
	switch scheme {
	case "dark":
		sm.SetColorScheme(adw.ColorSchemeForceDark)
	case "light":
		sm.SetColorScheme(adw.ColorSchemeForceLight)
	default:
		sm.SetColorScheme(adw.ColorSchemeDefault)
	}
	return sm.Dark()
}
