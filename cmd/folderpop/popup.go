package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmylchreest/folderpop/internal/audio"
	"github.com/jmylchreest/folderpop/internal/config"
	"github.com/jmylchreest/folderpop/internal/display"
	"github.com/jmylchreest/folderpop/internal/icons"
	"github.com/jmylchreest/folderpop/internal/placement"
	"github.com/jmylchreest/folderpop/internal/popup"
	"github.com/jmylchreest/folderpop/internal/render"
	"github.com/jmylchreest/folderpop/internal/screen"
	"github.com/jmylchreest/folderpop/internal/shell"
	"github.com/jmylchreest/folderpop/internal/snapshot"
	"github.com/jmylchreest/folderpop/internal/watch"
)

const appID = "io.github.jmylchreest.folderpop"

// session is one popup from activation to shutdown. Everything except
// the watcher callbacks runs on the GTK main loop.
type session struct {
	app    *display.App
	cfg    *config.Config
	folder string
	at     *placement.Point

	ctx    context.Context
	cancel context.CancelFunc

	icons    *icons.Provider
	renderer *render.Renderer
	window   *display.Window
	machine  *popup.Machine
	player   *audio.Player

	folderWatcher *watch.Watcher
	configWatcher *watch.Watcher

	failed bool
}

// runPopup shows the popup for folder and blocks until it is gone. It
// returns the application's exit status.
func runPopup(folder string, at *placement.Point) int {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		app:    display.NewApp(appID, logger),
		cfg:    cfg,
		folder: folder,
		at:     at,
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.Sound.Enabled && cfg.SoundPath() != "" {
		s.player = audio.NewPlayer(cfg.SoundPath(), cfg.Sound.Volume, logger)
		go func() {
			if err := s.player.Preload(); err != nil {
				logger.Warn("failed to load activation sound", "path", s.player.Path(), "error", err)
			}
		}()
	}

	s.app.OnActivate(func() {
		if err := s.activate(); err != nil {
			logger.Error("failed to show popup", "folder", folder, "error", err)
			s.failed = true
			s.app.Quit()
		}
	})
	s.app.OnShutdown(s.shutdown)

	// A signal fades the popup out like any other dismissal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, closing", "signal", sig)
			display.RunOnMain(func() {
				if s.machine != nil {
					s.machine.Close()
					return
				}
				s.app.Quit()
			})
		case <-ctx.Done():
		}
	}()

	code := s.app.Run(os.Args[0])
	if s.failed && code == 0 {
		code = 1
	}
	return code
}

func (s *session) activate() error {
	dark := display.ApplyColorScheme(s.cfg.Theme.ColorScheme)
	display.ApplyStyle(config.StylePath(), logger)
	layout := s.cfg.Layout()
	timing := s.cfg.Timing()

	s.icons = icons.NewProvider(display.ThemeLookup(logger), layout.IconSize, 0, logger)
	snap := s.load()

	geo, err := s.locate()
	if err != nil {
		snap.Release()
		return err
	}
	result := placement.Place(geo.Cursor, geo.Monitor.Work, geo.Monitor.Bounds,
		placement.Size{Width: layout.Width, Height: layout.Height})
	logger.Debug("placing popup",
		"folder", s.folder,
		"monitor", geo.Monitor.Name,
		"cursor_x", geo.Cursor.X,
		"cursor_y", geo.Cursor.Y,
		"x", result.X,
		"y", result.Y,
		"edge", result.Edge,
		"entries", snap.Len(),
	)

	palette, err := paletteFor(s.cfg, dark)
	if err != nil {
		logger.Warn("ignoring accent colour", "error", err)
	}
	s.renderer, err = render.New(render.Options{
		Layout:  layout,
		Palette: palette,
		Rings:   timing.PulseEnabled,
	})
	if err != nil {
		snap.Release()
		return fmt.Errorf("create renderer: %w", err)
	}

	s.window, err = display.NewWindow(s.app, display.WindowOptions{
		Layout:    layout,
		Placement: result,
		Monitor:   geo.Monitor,
		Logger:    logger,
		OnDestroy: s.app.Quit,
	})
	if err != nil {
		snap.Release()
		return fmt.Errorf("create window: %w", err)
	}

	var registrar popup.Registrar
	if r, err := newRegistrar(); err != nil {
		logger.Warn("context menu integration unavailable", "error", err)
	} else {
		registrar = r
	}

	s.machine = popup.New(popup.Options{
		Snapshot:  snap,
		Layout:    layout,
		Timing:    timing,
		Host:      s.window,
		Painter:   s.renderer,
		Scheduler: s.window.Scheduler(),
		Launcher:  s.launcher(),
		Registrar: registrar,
		Notifier:  newNotifier(),
		Logger:    logger,
	})
	s.window.Attach(s.machine.Handle)
	s.machine.Open()
	s.window.Show()

	s.startWatchers()
	return nil
}

func (s *session) locate() (screen.Geometry, error) {
	static := &screen.StaticProvider{
		Outputs:   display.Outputs(),
		PanelEdge: s.cfg.PanelEdge(),
		PanelSize: s.cfg.Placement.PanelSize,
	}
	provider, err := screen.Select(s.cfg.Placement.Provider, screen.ExecRunner, static)
	if err != nil {
		return screen.Geometry{}, err
	}

	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	geo, err := screen.Locate(ctx, provider, s.at)
	if err != nil {
		return screen.Geometry{}, fmt.Errorf("locate pointer: %w", err)
	}
	return geo, nil
}

// load enumerates the folder. Icon lookups use the GTK icon theme, so it
// must run on the main loop.
func (s *session) load() *snapshot.Snapshot {
	return snapshot.Load(s.folder, snapshot.LoadOptions{
		MaxEntries: s.cfg.Snapshot.MaxEntries,
		Lister:     shell.DirLister{},
		Icons:      s.icons,
		Logger:     logger,
	})
}

func (s *session) launcher() popup.Launcher {
	var l popup.Launcher = &shell.XDGLauncher{Command: s.cfg.Shell.Opener, Logger: logger}
	if s.player != nil {
		l = &soundLauncher{next: l, player: s.player}
	}
	return l
}

func (s *session) startWatchers() {
	if s.cfg.Snapshot.Watch {
		w, err := watch.New(watch.Options{
			Dir:    s.folder,
			Logger: logger,
			OnChange: func() {
				display.RunOnMain(s.reload)
			},
		})
		if err == nil {
			err = w.Start(s.ctx)
		}
		if err != nil {
			logger.Debug("folder watch unavailable", "folder", s.folder, "error", err)
		} else {
			s.folderWatcher = w
		}
	}

	path := globalOpts.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	w, err := watch.WatchFile(path, func() {
		display.RunOnMain(func() { s.reloadTheme(path) })
	}, logger)
	if err == nil {
		err = w.Start(s.ctx)
	}
	if err != nil {
		logger.Debug("config watch unavailable", "path", path, "error", err)
		return
	}
	s.configWatcher = w
}

func (s *session) reload() {
	if s.machine == nil {
		return
	}
	if s.machine.ReplaceSnapshot(s.load()) {
		logger.Debug("folder reloaded", "folder", s.folder, "entries", s.machine.Snapshot().Len())
	}
}

// reloadTheme applies colour changes from an edited config file. Other
// settings take effect on the next popup.
func (s *session) reloadTheme(path string) {
	next, err := config.LoadConfig(path)
	if err != nil {
		logger.Warn("failed to reload config", "path", path, "error", err)
		return
	}
	dark := display.ApplyColorScheme(next.Theme.ColorScheme)
	palette, err := paletteFor(next, dark)
	if err != nil {
		logger.Warn("ignoring accent colour", "error", err)
	}
	s.cfg.Theme = next.Theme
	if s.renderer != nil && s.window != nil {
		s.renderer.SetPalette(palette)
		s.window.Invalidate()
	}
	logger.Debug("theme reloaded", "scheme", next.Theme.ColorScheme, "dark", dark)
}

func (s *session) shutdown() {
	s.cancel()
	for _, w := range []*watch.Watcher{s.folderWatcher, s.configWatcher} {
		if w == nil {
			continue
		}
		if err := w.Stop(); err != nil {
			logger.Debug("failed to stop watcher", "error", err)
		}
	}
	if s.player != nil {
		s.player.Close()
	}
}

// paletteFor returns the palette for the scheme with the configured accent
// applied. An invalid accent leaves the palette's own hover colour.
func paletteFor(c *config.Config, dark bool) (render.Palette, error) {
	palette := render.PaletteFor(dark)
	if c.Theme.Accent == "" {
		return palette, nil
	}
	accent, err := render.ParseHex(c.Theme.Accent)
	if err != nil {
		return palette, err
	}
	palette.Hover = accent
	return palette, nil
}

// soundLauncher plays the activation sound before opening.
type soundLauncher struct {
	next   popup.Launcher
	player *audio.Player
}

func (l *soundLauncher) Open(path string) error {
	if err := l.player.Play(); err != nil {
		logger.Debug("activation sound failed", "error", err)
	}
	return l.next.Open(path)
}
