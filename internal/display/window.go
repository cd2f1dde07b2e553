package display

import (
	"image"
	"log/slog"
	"math"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/folderpop/internal/placement"
	"github.com/jmylchreest/folderpop/internal/popup"
	"github.com/jmylchreest/folderpop/internal/screen"
)

// WindowOptions configures a popup window.
type WindowOptions struct {
	Layout    popup.Layout
	Placement placement.Result
	Monitor   screen.Monitor
	Logger    *slog.Logger
	// OnDestroy runs after the window has been closed.
	OnDestroy func()
}

// Window is a borderless layer-shell surface showing rendered frames. It
// implements popup.Host.
type Window struct {
	window  *gtk.Window
	picture *gtk.Picture
	popover *gtk.Popover
	sched   *Scheduler
	opts    WindowOptions
	logger  *slog.Logger

	handler func(popup.Event)

	repaintQueued bool
	destroyed     bool

	// Margins relative to the monitor origin, adjusted while dragging.
	left, top         int
	moving            bool
	moveLeft, moveTop int
}

// NewWindow creates the popup window. It stays hidden until Show.
func NewWindow(app *App, opts WindowOptions) (*Window, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if gdk.DisplayGetDefault() == nil {
		return nil, &DisplayError{Message: "no display available"}
	}
	w := &Window{
		opts:   opts,
		logger: opts.Logger,
		left:   opts.Placement.X - opts.Monitor.Bounds.Left,
		top:    opts.Placement.Y - opts.Monitor.Bounds.Top,
	}
	w.sched = NewScheduler(w.dispatch)

	w.window = gtk.NewWindow()
	w.window.SetApplication(app.gtk())
	w.window.SetDecorated(false)
	w.window.SetResizable(false)
	w.window.SetDefaultSize(opts.Layout.Width, opts.Layout.Height)
	w.window.SetSizeRequest(opts.Layout.Width, opts.Layout.Height)
	w.window.AddCSSClass("folderpop")

	if !layershell.IsSupported() {
		w.logger.Warn("compositor lacks layer-shell, placement is up to the window manager")
	}
	layershell.InitForWindow(w.window)
	layershell.SetLayer(w.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(w.window, -1) // ignore other surfaces' zones
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeOnDemand)
	layershell.SetNamespace(w.window, "folderpop")
	if mon := findMonitor(opts.Monitor); mon != nil {
		layershell.SetMonitor(w.window, mon)
	}
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, true)
	w.applyMargins(w.left, w.top)

	w.picture = gtk.NewPicture()
	w.picture.SetCanShrink(false)
	w.picture.SetSizeRequest(opts.Layout.Width, opts.Layout.Height)
	w.window.SetChild(w.picture)

	w.connectSignals()
	return w, nil
}

// Scheduler returns the timer source bound to this window.
func (w *Window) Scheduler() *Scheduler {
	return w.sched
}

// Attach routes window events to handler, normally Machine.Handle.
func (w *Window) Attach(handler func(popup.Event)) {
	w.handler = handler
}

// Show maps the window and requests the first frame.
func (w *Window) Show() {
	w.window.Present()
	w.queueRepaint()
}

func (w *Window) dispatch(ev popup.Event) {
	if w.handler != nil && !w.destroyed {
		w.handler(ev)
	}
}

func (w *Window) applyMargins(left, top int) {
	layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, left)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, top)
}

// connectSignals turns GTK input into popup events.
func (w *Window) connectSignals() {
	motion := gtk.NewEventControllerMotion()
	motion.ConnectMotion(func(x, y float64) {
		w.dispatch(popup.PointerMove{Point: toPoint(x, y)})
	})
	motion.ConnectLeave(func() {
		w.dispatch(popup.PointerLeave{})
	})
	w.window.AddController(motion)

	click := gtk.NewGestureClick()
	click.SetButton(0) // All buttons
	click.ConnectPressed(func(nPress int, x, y float64) {
		p := toPoint(x, y)
		button := popup.Button(click.CurrentButton())
		if nPress == 2 && button == popup.ButtonPrimary {
			w.dispatch(popup.PointerDoubleClick{Point: p})
			return
		}
		w.dispatch(popup.PointerDown{Point: p, Button: button})
	})
	click.ConnectReleased(func(nPress int, x, y float64) {
		w.dispatch(popup.PointerUp{Point: toPoint(x, y), Button: popup.Button(click.CurrentButton())})
	})
	w.window.AddController(click)

	drag := gtk.NewGestureDrag()
	drag.ConnectDragUpdate(func(offsetX, offsetY float64) {
		if !w.moving {
			return
		}
		w.left = w.moveLeft + int(math.Round(offsetX))
		w.top = w.moveTop + int(math.Round(offsetY))
		w.applyMargins(w.left, w.top)
	})
	drag.ConnectDragEnd(func(offsetX, offsetY float64) {
		w.moving = false
	})
	w.window.AddController(drag)

	scroll := gtk.NewEventControllerScroll(gtk.EventControllerScrollVertical)
	scroll.ConnectScroll(func(dx, dy float64) bool {
		step := float64(w.opts.Layout.CellSize()) / 2
		w.dispatch(popup.Scroll{DY: int(math.Round(dy * step))})
		return true
	})
	w.window.AddController(scroll)

	keys := gtk.NewEventControllerKey()
	keys.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		if keyval == gdk.KEY_Escape {
			w.dispatch(popup.KeyPressed{Key: popup.KeyEscape})
			return true
		}
		w.dispatch(popup.KeyPressed{Key: popup.KeyOther})
		return false
	})
	w.window.AddController(keys)

	w.window.NotifyProperty("is-active", func() {
		// An open context menu takes focus from the window without
		// dismissing the popup.
		if !w.window.IsActive() && w.popover == nil {
			w.dispatch(popup.FocusLost{})
		}
	})
}

func toPoint(x, y float64) image.Point {
	return image.Pt(int(math.Floor(x)), int(math.Floor(y)))
}

// SetOpacity applies the whole-window alpha.
func (w *Window) SetOpacity(alpha uint8) {
	w.window.SetOpacity(float64(alpha) / 255)
}

// Invalidate schedules a repaint. Frames are rendered whole, so the
// rectangles only decide whether anything is redrawn.
func (w *Window) Invalidate(rects ...image.Rectangle) {
	w.queueRepaint()
}

func (w *Window) queueRepaint() {
	if w.repaintQueued || w.destroyed {
		return
	}
	w.repaintQueued = true
	glib.IdleAdd(func() {
		w.repaintQueued = false
		w.dispatch(popup.PaintRequested{})
	})
}

// Present shows a rendered frame.
func (w *Window) Present(frame *image.RGBA) {
	if frame == nil || w.destroyed {
		return
	}
	b := frame.Bounds()
	tex := gdk.NewMemoryTexture(
		b.Dx(), b.Dy(),
		gdk.MemoryR8G8B8A8Premultiplied,
		glib.NewBytes(frame.Pix),
		uint(frame.Stride),
	)
	w.picture.SetPaintable(tex)
}

// SetTooltip shows text next to the pointer, or hides the tooltip when
// text is empty.
func (w *Window) SetTooltip(text string) {
	w.picture.SetTooltipText(text)
}

// ShowMenu pops up a context menu at p.
func (w *Window) ShowMenu(p image.Point, items []popup.MenuItem) {
	if len(items) == 0 || w.destroyed {
		return
	}
	w.closeMenu()

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.AddCSSClass("menu")
	pop := gtk.NewPopover()
	for _, item := range items {
		action := item.Action
		btn := gtk.NewButtonWithLabel(item.Label)
		btn.SetHasFrame(false)
		btn.ConnectClicked(func() {
			pop.Popdown()
			if action != nil {
				action()
			}
		})
		box.Append(btn)
	}

	pop.SetChild(box)
	pop.SetHasArrow(false)
	pop.SetParent(w.picture)
	rect := gdk.NewRectangle(p.X, p.Y, 1, 1)
	pop.SetPointingTo(&rect)
	pop.ConnectClosed(func() {
		// Unparent after the click handler has run.
		glib.IdleAdd(func() {
			if w.popover != pop {
				return
			}
			w.closeMenu()
			w.dispatch(popup.MenuClosed{Focused: w.window.IsActive()})
		})
	})
	w.popover = pop
	pop.Popup()
}

func (w *Window) closeMenu() {
	if w.popover == nil {
		return
	}
	pop := w.popover
	w.popover = nil
	pop.Unparent()
}

// BeginMove lets the following drag move the window.
func (w *Window) BeginMove(image.Point) {
	w.moving = true
	w.moveLeft, w.moveTop = w.left, w.top
}

// Destroy closes the window. Further calls do nothing.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.sched.StopAll()
	w.closeMenu()
	w.window.Close()
	w.logger.Debug("popup window closed")
	if w.opts.OnDestroy != nil {
		w.opts.OnDestroy()
	}
}
