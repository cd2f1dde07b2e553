package display

import (
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"

	"github.com/jmylchreest/folderpop/internal/placement"
	"github.com/jmylchreest/folderpop/internal/screen"
)

// Outputs lists the monitors GDK knows about in logical coordinates. On
// Wayland the origin of every monitor is usually reported as 0,0, which is
// still good enough to pick an output by name.
func Outputs() []screen.Monitor {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil
	}
	var out []screen.Monitor
	for _, mon := range monitors(display) {
		g := mon.Geometry()
		out = append(out, screen.Monitor{
			Name: mon.Connector(),
			Bounds: placement.Rect{
				Left:   g.X(),
				Top:    g.Y(),
				Right:  g.X() + g.Width(),
				Bottom: g.Y() + g.Height(),
			},
			Scale: float64(mon.ScaleFactor()),
		})
	}
	return out
}

// findMonitor returns the GDK monitor for the given output, matched by
// connector name and then by size. Nil lets the compositor choose.
func findMonitor(target screen.Monitor) *gdk.Monitor {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil
	}
	all := monitors(display)
	for _, mon := range all {
		if target.Name != "" && mon.Connector() == target.Name {
			return mon
		}
	}
	for _, mon := range all {
		g := mon.Geometry()
		if g.Width() == target.Bounds.Width() && g.Height() == target.Bounds.Height() {
			return mon
		}
	}
	return nil
}

func monitors(display *gdk.Display) []*gdk.Monitor {
	list := display.Monitors()
	if list == nil {
		return nil
	}
	n := list.NItems()
	out := make([]*gdk.Monitor, 0, n)
	for i := range n {
		if mon := wrapMonitor(list.Item(i)); mon != nil {
			out = append(out, mon)
		}
	}
	return out
}

// wrapMonitor wraps a list item as a gdk.Monitor. gotk4 does not export
// its wrapper, and gdk.Monitor is a struct embedding *glib.Object.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
