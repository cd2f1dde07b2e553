// Package screen reports the cursor position and the geometry of the
// monitor it is on, which feed the placement engine.
package screen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/jmylchreest/folderpop/internal/placement"
)

// Monitor is one output in global logical coordinates.
type Monitor struct {
	Name    string
	Bounds  placement.Rect
	Work    placement.Rect
	Scale   float64
	Focused bool
}

// Geometry is everything placement needs.
type Geometry struct {
	Cursor  placement.Point
	Monitor Monitor
}

// Provider looks up monitors and the pointer position.
type Provider interface {
	Name() string
	Monitors(ctx context.Context) ([]Monitor, error)
	Cursor(ctx context.Context) (placement.Point, error)
}

// Locate resolves the cursor and the monitor under it. A non-nil at
// replaces the pointer position reported by p.
func Locate(ctx context.Context, p Provider, at *placement.Point) (Geometry, error) {
	monitors, err := p.Monitors(ctx)
	if err != nil {
		return Geometry{}, err
	}

	var cursor placement.Point
	if at != nil {
		cursor = *at
	} else if cursor, err = p.Cursor(ctx); err != nil {
		return Geometry{}, err
	}

	m, ok := MonitorAt(monitors, cursor)
	if !ok {
		return Geometry{}, &ScreenError{Provider: p.Name(), Message: "no monitors"}
	}
	return Geometry{Cursor: cursor, Monitor: m}, nil
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ScreenError reports a failed geometry lookup.
type ScreenError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ScreenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ScreenError) Unwrap() error {
	return e.Err
}

// MonitorAt returns the monitor containing p, or the nearest one when p is
// outside every monitor. ok is false only when monitors is empty.
func MonitorAt(monitors []Monitor, p placement.Point) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	best, bestDist := 0, -1
	for i, m := range monitors {
		if m.Bounds.Contains(p) {
			return m, true
		}
		d := distance(m.Bounds, p)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return monitors[best], true
}

// distance is the squared distance from p to the nearest point of r.
func distance(r placement.Rect, p placement.Point) int {
	dx := max(r.Left-p.X, 0, p.X-(r.Right-1))
	dy := max(r.Top-p.Y, 0, p.Y-(r.Bottom-1))
	return dx*dx + dy*dy
}

// Select picks a provider by name. "auto" uses Hyprland when its instance
// signature is set and falls back to the static provider otherwise.
func Select(name string, run Runner, static *StaticProvider) (Provider, error) {
	switch name {
	case "", "auto":
		if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
			return &Fallback{Primary: NewHyprlandProvider(run), Secondary: static}, nil
		}
		return static, nil
	case "hyprland":
		return NewHyprlandProvider(run), nil
	case "gdk", "static":
		return static, nil
	default:
		return nil, fmt.Errorf("unknown placement provider %q", name)
	}
}

// Fallback asks Primary first and Secondary when Primary fails.
type Fallback struct {
	Primary   Provider
	Secondary Provider
}

func (f *Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f *Fallback) Monitors(ctx context.Context) ([]Monitor, error) {
	monitors, err := f.Primary.Monitors(ctx)
	if err == nil {
		return monitors, nil
	}
	monitors, err2 := f.Secondary.Monitors(ctx)
	if err2 != nil {
		return nil, errors.Join(err, err2)
	}
	return monitors, nil
}

func (f *Fallback) Cursor(ctx context.Context) (placement.Point, error) {
	p, err := f.Primary.Cursor(ctx)
	if err == nil {
		return p, nil
	}
	p, err2 := f.Secondary.Cursor(ctx)
	if err2 != nil {
		return placement.Point{}, errors.Join(err, err2)
	}
	return p, nil
}
