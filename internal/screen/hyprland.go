package screen

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jmylchreest/folderpop/internal/placement"
)

// HyprlandProvider reads geometry from hyprctl.
type HyprlandProvider struct {
	run Runner
}

// NewHyprlandProvider creates a provider. A nil run uses ExecRunner.
func NewHyprlandProvider(run Runner) *HyprlandProvider {
	if run == nil {
		run = ExecRunner
	}
	return &HyprlandProvider{run: run}
}

// Name returns the provider identifier.
func (p *HyprlandProvider) Name() string {
	return "hyprland"
}

// Monitors runs hyprctl monitors -j.
func (p *HyprlandProvider) Monitors(ctx context.Context) ([]Monitor, error) {
	out, err := p.run(ctx, "hyprctl", "monitors", "-j")
	if err != nil {
		return nil, &ScreenError{Provider: p.Name(), Message: "failed to execute hyprctl monitors", Err: err}
	}
	return ParseHyprlandMonitors(out)
}

// Cursor runs hyprctl cursorpos -j.
func (p *HyprlandProvider) Cursor(ctx context.Context) (placement.Point, error) {
	out, err := p.run(ctx, "hyprctl", "cursorpos", "-j")
	if err != nil {
		return placement.Point{}, &ScreenError{Provider: p.Name(), Message: "failed to execute hyprctl cursorpos", Err: err}
	}
	return ParseHyprlandCursor(out)
}

// hyprMonitor is one element of hyprctl monitors -j. Width and height are
// in physical pixels; reserved is left, top, right, bottom in logical
// pixels.
type hyprMonitor struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Scale     float64 `json:"scale"`
	Transform int     `json:"transform"`
	Focused   bool    `json:"focused"`
	Reserved  []int   `json:"reserved"`
}

// ParseHyprlandMonitors converts hyprctl monitors -j output.
func ParseHyprlandMonitors(data []byte) ([]Monitor, error) {
	var raw []hyprMonitor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ScreenError{Provider: "hyprland", Message: "failed to parse monitors", Err: err}
	}

	monitors := make([]Monitor, 0, len(raw))
	for _, m := range raw {
		scale := m.Scale
		if scale <= 0 {
			scale = 1
		}
		w, h := m.Width, m.Height
		// Odd transforms rotate the output by 90 or 270 degrees.
		if m.Transform%2 == 1 {
			w, h = h, w
		}
		w = int(math.Round(float64(w) / scale))
		h = int(math.Round(float64(h) / scale))

		bounds := placement.Rect{Left: m.X, Top: m.Y, Right: m.X + w, Bottom: m.Y + h}
		work := bounds
		if len(m.Reserved) == 4 {
			work.Left += m.Reserved[0]
			work.Top += m.Reserved[1]
			work.Right -= m.Reserved[2]
			work.Bottom -= m.Reserved[3]
		}
		if work.Width() <= 0 || work.Height() <= 0 {
			work = bounds
		}

		monitors = append(monitors, Monitor{
			Name:    m.Name,
			Bounds:  bounds,
			Work:    work,
			Scale:   scale,
			Focused: m.Focused,
		})
	}
	if len(monitors) == 0 {
		return nil, &ScreenError{Provider: "hyprland", Message: "no monitors reported"}
	}
	return monitors, nil
}

// ParseHyprlandCursor converts hyprctl cursorpos -j output.
func ParseHyprlandCursor(data []byte) (placement.Point, error) {
	var pos struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &pos); err != nil {
		return placement.Point{}, &ScreenError{Provider: "hyprland", Message: "failed to parse cursor position", Err: err}
	}
	if pos.X == nil || pos.Y == nil {
		return placement.Point{}, &ScreenError{Provider: "hyprland", Message: fmt.Sprintf("incomplete cursor position %q", data)}
	}
	return placement.Point{X: int(math.Round(*pos.X)), Y: int(math.Round(*pos.Y))}, nil
}
