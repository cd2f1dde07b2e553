package screen

import (
	"context"

	"github.com/jmylchreest/folderpop/internal/placement"
)

// StaticProvider serves monitors enumerated by the toolkit. Toolkits on
// Wayland report neither the pointer outside our own surfaces nor the work
// area, so the panel is taken from configuration and the cursor defaults
// to the centre of the bottom of the first monitor.
type StaticProvider struct {
	Outputs   []Monitor
	PanelEdge placement.Edge
	PanelSize int
}

// Name returns the provider identifier.
func (p *StaticProvider) Name() string {
	return "static"
}

// Monitors returns the outputs with the configured panel reserved.
func (p *StaticProvider) Monitors(context.Context) ([]Monitor, error) {
	if len(p.Outputs) == 0 {
		return nil, &ScreenError{Provider: p.Name(), Message: "no monitors"}
	}
	monitors := make([]Monitor, len(p.Outputs))
	for i, m := range p.Outputs {
		if m.Work == (placement.Rect{}) {
			m.Work = placement.Inset(m.Bounds, p.PanelEdge, p.PanelSize)
		}
		monitors[i] = m
	}
	return monitors, nil
}

// Cursor guesses a pointer position on the focused, or first, monitor
// next to the panel.
func (p *StaticProvider) Cursor(ctx context.Context) (placement.Point, error) {
	monitors, err := p.Monitors(ctx)
	if err != nil {
		return placement.Point{}, err
	}
	m := monitors[0]
	for _, o := range monitors {
		if o.Focused {
			m = o
			break
		}
	}
	b := m.Bounds
	cx, cy := b.Left+b.Width()/2, b.Top+b.Height()/2
	switch p.PanelEdge {
	case placement.EdgeTop:
		cy = b.Top
	case placement.EdgeBottom, placement.EdgeNone:
		cy = b.Bottom - 1
	case placement.EdgeLeft:
		cx = b.Left
	case placement.EdgeRight:
		cx = b.Right - 1
	}
	return placement.Point{X: cx, Y: cy}, nil
}
