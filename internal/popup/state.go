// Package popup holds the popup's lifecycle state machine and its
// interaction surface. It is independent of any windowing toolkit: the
// host feeds it events and implements Host for the visible effects.
package popup

import (
	"time"
)

// Phase is the lifecycle phase of the popup.
type Phase int

const (
	PhaseOpening Phase = iota
	PhaseActive
	PhaseClickFeedback
	PhaseClosingFade
	PhaseDestroyed
)

func (p Phase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseActive:
		return "active"
	case PhaseClickFeedback:
		return "click-feedback"
	case PhaseClosingFade:
		return "closing-fade"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// NoIndex marks an unset hover or clicked index.
const NoIndex = -1

// Pulse is the click feedback animation.
type Pulse struct {
	Alpha   uint8 // blend weight of the clicked ring
	Rising  bool
	Started time.Time
	Ticks   int
}

// State is the mutable state read by the renderer.
type State struct {
	Phase   Phase
	Opacity uint8
	Closing bool
	Hover   int
	Clicked int
	Pulse   Pulse
	Scroll  int
	Tooltip string
}

func newState() State {
	return State{
		Phase:   PhaseOpening,
		Hover:   NoIndex,
		Clicked: NoIndex,
	}
}

// Timing holds the animation constants.
type Timing struct {
	FadeInterval time.Duration
	FadeStep     uint8
	FadeFloor    uint8

	// PulseEnabled selects the click feedback variant.
	PulseEnabled  bool
	PulseDuration time.Duration
	PulseInterval time.Duration
	PulseStep     uint8
	PulseFloor    uint8
	PulseCeiling  uint8
}

// DefaultTiming returns the stock fade and pulse constants with the pulse
// variant enabled.
func DefaultTiming() Timing {
	return Timing{
		FadeInterval:  10 * time.Millisecond,
		FadeStep:      25,
		FadeFloor:     25,
		PulseEnabled:  true,
		PulseDuration: 2000 * time.Millisecond,
		PulseInterval: 200 * time.Millisecond,
		PulseStep:     45,
		PulseFloor:    30,
		PulseCeiling:  255,
	}
}

// pulseTicks is the number of pulse ticks before closing begins.
func (t Timing) pulseTicks() int {
	if t.PulseInterval <= 0 {
		return 0
	}
	return int(t.PulseDuration / t.PulseInterval)
}
