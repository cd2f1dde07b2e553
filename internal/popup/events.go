package popup

import (
	"image"
	"time"
)

// Event is an input delivered to Machine.Handle.
type Event interface {
	event()
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary   Button = 1
	ButtonMiddle    Button = 2
	ButtonSecondary Button = 3
)

// Key identifies a keyboard key the popup reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
)

// TimerKind names the two animation timers.
type TimerKind int

const (
	TimerNone TimerKind = iota
	TimerFade
	TimerPulse
)

func (k TimerKind) String() string {
	switch k {
	case TimerFade:
		return "fade"
	case TimerPulse:
		return "pulse"
	default:
		return "none"
	}
}

type (
	// PointerMove reports the pointer at a window position.
	PointerMove struct{ Point image.Point }
	// PointerLeave reports the pointer leaving the window.
	PointerLeave struct{}
	// PointerDown reports a button press.
	PointerDown struct {
		Point  image.Point
		Button Button
	}
	// PointerUp reports a button release.
	PointerUp struct {
		Point  image.Point
		Button Button
	}
	// PointerDoubleClick reports a primary double press.
	PointerDoubleClick struct{ Point image.Point }
	// Scroll reports a vertical scroll in pixels.
	Scroll struct{ DY int }
	// TimerFired reports a scheduler tick.
	TimerFired struct{ Kind TimerKind }
	// FocusLost reports the popup losing input focus.
	FocusLost struct{}
	// MenuClosed reports the context menu going away. Focus changes
	// while the menu is open are not reported, so Focused carries
	// whether the popup still has focus afterwards.
	MenuClosed struct{ Focused bool }
	// KeyPressed reports a key press.
	KeyPressed struct{ Key Key }
	// PaintRequested asks for a new frame.
	PaintRequested struct{}
)

func (PointerMove) event()        {}
func (PointerLeave) event()       {}
func (PointerDown) event()        {}
func (PointerUp) event()          {}
func (PointerDoubleClick) event() {}
func (Scroll) event()             {}
func (TimerFired) event()         {}
func (FocusLost) event()          {}
func (MenuClosed) event()         {}
func (KeyPressed) event()         {}
func (PaintRequested) event()     {}

// Scheduler delivers TimerFired events back on the event loop.
type Scheduler interface {
	Start(kind TimerKind, interval time.Duration)
	Stop(kind TimerKind)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}
