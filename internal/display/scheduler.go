package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/folderpop/internal/popup"
)

// timer is one live GLib timeout.
type timer struct {
	handle  glib.SourceHandle
	stopped bool
	firing  bool
}

// Scheduler implements popup.Scheduler on the GLib main loop. A timer
// stopped from inside its own callback is not removed there; the callback
// returns false instead, which lets GLib drop the source once.
type Scheduler struct {
	deliver func(popup.Event)
	timers  map[popup.TimerKind]*timer
}

// NewScheduler creates a scheduler that hands ticks to deliver.
func NewScheduler(deliver func(popup.Event)) *Scheduler {
	return &Scheduler{
		deliver: deliver,
		timers:  make(map[popup.TimerKind]*timer),
	}
}

// Start begins a repeating timer of the given kind.
func (s *Scheduler) Start(kind popup.TimerKind, interval time.Duration) {
	s.Stop(kind)

	t := &timer{}
	ms := uint(max(interval.Milliseconds(), 1))
	t.handle = glib.TimeoutAdd(ms, func() bool {
		if t.stopped {
			return false
		}
		t.firing = true
		s.deliver(popup.TimerFired{Kind: kind})
		t.firing = false
		return !t.stopped
	})
	s.timers[kind] = t
}

// Stop cancels the timer of the given kind, if any.
func (s *Scheduler) Stop(kind popup.TimerKind) {
	t, ok := s.timers[kind]
	if !ok {
		return
	}
	delete(s.timers, kind)
	t.stopped = true
	if !t.firing {
		glib.SourceRemove(t.handle)
	}
}

// StopAll cancels every timer.
func (s *Scheduler) StopAll() {
	for kind := range s.timers {
		s.Stop(kind)
	}
}
