package popup

import (
	"image"
	"log/slog"
	"time"

	"github.com/jmylchreest/folderpop/internal/snapshot"
)

// MenuItem is one entry of the empty-area context menu.
type MenuItem struct {
	Label  string
	Action func()
}

// Host performs the visible effects of the machine on a real window.
type Host interface {
	SetOpacity(alpha uint8)
	Invalidate(rects ...image.Rectangle)
	SetTooltip(text string)
	ShowMenu(at image.Point, items []MenuItem)
	BeginMove(at image.Point)
	Present(frame *image.RGBA)
	Destroy()
}

// Painter renders one full frame from the snapshot and state.
type Painter interface {
	Paint(snap *snapshot.Snapshot, st State) *image.RGBA
}

// Launcher opens a path with the desktop's default handler.
type Launcher interface {
	Open(path string) error
}

// Registrar toggles the file manager context menu integration.
type Registrar interface {
	IsRegistered() bool
	Register() error
	Unregister() error
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string, isError bool)
}

// Options configures a Machine. Host, Scheduler and Snapshot are required.
type Options struct {
	Snapshot  *snapshot.Snapshot
	Layout    Layout
	Timing    Timing
	Host      Host
	Painter   Painter
	Scheduler Scheduler
	Clock     Clock
	Launcher  Launcher
	Registrar Registrar
	Notifier  Notifier
	Logger    *slog.Logger
}

// Machine is the popup lifecycle state machine. It must only be driven
// from the event loop that owns the window.
type Machine struct {
	layout    Layout
	timing    Timing
	host      Host
	painter   Painter
	scheduler Scheduler
	clock     Clock
	launcher  Launcher
	registrar Registrar
	notifier  Notifier
	logger    *slog.Logger

	snap    *snapshot.Snapshot
	state   State
	timer   TimerKind
	pressed int
}

// New creates a machine in the Opening phase.
func New(opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	layout := opts.Layout
	if layout.Width == 0 || layout.Height == 0 {
		layout = DefaultLayout()
	}
	snap := opts.Snapshot
	if snap == nil {
		snap = &snapshot.Snapshot{}
	}

	return &Machine{
		layout:    layout,
		timing:    opts.Timing,
		host:      opts.Host,
		painter:   opts.Painter,
		scheduler: opts.Scheduler,
		clock:     clock,
		launcher:  opts.Launcher,
		registrar: opts.Registrar,
		notifier:  opts.Notifier,
		logger:    logger,
		snap:      snap,
		state:     newState(),
		pressed:   NoIndex,
	}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	return m.state.Phase
}

// Snapshot returns the snapshot currently shown.
func (m *Machine) Snapshot() *snapshot.Snapshot {
	return m.snap
}

// Layout returns the popup geometry.
func (m *Machine) Layout() Layout {
	return m.layout
}

// ActiveTimer returns the timer currently requested from the scheduler.
func (m *Machine) ActiveTimer() TimerKind {
	return m.timer
}

// Open shows the popup fully opaque and makes it interactive. There is no
// fade-in.
func (m *Machine) Open() {
	if m.state.Phase != PhaseOpening {
		return
	}
	m.state.Opacity = 255
	m.host.SetOpacity(m.state.Opacity)
	m.state.Phase = PhaseActive
	m.host.Invalidate(m.layout.Bounds())
	m.logger.Debug("popup opened", "folder", m.snap.Folder, "entries", m.snap.Len())
}

// Close starts the closing fade from any live phase.
func (m *Machine) Close() {
	m.beginClose()
}

// Handle processes one event. Events after Destroyed are ignored.
func (m *Machine) Handle(ev Event) {
	if m.state.Phase == PhaseDestroyed {
		return
	}

	switch e := ev.(type) {
	case PointerMove:
		if m.state.Phase == PhaseActive {
			m.OnHover(m.layout.HitTest(e.Point, m.snap.Len(), m.state.Scroll))
		}
	case PointerLeave:
		if m.state.Phase == PhaseActive {
			m.OnHover(NoIndex)
		}
	case PointerDown:
		m.pointerDown(e)
	case PointerUp:
		m.pointerUp(e)
	case PointerDoubleClick:
		m.doubleClick(e)
	case Scroll:
		m.scroll(e.DY)
	case TimerFired:
		m.timerFired(e.Kind)
	case FocusLost:
		m.beginClose()
	case MenuClosed:
		if !e.Focused {
			m.beginClose()
		}
	case KeyPressed:
		if e.Key == KeyEscape {
			m.beginClose()
		}
	case PaintRequested:
		m.paint()
	}
}

func (m *Machine) pointerDown(e PointerDown) {
	if m.state.Phase != PhaseActive {
		return
	}
	switch e.Button {
	case ButtonPrimary:
		if m.layout.InHeader(e.Point) {
			m.pressed = NoIndex
			m.host.BeginMove(e.Point)
			return
		}
		m.pressed = m.layout.HitTest(e.Point, m.snap.Len(), m.state.Scroll)
	case ButtonSecondary:
		m.OnSecondaryAction(e.Point)
	}
}

func (m *Machine) pointerUp(e PointerUp) {
	if e.Button != ButtonPrimary {
		return
	}
	pressed := m.pressed
	m.pressed = NoIndex
	if pressed == NoIndex {
		return
	}
	if m.layout.HitTest(e.Point, m.snap.Len(), m.state.Scroll) == pressed {
		m.OnActivate(pressed)
	}
}

func (m *Machine) doubleClick(e PointerDoubleClick) {
	if m.state.Phase != PhaseActive || !m.layout.InHeader(e.Point) {
		return
	}
	m.launch(m.snap.Folder)
	m.beginClose()
}

func (m *Machine) scroll(dy int) {
	if m.state.Phase != PhaseActive || dy == 0 {
		return
	}
	next := min(max(m.state.Scroll+dy, 0), m.layout.MaxScroll(m.snap.Len()))
	if next == m.state.Scroll {
		return
	}
	m.state.Scroll = next
	m.OnHover(NoIndex)
	m.host.Invalidate(m.layout.GridRect())
}

func (m *Machine) timerFired(kind TimerKind) {
	switch kind {
	case TimerFade:
		if m.state.Phase == PhaseClosingFade {
			m.fadeTick()
		}
	case TimerPulse:
		if m.state.Phase == PhaseClickFeedback {
			m.pulseTick()
		}
	}
}

// beginClose enters ClosingFade. The pulse timer, if any, is cancelled
// before the fade timer starts.
func (m *Machine) beginClose() {
	switch m.state.Phase {
	case PhaseClosingFade, PhaseDestroyed:
		return
	}
	m.stopTimer()
	m.state.Phase = PhaseClosingFade
	m.state.Closing = true
	if m.state.Opacity == 0 {
		m.state.Opacity = 255
	}
	m.startTimer(TimerFade, m.timing.FadeInterval)
	m.logger.Debug("popup closing")
}

// fadeTick lowers the opacity by one step and destroys the popup once the
// result is at or below the floor.
func (m *Machine) fadeTick() {
	if m.state.Opacity <= m.timing.FadeStep {
		m.state.Opacity = 0
	} else {
		m.state.Opacity -= m.timing.FadeStep
	}
	if m.state.Opacity <= m.timing.FadeFloor {
		m.destroy()
		return
	}
	m.host.SetOpacity(m.state.Opacity)
}

func (m *Machine) startPulse() {
	m.state.Phase = PhaseClickFeedback
	m.state.Pulse = Pulse{
		Alpha:   m.timing.PulseCeiling,
		Rising:  false,
		Started: m.clock.Now(),
	}
	m.startTimer(TimerPulse, m.timing.PulseInterval)
}

// pulseTick moves the pulse alpha one step, bouncing between floor and
// ceiling, and hands over to the closing fade once the duration is spent.
func (m *Machine) pulseTick() {
	p := &m.state.Pulse
	p.Ticks++
	if m.clock.Now().Sub(p.Started) >= m.timing.PulseDuration || p.Ticks >= m.timing.pulseTicks() {
		m.beginClose()
		return
	}

	alpha := int(p.Alpha)
	step := int(m.timing.PulseStep)
	if p.Rising {
		alpha += step
		if alpha >= int(m.timing.PulseCeiling) {
			alpha = int(m.timing.PulseCeiling)
			p.Rising = false
		}
	} else {
		alpha -= step
		if alpha <= int(m.timing.PulseFloor) {
			alpha = int(m.timing.PulseFloor)
			p.Rising = true
		}
	}
	p.Alpha = uint8(alpha)

	if m.state.Clicked != NoIndex {
		m.host.Invalidate(m.layout.CellRect(m.state.Clicked, m.state.Scroll))
	}
}

func (m *Machine) destroy() {
	m.stopTimer()
	m.state.Phase = PhaseDestroyed
	m.state.Opacity = 0
	m.state.Hover = NoIndex
	m.snap.Release()
	m.host.Destroy()
	m.logger.Debug("popup destroyed")
}

// startTimer requests kind from the scheduler, stopping any other timer
// first so at most one is ever running.
func (m *Machine) startTimer(kind TimerKind, interval time.Duration) {
	if m.timer == kind {
		return
	}
	m.stopTimer()
	m.timer = kind
	m.scheduler.Start(kind, interval)
}

func (m *Machine) stopTimer() {
	if m.timer == TimerNone {
		return
	}
	m.scheduler.Stop(m.timer)
	m.timer = TimerNone
}

func (m *Machine) paint() {
	if m.painter == nil {
		return
	}
	frame := m.painter.Paint(m.snap, m.state)
	if frame != nil {
		m.host.Present(frame)
	}
}

// launch opens path through the launcher. Failures are logged and never
// change the lifecycle.
func (m *Machine) launch(path string) {
	if m.launcher == nil || path == "" {
		return
	}
	if err := m.launcher.Open(path); err != nil {
		m.logger.Debug("launch failed", "path", path, "error", err)
	}
}

// ReplaceSnapshot swaps in a reloaded snapshot while the popup is active,
// releasing the previous one. In any other phase the new snapshot is
// released instead and false is returned.
func (m *Machine) ReplaceSnapshot(next *snapshot.Snapshot) bool {
	if next == nil || next == m.snap {
		return false
	}
	if m.state.Phase != PhaseActive {
		next.Release()
		return false
	}
	old := m.snap
	m.snap = next
	old.Release()

	m.pressed = NoIndex
	m.state.Hover = NoIndex
	m.state.Tooltip = ""
	m.host.SetTooltip("")
	m.state.Scroll = min(m.state.Scroll, m.layout.MaxScroll(next.Len()))
	m.host.Invalidate(m.layout.Bounds())
	m.logger.Debug("snapshot replaced", "folder", next.Folder, "entries", next.Len())
	return true
}
