package popup

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/folderpop/internal/snapshot"
)

type fakeHost struct {
	opacities []uint8
	dirty     [][]image.Rectangle
	tooltips  []string
	menus     [][]MenuItem
	moves     []image.Point
	frames    int
	destroyed int
}

func (h *fakeHost) SetOpacity(alpha uint8) { h.opacities = append(h.opacities, alpha) }
func (h *fakeHost) Invalidate(rects ...image.Rectangle) {
	h.dirty = append(h.dirty, rects)
}
func (h *fakeHost) SetTooltip(text string) { h.tooltips = append(h.tooltips, text) }
func (h *fakeHost) ShowMenu(_ image.Point, items []MenuItem) {
	h.menus = append(h.menus, items)
}
func (h *fakeHost) BeginMove(at image.Point) {
	h.moves = append(h.moves, at)
}
func (h *fakeHost) Present(frame *image.RGBA) { h.frames++ }
func (h *fakeHost) Destroy()                  { h.destroyed++ }

// fakeScheduler records timer requests and tracks which are running.
type fakeScheduler struct {
	active  map[TimerKind]bool
	maxLive int
	starts  []TimerKind
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{active: map[TimerKind]bool{}}
}

func (s *fakeScheduler) Start(kind TimerKind, _ time.Duration) {
	s.active[kind] = true
	s.starts = append(s.starts, kind)
	live := 0
	for _, on := range s.active {
		if on {
			live++
		}
	}
	s.maxLive = max(s.maxLive, live)
}

func (s *fakeScheduler) Stop(kind TimerKind) { s.active[kind] = false }

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeLauncher struct {
	opened []string
	err    error
}

func (l *fakeLauncher) Open(path string) error {
	l.opened = append(l.opened, path)
	return l.err
}

type fakeRegistrar struct {
	registered bool
	err        error
	queries    int
}

func (r *fakeRegistrar) IsRegistered() bool {
	r.queries++
	return r.registered
}

func (r *fakeRegistrar) Register() error {
	if r.err != nil {
		return r.err
	}
	r.registered = true
	return nil
}

func (r *fakeRegistrar) Unregister() error {
	if r.err != nil {
		return r.err
	}
	r.registered = false
	return nil
}

type fakeNotifier struct {
	titles []string
	errors []bool
}

func (n *fakeNotifier) Notify(title, _ string, isError bool) {
	n.titles = append(n.titles, title)
	n.errors = append(n.errors, isError)
}

type fakePainter struct{ calls int }

func (p *fakePainter) Paint(_ *snapshot.Snapshot, _ State) *image.RGBA {
	p.calls++
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

type harness struct {
	m         *Machine
	host      *fakeHost
	sched     *fakeScheduler
	clock     *fakeClock
	launcher  *fakeLauncher
	registrar *fakeRegistrar
	notifier  *fakeNotifier
	snap      *snapshot.Snapshot
	released  int
}

func testSnapshot(h *harness, names ...string) *snapshot.Snapshot {
	s := &snapshot.Snapshot{Folder: "/home/user/Desktop"}
	for _, n := range names {
		isDir := n[len(n)-1] == '/'
		if isDir {
			n = n[:len(n)-1]
		}
		icon := snapshot.NewIcon(image.NewRGBA(image.Rect(0, 0, 1, 1)), func() { h.released++ })
		s.Entries = append(s.Entries, snapshot.Entry{
			Name:  n,
			Path:  s.Folder + "/" + n,
			IsDir: isDir,
			Icon:  icon,
		})
	}
	return s
}

func newHarness(t *testing.T, timing Timing, names ...string) *harness {
	t.Helper()
	h := &harness{
		host:      &fakeHost{},
		sched:     newFakeScheduler(),
		clock:     &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
		launcher:  &fakeLauncher{},
		registrar: &fakeRegistrar{},
		notifier:  &fakeNotifier{},
	}
	h.snap = testSnapshot(h, names...)
	h.m = New(Options{
		Snapshot:  h.snap,
		Timing:    timing,
		Host:      h.host,
		Painter:   &fakePainter{},
		Scheduler: h.sched,
		Clock:     h.clock,
		Launcher:  h.launcher,
		Registrar: h.registrar,
		Notifier:  h.notifier,
	})
	h.m.Open()
	return h
}

func simpleTiming() Timing {
	t := DefaultTiming()
	t.PulseEnabled = false
	return t
}

// cellCenter returns the window point at the middle of cell i.
func cellCenter(m *Machine, i int) image.Point {
	r := m.Layout().CellRect(i, 0)
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// emptyGridPoint is inside the grid but past the last cell of a short
// snapshot.
func emptyGridPoint(m *Machine) image.Point {
	g := m.Layout().GridRect()
	return image.Pt(g.Max.X-m.Layout().CellSize()/2-m.Layout().gridInset(), g.Max.Y-5)
}

// drive fires the active timer until the machine is destroyed, returning
// the number of ticks, bounded by limit.
func drive(h *harness, limit int) int {
	ticks := 0
	for h.m.Phase() != PhaseDestroyed && ticks < limit {
		kind := h.m.ActiveTimer()
		if kind == TimerNone {
			break
		}
		switch kind {
		case TimerFade:
			h.clock.Advance(h.m.timing.FadeInterval)
		case TimerPulse:
			h.clock.Advance(h.m.timing.PulseInterval)
		}
		h.m.Handle(TimerFired{Kind: kind})
		ticks++
	}
	return ticks
}

func TestOpen_FullyOpaqueAndActive(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	assert.Equal(t, PhaseActive, h.m.Phase())
	assert.Equal(t, uint8(255), h.m.State().Opacity)
	assert.Equal(t, []uint8{255}, h.host.opacities)
	assert.Equal(t, NoIndex, h.m.State().Hover)
	assert.Equal(t, NoIndex, h.m.State().Clicked)
}

func TestFade_TenTicksFromOpaque(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	h.m.Handle(FocusLost{})
	require.Equal(t, PhaseClosingFade, h.m.Phase())
	assert.True(t, h.m.State().Closing)

	for i := 1; i <= 9; i++ {
		h.m.Handle(TimerFired{Kind: TimerFade})
		require.Equal(t, PhaseClosingFade, h.m.Phase(), "tick %d", i)
		assert.Equal(t, uint8(255-25*i), h.m.State().Opacity)
	}
	assert.Equal(t, uint8(30), h.m.State().Opacity)

	h.m.Handle(TimerFired{Kind: TimerFade})
	assert.Equal(t, PhaseDestroyed, h.m.Phase())
	assert.Equal(t, 1, h.host.destroyed)
	assert.Equal(t, TimerNone, h.m.ActiveTimer())
	assert.False(t, h.sched.active[TimerFade])
}

func TestFade_FloorBoundary(t *testing.T) {
	tests := []struct {
		name    string
		start   uint8
		ticks   int
		destroy bool
	}{
		{"lands above floor", 55, 1, false},
		{"lands exactly on floor", 50, 1, true},
		{"underflow clamps to zero", 10, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, DefaultTiming(), "a.txt")
			h.m.Handle(KeyPressed{Key: KeyEscape})
			h.m.state.Opacity = tt.start
			for range tt.ticks {
				h.m.Handle(TimerFired{Kind: TimerFade})
			}
			assert.Equal(t, tt.destroy, h.m.Phase() == PhaseDestroyed)
		})
	}
}

func TestDestroyed_IgnoresEverything(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt", "b.txt")
	h.m.Close()
	drive(h, 100)
	require.Equal(t, PhaseDestroyed, h.m.Phase())

	h.m.Handle(TimerFired{Kind: TimerFade})
	h.m.Handle(FocusLost{})
	h.m.Handle(PointerMove{Point: cellCenter(h.m, 0)})
	h.m.Handle(PaintRequested{})
	h.m.Close()

	assert.Equal(t, 1, h.host.destroyed)
	assert.Equal(t, NoIndex, h.m.State().Hover)
	assert.Equal(t, 0, h.host.frames)
}

func TestDestroy_ReleasesIconsOnce(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt", "b/", "c.txt")

	h.m.Close()
	drive(h, 100)

	assert.Equal(t, 3, h.released)
	assert.True(t, h.snap.Released())
}

func TestActivate_SimpleVariantReachesDestroyed(t *testing.T) {
	h := newHarness(t, simpleTiming(), "a.txt", "b.txt")

	p := cellCenter(h.m, 1)
	h.m.Handle(PointerDown{Point: p, Button: ButtonPrimary})
	h.m.Handle(PointerUp{Point: p, Button: ButtonPrimary})

	assert.Equal(t, []string{"/home/user/Desktop/b.txt"}, h.launcher.opened)
	assert.Equal(t, PhaseClosingFade, h.m.Phase())
	assert.Equal(t, 10, drive(h, 1000))
	assert.Equal(t, PhaseDestroyed, h.m.Phase())
	assert.NotContains(t, h.sched.starts, TimerPulse)
}

func TestActivate_PulseVariantReachesDestroyed(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt", "b.txt")

	require.True(t, h.m.OnActivate(0))
	assert.Equal(t, PhaseClickFeedback, h.m.Phase())
	assert.Equal(t, 0, h.m.State().Clicked)

	ticks := drive(h, 1000)
	assert.Equal(t, PhaseDestroyed, h.m.Phase())
	assert.Equal(t, 10+10, ticks)
	assert.Equal(t, 1, h.sched.maxLive)
}

func TestActivate_LaunchFailureStillCloses(t *testing.T) {
	h := newHarness(t, simpleTiming(), "a.txt")
	h.launcher.err = errors.New("no handler")

	h.m.OnActivate(0)
	drive(h, 1000)

	assert.Equal(t, PhaseDestroyed, h.m.Phase())
}

func TestActivate_OutOfRangeIgnored(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	assert.False(t, h.m.OnActivate(-1))
	assert.False(t, h.m.OnActivate(1))
	assert.False(t, h.m.OnActivate(99))

	assert.Equal(t, PhaseActive, h.m.Phase())
	assert.Empty(t, h.launcher.opened)
	assert.Equal(t, TimerNone, h.m.ActiveTimer())
}

func TestActivate_ReleaseOffItemDoesNothing(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt", "b.txt")

	h.m.Handle(PointerDown{Point: cellCenter(h.m, 0), Button: ButtonPrimary})
	h.m.Handle(PointerUp{Point: cellCenter(h.m, 1), Button: ButtonPrimary})

	assert.Equal(t, PhaseActive, h.m.Phase())
	assert.Empty(t, h.launcher.opened)
}

func TestPulse_AlphaBouncesBetweenBounds(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")
	h.m.OnActivate(0)
	assert.Equal(t, uint8(255), h.m.State().Pulse.Alpha)

	var got []uint8
	for range 9 {
		h.clock.Advance(200 * time.Millisecond)
		h.m.Handle(TimerFired{Kind: TimerPulse})
		got = append(got, h.m.State().Pulse.Alpha)
	}

	assert.Equal(t, []uint8{210, 165, 120, 75, 30, 75, 120, 165, 210}, got)
	assert.Equal(t, PhaseClickFeedback, h.m.Phase())

	h.clock.Advance(200 * time.Millisecond)
	h.m.Handle(TimerFired{Kind: TimerPulse})
	assert.Equal(t, PhaseClosingFade, h.m.Phase())
}

func TestPulse_EndsByTickCountWithFrozenClock(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")
	h.m.OnActivate(0)

	for range 10 {
		h.m.Handle(TimerFired{Kind: TimerPulse})
	}

	assert.Equal(t, PhaseClosingFade, h.m.Phase())
}

func TestPulse_ElapsedTimeEndsEarly(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")
	h.m.OnActivate(0)

	h.clock.Advance(3 * time.Second)
	h.m.Handle(TimerFired{Kind: TimerPulse})

	assert.Equal(t, PhaseClosingFade, h.m.Phase())
}

func TestClosing_CancelsPulseTimerFirst(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")
	h.m.OnActivate(0)
	require.True(t, h.sched.active[TimerPulse])

	h.m.Handle(FocusLost{})

	assert.Equal(t, PhaseClosingFade, h.m.Phase())
	assert.False(t, h.sched.active[TimerPulse])
	assert.True(t, h.sched.active[TimerFade])
	assert.Equal(t, 1, h.sched.maxLive)

	// A stale pulse tick delivered after the switch changes nothing.
	before := h.m.State()
	h.m.Handle(TimerFired{Kind: TimerPulse})
	assert.Equal(t, before, h.m.State())
}

func TestClosing_TriggersAreIdempotent(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	h.m.Handle(FocusLost{})
	h.m.Handle(KeyPressed{Key: KeyEscape})
	h.m.Close()

	assert.Equal(t, []TimerKind{TimerFade}, h.sched.starts)
}

func TestMenuClosed_WithoutFocusCloses(t *testing.T) {
	tests := []struct {
		name    string
		focused bool
		closing bool
	}{
		{"focus kept", true, false},
		{"focus moved away", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, DefaultTiming(), "a.txt")
			h.m.Handle(PointerDown{Point: emptyGridPoint(h.m), Button: ButtonSecondary})
			require.Len(t, h.host.menus, 1)

			h.m.Handle(MenuClosed{Focused: tt.focused})

			assert.Equal(t, tt.closing, h.m.Phase() == PhaseClosingFade)
			if tt.closing {
				assert.Less(t, drive(h, 50), 50)
				assert.Equal(t, PhaseDestroyed, h.m.Phase())
			}
		})
	}
}

func TestKeyPressed_OtherKeysIgnored(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	h.m.Handle(KeyPressed{Key: KeyOther})

	assert.Equal(t, PhaseActive, h.m.Phase())
}

func TestActivate_IgnoredWhileClosing(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")
	h.m.Close()

	assert.False(t, h.m.OnActivate(0))
	assert.Empty(t, h.launcher.opened)
}

func TestHeader_DoubleClickOpensFolderAndCloses(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	h.m.Handle(PointerDoubleClick{Point: image.Pt(100, 10)})

	assert.Equal(t, []string{"/home/user/Desktop"}, h.launcher.opened)
	assert.Equal(t, PhaseClosingFade, h.m.Phase())
}

func TestHeader_DoubleClickOnGridIgnored(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	h.m.Handle(PointerDoubleClick{Point: cellCenter(h.m, 0)})

	assert.Empty(t, h.launcher.opened)
	assert.Equal(t, PhaseActive, h.m.Phase())
}

func TestHeader_PressRequestsMove(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	h.m.Handle(PointerDown{Point: image.Pt(50, 5), Button: ButtonPrimary})

	assert.Equal(t, []image.Point{image.Pt(50, 5)}, h.host.moves)
}

func TestPaintRequested_PresentsFrame(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")

	h.m.Handle(PaintRequested{})

	assert.Equal(t, 1, h.host.frames)
}

func TestScroll_ClampsToContent(t *testing.T) {
	names := make([]string, 60)
	for i := range names {
		names[i] = string(rune('a'+i%26)) + string(rune('a'+i/26)) + ".txt"
	}
	h := newHarness(t, DefaultTiming(), names...)
	maxScroll := h.m.Layout().MaxScroll(60)
	require.Positive(t, maxScroll)

	h.m.Handle(Scroll{DY: -40})
	assert.Equal(t, 0, h.m.State().Scroll)

	h.m.Handle(Scroll{DY: 10000})
	assert.Equal(t, maxScroll, h.m.State().Scroll)
}

func TestReplaceSnapshot_ReleasesOld(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt", "b.txt")
	h.m.OnHover(1)

	next := testSnapshot(h, "c.txt")
	require.True(t, h.m.ReplaceSnapshot(next))

	assert.Equal(t, 2, h.released)
	assert.True(t, h.snap.Released())
	assert.Same(t, next, h.m.Snapshot())
	assert.Equal(t, NoIndex, h.m.State().Hover)

	h.m.Close()
	drive(h, 100)
	assert.Equal(t, 3, h.released)
}

func TestReplaceSnapshot_WhileClosingReleasesNew(t *testing.T) {
	h := newHarness(t, DefaultTiming(), "a.txt")
	h.m.Close()

	next := testSnapshot(h, "b.txt", "c.txt")
	assert.False(t, h.m.ReplaceSnapshot(next))
	assert.True(t, next.Released())
	assert.Same(t, h.snap, h.m.Snapshot())
	assert.Equal(t, 2, h.released)
}
