package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"

	"github.com/jmylchreest/folderpop/internal/popup"
	"github.com/jmylchreest/folderpop/internal/snapshot"
)

var red = color.RGBA{R: 255, A: 255}

func solid(size int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func testSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Folder: "/home/user/Desktop",
		Entries: []snapshot.Entry{
			{Name: "a.png", Path: "/home/user/Desktop/a.png", Icon: snapshot.NewIcon(solid(32, red), nil)},
			{Name: "b.txt", Path: "/home/user/Desktop/b.txt"},
		},
	}
}

// assertColor compares colours allowing for anti-aliasing rounding.
func assertColor(t *testing.T, want, got color.RGBA, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, int(want.R), int(got.R), 2, msgAndArgs...)
	assert.InDelta(t, int(want.G), int(got.G), 2, msgAndArgs...)
	assert.InDelta(t, int(want.B), int(got.B), 2, msgAndArgs...)
	assert.InDelta(t, int(want.A), int(got.A), 2, msgAndArgs...)
}

func newRenderer(t *testing.T, rings bool) *Renderer {
	t.Helper()
	r, err := New(Options{Palette: DarkPalette(), Rings: rings})
	require.NoError(t, err)
	return r
}

func idle() popup.State {
	return popup.State{Phase: popup.PhaseActive, Opacity: 255, Hover: popup.NoIndex, Clicked: popup.NoIndex}
}

func TestPaint_Bands(t *testing.T) {
	r := newRenderer(t, true)
	p := DarkPalette()

	frame := r.Paint(testSnapshot(), idle())

	assert.Equal(t, image.Rect(0, 0, 320, 400), frame.Bounds())
	assert.Equal(t, p.Header, frame.RGBAAt(300, 18))
	assert.Equal(t, p.StatusBand, frame.RGBAAt(300, 388))
	assert.Equal(t, p.Background, frame.RGBAAt(160, 300))
	assert.Equal(t, p.Border, frame.RGBAAt(0, 0))
	assert.Equal(t, p.Border, frame.RGBAAt(319, 399))
}

func TestPaint_TitleIsDrawn(t *testing.T) {
	r := newRenderer(t, false)
	p := DarkPalette()

	frame := r.Paint(testSnapshot(), idle())

	found := false
	for y := 1; y < 36 && !found; y++ {
		for x := 12; x < 284; x++ {
			if frame.RGBAAt(x, y) != p.Header {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected title pixels in the header band")
}

func TestPaint_IconsAndPlaceholder(t *testing.T) {
	r := newRenderer(t, false)
	l := popup.DefaultLayout()

	frame := r.Paint(testSnapshot(), idle())

	icon := l.IconRect(0, 0)
	assert.Equal(t, red, frame.RGBAAt(icon.Min.X+16, icon.Min.Y+16))

	ph := l.IconRect(1, 0)
	assertColor(t, DarkPalette().Placeholder, frame.RGBAAt(ph.Min.X+16, ph.Min.Y+16))
}

func TestPaint_OversizedIconIsFitted(t *testing.T) {
	r := newRenderer(t, false)
	l := popup.DefaultLayout()
	snap := testSnapshot()
	snap.Entries[0].Icon = snapshot.NewIcon(solid(128, red), nil)

	frame := r.Paint(snap, idle())

	icon := l.IconRect(0, 0)
	assertColor(t, red, frame.RGBAAt(icon.Min.X+16, icon.Min.Y+16))
	// The cell padding next to the icon keeps the background.
	assert.Equal(t, DarkPalette().Background, frame.RGBAAt(icon.Max.X+3, icon.Min.Y+16))
}

func TestPaint_ReleasedIconUsesPlaceholder(t *testing.T) {
	r := newRenderer(t, false)
	l := popup.DefaultLayout()
	snap := testSnapshot()
	snap.Release()

	frame := r.Paint(snap, idle())

	icon := l.IconRect(0, 0)
	assertColor(t, DarkPalette().Placeholder, frame.RGBAAt(icon.Min.X+16, icon.Min.Y+16))
}

func TestPaint_HoverRing(t *testing.T) {
	l := popup.DefaultLayout()
	cell := l.CellRect(1, 0)
	ringPx := image.Pt(cell.Min.X+2, (cell.Min.Y+cell.Max.Y)/2)

	st := idle()
	st.Hover = 1

	frame := newRenderer(t, true).Paint(testSnapshot(), st)
	assertColor(t, DarkPalette().Hover, frame.RGBAAt(ringPx.X, ringPx.Y))

	frame = newRenderer(t, false).Paint(testSnapshot(), st)
	assert.Equal(t, DarkPalette().Background, frame.RGBAAt(ringPx.X, ringPx.Y))
}

func TestPaint_ClickedRingBlendsWithPulse(t *testing.T) {
	l := popup.DefaultLayout()
	p := DarkPalette()
	cell := l.CellRect(0, 0)
	ringPx := image.Pt(cell.Min.X+2, (cell.Min.Y+cell.Max.Y)/2)

	for _, alpha := range []uint8{255, 120, 30} {
		st := idle()
		st.Phase = popup.PhaseClickFeedback
		st.Clicked = 0
		st.Pulse.Alpha = alpha

		frame := newRenderer(t, true).Paint(testSnapshot(), st)
		assertColor(t, Lerp(p.Background, p.Hover, alpha), frame.RGBAAt(ringPx.X, ringPx.Y), "alpha %d", alpha)
	}
}

func TestPaint_ScrolledIconsStayOutOfHeader(t *testing.T) {
	r := newRenderer(t, false)
	l := popup.DefaultLayout()
	st := idle()
	st.Scroll = 20

	frame := r.Paint(testSnapshot(), st)

	icon := l.IconRect(0, 20)
	require.Less(t, icon.Min.Y, l.HeaderHeight)
	assert.Equal(t, DarkPalette().Header, frame.RGBAAt(icon.Min.X+16, l.HeaderHeight-2))
	assert.Equal(t, red, frame.RGBAAt(icon.Min.X+16, l.HeaderHeight+2))
}

func TestPaint_EmptySnapshot(t *testing.T) {
	r := newRenderer(t, true)

	frame := r.Paint(&snapshot.Snapshot{Folder: "/tmp/empty"}, idle())

	assert.Equal(t, DarkPalette().Background, frame.RGBAAt(40, 60))
}

func TestLerp(t *testing.T) {
	a := color.RGBA{R: 0, G: 100, B: 200, A: 255}
	b := color.RGBA{R: 200, G: 100, B: 0, A: 255}

	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 255))
	mid := Lerp(a, b, 128)
	assert.InDelta(t, 100, int(mid.R), 1)
	assert.Equal(t, uint8(100), mid.G)
	assert.InDelta(t, 100, int(mid.B), 1)
}

func TestEllipsize(t *testing.T) {
	faces, err := LoadFaces(14, 11)
	require.NoError(t, err)

	assert.Equal(t, "Desktop", Ellipsize(faces.Title, "Desktop", 200))
	assert.Equal(t, "", Ellipsize(faces.Title, "Desktop", 0))

	long := strings.Repeat("Very long folder name ", 10)
	got := Ellipsize(faces.Title, long, 120)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, font.MeasureString(faces.Title, got).Ceil(), 120)
	assert.True(t, strings.HasPrefix(long, strings.TrimSuffix(got, "…")))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#3584e4")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x35, G: 0x84, B: 0xe4, A: 0xff}, c)

	_, err = ParseHex("blue")
	assert.Error(t, err)
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, DarkPalette(), PaletteFor(true))
	assert.Equal(t, LightPalette(), PaletteFor(false))
}
