package editor

import (
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/math/f64"

	"maditor/imgbuf"
	"maditor/line"
)

func countValue(b *imgbuf.Buffer, kind imgbuf.ChannelKind, v uint8) int {
	return int(b.Histogram(kind)[v])
}

func near(a, b f64.Vec2) bool {
	return math.Abs(a[0]-b[0]) < 1e-9 && math.Abs(a[1]-b[1]) < 1e-9
}

func TestPaintAtSinglePixel(t *testing.T) {
	b := imgbuf.New(8, 8)
	PaintAt(b, imgbuf.Channels(imgbuf.Red, imgbuf.Alpha), f64.Vec2{3.7, 4.2}, 1, 9)

	for _, kind := range []imgbuf.ChannelKind{imgbuf.Red, imgbuf.Alpha} {
		if got := countValue(b, kind, 9); got != 1 {
			t.Errorf("%v: painted %d pixels, want 1", kind, got)
		}
		if got := b.Channel(kind).Get(3, 4); got != 9 {
			t.Errorf("%v(3,4) = %d, want 9", kind, got)
		}
	}
	if got := countValue(b, imgbuf.Green, 0); got != 64 {
		t.Errorf("green was painted: %d zero pixels", got)
	}
}

func TestPaintAtPlus(t *testing.T) {
	b := imgbuf.New(7, 7)
	PaintAt(b, imgbuf.Channels(imgbuf.Blue), f64.Vec2{3, 3}, 2, 255)
	want := map[image.Point]bool{{3, 3}: true, {2, 3}: true, {4, 3}: true, {3, 2}: true, {3, 4}: true}
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			got := b.Channel(imgbuf.Blue).Get(x, y) == 255
			if got != want[image.Pt(x, y)] {
				t.Errorf("(%d,%d) painted = %v", x, y, got)
			}
		}
	}
}

func TestPaintDragContinuity(t *testing.T) {
	tests := []struct {
		name     string
		from, to image.Point
	}{
		{"shallow", image.Pt(0, 0), image.Pt(19, 7)},
		{"steep", image.Pt(3, 19), image.Pt(9, 0)},
		{"backwards", image.Pt(18, 12), image.Pt(1, 2)},
		{"dot", image.Pt(5, 5), image.Pt(5, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := imgbuf.New(20, 20)
			prev := f64.Vec2{float64(tt.from.X), float64(tt.from.Y)}
			cur := f64.Vec2{float64(tt.to.X), float64(tt.to.Y)}
			PaintDrag(b, imgbuf.Channels(imgbuf.Green), prev, cur, 1, 255)

			pts := line.Points(tt.from, tt.to)
			if got := countValue(b, imgbuf.Green, 255); got != len(pts) {
				t.Errorf("painted %d pixels, want %d", got, len(pts))
			}
			for _, p := range pts {
				if b.Channel(imgbuf.Green).Get(p.X, p.Y) != 255 {
					t.Errorf("gap at %v", p)
				}
			}
			for _, p := range []image.Point{tt.from, tt.to} {
				if b.Channel(imgbuf.Green).Get(p.X, p.Y) != 255 {
					t.Errorf("endpoint %v not painted", p)
				}
			}
		})
	}
}

func TestPaintDragClipsAtEdges(t *testing.T) {
	b := imgbuf.New(10, 10)
	PaintDrag(b, imgbuf.Channels(imgbuf.Red), f64.Vec2{-5, 5}, f64.Vec2{15, 5}, 3, 255)
	if got := countValue(b, imgbuf.Red, 255); got != 30 {
		t.Errorf("painted %d pixels, want 30", got)
	}
}

func TestToolFor(t *testing.T) {
	tests := []struct {
		mods Modifiers
		want Tool
	}{
		{0, Draw},
		{Ctrl, Draw},
		{Shift, BrushSelect},
		{Ctrl | Shift, ShapeSelect},
		{Alt, Move},
		{Alt | Shift, Move},
		{Alt | Ctrl | Shift, Move},
	}
	for _, tt := range tests {
		if got := ToolFor(tt.mods); got != tt.want {
			t.Errorf("ToolFor(%03b) = %v, want %v", tt.mods, got, tt.want)
		}
	}

	s := NewSession(imgbuf.New(1, 1), nil)
	if got := s.ToolFor(Ctrl | Shift); got != ShapeSelect || s.Tool() != ShapeSelect {
		t.Errorf("session tool = %v, want shape-select", s.Tool())
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range []Tool{Draw, BrushSelect, ShapeSelect, Move} {
		got, err := ParseTool(tool.String())
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool.String(), got, err)
		}
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestDrawToolWritesBrushColour(t *testing.T) {
	b := imgbuf.New(8, 8)
	s := NewSession(b, nil)
	s.SetBrushSize(1)
	// Alpha is painted opaque whatever the colour's own alpha.
	s.SetColor(color.NRGBA{R: 200, G: 10, B: 30, A: 40})
	s.SetActive(imgbuf.Channels(imgbuf.Red, imgbuf.Green, imgbuf.Alpha))

	s.OnPointerDown(f64.Vec2{3, 3})
	s.OnPointerUp(f64.Vec2{3, 3})

	tests := []struct {
		kind imgbuf.ChannelKind
		want uint8
	}{
		{imgbuf.Red, 200},
		{imgbuf.Green, 10},
		{imgbuf.Blue, 0},
		{imgbuf.Alpha, 255},
	}
	for _, tt := range tests {
		if got := b.Channel(tt.kind).Get(3, 3); got != tt.want {
			t.Errorf("%v(3,3) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestDrawToolFollowsView(t *testing.T) {
	b := imgbuf.New(16, 16)
	s := NewSession(b, nil)
	s.SetBrushSize(1)
	s.SetActive(imgbuf.Channels(imgbuf.Alpha))
	s.SetView(2, f64.Vec2{4, 0})

	s.OnPointerDown(f64.Vec2{10, 6})
	s.OnPointerMove(f64.Vec2{18, 6})
	s.OnPointerUp(f64.Vec2{18, 6})

	for x := 3; x <= 7; x++ {
		if b.Channel(imgbuf.Alpha).Get(x, 3) != 255 {
			t.Errorf("(%d,3) not painted", x)
		}
	}
	if got := countValue(b, imgbuf.Alpha, 255); got != 5 {
		t.Errorf("painted %d pixels, want 5", got)
	}
}

func TestBrushSelectCommits(t *testing.T) {
	b := imgbuf.New(12, 6)
	b.MutChannel(imgbuf.Selection).Set(0, 0, 255)
	s := NewSession(b, nil)
	s.SetTool(BrushSelect)
	s.SetBrushSize(1)

	s.OnPointerDown(f64.Vec2{2, 2})
	s.OnPointerMove(f64.Vec2{6, 3})
	if got := countValue(b, imgbuf.HotSelection, 255); got == 0 {
		t.Fatal("stroke did not reach the hot selection")
	}
	if got := b.Channel(imgbuf.Selection).Get(2, 2); got != 0 {
		t.Fatalf("selection changed before release: %d", got)
	}
	s.OnPointerUp(f64.Vec2{9, 3})

	touched := map[image.Point]bool{{0, 0}: true}
	for _, p := range line.Points(image.Pt(2, 2), image.Pt(6, 3)) {
		touched[p] = true
	}
	for _, p := range line.Points(image.Pt(6, 3), image.Pt(9, 3)) {
		touched[p] = true
	}

	sel := b.Channel(imgbuf.Selection)
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			want := uint8(0)
			if touched[image.Pt(x, y)] {
				want = 255
			}
			if got := sel.Get(x, y); got != want {
				t.Errorf("selection(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
	if got := countValue(b, imgbuf.HotSelection, 0); got != 72 {
		t.Errorf("hot selection not cleared: %d zero pixels", got)
	}
}

func TestShapeSelect(t *testing.T) {
	b := imgbuf.New(10, 10)
	s := NewSession(b, nil)
	s.SetTool(ShapeSelect)

	s.OnPointerDown(f64.Vec2{6, 4})
	s.OnPointerMove(f64.Vec2{2, 2})
	r, ok := s.PendingRect()
	if !ok || r != image.Rect(2, 2, 7, 5) {
		t.Errorf("PendingRect() = %v, %v; want %v", r, ok, image.Rect(2, 2, 7, 5))
	}
	if got := countValue(b, imgbuf.Selection, 255); got != 0 {
		t.Fatalf("selection changed before release: %d pixels", got)
	}

	s.OnPointerUp(f64.Vec2{3, 1})
	if got := countValue(b, imgbuf.Selection, 255); got != 16 {
		t.Errorf("selected %d pixels, want 16", got)
	}
	if _, ok := s.PendingRect(); ok {
		t.Error("PendingRect() reported a rectangle after release")
	}
	if got := len(s.SelectionOutline()); got != 1 {
		t.Errorf("outline has %d contours, want 1", got)
	}
}

func TestMoveToolPans(t *testing.T) {
	b := imgbuf.New(4, 4)
	s := NewSession(b, nil)
	s.SetTool(Move)

	s.OnPointerDown(f64.Vec2{10, 10})
	s.OnPointerMove(f64.Vec2{15, 7})
	s.OnPointerUp(f64.Vec2{15, 7})

	want := f64.Aff3{1, 0, 5, 0, 1, -3}
	if s.View() != want {
		t.Errorf("View() = %v, want %v", s.View(), want)
	}
	if got := s.ToPlane(f64.Vec2{15, 7}); !near(got, f64.Vec2{10, 10}) {
		t.Errorf("ToPlane = %v, want (10,10)", got)
	}
	for _, kind := range imgbuf.ColorChannels {
		if got := countValue(b, kind, 0); got != 16 {
			t.Errorf("%v was painted by the move tool", kind)
		}
	}
}

func TestWheelZoomKeepsAnchor(t *testing.T) {
	s := NewSession(imgbuf.New(4, 4), nil)
	s.SetView(1, f64.Vec2{3, -2})
	screen := f64.Vec2{20, 14}
	before := s.ToPlane(screen)

	s.OnWheel(screen, 1)
	if got := s.Scale(); math.Abs(got-ZoomStep) > 1e-12 {
		t.Errorf("Scale() = %v, want %v", got, ZoomStep)
	}
	if got := s.ToPlane(screen); !near(got, before) {
		t.Errorf("anchor moved from %v to %v", before, got)
	}
	if got := s.ToScreen(before); !near(got, screen) {
		t.Errorf("ToScreen(%v) = %v, want %v", before, got, screen)
	}

	s.OnWheel(screen, 1000)
	if s.Scale() != MaxScale {
		t.Errorf("Scale() = %v, want clamp at %v", s.Scale(), MaxScale)
	}
	s.OnWheel(screen, -1000)
	if s.Scale() != MinScale {
		t.Errorf("Scale() = %v, want clamp at %v", s.Scale(), MinScale)
	}
}

func TestAdjustBrushSize(t *testing.T) {
	s := NewSession(imgbuf.New(1, 1), nil)
	if got := s.AdjustBrushSize(2); got != DefaultBrushSize+2 {
		t.Errorf("AdjustBrushSize(2) = %d", got)
	}
	if got := s.AdjustBrushSize(-100); got != 1 {
		t.Errorf("AdjustBrushSize(-100) = %d, want 1", got)
	}
}

func TestSessionComposite(t *testing.T) {
	b := imgbuf.New(2, 1)
	b.MutChannel(imgbuf.Red).Fill(50)
	b.MutChannel(imgbuf.Alpha).Fill(255)
	s := NewSession(b, nil)

	first := s.Composite()
	if &first[0] != &s.Composite()[0] {
		t.Error("Composite() recomputed without a mutation")
	}

	s.SetVisible(imgbuf.Red, false)
	if s.Visible(imgbuf.Red) {
		t.Error("red still visible")
	}
	if got := s.Composite(); got[0] != 0 || got[3] != 255 {
		t.Errorf("hidden red composite = %v", got[:4])
	}

	s.FillSelectionRect(image.Pt(1, 0), image.Pt(1, 0))
	if got := s.Composite(); got[4+3] != imgbuf.SelectionAlpha {
		t.Errorf("selected alpha = %d, want %d", got[4+3], imgbuf.SelectionAlpha)
	}
	s.SetShowSelection(false)
	if got := s.Composite(); got[4+3] != 255 {
		t.Errorf("alpha with overlay hidden = %d, want 255", got[4+3])
	}
}
