package contour

import (
	"fmt"
	"image"
	"testing"

	"maditor/plane"
)

// selection builds a plane from rows of '#' (255) and '.' (0).
func selection(rows ...string) *plane.Matrix {
	m := plane.New(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Set(x, y, 255)
			}
		}
	}
	return m
}

func pointsEqual(a, b []image.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindEmpty(t *testing.T) {
	m := selection(
		"....",
		"....",
		"....",
	)
	if cs := Find(m.AsView()); len(cs) != 0 {
		t.Errorf("got %d contours, want 0", len(cs))
	}
	if cs := Find(plane.New(0, 0).AsView()); len(cs) != 0 {
		t.Errorf("zero-sized plane: got %d contours, want 0", len(cs))
	}
}

func TestFindIgnoresPartialValues(t *testing.T) {
	m := plane.New(3, 3)
	m.Set(1, 1, 254)
	if cs := Find(m.AsView()); len(cs) != 0 {
		t.Errorf("got %d contours, want 0", len(cs))
	}
}

func TestFindSinglePixel(t *testing.T) {
	for _, p := range []image.Point{{0, 0}, {2, 1}, {4, 3}} {
		t.Run(fmt.Sprint(p), func(t *testing.T) {
			m := plane.New(5, 4)
			m.Set(p.X, p.Y, 255)

			cs := Find(m.AsView())
			if len(cs) != 2 {
				t.Fatalf("got %d contours, want 2", len(cs))
			}
			if cs[0].Kind != Outer || cs[1].Kind != Hole {
				t.Errorf("kinds = %v, %v; want outer, hole", cs[0].Kind, cs[1].Kind)
			}
			for i, c := range cs {
				if !pointsEqual(c.Points, []image.Point{p}) {
					t.Errorf("contour %d = %v, want [%v]", i, c.Points, p)
				}
			}
			if cs[1].Parent != 0 || cs[0].FirstChild != 1 {
				t.Errorf("hole parent = %d, outer first child = %d; want 0, 1", cs[1].Parent, cs[0].FirstChild)
			}
		})
	}
}

func TestFindFilledPerimeter(t *testing.T) {
	tests := []struct{ w, h int }{{2, 2}, {2, 5}, {4, 3}, {6, 4}, {17, 9}}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.w, tt.h), func(t *testing.T) {
			m := plane.New(tt.w, tt.h)
			m.Fill(255)

			cs := Find(m.AsView())
			if len(cs) != 1 {
				t.Fatalf("got %d contours, want 1", len(cs))
			}
			c := cs[0]
			if c.Kind != Outer {
				t.Errorf("kind = %v, want outer", c.Kind)
			}
			if want := 2*tt.w + 2*tt.h - 4; len(c.Points) != want {
				t.Errorf("got %d points, want %d", len(c.Points), want)
			}
			if c.Points[0] != image.Pt(0, 0) {
				t.Errorf("first point = %v, want (0,0)", c.Points[0])
			}
			seen := map[image.Point]bool{}
			for _, p := range c.Points {
				if seen[p] {
					t.Errorf("point %v visited twice", p)
				}
				seen[p] = true
				onBorder := p.X == 0 || p.Y == 0 || p.X == tt.w-1 || p.Y == tt.h-1
				if !onBorder {
					t.Errorf("point %v is not on the border", p)
				}
			}
			if got := c.Bounds(); got != image.Rect(0, 0, tt.w, tt.h) {
				t.Errorf("Bounds() = %v", got)
			}
		})
	}
}

func TestFindRing(t *testing.T) {
	m := selection(
		".....",
		".###.",
		".#.#.",
		".###.",
		".....",
	)
	cs := Find(m.AsView())
	if len(cs) != 2 {
		t.Fatalf("got %d contours, want 2", len(cs))
	}

	outer := []image.Point{{1, 1}, {1, 2}, {1, 3}, {2, 3}, {3, 3}, {3, 2}, {3, 1}, {2, 1}}
	if cs[0].Kind != Outer || !pointsEqual(cs[0].Points, outer) {
		t.Errorf("outer = %v %v, want %v", cs[0].Kind, cs[0].Points, outer)
	}
	hole := []image.Point{{1, 2}, {2, 1}, {3, 2}, {2, 3}}
	if cs[1].Kind != Hole || !pointsEqual(cs[1].Points, hole) {
		t.Errorf("hole = %v %v, want %v", cs[1].Kind, cs[1].Points, hole)
	}
	if cs[0].Parent != -1 || cs[1].Parent != 0 {
		t.Errorf("parents = %d, %d; want -1, 0", cs[0].Parent, cs[1].Parent)
	}
	if got := Children(cs, 0); len(got) != 1 || got[0] != 1 {
		t.Errorf("Children(0) = %v, want [1]", got)
	}
}

func TestFindSeparateRegions(t *testing.T) {
	m := selection(
		"##....",
		"##..#.",
		"....#.",
		"#.....",
	)
	cs := Find(m.AsView())

	var outers, holes int
	for _, c := range cs {
		switch c.Kind {
		case Outer:
			outers++
		case Hole:
			holes++
		}
	}
	// The lone pixel at (0,3) contributes an outer border and a degenerate hole.
	if outers != 3 || holes != 1 {
		t.Fatalf("got %d outer and %d hole contours, want 3 and 1", outers, holes)
	}

	roots := Roots(cs)
	if len(roots) != 3 {
		t.Fatalf("Roots() = %v, want 3 roots", roots)
	}
	for i := 1; i < len(roots); i++ {
		if cs[roots[i-1]].Next != roots[i] || cs[roots[i]].Prev != roots[i-1] {
			t.Errorf("roots %d and %d are not linked as siblings", roots[i-1], roots[i])
		}
	}
}

func TestFindNestedIsland(t *testing.T) {
	m := selection(
		".......",
		".#####.",
		".#...#.",
		".#.#.#.",
		".#...#.",
		".#####.",
		".......",
	)
	cs := Find(m.AsView())
	// outer ring, its hole, the island and the island's degenerate hole
	if len(cs) != 4 {
		t.Fatalf("got %d contours, want 4", len(cs))
	}
	if cs[1].Kind != Hole || cs[1].Parent != 0 {
		t.Errorf("contour 1: kind %v parent %d; want hole of 0", cs[1].Kind, cs[1].Parent)
	}
	if cs[2].Kind != Outer || cs[2].Parent != 1 {
		t.Errorf("contour 2: kind %v parent %d; want outer inside 1", cs[2].Kind, cs[2].Parent)
	}
	if !pointsEqual(cs[2].Points, []image.Point{{3, 3}}) {
		t.Errorf("island points = %v", cs[2].Points)
	}
}

func TestFindWindowedView(t *testing.T) {
	m := selection(
		"#....",
		".###.",
		".###.",
		".....",
	)
	cs := Find(m.View(1, 1, 3, 2))
	if len(cs) != 1 {
		t.Fatalf("got %d contours, want 1", len(cs))
	}
	want := []image.Point{{0, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 0}, {1, 0}}
	if !pointsEqual(cs[0].Points, want) {
		t.Errorf("points = %v, want %v (window coordinates)", cs[0].Points, want)
	}
}

func TestFindClosedLoops(t *testing.T) {
	m := selection(
		"..##......",
		".####..#..",
		"##..##.##.",
		".####...#.",
		"..#....##.",
		"......#...",
	)
	for i, c := range Find(m.AsView()) {
		if len(c.Points) == 0 {
			t.Fatalf("contour %d is empty", i)
		}
		for j := 1; j < len(c.Points); j++ {
			d := c.Points[j].Sub(c.Points[j-1])
			if d.X < -1 || d.X > 1 || d.Y < -1 || d.Y > 1 {
				t.Errorf("contour %d: %v and %v are not neighbours", i, c.Points[j-1], c.Points[j])
			}
		}
		for _, p := range c.Points {
			if m.Get(p.X, p.Y) != Foreground {
				t.Errorf("contour %d: point %v is background", i, p)
			}
		}
	}
}

func BenchmarkFind(b *testing.B) {
	m := plane.New(512, 512)
	for y := 0; y < 512; y++ {
		for x := 0; x < 512; x++ {
			if (x/16+y/16)%2 == 0 {
				m.Set(x, y, 255)
			}
		}
	}
	v := m.AsView()
	for b.Loop() {
		Find(v)
	}
}
