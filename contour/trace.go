package contour

import (
	"image"

	"maditor/plane"
)

// Foreground is the plane value that counts as inside the selection.
const Foreground = 255

// Neighbour offsets in screen orientation (y grows downwards), both lists
// starting at the east neighbour.
var (
	clockwise = [8]image.Point{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	}
	counterClockwise = [8]image.Point{
		{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
	}
)

const east = 0

// padding is the zero frame around the working grid.
var padding = image.Pt(1, 1)

// grid is the labelled working copy of the source plane. 0 is background,
// 1 is untraced foreground and +/-n marks pixels of border n.
type grid struct {
	width, height int
	cells         []int32
}

func (g *grid) at(p image.Point) int32     { return g.cells[p.Y*g.width+p.X] }
func (g *grid) set(p image.Point, v int32) { g.cells[p.Y*g.width+p.X] = v }

func newGrid(src plane.View) *grid {
	g := &grid{width: src.Width() + 2, height: src.Height() + 2}
	g.cells = make([]int32, g.width*g.height)
	for y := 0; y < src.Height(); y++ {
		row := src.Row(y)
		base := (y+1)*g.width + 1
		for x, v := range row {
			if v == Foreground {
				g.cells[base+x] = 1
			}
		}
	}
	return g
}

type tracer struct {
	grid     *grid
	nbd      int32
	kinds    []Kind  // by label; label 1 is the frame
	parents  []int32 // by label; 0 means none
	contours []Contour
}

// Find traces every border of the pixels of src equal to Foreground. An
// empty selection yields no contours. An isolated pixel yields two one-point
// contours at its position: its outer border and a degenerate hole.
func Find(src plane.View) []Contour {
	t := &tracer{
		grid:    newGrid(src),
		nbd:     1,
		kinds:   []Kind{Hole, Hole},
		parents: []int32{0, 0},
	}
	g := t.grid

	for y := 1; y < g.height-1; y++ {
		lnbd := int32(1)
		for x := 1; x < g.width-1; x++ {
			p := image.Pt(x, y)
			curr := g.at(p)
			if curr == 0 {
				continue
			}
			prev := g.at(image.Pt(x-1, y))
			next := g.at(image.Pt(x+1, y))

			switch {
			case curr == 1 && prev == 0:
				t.follow(p, image.Pt(x-1, y), Outer, lnbd)
			case curr >= 1 && next == 0:
				if curr > 1 {
					lnbd = curr
				}
				t.follow(p, image.Pt(x+1, y), Hole, lnbd)
			}

			if v := g.at(p); v != 1 {
				lnbd = abs32(v)
			}
		}
	}

	link(t.contours)
	return t.contours
}

// follow traces the border starting at start whose search begins at seed.
func (t *tracer) follow(start, seed image.Point, kind Kind, lnbd int32) {
	label := t.register(kind, t.parentFor(kind, lnbd))

	first, ok := t.firstClockwise(start, seed)
	if !ok {
		t.grid.set(start, -label)
		pt := []image.Point{start.Sub(padding)}
		t.emit(label, kind, pt)
		if kind == Outer {
			// An isolated pixel also starts a hole border: its east
			// neighbour is background.
			hole := t.register(Hole, label)
			t.emit(hole, Hole, []image.Point{pt[0]})
		}
		return
	}
	t.emit(label, kind, t.trace(start, first, label))
}

// trace walks the border counter-clockwise and labels its pixels.
func (t *tracer) trace(start, first image.Point, label int32) []image.Point {
	g := t.grid
	var pts []image.Point
	prev, cur := first, start
	for {
		s := direction(counterClockwise, prev.Sub(cur))
		var examined [8]bool
		var next image.Point
		// prev is nonzero, so the search ends at the latest on it.
		for i := 1; i <= 8; i++ {
			k := (s + i) % 8
			q := cur.Add(counterClockwise[k])
			if g.at(q) == 0 {
				examined[k] = true
				continue
			}
			next = q
			break
		}

		pts = append(pts, cur.Sub(padding))
		switch {
		case examined[east] && g.at(cur.Add(counterClockwise[east])) == 0:
			g.set(cur, -label)
		case !examined[east] && g.at(cur) == 1:
			g.set(cur, label)
		}

		if next == start && cur == first {
			return pts
		}
		prev, cur = cur, next
	}
}

func (t *tracer) firstClockwise(center, seed image.Point) (image.Point, bool) {
	s := direction(clockwise, seed.Sub(center))
	for i := 0; i < 8; i++ {
		q := center.Add(clockwise[(s+i)%8])
		if t.grid.at(q) != 0 {
			return q, true
		}
	}
	return image.Point{}, false
}

// parentFor applies the Suzuki-Abe parent rule: a border of the same kind
// as the last met border is its sibling, otherwise its child.
func (t *tracer) parentFor(kind Kind, lnbd int32) int32 {
	if t.kinds[lnbd] == kind {
		return t.parents[lnbd]
	}
	return lnbd
}

func (t *tracer) register(kind Kind, parent int32) int32 {
	t.nbd++
	t.kinds = append(t.kinds, kind)
	t.parents = append(t.parents, parent)
	return t.nbd
}

func (t *tracer) emit(label int32, kind Kind, pts []image.Point) {
	parent := -1
	if p := t.parents[label]; p >= 2 {
		parent = int(p) - 2
	}
	t.contours = append(t.contours, Contour{Points: pts, Kind: kind, Parent: parent})
}

func direction(dirs [8]image.Point, d image.Point) int {
	for i, o := range dirs {
		if o == d {
			return i
		}
	}
	panic("contour: points are not neighbours")
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
