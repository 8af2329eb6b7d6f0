// Package contour follows the borders of the set pixels of a plane.
//
// The tracer is the border following algorithm of Suzuki and Abe (1985):
// a raster scan finds border starts, each border is walked with a
// Moore-neighbour search and its pixels are labelled in a working grid so the
// scan does not pick them up again. Every contour is an ordered, closed list of
// pixel coordinates; contours are returned in the order the scan met them.
package contour

import (
	"image"
)

// Kind tells whether a border encloses foreground or background.
type Kind uint8

const (
	// Outer borders surround a connected foreground region.
	Outer Kind = iota
	// Hole borders surround background enclosed by foreground.
	Hole
)

func (k Kind) String() string {
	switch k {
	case Outer:
		return "outer"
	case Hole:
		return "hole"
	}
	return "unknown"
}

// Contour is one closed border.
//
// Parent, FirstChild, Prev and Next link the contours of one Find call into
// a forest. They hold indices into the returned slice, or -1.
type Contour struct {
	Points []image.Point
	Kind   Kind

	Parent     int
	FirstChild int
	Prev       int
	Next       int
}

// Bounds returns the smallest rectangle holding every point of the contour.
func (c Contour) Bounds() image.Rectangle {
	if len(c.Points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c.Points[0], Max: c.Points[0].Add(image.Pt(1, 1))}
	for _, p := range c.Points[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}

// Roots returns the indices of the contours without a parent.
func Roots(cs []Contour) []int {
	var res []int
	for i, c := range cs {
		if c.Parent < 0 {
			res = append(res, i)
		}
	}
	return res
}

// Children returns the indices of the direct children of cs[i], in order.
func Children(cs []Contour, i int) []int {
	var res []int
	for c := cs[i].FirstChild; c >= 0; c = cs[c].Next {
		res = append(res, c)
	}
	return res
}

// link fills FirstChild, Prev and Next from Parent.
func link(cs []Contour) {
	last := make(map[int]int, len(cs))
	for i := range cs {
		cs[i].FirstChild, cs[i].Prev, cs[i].Next = -1, -1, -1
	}
	for i := range cs {
		p := cs[i].Parent
		if prev, ok := last[p]; ok {
			cs[prev].Next = i
			cs[i].Prev = prev
		} else if p >= 0 {
			cs[p].FirstChild = i
		}
		last[p] = i
	}
}
