// Package line produces 8-connected integer paths between two points.
package line

import (
	"image"

	"golang.org/x/image/math/f64"
)

// Plot calls f for every point of the Bresenham line between (x0, y0) and
// (x1, y1), both endpoints included. Consecutive points are 8-adjacent.
func Plot(x0, y0, x1, y1 int, f func(x, y int)) {
	if abs(y1-y0) < abs(x1-x0) {
		if x0 > x1 {
			plotLow(x1, y1, x0, y0, f)
		} else {
			plotLow(x0, y0, x1, y1, f)
		}
		return
	}
	if y0 > y1 {
		plotHigh(x1, y1, x0, y0, f)
	} else {
		plotHigh(x0, y0, x1, y1, f)
	}
}

// plotLow handles |slope| < 1 with x0 <= x1.
func plotLow(x0, y0, x1, y1 int, f func(x, y int)) {
	dx := x1 - x0
	dy := y1 - y0
	yi := 1
	if dy < 0 {
		yi = -1
		dy = -dy
	}
	d := 2*dy - dx
	y := y0
	for x := x0; x <= x1; x++ {
		f(x, y)
		if d > 0 {
			y += yi
			d -= 2 * dx
		}
		d += 2 * dy
	}
}

// plotHigh handles |slope| >= 1 with y0 <= y1.
func plotHigh(x0, y0, x1, y1 int, f func(x, y int)) {
	dx := x1 - x0
	dy := y1 - y0
	xi := 1
	if dx < 0 {
		xi = -1
		dx = -dx
	}
	d := 2*dx - dy
	x := x0
	for y := y0; y <= y1; y++ {
		f(x, y)
		if d > 0 {
			x += xi
			d -= 2 * dy
		}
		d += 2 * dx
	}
}

// Interpolate plots the line between two pointer positions already mapped to
// plane space. Coordinates are truncated toward zero.
func Interpolate(begin, end f64.Vec2, f func(p image.Point)) {
	Plot(int(begin[0]), int(begin[1]), int(end[0]), int(end[1]), func(x, y int) {
		f(image.Pt(x, y))
	})
}

// Points collects the line between two integer points.
func Points(from, to image.Point) []image.Point {
	n := max(abs(to.X-from.X), abs(to.Y-from.Y)) + 1
	res := make([]image.Point, 0, n)
	Plot(from.X, from.Y, to.X, to.Y, func(x, y int) {
		res = append(res, image.Pt(x, y))
	})
	return res
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
