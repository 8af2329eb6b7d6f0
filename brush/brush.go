// Package brush rasterizes brush stamps into a single plane.
package brush

import (
	"math"

	"maditor/plane"
)

// Stamp paints a filled disc of the given diameter centered at (cx, cy).
// A pixel is painted when its Euclidean distance to the center is at most
// diameter/2. Pixels falling outside dst are skipped.
func Stamp(dst plane.MutableView, cx, cy, diameter int, value uint8) {
	if diameter < 0 {
		diameter = 0
	}
	half := diameter / 2
	radius := float64(diameter) / 2
	w, h := dst.Width(), dst.Height()

	for dy := -half; dy <= half; dy++ {
		y := cy + dy
		if y < 0 || y >= h {
			continue
		}
		for dx := -half; dx <= half; dx++ {
			x := cx + dx
			if x < 0 || x >= w {
				continue
			}
			if math.Hypot(float64(dx), float64(dy)) <= radius {
				dst.Set(x, y, value)
			}
		}
	}
}

// Basic is a round brush of fixed size and value.
type Basic struct {
	Size  int
	Value uint8
}

// Apply stamps the brush at (x, y).
func (b Basic) Apply(dst plane.MutableView, x, y int) {
	Stamp(dst, x, y, b.Size, b.Value)
}
