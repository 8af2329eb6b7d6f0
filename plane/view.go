package plane

import (
	"fmt"
	"image"
)

// View is a rectangular window into a Matrix. It borrows the matrix data and
// never owns it. Coordinates passed to its methods are relative to the
// window origin.
type View struct {
	base          *Matrix
	x0, y0        int
	width, height int
}

func (v View) Width() int  { return v.width }
func (v View) Height() int { return v.height }

// Rect returns the window in base matrix coordinates.
func (v View) Rect() image.Rectangle {
	return image.Rect(v.x0, v.y0, v.x0+v.width, v.y0+v.height)
}

// IsFull reports whether the view covers the whole base matrix.
func (v View) IsFull() bool {
	return v.x0 == 0 && v.y0 == 0 && v.width == v.base.width && v.height == v.base.height
}

// Get returns the value at (x, y) of the window.
func (v View) Get(x, y int) uint8 {
	return v.base.data[v.index(x, y)]
}

// Slice returns the flat backing buffer when the view covers the whole
// matrix. Windowed views have non-contiguous rows and return false; use Row
// instead.
func (v View) Slice() ([]uint8, bool) {
	if !v.IsFull() {
		return nil, false
	}
	return v.base.data, true
}

// Row returns the y-th row of the window. The slice aliases the matrix.
func (v View) Row(y int) []uint8 {
	if y < 0 || y >= v.height {
		panic(fmt.Sprintf("plane: row %d outside window height %d", y, v.height))
	}
	start := (v.y0+y)*v.base.width + v.x0
	return v.base.data[start : start+v.width : start+v.width]
}

// Sub returns a window inside this window.
func (v View) Sub(x, y, width, height int) View {
	if x < 0 || y < 0 || width < 0 || height < 0 || x+width > v.width || y+height > v.height {
		panic(fmt.Sprintf("plane: window (%d,%d %dx%d) outside view %dx%d", x, y, width, height, v.width, v.height))
	}
	return v.base.View(v.x0+x, v.y0+y, width, height)
}

// ToMatrix copies the window into a new matrix.
func (v View) ToMatrix() *Matrix {
	m := New(v.width, v.height)
	if flat, ok := v.Slice(); ok {
		copy(m.data, flat)
		return m
	}
	for y := 0; y < v.height; y++ {
		copy(m.data[y*v.width:(y+1)*v.width], v.Row(y))
	}
	return m
}

func (v View) index(x, y int) int {
	if x < 0 || x >= v.width || y < 0 || y >= v.height {
		panic(fmt.Sprintf("plane: point (%d,%d) outside window %dx%d", x, y, v.width, v.height))
	}
	bx, by := v.x0+x, v.y0+y
	v.base.check(bx, by)
	return by*v.base.width + bx
}

// MutableView is a View that also allows writes.
type MutableView struct {
	View
}

// Set stores value at (x, y) of the window.
func (v MutableView) Set(x, y int, value uint8) {
	v.base.data[v.index(x, y)] = value
}

// Fill sets every pixel of the window to value.
func (v MutableView) Fill(value uint8) {
	for y := 0; y < v.height; y++ {
		row := v.Row(y)
		for i := range row {
			row[i] = value
		}
	}
}

// Sub returns a writable window inside this window.
func (v MutableView) Sub(x, y, width, height int) MutableView {
	return MutableView{View: v.View.Sub(x, y, width, height)}
}
