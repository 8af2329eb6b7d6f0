// Package plane holds single-byte-per-pixel grids and bounds-checked
// windows into them.
package plane

import (
	"fmt"
	"image"
)

// Matrix is a row-major grid of bytes. The value at (x, y) lives at
// data[y*width+x].
type Matrix struct {
	width  int
	height int
	data   []uint8
}

// New creates a zeroed matrix.
func New(width, height int) *Matrix {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("plane: invalid size %dx%d", width, height))
	}
	return &Matrix{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// FromSlice wraps data without copying. len(data) must be width*height.
func FromSlice(width, height int, data []uint8) *Matrix {
	if width < 0 || height < 0 || len(data) != width*height {
		panic(fmt.Sprintf("plane: %d bytes do not match size %dx%d", len(data), width, height))
	}
	return &Matrix{width: width, height: height, data: data}
}

func (m *Matrix) Width() int  { return m.width }
func (m *Matrix) Height() int { return m.height }

// Bounds returns the matrix extent as an image.Rectangle anchored at the origin.
func (m *Matrix) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Pix returns the backing slice.
func (m *Matrix) Pix() []uint8 { return m.data }

// Get returns the value at (x, y).
func (m *Matrix) Get(x, y int) uint8 {
	m.check(x, y)
	return m.data[y*m.width+x]
}

// Set stores value at (x, y).
func (m *Matrix) Set(x, y int, value uint8) {
	m.check(x, y)
	m.data[y*m.width+x] = value
}

// Fill sets every byte to value.
func (m *Matrix) Fill(value uint8) {
	for i := range m.data {
		m.data[i] = value
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := New(m.width, m.height)
	copy(c.data, m.data)
	return c
}

// SameSize reports whether o has the same geometry as m.
func (m *Matrix) SameSize(o *Matrix) bool {
	return m.width == o.width && m.height == o.height
}

// View returns a read-only window. The window must fit inside the matrix.
func (m *Matrix) View(x, y, width, height int) View {
	m.checkRect(x, y, width, height)
	return View{base: m, x0: x, y0: y, width: width, height: height}
}

// MutView returns a writable window. The window must fit inside the matrix.
func (m *Matrix) MutView(x, y, width, height int) MutableView {
	return MutableView{View: m.View(x, y, width, height)}
}

// AsView covers the whole matrix.
func (m *Matrix) AsView() View {
	return View{base: m, width: m.width, height: m.height}
}

// AsMutView covers the whole matrix.
func (m *Matrix) AsMutView() MutableView {
	return MutableView{View: m.AsView()}
}

// Gray copies the matrix into a grayscale image.
func (m *Matrix) Gray() *image.Gray {
	img := image.NewGray(m.Bounds())
	copy(img.Pix, m.data)
	return img
}

func (m *Matrix) check(x, y int) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		panic(fmt.Sprintf("plane: point (%d,%d) outside %dx%d", x, y, m.width, m.height))
	}
}

func (m *Matrix) checkRect(x, y, width, height int) {
	if x < 0 || y < 0 || width < 0 || height < 0 || x+width > m.width || y+height > m.height {
		panic(fmt.Sprintf("plane: window (%d,%d %dx%d) outside %dx%d", x, y, width, height, m.width, m.height))
	}
}
