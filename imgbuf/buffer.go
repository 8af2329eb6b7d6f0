// Package imgbuf bundles the planes of one editable image.
//
// A Buffer owns six planes of identical geometry: the four colour channels,
// the committed selection and the in-progress ("hot") selection. Every write
// path advances a per-plane generation counter. The composite RGBA buffer and
// the selection outline are memoized against those counters, so they are only
// recomputed after one of their source planes changed.
package imgbuf

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"

	"maditor/plane"
)

// Buffer is an editable multi-plane image.
type Buffer struct {
	width  int
	height int
	planes [numChannels]*plane.Matrix

	clock uint64
	gens  [numChannels]uint64

	render renderCache
	trace  outlineCache

	logger *slog.Logger
}

// New creates a buffer with every plane zeroed.
func New(width, height int) *Buffer {
	b := &Buffer{width: width, height: height}
	for k := range b.planes {
		b.planes[k] = plane.New(width, height)
	}
	b.init()
	return b
}

// FromPlanes builds a buffer around existing colour planes. The planes are
// adopted, not copied, and must share one geometry.
func FromPlanes(r, g, bl, a *plane.Matrix) *Buffer {
	for _, p := range []*plane.Matrix{g, bl, a} {
		if !r.SameSize(p) {
			panic(fmt.Sprintf("imgbuf: plane size %dx%d does not match %dx%d",
				p.Width(), p.Height(), r.Width(), r.Height()))
		}
	}
	b := &Buffer{width: r.Width(), height: r.Height()}
	b.planes[Red], b.planes[Green], b.planes[Blue], b.planes[Alpha] = r, g, bl, a
	b.planes[Selection] = plane.New(b.width, b.height)
	b.planes[HotSelection] = plane.New(b.width, b.height)
	b.init()
	return b
}

// FromImage splits a decoded image into colour planes. Colours are stored
// non-premultiplied.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(src, src.Rect, img, bounds.Min, draw.Src)
	}

	b := New(w, h)
	r, g, bl, a := b.planes[Red].Pix(), b.planes[Green].Pix(), b.planes[Blue].Pix(), b.planes[Alpha].Pix()
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+4*w]
		for x := 0; x < w; x++ {
			i := y*w + x
			r[i] = row[4*x]
			g[i] = row[4*x+1]
			bl[i] = row[4*x+2]
			a[i] = row[4*x+3]
		}
	}
	return b
}

func (b *Buffer) init() {
	b.logger = slog.New(slog.DiscardHandler)
	for k := range b.gens {
		b.touch(ChannelKind(k))
	}
}

// SetLogger sets the logger used for recompute diagnostics. nil silences it.
func (b *Buffer) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.logger = l
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Bounds returns the canvas rectangle.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Channel returns a read-only view of a whole plane.
func (b *Buffer) Channel(kind ChannelKind) plane.View {
	return b.plane(kind).AsView()
}

// MutChannel returns a writable view of a whole plane and marks the plane
// changed. Request a fresh view for every batch of writes so cached results
// are invalidated after it.
func (b *Buffer) MutChannel(kind ChannelKind) plane.MutableView {
	p := b.plane(kind)
	b.touch(kind)
	return p.AsMutView()
}

// Generation returns the change counter of a plane. It grows on every
// mutation request and never repeats within a buffer.
func (b *Buffer) Generation(kind ChannelKind) uint64 {
	b.plane(kind)
	return b.gens[kind]
}

func (b *Buffer) plane(kind ChannelKind) *plane.Matrix {
	if int(kind) >= numChannels {
		panic(fmt.Sprintf("imgbuf: invalid channel %d", kind))
	}
	return b.planes[kind]
}

func (b *Buffer) touch(kind ChannelKind) {
	b.clock++
	b.gens[kind] = b.clock
}

// FillSelectionRect sets the Selection plane to 255 inside the box spanned by
// two corners, both inclusive. The box is clipped to the canvas.
func (b *Buffer) FillSelectionRect(c1, c2 image.Point) {
	r := image.Rectangle{Min: c1, Max: c2}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return
	}
	b.MutChannel(Selection).Sub(r.Min.X, r.Min.Y, r.Dx(), r.Dy()).Fill(255)
}

// CommitHotSelection adds HotSelection into Selection, saturating at 255,
// then clears HotSelection.
func (b *Buffer) CommitHotSelection() {
	sel := b.planes[Selection].Pix()
	hot := b.planes[HotSelection].Pix()
	for i, h := range hot {
		if h == 0 {
			continue
		}
		if s := uint16(sel[i]) + uint16(h); s > 255 {
			sel[i] = 255
		} else {
			sel[i] = uint8(s)
		}
		hot[i] = 0
	}
	b.touch(Selection)
	b.touch(HotSelection)
}

// ClearSelection empties both selection planes.
func (b *Buffer) ClearSelection() {
	b.MutChannel(Selection).Fill(0)
	b.MutChannel(HotSelection).Fill(0)
}

// CopyChannel overwrites plane dst with the contents of plane src.
func (b *Buffer) CopyChannel(dst, src ChannelKind) {
	if dst == src {
		return
	}
	copy(b.plane(dst).Pix(), b.plane(src).Pix())
	b.touch(dst)
}

// Histogram counts the occurrences of every value in a plane.
func (b *Buffer) Histogram(kind ChannelKind) [256]uint32 {
	var res [256]uint32
	for _, v := range b.plane(kind).Pix() {
		res[v]++
	}
	return res
}
