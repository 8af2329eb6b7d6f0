package imgbuf

import (
	"image"
	"time"

	"maditor/composite"
	"maditor/contour"
)

// Overlay alpha values used when the selection is shown.
const (
	HotSelectionAlpha = 96
	SelectionAlpha    = 128
)

// RenderOptions control how planes are combined for display. The zero value
// shows every colour channel and hides the selection overlay.
type RenderOptions struct {
	// Hidden colour channels composite as zero.
	Hidden ChannelSet
	// ShowSelection replaces alpha with the overlay values where a
	// selection plane is set.
	ShowSelection bool
}

type renderKey struct {
	gens [numChannels]uint64
	opts RenderOptions
}

type renderCache struct {
	valid   bool
	key     renderKey
	rgba    []uint8
	zeros   []uint8
	overlay []uint8
	runs    int
}

type outlineCache struct {
	valid    bool
	gen      uint64
	contours []contour.Contour
	runs     int
}

// Composite returns the interleaved RGBA pixels of the buffer, four bytes per
// pixel in row-major order. The result is memoized: as long as no source plane
// changed and opts are the same, the same slice is returned without
// recomputing. The slice is owned by the buffer and overwritten by later
// recomputations.
func (b *Buffer) Composite(opts RenderOptions) []uint8 {
	key := renderKey{gens: b.gens, opts: opts}
	c := &b.render
	if c.valid && c.key == key {
		return c.rgba
	}

	start := time.Now()
	n := b.width * b.height
	if c.rgba == nil {
		c.rgba = make([]uint8, 4*n)
	}

	var src [4][]uint8
	for i, kind := range ColorChannels {
		if opts.Hidden.Has(kind) {
			if c.zeros == nil {
				c.zeros = make([]uint8, n)
			}
			src[i] = c.zeros
			continue
		}
		src[i] = b.planes[kind].Pix()
	}
	if opts.ShowSelection {
		src[3] = b.selectionOverlay(src[3])
	}

	composite.Interleave(c.rgba, src[0], src[1], src[2], src[3])
	c.valid, c.key = true, key
	c.runs++

	b.logger.Debug("composited", "width", b.width, "height", b.height,
		"vector", composite.Vectorized(), "elapsed", time.Since(start))
	return c.rgba
}

// selectionOverlay returns alpha with the selection planes painted over it.
func (b *Buffer) selectionOverlay(alpha []uint8) []uint8 {
	c := &b.render
	if c.overlay == nil {
		c.overlay = make([]uint8, len(alpha))
	}
	sel := b.planes[Selection].Pix()
	hot := b.planes[HotSelection].Pix()
	for i, a := range alpha {
		switch {
		case hot[i] == 255:
			c.overlay[i] = HotSelectionAlpha
		case sel[i] == 255:
			c.overlay[i] = SelectionAlpha
		default:
			c.overlay[i] = a
		}
	}
	return c.overlay
}

// Image returns a copy of the composite as an image.
func (b *Buffer) Image(opts RenderOptions) *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	copy(img.Pix, b.Composite(opts))
	return img
}

// Outline returns the borders of the committed selection. Like Composite,
// the result is memoized and only recomputed after the Selection plane
// changed; callers must not modify it.
func (b *Buffer) Outline() []contour.Contour {
	c := &b.trace
	gen := b.gens[Selection]
	if c.valid && c.gen == gen {
		return c.contours
	}

	start := time.Now()
	c.contours = contour.Find(b.Channel(Selection))
	c.valid, c.gen = true, gen
	c.runs++

	b.logger.Debug("traced selection", "contours", len(c.contours), "elapsed", time.Since(start))
	return c.contours
}
