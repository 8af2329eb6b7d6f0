// Package editor applies painting and selection tools to an image buffer.
//
// The package functions work purely in plane space. Session adds the state
// an interactive front end keeps around them: the active tool, brush, channel
// flags and the view transform that maps pointer positions onto the canvas.
package editor

import (
	"image"

	"golang.org/x/image/math/f64"

	"maditor/brush"
	"maditor/imgbuf"
	"maditor/line"
	"maditor/plane"
)

// PaintAt stamps a disc of the given diameter and value at pos into every
// plane of set. Positions are truncated to pixel coordinates.
func PaintAt(buf *imgbuf.Buffer, set imgbuf.ChannelSet, pos f64.Vec2, diameter int, value uint8) {
	x, y := int(pos[0]), int(pos[1])
	for _, kind := range set.Kinds() {
		brush.Stamp(buf.MutChannel(kind), x, y, diameter, value)
	}
}

// PaintDrag stamps a disc at every point of the line from prev to cur, in
// line order, into every plane of set. Both endpoints are painted.
func PaintDrag(buf *imgbuf.Buffer, set imgbuf.ChannelSet, prev, cur f64.Vec2, diameter int, value uint8) {
	kinds := set.Kinds()
	if len(kinds) == 0 {
		return
	}
	brushes := make([]brush.Basic, 0, len(kinds))
	for range kinds {
		brushes = append(brushes, brush.Basic{Size: diameter, Value: value})
	}
	strokeLine(buf, kinds, brushes, prev, cur)
}

type planeView struct {
	dst   plane.MutableView
	brush brush.Basic
}

// strokeLine walks the line once and applies brushes[i] to kinds[i] at every
// point, so all planes receive the stroke in the same order.
func strokeLine(buf *imgbuf.Buffer, kinds []imgbuf.ChannelKind, brushes []brush.Basic, prev, cur f64.Vec2) {
	views := make([]planeView, len(kinds))
	for i, kind := range kinds {
		views[i] = planeView{dst: buf.MutChannel(kind), brush: brushes[i]}
	}
	line.Interpolate(prev, cur, func(p image.Point) {
		for _, v := range views {
			v.brush.Apply(v.dst, p.X, p.Y)
		}
	})
}
