package editor

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"golang.org/x/image/math/f64"

	"maditor/brush"
	"maditor/contour"
	"maditor/imgbuf"
)

// View scale limits and the zoom factor of one wheel notch.
const (
	MinScale = 0.05
	MaxScale = 64
	ZoomStep = 1.1
)

// DefaultBrushSize is the brush diameter of a new session.
const DefaultBrushSize = 5

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Session is one editing session over a buffer. It is not safe for
// concurrent use.
type Session struct {
	ID uuid.UUID

	buf    *imgbuf.Buffer
	logger *slog.Logger

	active        imgbuf.ChannelSet
	hidden        imgbuf.ChannelSet
	showSelection bool

	brushSize int
	color     color.NRGBA

	tool Tool
	// view maps plane coordinates to screen coordinates. It only ever holds
	// a uniform scale and a translation.
	view f64.Aff3
	ptr  pointer
}

type pointer struct {
	down   bool
	screen f64.Vec2
	pos    f64.Vec2
	anchor f64.Vec2
}

// NewSession starts a session on buf with every colour channel active, an
// opaque black brush and the identity view. A nil logger disables logging.
func NewSession(buf *imgbuf.Buffer, logger *slog.Logger) *Session {
	s := &Session{
		ID:            uuid.New(),
		buf:           buf,
		active:        imgbuf.Channels(imgbuf.ColorChannels[:]...),
		showSelection: true,
		brushSize:     DefaultBrushSize,
		color:         color.NRGBA{A: 0xff},
		view:          identity,
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s.logger = logger.With("session", s.ID.String())
	buf.SetLogger(s.logger)
	return s
}

func (s *Session) Buffer() *imgbuf.Buffer { return s.buf }

// Active returns the channels painted by the Draw tool.
func (s *Session) Active() imgbuf.ChannelSet { return s.active }

func (s *Session) SetActive(set imgbuf.ChannelSet) { s.active = set }

// Visible reports whether a colour channel takes part in the composite.
func (s *Session) Visible(kind imgbuf.ChannelKind) bool { return !s.hidden.Has(kind) }

func (s *Session) SetVisible(kind imgbuf.ChannelKind, visible bool) {
	if visible {
		s.hidden = s.hidden.Without(kind)
	} else {
		s.hidden = s.hidden.With(kind)
	}
}

func (s *Session) SetShowSelection(show bool) { s.showSelection = show }

// RenderOptions returns the composite options for the current flags.
func (s *Session) RenderOptions() imgbuf.RenderOptions {
	return imgbuf.RenderOptions{Hidden: s.hidden, ShowSelection: s.showSelection}
}

func (s *Session) BrushSize() int { return s.brushSize }

// SetBrushSize sets the brush diameter, clamped to at least 1.
func (s *Session) SetBrushSize(size int) {
	s.brushSize = max(size, 1)
}

// AdjustBrushSize grows or shrinks the brush by delta and returns the new
// diameter.
func (s *Session) AdjustBrushSize(delta int) int {
	s.SetBrushSize(s.brushSize + delta)
	s.logger.Debug("brush size", "size", s.brushSize)
	return s.brushSize
}

func (s *Session) Color() color.NRGBA { return s.color }

// SetColor sets the brush colour. Colours are stored non-premultiplied.
// The Draw tool paints R, G and B from it; alpha is always painted opaque.
func (s *Session) SetColor(c color.Color) {
	s.color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (s *Session) Tool() Tool { return s.tool }

// SetTool switches tools. A gesture in progress ends without its release
// action.
func (s *Session) SetTool(t Tool) {
	if t == s.tool {
		return
	}
	s.ptr.down = false
	s.tool = t
	s.logger.Debug("tool", "tool", t)
}

// ToolFor selects the tool mapped to the held modifiers and returns it.
func (s *Session) ToolFor(m Modifiers) Tool {
	s.SetTool(ToolFor(m))
	return s.tool
}

// View returns the plane to screen transform.
func (s *Session) View() f64.Aff3 { return s.view }

// Scale returns the current zoom factor.
func (s *Session) Scale() float64 { return s.view[0] }

// SetView places the plane origin at offset with the given scale, clamped to
// [MinScale, MaxScale].
func (s *Session) SetView(scale float64, offset f64.Vec2) {
	scale = min(max(scale, MinScale), MaxScale)
	s.view = f64.Aff3{scale, 0, offset[0], 0, scale, offset[1]}
}

// ToPlane maps a screen position to plane space.
func (s *Session) ToPlane(screen f64.Vec2) f64.Vec2 {
	return f64.Vec2{
		(screen[0] - s.view[2]) / s.view[0],
		(screen[1] - s.view[5]) / s.view[4],
	}
}

// ToScreen maps a plane position to screen space.
func (s *Session) ToScreen(pos f64.Vec2) f64.Vec2 {
	return f64.Vec2{
		s.view[0]*pos[0] + s.view[1]*pos[1] + s.view[2],
		s.view[3]*pos[0] + s.view[4]*pos[1] + s.view[5],
	}
}

// PaintAt stamps into the planes of set at a plane position.
func (s *Session) PaintAt(set imgbuf.ChannelSet, pos f64.Vec2, diameter int, value uint8) {
	PaintAt(s.buf, set, pos, diameter, value)
}

// PaintDrag stamps along the line between two plane positions.
func (s *Session) PaintDrag(set imgbuf.ChannelSet, prev, cur f64.Vec2, diameter int, value uint8) {
	PaintDrag(s.buf, set, prev, cur, diameter, value)
}

// FillSelectionRect adds the box spanned by two inclusive corners to the
// selection.
func (s *Session) FillSelectionRect(c1, c2 image.Point) {
	s.buf.FillSelectionRect(c1, c2)
	s.logger.Debug("selected rectangle", "from", c1, "to", c2)
}

// CommitHotSelection merges the pending brush selection into the selection.
func (s *Session) CommitHotSelection() {
	s.buf.CommitHotSelection()
	s.logger.Debug("committed selection")
}

// ClearSelection drops both the committed and the pending selection.
func (s *Session) ClearSelection() {
	s.buf.ClearSelection()
}

// Composite returns the display pixels for the current flags. See
// imgbuf.Buffer.Composite for ownership of the result.
func (s *Session) Composite() []uint8 {
	return s.buf.Composite(s.RenderOptions())
}

// SelectionOutline returns the contours of the committed selection.
func (s *Session) SelectionOutline() []contour.Contour {
	return s.buf.Outline()
}

// PendingRect returns the rectangle a ShapeSelect drag would select if it
// were released now.
func (s *Session) PendingRect() (image.Rectangle, bool) {
	if !s.ptr.down || s.tool != ShapeSelect {
		return image.Rectangle{}, false
	}
	r := image.Rectangle{Min: pixel(s.ptr.anchor), Max: pixel(s.ptr.pos)}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r.Intersect(s.buf.Bounds()), true
}

// OnPointerDown starts a gesture at a screen position.
func (s *Session) OnPointerDown(screen f64.Vec2) {
	pos := s.ToPlane(screen)
	s.ptr = pointer{down: true, screen: screen, pos: pos, anchor: pos}

	switch s.tool {
	case Draw:
		s.drawLine(pos, pos)
	case BrushSelect:
		PaintAt(s.buf, imgbuf.Channels(imgbuf.HotSelection), pos, s.brushSize, 255)
	case ShapeSelect, Move:
	}
}

// OnPointerMove continues a gesture. Without a pressed pointer it only
// records the position.
func (s *Session) OnPointerMove(screen f64.Vec2) {
	pos := s.ToPlane(screen)
	if !s.ptr.down {
		s.ptr.screen, s.ptr.pos = screen, pos
		return
	}

	prev := s.ptr
	switch s.tool {
	case Draw:
		s.drawLine(prev.pos, pos)
	case BrushSelect:
		PaintDrag(s.buf, imgbuf.Channels(imgbuf.HotSelection), prev.pos, pos, s.brushSize, 255)
	case ShapeSelect:
	case Move:
		s.view[2] += screen[0] - prev.screen[0]
		s.view[5] += screen[1] - prev.screen[1]
		pos = s.ToPlane(screen)
	}
	s.ptr.screen, s.ptr.pos = screen, pos
}

// OnPointerUp ends a gesture at a screen position.
func (s *Session) OnPointerUp(screen f64.Vec2) {
	if !s.ptr.down {
		return
	}
	s.OnPointerMove(screen)
	s.ptr.down = false

	switch s.tool {
	case BrushSelect:
		s.CommitHotSelection()
	case ShapeSelect:
		s.FillSelectionRect(pixel(s.ptr.anchor), pixel(s.ptr.pos))
	case Draw, Move:
	}
}

// OnWheel zooms by ZoomStep per notch, keeping the plane point under the
// pointer fixed. Positive notches zoom in.
func (s *Session) OnWheel(screen f64.Vec2, notches float64) {
	anchor := s.ToPlane(screen)
	scale := min(max(s.Scale()*math.Pow(ZoomStep, notches), MinScale), MaxScale)
	s.view = f64.Aff3{
		scale, 0, screen[0] - scale*anchor[0],
		0, scale, screen[1] - scale*anchor[1],
	}
	s.logger.Debug("zoom", "scale", scale)
}

// drawLine paints the brush colour into the active channels along a line.
func (s *Session) drawLine(prev, cur f64.Vec2) {
	kinds := s.active.Kinds()
	if len(kinds) == 0 {
		return
	}
	brushes := make([]brush.Basic, len(kinds))
	for i, kind := range kinds {
		brushes[i] = brush.Basic{Size: s.brushSize, Value: s.brushValue(kind)}
	}
	strokeLine(s.buf, kinds, brushes, prev, cur)
}

// brushValue is the value the Draw tool writes into a plane.
func (s *Session) brushValue(kind imgbuf.ChannelKind) uint8 {
	switch kind {
	case imgbuf.Red:
		return s.color.R
	case imgbuf.Green:
		return s.color.G
	case imgbuf.Blue:
		return s.color.B
	default:
		return 255
	}
}

func pixel(v f64.Vec2) image.Point {
	return image.Pt(int(v[0]), int(v[1]))
}
