// Package script replays editing steps described in YAML against a session.
//
// A script looks like:
//
//	brush: {size: 3, color: "#ff8000"}
//	channels: [red, green, blue, alpha]
//	steps:
//	  - op: stroke
//	    tool: brush-select
//	    points: [[2, 2], [40, 18]]
//	  - op: select-rect
//	    from: [0, 0]
//	    to: [9, 9]
//
// Stroke points are screen positions and pass through the session view.
// Every other position is in plane space.
package script

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/math/f64"
	"gopkg.in/yaml.v3"

	"maditor/editor"
	"maditor/imgbuf"
)

// Op names a step kind.
type Op string

const (
	OpPaint          Op = "paint"
	OpDrag           Op = "drag"
	OpStroke         Op = "stroke"
	OpSelectRect     Op = "select-rect"
	OpCommit         Op = "commit"
	OpClearSelection Op = "clear-selection"
	OpBrush          Op = "brush"
	OpChannels       Op = "channels"
	OpZoom           Op = "zoom"
)

var (
	ErrUnknownOp      = errors.New("unknown op")
	ErrMissingPoint   = errors.New("missing point")
	ErrTooFewPoints   = errors.New("too few points")
	ErrNoChannels     = errors.New("no channels")
	ErrInvalidSize    = errors.New("invalid brush size")
	ErrNothingToApply = errors.New("nothing to apply")
)

// StepError reports the step a validation failure belongs to.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Point is an x, y pair written as a two element sequence.
type Point [2]float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	var xy []float64
	if err := node.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point needs 2 coordinates, got %d", node.Line, len(xy))
	}
	*p = Point{xy[0], xy[1]}
	return nil
}

func (p Point) vec() f64.Vec2 { return f64.Vec2(p) }

func (p Point) pixel() image.Point { return image.Pt(int(p[0]), int(p[1])) }

// Brush sets the session brush. Zero fields are left unchanged.
type Brush struct {
	Size  int    `yaml:"size,omitempty"`
	Color string `yaml:"color,omitempty"`
}

// Step is one editing action. Which fields apply depends on Op.
type Step struct {
	Op       Op                   `yaml:"op"`
	Tool     editor.Tool          `yaml:"tool,omitempty"`
	Channels []imgbuf.ChannelKind `yaml:"channels,omitempty"`
	At       *Point               `yaml:"at,omitempty"`
	From     *Point               `yaml:"from,omitempty"`
	To       *Point               `yaml:"to,omitempty"`
	Points   []Point              `yaml:"points,omitempty"`
	Size     int                  `yaml:"size,omitempty"`
	Value    *uint8               `yaml:"value,omitempty"`
	Color    string               `yaml:"color,omitempty"`
	Notches  float64              `yaml:"notches,omitempty"`
}

// Script is a brush setup followed by steps.
type Script struct {
	Brush    *Brush               `yaml:"brush,omitempty"`
	Channels []imgbuf.ChannelKind `yaml:"channels,omitempty"`
	Steps    []Step               `yaml:"steps"`
}

// Load decodes and validates a script. Unknown keys are rejected.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Script
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadFile reads a script from disk.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open script %q: %w", path, err)
	}
	defer f.Close()

	sc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("invalid script %q: %w", path, err)
	}
	return sc, nil
}

// Validate checks every step. The first failure is returned as a
// *StepError, except for the brush header which is reported on its own.
func (sc *Script) Validate() error {
	if sc.Brush != nil {
		if err := validateBrush(sc.Brush.Size, sc.Brush.Color); err != nil {
			return fmt.Errorf("invalid brush: %w", err)
		}
	}
	for i := range sc.Steps {
		if err := sc.Steps[i].validate(); err != nil {
			return &StepError{Index: i, Op: sc.Steps[i].Op, Err: err}
		}
	}
	return nil
}

func validateBrush(size int, hex string) error {
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if hex != "" {
		if _, err := parseHexColor(hex); err != nil {
			return err
		}
	}
	return nil
}

func (st *Step) validate() error {
	if st.Size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, st.Size)
	}

	switch st.Op {
	case OpPaint:
		if st.At == nil {
			return fmt.Errorf("%w: at", ErrMissingPoint)
		}
	case OpDrag:
		if len(st.Points) < 2 {
			return fmt.Errorf("%w: drag needs 2, got %d", ErrTooFewPoints, len(st.Points))
		}
	case OpStroke:
		if len(st.Points) < 1 {
			return fmt.Errorf("%w: stroke needs 1", ErrTooFewPoints)
		}
	case OpSelectRect:
		if st.From == nil {
			return fmt.Errorf("%w: from", ErrMissingPoint)
		}
		if st.To == nil {
			return fmt.Errorf("%w: to", ErrMissingPoint)
		}
	case OpCommit, OpClearSelection:
	case OpBrush:
		if st.Size == 0 && st.Color == "" {
			return ErrNothingToApply
		}
		return validateBrush(st.Size, st.Color)
	case OpChannels:
		if len(st.Channels) == 0 {
			return ErrNoChannels
		}
	case OpZoom:
		if st.At == nil {
			return fmt.Errorf("%w: at", ErrMissingPoint)
		}
		if st.Notches == 0 {
			return ErrNothingToApply
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	return nil
}

// Apply replays the script on s. The script must have been validated.
func (sc *Script) Apply(s *editor.Session) error {
	if sc.Brush != nil {
		if err := applyBrush(s, sc.Brush.Size, sc.Brush.Color); err != nil {
			return fmt.Errorf("invalid brush: %w", err)
		}
	}
	if len(sc.Channels) > 0 {
		s.SetActive(imgbuf.Channels(sc.Channels...))
	}
	for i := range sc.Steps {
		if err := sc.Steps[i].apply(s); err != nil {
			return &StepError{Index: i, Op: sc.Steps[i].Op, Err: err}
		}
	}
	return nil
}

func applyBrush(s *editor.Session, size int, hex string) error {
	if size > 0 {
		s.SetBrushSize(size)
	}
	if hex != "" {
		c, err := parseHexColor(hex)
		if err != nil {
			return err
		}
		s.SetColor(c)
	}
	return nil
}

func (st *Step) apply(s *editor.Session) error {
	size := st.Size
	if size == 0 {
		size = s.BrushSize()
	}
	value := uint8(255)
	if st.Value != nil {
		value = *st.Value
	}
	set := s.Active()
	if len(st.Channels) > 0 {
		set = imgbuf.Channels(st.Channels...)
	}

	switch st.Op {
	case OpPaint:
		s.PaintAt(set, st.At.vec(), size, value)
	case OpDrag:
		for j := 1; j < len(st.Points); j++ {
			s.PaintDrag(set, st.Points[j-1].vec(), st.Points[j].vec(), size, value)
		}
	case OpStroke:
		s.SetTool(st.Tool)
		prevSize := s.BrushSize()
		s.SetBrushSize(size)
		s.OnPointerDown(st.Points[0].vec())
		for _, p := range st.Points[1:] {
			s.OnPointerMove(p.vec())
		}
		s.OnPointerUp(st.Points[len(st.Points)-1].vec())
		s.SetBrushSize(prevSize)
	case OpSelectRect:
		s.FillSelectionRect(st.From.pixel(), st.To.pixel())
	case OpCommit:
		s.CommitHotSelection()
	case OpClearSelection:
		s.ClearSelection()
	case OpBrush:
		return applyBrush(s, st.Size, st.Color)
	case OpChannels:
		s.SetActive(set)
	case OpZoom:
		s.OnWheel(st.At.vec(), st.Notches)
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	return nil
}
