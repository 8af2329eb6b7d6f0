package editor

import (
	"fmt"
	"strings"
)

// Tool selects what pointer events do to the buffer.
type Tool uint8

const (
	// Draw paints the brush colour into the active channels.
	Draw Tool = iota
	// BrushSelect paints into HotSelection and commits on release.
	BrushSelect
	// ShapeSelect drags out a rectangle that is added to Selection on release.
	ShapeSelect
	// Move pans the view.
	Move
)

var toolNames = [...]string{"draw", "brush-select", "shape-select", "move"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", uint8(t))
}

// ParseTool accepts the names returned by String.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range toolNames {
		if s == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tool) UnmarshalText(text []byte) error {
	v, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Modifiers is the set of keyboard modifiers held during a pointer event.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
)

// ToolFor maps held modifiers to the tool they select. Alt wins over the
// others; Ctrl alone keeps Draw.
func ToolFor(m Modifiers) Tool {
	switch {
	case m&Alt != 0:
		return Move
	case m&(Ctrl|Shift) == Ctrl|Shift:
		return ShapeSelect
	case m&Shift != 0:
		return BrushSelect
	default:
		return Draw
	}
}
