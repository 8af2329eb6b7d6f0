package imgbuf

import (
	"fmt"
	"strings"
)

// ChannelKind names one plane of a Buffer.
type ChannelKind uint8

const (
	Red ChannelKind = iota
	Green
	Blue
	Alpha
	// Selection marks committed region membership, 0 or 255 per pixel.
	Selection
	// HotSelection holds a brush selection stroke that is not committed yet.
	HotSelection

	numChannels = 6
)

// ColorChannels are the kinds that make up the visible image.
var ColorChannels = [4]ChannelKind{Red, Green, Blue, Alpha}

var channelNames = [numChannels]string{"red", "green", "blue", "alpha", "selection", "hot-selection"}

func (k ChannelKind) String() string {
	if int(k) < len(channelNames) {
		return channelNames[k]
	}
	return fmt.Sprintf("ChannelKind(%d)", uint8(k))
}

// IsColor reports whether k is one of Red, Green, Blue or Alpha.
func (k ChannelKind) IsColor() bool { return k <= Alpha }

// ParseChannelKind accepts the names returned by String, case-insensitively.
func ParseChannelKind(s string) (ChannelKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range channelNames {
		if s == name {
			return ChannelKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChannelKind) UnmarshalText(text []byte) error {
	v, err := ParseChannelKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k ChannelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ChannelSet is a set of channel kinds.
type ChannelSet uint8

// Channels builds a set from kinds.
func Channels(kinds ...ChannelKind) ChannelSet {
	var s ChannelSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s ChannelSet) Has(k ChannelKind) bool           { return s&(1<<k) != 0 }
func (s ChannelSet) With(k ChannelKind) ChannelSet    { return s | 1<<k }
func (s ChannelSet) Without(k ChannelKind) ChannelSet { return s &^ (1 << k) }

// Kinds lists the members in channel order.
func (s ChannelSet) Kinds() []ChannelKind {
	var res []ChannelKind
	for k := ChannelKind(0); k < numChannels; k++ {
		if s.Has(k) {
			res = append(res, k)
		}
	}
	return res
}

func (s ChannelSet) String() string {
	names := make([]string, 0, numChannels)
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
