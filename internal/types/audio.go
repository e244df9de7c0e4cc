package types

import (
	"fmt"
	"strings"
)

// Pan positions used by channel mappings.
const (
	PanLeft   float32 = -1
	PanCenter float32 = 0
	PanRight  float32 = 1
)

// Mapping describes one physical audio channel.
type Mapping struct {
	Volume     float32
	Pan        float32
	Instrument Instrument
}

// AudioFormat is an ordered channel layout. Order is significant: index i
// describes physical channel i of the mix.
type AudioFormat struct {
	Mappings []Mapping
}

// Add appends a channel.
func (a *AudioFormat) Add(volume, pan float32, instrument Instrument) {
	a.Mappings = append(a.Mappings, Mapping{Volume: volume, Pan: pan, Instrument: instrument})
}

// Channels returns how many channels belong to instrument.
func (a *AudioFormat) Channels(instrument Instrument) int {
	n := 0
	for _, m := range a.Mappings {
		if m.Instrument == instrument {
			n++
		}
	}
	return n
}

// String returns a summary such as "14ch: drums×6 guitar×2 bass×1 ...".
func (a *AudioFormat) String() string {
	var parts []string
	seen := make(map[Instrument]bool)
	for _, m := range a.Mappings {
		if seen[m.Instrument] {
			continue
		}
		seen[m.Instrument] = true
		parts = append(parts, fmt.Sprintf("%s×%d", m.Instrument, a.Channels(m.Instrument)))
	}
	return join([]string{channelDescription(len(a.Mappings)), strings.Join(parts, " ")}, ": ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	var result string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if result != "" {
			result += sep
		}
		result += part
	}
	return result
}
