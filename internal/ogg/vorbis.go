package ogg

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Info describes a Vorbis stream.
type Info struct {
	Comments   map[string]string // Upper-cased comment keys
	Vendor     string
	Duration   time.Duration
	SampleRate int
	Bitrate    int // Nominal, 0 when unset
	Channels   int
	Encrypted  bool
}

// ChannelCount returns the number of interleaved channels.
func (i *Info) ChannelCount() int {
	return i.Channels
}

// parseIdentification parses the Vorbis identification header (packet type 0x01).
func parseIdentification(data []byte, info *Info) error {
	if len(data) < 30 {
		return fmt.Errorf("identification header too short: %d bytes", len(data))
	}
	if data[0] != 0x01 {
		return fmt.Errorf("not an identification header (type 0x%02x)", data[0])
	}
	if string(data[1:7]) != "vorbis" {
		return fmt.Errorf("invalid vorbis magic: %q", string(data[1:7]))
	}
	if v := binary.LittleEndian.Uint32(data[7:11]); v != 0 {
		return fmt.Errorf("unsupported Vorbis version: %d", v)
	}

	info.Channels = int(data[11])
	info.SampleRate = int(binary.LittleEndian.Uint32(data[12:16]))
	info.Bitrate = int(binary.LittleEndian.Uint32(data[20:24]))
	return nil
}

// parseComment parses the Vorbis comment header (packet type 0x03):
// a vendor string then a list of KEY=VALUE comments, all length-prefixed.
// Comments without '=' are skipped; a truncated list keeps what was read.
func parseComment(data []byte, info *Info) error {
	if len(data) < 11 {
		return fmt.Errorf("comment header too short: %d bytes", len(data))
	}
	if data[0] != 0x03 {
		return fmt.Errorf("not a comment header (type 0x%02x)", data[0])
	}
	if string(data[1:7]) != "vorbis" {
		return fmt.Errorf("invalid vorbis magic: %q", string(data[1:7]))
	}

	offset := 7
	next := func() (string, bool) {
		if offset+4 > len(data) {
			return "", false
		}
		n := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
		if n < 0 || offset+n > len(data) {
			return "", false
		}
		s := string(data[offset : offset+n])
		offset += n
		return s, true
	}

	vendor, ok := next()
	if !ok {
		return fmt.Errorf("truncated vendor string")
	}
	info.Vendor = vendor

	if offset+4 > len(data) {
		return nil
	}
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	info.Comments = make(map[string]string)
	for range count {
		comment, ok := next()
		if !ok {
			break
		}
		key, value, found := strings.Cut(comment, "=")
		if !found {
			continue
		}
		info.Comments[strings.ToUpper(key)] = value
	}
	return nil
}
