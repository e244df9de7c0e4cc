// Package ogg reads the stream layout of Ogg Vorbis audio, bare or behind
// a multitrack (MOGG) header, and provides the "Multitrack Ogg Audio"
// format plugin that carries a song's audio and preview streams.
package ogg

import (
	"fmt"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/types"
)

const pageMagic = "OggS"

// Page represents an Ogg page.
type Page struct {
	HeaderType      byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
	GranulePosition int64  // Position in samples
	SerialNumber    uint32 // Logical bitstream identifier
	SequenceNumber  uint32 // Page sequence number
	Data            []byte // Page payload (one or more packets)
}

// readPage reads the Ogg page at offset and returns it with the offset of
// the next page. Page data borrows from sr's backing buffer.
func readPage(sr *binary.SafeReader, offset int64) (*Page, int64, error) {
	magic, err := sr.Slice(offset, 4, "Ogg magic")
	if err != nil {
		return nil, 0, err
	}
	if string(magic) != pageMagic {
		return nil, 0, &types.FormatError{Path: sr.Path(), Reason: fmt.Sprintf("no Ogg page at offset %d", offset)}
	}

	version, err := binary.Read[uint8](sr, offset+4, "version")
	if err != nil {
		return nil, 0, err
	}
	if version != 0 {
		return nil, 0, &types.FormatError{Path: sr.Path(), Reason: fmt.Sprintf("unsupported Ogg version %d", version)}
	}

	headerType, err := binary.Read[uint8](sr, offset+5, "header type")
	if err != nil {
		return nil, 0, err
	}
	granule, err := binary.ReadLE[uint64](sr, offset+6, "granule position")
	if err != nil {
		return nil, 0, err
	}
	serial, err := binary.ReadLE[uint32](sr, offset+14, "serial number")
	if err != nil {
		return nil, 0, err
	}
	sequence, err := binary.ReadLE[uint32](sr, offset+18, "sequence number")
	if err != nil {
		return nil, 0, err
	}
	segmentCount, err := binary.Read[uint8](sr, offset+26, "segment count")
	if err != nil {
		return nil, 0, err
	}

	// Each segment table byte is the size of one segment, 0-255.
	segments, err := sr.Slice(offset+27, int(segmentCount), "segment table")
	if err != nil {
		return nil, 0, err
	}
	dataSize := 0
	for _, seg := range segments {
		dataSize += int(seg)
	}

	dataOffset := offset + 27 + int64(segmentCount)
	data, err := sr.Slice(dataOffset, dataSize, "page data")
	if err != nil {
		return nil, 0, err
	}

	page := &Page{
		HeaderType:      headerType,
		GranulePosition: int64(granule),
		SerialNumber:    serial,
		SequenceNumber:  sequence,
		Data:            data,
	}
	return page, dataOffset + int64(dataSize), nil
}

// extractPackets joins pages into packets. A page flagged as continued
// extends the packet in progress; any other page starts a new one.
func extractPackets(pages []*Page) [][]byte {
	var packets [][]byte
	var current []byte

	for _, page := range pages {
		if page.HeaderType&0x01 != 0 && len(current) > 0 {
			current = append(current, page.Data...)
			continue
		}
		if len(current) > 0 {
			packets = append(packets, current)
		}
		current = append([]byte(nil), page.Data...)
	}

	if len(current) > 0 {
		packets = append(packets, current)
	}
	return packets
}

// lastGranulePosition returns the granule position of the last page in
// the final 64 KiB of sr.
func lastGranulePosition(sr *binary.SafeReader, start int64) (int64, error) {
	searchStart := max(sr.Size()-65536, start)

	buf, err := sr.Slice(searchStart, int(sr.Size()-searchStart), "search region")
	if err != nil {
		return 0, err
	}

	for i := len(buf) - 4; i >= 0; i-- {
		if string(buf[i:i+4]) == pageMagic {
			granule, err := binary.ReadLE[uint64](sr, searchStart+int64(i)+6, "granule position")
			if err != nil {
				return 0, err
			}
			return int64(granule), nil
		}
	}
	return 0, &types.FormatError{Path: sr.Path(), Reason: "no final Ogg page"}
}
