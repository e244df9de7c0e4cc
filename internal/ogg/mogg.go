package ogg

import (
	"fmt"
	"time"

	"github.com/simonhull/rawksd/internal/binary"
	"github.com/simonhull/rawksd/internal/types"
)

// Multitrack header versions. Versions above MoggVersion are encrypted.
const (
	MoggVersion          = 0x0A
	moggHeaderSize       = 16
	maxMoggVersion       = 0x10
	moggSeekTableVersion = 0x10
)

// IsStream reports whether data is a bare Ogg stream or a multitrack one.
func IsStream(data []byte) bool {
	if len(data) >= 4 && string(data[:4]) == pageMagic {
		return true
	}
	_, err := oggOffset(binary.NewBytesReader(data, ""))
	return err == nil
}

// oggOffset returns where the Ogg pages start. A bare stream starts at 0;
// a multitrack header names the offset in its second word.
func oggOffset(sr *binary.SafeReader) (int64, error) {
	if head, err := sr.Slice(0, 4, "Ogg magic"); err == nil && string(head) == pageMagic {
		return 0, nil
	}

	version, err := binary.ReadLE[uint32](sr, 0, "multitrack version")
	if err != nil {
		return 0, err
	}
	if version < MoggVersion || version > maxMoggVersion {
		return 0, &types.FormatError{Path: sr.Path(), Reason: fmt.Sprintf("unknown multitrack version 0x%X", version)}
	}
	offset, err := binary.ReadLE[uint32](sr, 4, "Ogg offset")
	if err != nil {
		return 0, err
	}
	if int64(offset) < moggHeaderSize || int64(offset) > sr.Size() {
		return 0, &types.CorruptedFileError{Path: sr.Path(), Offset: 4, Reason: fmt.Sprintf("Ogg offset %d outside stream", offset)}
	}
	return int64(offset), nil
}

// Probe reads the stream properties of a bare or multitrack Ogg Vorbis
// stream. Encrypted multitrack streams report only Encrypted.
func Probe(data []byte, path string) (*Info, error) {
	sr := binary.NewBytesReader(data, path)

	start, err := oggOffset(sr)
	if err != nil {
		return nil, err
	}
	if start > 0 {
		version, _ := binary.ReadLE[uint32](sr, 0, "multitrack version")
		if version > MoggVersion {
			return &Info{Encrypted: true}, nil
		}
	}

	// The identification and comment headers open the stream.
	var pages []*Page
	offset := start
	for i := 0; i < 3 && offset < sr.Size(); i++ {
		page, next, err := readPage(sr, offset)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("read first Ogg page: %w", err)
			}
			break
		}
		pages = append(pages, page)
		offset = next
	}

	packets := extractPackets(pages)
	if len(packets) == 0 {
		return nil, &types.FormatError{Path: path, Reason: "no Ogg packets"}
	}

	info := &Info{}
	if err := parseIdentification(packets[0], info); err != nil {
		return nil, &types.FormatError{Path: path, Reason: err.Error()}
	}
	if len(packets) > 1 {
		// Comments are optional here; a bad comment header leaves them empty.
		_ = parseComment(packets[1], info)
	}

	if info.SampleRate > 0 {
		if granule, err := lastGranulePosition(sr, start); err == nil && granule > 0 {
			info.Duration = time.Duration(granule) * time.Second / time.Duration(info.SampleRate)
		}
	}
	return info, nil
}

// WrapMogg prefixes a bare Ogg stream with an unencrypted multitrack
// header and an empty seek table.
func WrapMogg(ogg []byte) ([]byte, error) {
	buf := binary.NewBuffer(moggHeaderSize + len(ogg))
	sw := binary.NewSafeWriter(buf)

	if err := binary.WriteLE[uint32](sw, MoggVersion); err != nil {
		return nil, err
	}
	if err := binary.WriteLE[uint32](sw, moggHeaderSize); err != nil {
		return nil, err
	}
	if err := binary.WriteLE[uint32](sw, moggSeekTableVersion); err != nil {
		return nil, err
	}
	if err := binary.WriteLE[uint32](sw, 0); err != nil {
		return nil, err
	}
	if err := sw.WriteBytes(ogg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
