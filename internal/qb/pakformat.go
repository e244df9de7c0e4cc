package qb

import (
	"path"
	"strings"

	"github.com/simonhull/rawksd/internal/binary"
)

// Platform identifies the console a pak was built for.
type Platform int

const (
	PlatformPC Platform = iota
	PlatformPS2
	PlatformXbox360
	PlatformPS3
	PlatformWii
)

func (p Platform) String() string {
	switch p {
	case PlatformPC:
		return "PC"
	case PlatformPS2:
		return "PS2"
	case PlatformXbox360:
		return "Xbox 360"
	case PlatformPS3:
		return "PS3"
	case PlatformWii:
		return "Wii"
	default:
		return "Unknown"
	}
}

// Extension returns the file suffix paks carry on this platform.
func (p Platform) Extension() string {
	switch p {
	case PlatformPS2:
		return ".ps2"
	case PlatformXbox360:
		return ".xen"
	case PlatformPS3:
		return ".ps3"
	case PlatformWii:
		return ".ngc"
	default:
		return ""
	}
}

// PlatformFromPath guesses the platform from a pak file name such as
// "songlist.qb.xen". Names without a platform suffix are PC.
func PlatformFromPath(name string) Platform {
	switch strings.ToLower(path.Ext(name)) {
	case ".ps2":
		return PlatformPS2
	case ".xen":
		return PlatformXbox360
	case ".ps3":
		return PlatformPS3
	case ".ngc":
		return PlatformWii
	default:
		return PlatformPC
	}
}

// PakFormat is the encoding context an item tree is parsed under.
type PakFormat struct {
	Platform Platform
	Endian   binary.Endianness
}

// NewPakFormat returns the format used by platform.
func NewPakFormat(p Platform) *PakFormat {
	endian := binary.BigEndian
	if p == PlatformPC || p == PlatformPS2 {
		endian = binary.LittleEndian
	}
	return &PakFormat{Platform: p, Endian: endian}
}

func (f *PakFormat) String() string {
	return f.Platform.String() + " " + f.Endian.String()
}
