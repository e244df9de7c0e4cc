package types

// FormatType classifies what kind of stream a format plugin handles.
type FormatType int

const (
	// FormatTypeUnknown is the zero value.
	FormatTypeUnknown FormatType = iota
	// FormatTypeMetadata formats carry song metadata.
	FormatTypeMetadata
	// FormatTypeAudio formats carry audio streams.
	FormatTypeAudio
	// FormatTypeChart formats carry note charts.
	FormatTypeChart
	// FormatTypeAlbumArt formats carry cover images.
	FormatTypeAlbumArt
)

var formatTypeNames = map[FormatType]string{
	FormatTypeUnknown:  "Unknown",
	FormatTypeMetadata: "Metadata",
	FormatTypeAudio:    "Audio",
	FormatTypeChart:    "Chart",
	FormatTypeAlbumArt: "Album Art",
}

func (t FormatType) String() string {
	if name, ok := formatTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Container identifies the binary container layout of a byte source.
type Container int

const (
	// ContainerUnknown means no known magic matched.
	ContainerUnknown Container = iota
	// ContainerArchive is an indexed FPS4 archive.
	ContainerArchive
	// ContainerMultiPart is a multi-part (optionally compressed) container.
	ContainerMultiPart
	// ContainerItemTree is a hashed item tree (no magic; assumed as fallback).
	ContainerItemTree
)

var containerNames = map[Container]string{
	ContainerUnknown:   "Unknown",
	ContainerArchive:   "FPS4 Archive",
	ContainerMultiPart: "Multi-Part Container",
	ContainerItemTree:  "Item Tree",
}

func (c Container) String() string {
	if name, ok := containerNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Extensions returns common file extensions for this container.
func (c Container) Extensions() []string {
	switch c {
	case ContainerArchive:
		return []string{".fps4", ".txm", ".txv", ".pak"}
	case ContainerMultiPart:
		return []string{".milo", ".milo_xbox", ".milo_ps3", ".milo_wii"}
	case ContainerItemTree:
		return []string{".qb", ".qb.xen", ".qb.ps3", ".qb.ngc", ".qb.ps2"}
	default:
		return nil
	}
}
