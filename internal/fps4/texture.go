package fps4

import (
	"fmt"
	"strings"

	"github.com/simonhull/rawksd/internal/types"
)

// Content tags understood by OpenTexture.
const (
	TypeTexture       = "txmv"
	TypePackedTexture = "pktx"
	textureWrapperExt = ".TTX"
	textureChildCount = 2
)

// Texture holds the two halves of a texture archive: the header part
// describing the image and the raw pixel data. Both borrow the source buffer.
type Texture struct {
	Header []byte
	Data   []byte
}

// OpenTexture resolves a texture archive to its header and data parts.
//
// A "txmv" archive must hold exactly two children. When it holds a different
// number, the child whose name ends in .TTX is reopened as an archive and
// resolution is retried. A "pktx" archive wraps the wanted archive as its
// first child. Anything else is a FormatError.
func OpenTexture(data []byte, path string) (*Texture, error) {
	return openTexture(data, path, 0)
}

func openTexture(data []byte, path string, depth int) (*Texture, error) {
	if depth > MaxDepth {
		return nil, &types.FormatError{Path: path, Reason: fmt.Sprintf("texture archives nested deeper than %d levels", MaxDepth)}
	}

	a, err := OpenBytes(data, path)
	if err != nil {
		return nil, err
	}

	switch a.Type {
	case TypeTexture:
		if len(a.Entries) != textureChildCount {
			for _, e := range a.Entries {
				if strings.HasSuffix(strings.ToUpper(e.Name), textureWrapperExt) {
					return openTexture(e.Data, e.Name, depth+1)
				}
			}
			return nil, &types.FormatError{
				Path:   path,
				Reason: fmt.Sprintf("texture archive has %d children and no %s child", len(a.Entries), textureWrapperExt),
			}
		}
		return &Texture{Header: a.Entries[0].Data, Data: a.Entries[1].Data}, nil

	case TypePackedTexture:
		if len(a.Entries) == 0 {
			return nil, &types.FormatError{Path: path, Reason: "packed texture archive is empty"}
		}
		return openTexture(a.Entries[0].Data, a.Entries[0].Name, depth+1)
	}

	return nil, &types.FormatError{Path: path, Reason: fmt.Sprintf("unrecognized texture type %q", a.Type)}
}
