package ghdisc

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/simonhull/rawksd/internal/fps4"
	"github.com/simonhull/rawksd/internal/milo"
	"github.com/simonhull/rawksd/internal/neversoft"
	"github.com/simonhull/rawksd/internal/qb"
	"github.com/simonhull/rawksd/internal/types"
)

const (
	songlistPrefix = "songlist.qb"
	pakPrefix      = "qb.pak"
	stringsFile    = "songlist.strings"
)

// songlist is a loaded songlist item tree.
type songlist struct {
	file *qb.File
	item *qb.Item
	strs *qb.StringList
	path string
	info neversoft.Songlist
}

// isCandidate reports whether a file name may hold a songlist.
func isCandidate(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, songlistPrefix) || strings.HasPrefix(lower, pakPrefix)
}

// findSonglists returns candidate songlist files under root in walk order.
func findSonglists(fsys fs.FS, root string) ([]string, error) {
	var found []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isCandidate(d.Name()) {
			found = append(found, p)
		}
		return nil
	})
	return found, err
}

// loadSonglist reads the first songlist found under root.
func loadSonglist(fsys fs.FS, root string) (*songlist, error) {
	paths, err := findSonglists(fsys, root)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		file, err := loadTree(data, p, qb.PlatformFromPath(p), 0)
		if err != nil {
			lastErr = err
			continue
		}
		item, info, ok := neversoft.FindSonglist(file)
		if !ok {
			continue
		}

		sl := &songlist{file: file, item: item, info: info, path: p}
		if sl.strs, err = loadStrings(fsys, path.Dir(p)); err != nil {
			return nil, err
		}
		return sl, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("no songlist under %s: %w", root, lastErr)
	}
	return nil, &types.FormatError{Path: root, Reason: "no songlist found"}
}

// loadTree parses data as an item tree, unwrapping FPS4 archives and
// multi-part containers on the way. Inner files without a platform suffix
// inherit the platform of their container.
func loadTree(data []byte, name string, platform qb.Platform, depth int) (*qb.File, error) {
	if depth > fps4.MaxDepth {
		return nil, &types.FormatError{Path: name, Reason: "containers nested too deeply"}
	}

	if p := qb.PlatformFromPath(name); p != qb.PlatformPC {
		platform = p
	}
	format := qb.NewPakFormat(platform)

	switch {
	case fps4.IsArchive(data):
		archive, err := fps4.OpenBytes(data, name)
		if err != nil {
			return nil, err
		}
		var inner *fps4.Entry
		err = archive.Walk(func(_ string, e *fps4.Entry) error {
			if inner == nil && strings.HasPrefix(strings.ToLower(e.Name), songlistPrefix) {
				inner = e
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, &types.FormatError{Path: name, Reason: "archive holds no songlist"}
		}
		return loadTree(inner.Data, inner.Name, platform, depth+1)

	case milo.IsContainer(data):
		c, err := milo.Decode(data, name, format.Endian)
		if err != nil {
			return nil, err
		}
		for _, part := range c.Parts {
			file, err := loadTree(part, name, platform, depth+1)
			if err != nil {
				continue
			}
			if _, _, ok := neversoft.FindSonglist(file); ok {
				return file, nil
			}
		}
		return nil, &types.FormatError{Path: name, Reason: "no container part holds a songlist"}
	}

	return qb.Parse(data, name, format)
}

// loadStrings reads the optional string table next to a songlist.
func loadStrings(fsys fs.FS, dir string) (*qb.StringList, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(e.Name(), stringsFile) {
			continue
		}
		f, err := fsys.Open(path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return qb.ParseStringList(f)
	}
	return qb.NewStringList(), nil
}
