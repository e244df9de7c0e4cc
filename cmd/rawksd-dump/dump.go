package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/simonhull/rawksd"
	"github.com/simonhull/rawksd/internal/fps4"
	"github.com/simonhull/rawksd/internal/milo"
	"github.com/simonhull/rawksd/internal/qb"
)

// Prints the layout of an archive, multi-part container or item tree,
// descending into nested containers.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: rawksd-dump [-version] <file> [strings]")
		os.Exit(1)
	}
	if os.Args[1] == "-version" {
		fmt.Println(rawksd.GetBuildInfo())
		return
	}

	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var strs *qb.StringList
	if len(os.Args) > 2 {
		f, err := os.Open(os.Args[2])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		strs, err = qb.ParseStringList(f)
		f.Close()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	d := dumper{strs: strs}
	if err := d.dump(data, path, qb.PlatformFromPath(path), 0); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type dumper struct {
	strs *qb.StringList
}

func (d dumper) dump(data []byte, name string, platform qb.Platform, depth int) error {
	indent := strings.Repeat("  ", depth)
	if p := qb.PlatformFromPath(name); p != qb.PlatformPC {
		platform = p
	}
	format := qb.NewPakFormat(platform)

	kind := rawksd.DetectContainer(data)
	fmt.Printf("%s%s (%s, %d bytes)\n", indent, name, kind, len(data))

	switch kind {
	case rawksd.ContainerArchive:
		a, err := fps4.OpenBytes(data, name)
		if err != nil {
			return err
		}
		fmt.Printf("%s  type %q, %d entries\n", indent, a.Type, len(a.Entries))
		for _, e := range a.Entries {
			if err := d.dump(e.Data, e.Name, platform, depth+1); err != nil {
				fmt.Printf("%s  ! %v\n", indent, err)
			}
		}

	case rawksd.ContainerMultiPart:
		c, err := milo.Decode(data, name, format.Endian)
		if err != nil {
			return err
		}
		fmt.Printf("%s  compressed %t, data offset 0x%X, %d parts\n", indent, c.Compressed, c.DataOffset, len(c.Parts))
		for i, part := range c.Parts {
			if err := d.dump(part, fmt.Sprintf("part %d", i), platform, depth+1); err != nil {
				fmt.Printf("%s  ! %v\n", indent, err)
			}
		}

	case rawksd.ContainerItemTree:
		f, err := qb.Parse(data, name, format)
		if err != nil {
			return err
		}
		for _, item := range f.Items {
			d.item(item, depth+1)
		}
	}
	return nil
}

func (d dumper) item(it *qb.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s", indent, it.Type, it.Key)

	switch it.Type {
	case qb.TypeString, qb.TypeWideString:
		fmt.Printf(" %q", it.Strings)
	case qb.TypeInteger:
		fmt.Printf(" %v", it.Integers)
	case qb.TypeFloat:
		fmt.Printf(" %v", it.Floats)
	case qb.TypeKeyRef:
		fmt.Printf(" %v", it.Keys)
		if text := it.Resolve(d.strs); text != "" {
			fmt.Printf(" %q", text)
		}
	}
	fmt.Println()

	for _, child := range it.Items {
		d.item(child, depth+1)
	}
}
