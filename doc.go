// Package rawksd converts song collections between rhythm game titles.
//
// A collection is read by an engine, one console and game family, into a
// PlatformData of songs. Each song carries a canonical SongData record plus
// the raw streams of the formats it was imported with. Export writes the
// songs back through another engine.
//
// # Quick Start
//
// Importing a Guitar Hero disc and exporting it as song archives:
//
//	ctx := context.Background()
//
//	data, err := rawksd.Import(ctx, os.DirFS("/mnt/disc"), ".")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	target, err := rawksd.EngineByName("RawkSD Song Archive")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	out, err := rawksd.ExportDir(ctx, data, target, "songs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("exported %d of %d songs\n", len(out.Songs), len(data.Songs))
//
// # Engines
//
//   - Neversoft Disc: a songlist item tree, plain or packed in an FPS4
//     archive or multi-part container, with an optional string table
//   - RawkSD Song Archive: one directory per song holding a songdata
//     record and the song's streams
//
// Detect reports every engine that could read a directory. Import uses the
// first one unless WithEngine names another.
//
// # Error Handling
//
// Fatal errors stop an operation: an unreadable directory, no matching
// engine, a cancelled context. A song that cannot be imported or exported
// is a warning; it is logged through WithLogger, recorded on
// PlatformData.Warnings and the batch continues:
//
//	for _, w := range data.Warnings {
//		log.Printf("warning: %s", w)
//	}
//
// Binary decoding errors are typed: FormatError for an unrecognized
// layout, OutOfBoundsError for a read past the end of the data and
// CorruptedFileError for inconsistent sizes. Check them with errors.As.
package rawksd
