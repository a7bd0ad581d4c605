// Package pkg provides the core libraries for exporting Cboard communication
// boards.
//
// # Overview
//
// A board is a named arrangement of tiles. Tiles carry a label, an image and
// colors, and may open another board. Boards are exported four ways: as one
// Open Board Format document, as an OBZ archive of a board set, as a native
// snapshot, and as a printable grid layout. The pkg directory is organized
// into four areas:
//
//  1. Model - [board] and [grid]
//  2. Conversion - [resource], [obf], [archive], [print]
//  3. Orchestration - [export], [generate]
//  4. Infrastructure - [cache], [httputil], [store], [deliver], [i18n],
//     [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	snapshot file / MongoDB collection
//	         ↓
//	    [store] (load boards)
//	         ↓
//	    [board] (validate, walk the links from a root)
//	         ↓
//	    [resource] (resolve images: inline, fetched, or placeholder)
//	         ↓
//	    [obf] / [archive] / [print] (convert and assemble)
//	         ↓
//	    [deliver] (directory, sandboxed Download folder, S3)
//
// # Quick Start
//
//	boards, _ := store.NewFileSource("boards.json").Boards(ctx)
//	runner := export.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, export.Options{
//	    Format: export.FormatOBZ,
//	    Root:   "root",
//	    Boards: boards,
//	})
//	if err != nil {
//	    return err
//	}
//	deliver.NewDirSink("out").Deliver(ctx, result.Artifact)
//
// # Main Packages
//
// [grid] - Reconciles a fixed board's user-authored order with its tiles
// into a dense rows × columns matrix.
//
// [board] - The board and tile model with passthrough properties, the
// native snapshot format, validation, and the board-link walker.
//
// [resource] - Turns image references into embeddable bytes. Failures never
// abort an export; they become the "not found" placeholder.
//
// [obf] - Converts one board to an Open Board Format document.
//
// [archive] - Assembles single documents and OBZ archives with a manifest.
//
// [print] - Lays boards out as printable page grids with normalized tiles.
//
// [render] - SVG conversion through rsvg-convert.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/grid/...        # Specific package
//	go test -run Example ./pkg/...
package pkg
