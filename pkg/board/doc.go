// Package board defines the board and tile data model shared by every export
// format, together with the native snapshot format and the board-graph walker.
//
// # Data Model
//
// A [Board] is a named arrangement of [Tile] values. Fixed-grid boards
// (IsFixed) carry an explicit [Grid] with a user-authored order; free-form
// boards are a plain tile list. Tiles may link to another board through
// LoadBoard, which makes the board collection a possibly cyclic graph.
//
// Boards and tiles are read-only to the export pipeline. Keys that the model
// does not know about are kept verbatim in Extra so that a board survives a
// snapshot round trip without field loss.
//
// # Snapshots
//
// The native snapshot is a flat JSON array of boards used for backup and
// restore between installations. [WriteSnapshot] and [ReadSnapshot] convert
// between that format and []Board; [ExportSnapshot] and [ImportSnapshot] are
// file-based wrappers.
//
// # Board Graph
//
// [Reachable] returns a root board plus every board transitively linked from
// it, visiting each board exactly once even in the presence of cycles and
// dangling links. [ToDOT] and [RenderGraphSVG] visualize the same links.
package board
