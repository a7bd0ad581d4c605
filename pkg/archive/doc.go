// Package archive assembles OBF and OBZ exports.
//
// [ExportOne] produces a single .obf document with every image embedded as a
// data URI. [ExportMany] produces an .obz archive: a zip container holding
// one document per board under boards/, the image files under images/, and
// a manifest.json that maps board and image ids to those paths and names the
// root board.
//
//	manifest.json
//	boards/<board id>.obf
//	images/custom/<board>/<label>.png
//	images/<host>/<path>
//
// Boards without tiles are left out of the archive. Resource failures never
// abort an export; they show up as the placeholder image.
package archive
