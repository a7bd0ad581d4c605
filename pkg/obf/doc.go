// Package obf converts boards into Open Board Format documents.
//
// An OBF document describes one board: its buttons, a dense grid of button
// ids and an image table. Buttons that open another board carry a
// load_board reference to "boards/<id>.obf", the path the board has inside
// an OBZ archive (see package archive).
//
// Board and tile properties that OBF has no field for are carried as
// extension properties: a fixed allow-list of keys, converted to snake case
// and prefixed with "ext_cboard_".
//
// Images are resolved through a [resource.Resolver]. In embed mode each image
// entry carries a data URI; otherwise it carries the archive path of the
// image file.
package obf
