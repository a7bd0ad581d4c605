// Package render converts SVG documents to raster and print formats.
//
// Conversion shells out to rsvg-convert (librsvg). The print layout engine
// uses [Rasterizer] to turn SVG tile symbols into PNG before drawing them on
// the tile canvas, and the graph command uses [ToPDF] and [ToPNG] for the
// board-link graph.
//
//	svg, _ := board.RenderGraphSVG(ctx, boards)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [Available] reports whether the tool is installed. Callers that can degrade
// (the print engine falls back to the "not found" image) check it once and
// skip conversion when it is missing.
package render
