// Package render draws previews of crochet patterns.
//
// # Overview
//
// Rendering happens in two steps. [Compute] places every segment of every row
// as a [Block] in a flat coordinate space, then the layout is turned into an
// output format:
//
//   - JSON: the layout itself, via [MarshalLayout]
//   - SVG and PNG: a stitch chart, built as Graphviz DOT by [ToDOT] and
//     drawn with go-graphviz by [RenderSVG] and [RenderPNG]
//
// # Layout
//
// Rows stack upward: each row sits [RowSpacing] times the previous row's
// tallest stitch above it. Rows worked after a turn start at the previous
// row's width and run right to left. Every row after the foundation gets a
// turning block, a column of vertical chains sized by the turning chain its
// first stitch needs.
//
// # Preview Renderer
//
// [Chart] implements the pattern package's Renderer. It content-addresses
// each layout, so an undo back to a state that was already drawn is a cache
// hit:
//
//	chart := render.NewChart(render.Options{Cache: c, Formats: []render.Format{render.FormatPNG}})
//	p := pattern.New(pattern.WithRenderer(chart))
package render
