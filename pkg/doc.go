// Package pkg provides the core libraries of the crochet pattern editor.
//
// # Overview
//
// A pattern is a stack of rows worked back and forth, each a run of
// stitches. The pkg directory is organized by concern:
//
//  1. [stitch] - The stitch catalog (codes, heights, turning chains)
//  2. [pattern] - Rows, the editing state machine, undo/redo, written instructions
//  3. [render] - Chart layout and DOT/SVG/PNG previews
//  4. [script] - Line-oriented pattern scripts
//  5. [session] - Per-client editing sessions and saved sessions on disk
//  6. [store] - Saved patterns (memory, SQLite, MongoDB)
//  7. [cache] - Rendered preview cache (file, Redis)
//  8. [observability] - Hooks for edits, renders, cache and HTTP events
//
// # Architecture
//
// The typical data flow:
//
//	add_stitch / new_row / undo / redo
//	         ↓
//	    [pattern] package (next state + history entry)
//	         ↓
//	    [render] package (layout → DOT → SVG/PNG, cached by layout hash)
//	         ↓
//	    written instructions + chart preview
//
// # Quick Start
//
//	chart := render.NewChart(render.Options{Formats: []render.Format{render.FormatSVG}})
//	p := pattern.New(pattern.WithRenderer(chart))
//
//	p.AppendStitches(ctx, stitch.Chain, 10)
//	p.CommitRow(ctx)
//	p.AppendStitches(ctx, stitch.Single, 10)
//
//	fmt.Print(p.Written())
//	// Row 1: 10 ch, ch 1, turn
//	// Row 2: in 2nd st from hook, 10 sc
//
// [stitch]: github.com/deiva0304/BUDS-Crochet/pkg/stitch
// [pattern]: github.com/deiva0304/BUDS-Crochet/pkg/pattern
// [render]: github.com/deiva0304/BUDS-Crochet/pkg/render
// [script]: github.com/deiva0304/BUDS-Crochet/pkg/script
// [session]: github.com/deiva0304/BUDS-Crochet/pkg/session
// [store]: github.com/deiva0304/BUDS-Crochet/pkg/store
// [cache]: github.com/deiva0304/BUDS-Crochet/pkg/cache
// [observability]: github.com/deiva0304/BUDS-Crochet/pkg/observability
package pkg
