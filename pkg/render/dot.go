package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

var fillColors = map[stitch.Type]string{
	stitch.Chain:         "#f4e3c1",
	stitch.Single:        "#c9e4de",
	stitch.Double:        "#c6def1",
	stitch.HalfDouble:    "#dbcdf0",
	stitch.Slip:          "#f2c6de",
	stitch.VerticalChain: "#f4e3c1",
}

// ToDOT converts a layout to a Graphviz stitch chart. Each row is one rank,
// drawn bottom-up; segments are boxes labelled with their stitches and
// consecutive rows are joined by an edge labelled with the turn between them.
// The result can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(l Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=18, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")

	var prevLast string
	for _, row := range rowNumbers(l) {
		blocks := l.RowBlocks(row)
		if len(blocks) == 0 {
			continue
		}

		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph row%d {\n", row)
		buf.WriteString("    rank=same;\n")
		fmt.Fprintf(&buf, "    %q [shape=plaintext, style=\"\", label=%q];\n", rowLabelID(row), fmt.Sprintf("Row %d", row))
		for _, b := range blocks {
			fmt.Fprintf(&buf, "    %q [label=%q, fillcolor=%q];\n", nodeID(b), b.Label(), fillColors[b.Stitch])
		}
		buf.WriteString("  }\n")

		// Keep segments in working order within the rank.
		ids := make([]string, len(blocks))
		for i, b := range blocks {
			ids[i] = nodeID(b)
		}
		if blocks[0].Direction < 0 {
			fmt.Fprintf(&buf, "  %s -> %q [style=invis];\n", quoteChain(ids), rowLabelID(row))
		} else {
			fmt.Fprintf(&buf, "  %q -> %s [style=invis];\n", rowLabelID(row), quoteChain(ids))
		}

		if prevLast != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed];\n", prevLast, ids[0], blocks[0].Stitch.TurningText())
		}
		prevLast = ids[len(ids)-1]
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rowNumbers(l Layout) []int {
	var rows []int
	seen := make(map[int]bool)
	for _, b := range l.Blocks {
		if !seen[b.Row] {
			seen[b.Row] = true
			rows = append(rows, b.Row)
		}
	}
	return rows
}

func nodeID(b Block) string { return fmt.Sprintf("r%d_s%d", b.Row, b.Segment) }
func rowLabelID(row int) string { return fmt.Sprintf("r%d_label", row) }

func quoteChain(ids []string) string {
	q := make([]string, len(ids))
	for i, id := range ids {
		q[i] = strconv.Quote(id)
	}
	return strings.Join(q, " -> ")
}

// RenderSVG renders a DOT chart to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT chart to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// from its viewBox so the chart scales inside an <img>.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
