package pattern

import (
	"fmt"
	"strings"
)

// Written returns the row-by-row instructions for the committed rows followed
// by the current row. Rows without stitches are skipped; runs of identical
// instruction lines are collapsed into ranges ("Row 3-5: ...").
func Written(rows []Row, current Row) string {
	all := make([]Row, 0, len(rows)+1)
	for _, r := range append(rows[:len(rows):len(rows)], current) {
		if !r.Empty() {
			all = append(all, r)
		}
	}
	return CollapseRows(RowLines(all))
}

// RowLines returns the instruction text of each row, without labels.
//
// Every row after the first opens with where to insert the hook for its first
// stitch, and every row before the last ends with the turning chain needed by
// the next row's first stitch.
func RowLines(rows []Row) []string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		var b strings.Builder
		if i > 0 {
			if first, ok := r.First(); ok {
				b.WriteString(first.Stitch.InsertionText())
			}
		}
		b.WriteString(r.Text())
		if i < len(rows)-1 {
			if next, ok := rows[i+1].First(); ok {
				b.WriteString(", ")
				b.WriteString(next.Stitch.TurningText())
			}
		}
		lines[i] = b.String()
	}
	return lines
}

// CollapseRows labels instruction lines with row numbers, folding adjacent
// identical lines into one ranged line. Each line ends with a newline.
func CollapseRows(lines []string) string {
	var b strings.Builder
	for start := 0; start < len(lines); {
		end := start
		for end+1 < len(lines) && lines[end+1] == lines[start] {
			end++
		}
		if end > start {
			fmt.Fprintf(&b, "Row %d-%d: %s\n", start+1, end+1, lines[start])
		} else {
			fmt.Fprintf(&b, "Row %d: %s\n", start+1, lines[start])
		}
		start = end + 1
	}
	return b.String()
}
