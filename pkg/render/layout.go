package render

import (
	"encoding/json"

	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

const (
	// StitchWidth is the horizontal space one stitch occupies.
	StitchWidth = 1.0
	// RowSpacing scales a row's tallest stitch into the rise to the next row.
	RowSpacing = 0.9
)

// TurningSegment is the Segment index of turning blocks.
const TurningSegment = -1

// Block is one placed segment: Count stitches of one type starting at (X, Z)
// and running in Direction (+1 left to right, -1 right to left).
type Block struct {
	Row       int         `json:"row"`
	Segment   int         `json:"segment"`
	Stitch    stitch.Type `json:"stitch"`
	Count     int         `json:"count"`
	X         float64     `json:"x"`
	Z         float64     `json:"z"`
	Direction int         `json:"direction"`
	Height    float64     `json:"height"`
}

// Turning reports whether b is a turning chain rather than a row segment.
func (b Block) Turning() bool { return b.Segment == TurningSegment }

// Label returns the chart label of the block, "6 sc" or "sc" for one stitch.
func (b Block) Label() string {
	return pattern.Segment{Stitch: b.Stitch, Count: b.Count}.Text()
}

// Layout is a computed pattern preview.
type Layout struct {
	Rows   int     `json:"rows"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Blocks []Block `json:"blocks"`
}

// RowBlocks returns the segment blocks of the given 1-based row in stitch
// order, without its turning block.
func (l Layout) RowBlocks(row int) []Block {
	var out []Block
	for _, b := range l.Blocks {
		if b.Row == row && !b.Turning() {
			out = append(out, b)
		}
	}
	return out
}

// Compute places the committed rows and the current row. Rows without
// stitches take no space and produce no blocks, but keep their row number.
func Compute(rows []pattern.Row, current pattern.Row) Layout {
	all := append(rows[:len(rows):len(rows)], current)

	l := Layout{Blocks: []Block{}}
	var (
		z       float64
		prev    pattern.Row
		hasPrev bool
	)
	for i, r := range all {
		if r.Empty() {
			continue
		}
		l.Rows++
		rowNum := i + 1

		x, dir := 0.0, 1
		if r.Turned() && hasPrev {
			x, dir = float64(prev.Size())*StitchWidth, -1
		}

		if hasPrev {
			first, _ := r.First()
			if n := first.Stitch.TurningChains(); n > 0 {
				l.Blocks = append(l.Blocks, Block{
					Row:       rowNum,
					Segment:   TurningSegment,
					Stitch:    stitch.VerticalChain,
					Count:     n,
					X:         x,
					Z:         z,
					Direction: dir,
					Height:    float64(n) * stitch.VerticalChain.Height(),
				})
			}
		}

		for j, seg := range r.Segments() {
			l.Blocks = append(l.Blocks, Block{
				Row:       rowNum,
				Segment:   j,
				Stitch:    seg.Stitch,
				Count:     seg.Count,
				X:         x,
				Z:         z,
				Direction: dir,
				Height:    seg.Stitch.Height(),
			})
			x += float64(dir*seg.Count) * StitchWidth
		}

		if w := float64(r.Size()) * StitchWidth; w > l.Width {
			l.Width = w
		}
		z += r.MaxHeight() * RowSpacing
		prev, hasPrev = r, true
	}
	l.Height = z
	return l
}

// MarshalLayout encodes a layout as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
