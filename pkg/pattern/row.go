package pattern

import (
	"fmt"
	"slices"
	"strings"

	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

// Segment is a run of consecutive stitches of one type within a row.
// It covers stitch indices [Start, Start+Count).
type Segment struct {
	Stitch stitch.Type `json:"stitch"`
	Count  int         `json:"count"`
	Start  int         `json:"start"`
}

// End returns the index one past the segment's last stitch.
func (s Segment) End() int { return s.Start + s.Count }

// Text renders the segment in written-pattern notation ("3 dc", or "dc" for
// a single stitch).
func (s Segment) Text() string {
	if s.Count == 1 {
		return s.Stitch.Code()
	}
	return fmt.Sprintf("%d %s", s.Count, s.Stitch.Code())
}

// Row is an immutable, run-length encoded sequence of stitch segments.
//
// Append returns a new Row and never modifies the receiver's segment storage,
// so copies of a Row (history snapshots in particular) stay valid and share
// storage with the live row.
type Row struct {
	segments []Segment
	size     int
	height   float64
	turned   bool
}

// NewRow returns an empty row worked in the given direction.
func NewRow(turned bool) Row {
	return Row{turned: turned}
}

// Append returns r with count stitches of type t added at the end. A trailing
// segment of the same type is extended instead of starting a new one.
// Non-positive counts return r unchanged.
func (r Row) Append(t stitch.Type, count int) Row {
	if count < 1 {
		return r
	}

	segs := slices.Clone(r.segments)
	if n := len(segs); n > 0 && segs[n-1].Stitch == t {
		segs[n-1].Count += count
	} else {
		segs = append(segs, Segment{Stitch: t, Count: count, Start: r.size})
	}

	r.segments = segs
	r.size += count
	r.height = max(r.height, t.Height())
	return r
}

// Segments returns a copy of the row's segments in order.
func (r Row) Segments() []Segment { return slices.Clone(r.segments) }

// SegmentCount returns the number of run-length segments.
func (r Row) SegmentCount() int { return len(r.segments) }

// Size returns the total stitch count.
func (r Row) Size() int { return r.size }

// MaxHeight returns the tallest stitch height in the row.
func (r Row) MaxHeight() float64 { return r.height }

// Turned reports whether the row is worked right-to-left relative to row 1.
func (r Row) Turned() bool { return r.turned }

// WithTurned returns r with its direction set.
func (r Row) WithTurned(turned bool) Row {
	r.turned = turned
	return r
}

// Empty reports whether the row has no stitches.
func (r Row) Empty() bool { return r.size == 0 }

// First returns the row's first segment.
func (r Row) First() (Segment, bool) {
	if len(r.segments) == 0 {
		return Segment{}, false
	}
	return r.segments[0], true
}

// Last returns the row's last segment.
func (r Row) Last() (Segment, bool) {
	if len(r.segments) == 0 {
		return Segment{}, false
	}
	return r.segments[len(r.segments)-1], true
}

// Text renders the row's stitches, e.g. "2 sc, 3 dc, sc".
func (r Row) Text() string {
	parts := make([]string, len(r.segments))
	for i, s := range r.segments {
		parts[i] = s.Text()
	}
	return strings.Join(parts, ", ")
}

// Equal reports whether two rows hold the same segments and direction.
func (r Row) Equal(o Row) bool {
	return r.turned == o.turned && slices.Equal(r.segments, o.segments)
}

// String implements fmt.Stringer.
func (r Row) String() string {
	return fmt.Sprintf("Row{%s, size=%d, turned=%t}", r.Text(), r.size, r.turned)
}
