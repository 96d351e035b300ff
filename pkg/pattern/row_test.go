package pattern

import (
	"testing"

	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

func TestRowAppend(t *testing.T) {
	tests := []struct {
		name         string
		build        func() Row
		wantSize     int
		wantSegments int
		wantText     string
		wantHeight   float64
	}{
		{
			name:         "empty",
			build:        func() Row { return NewRow(false) },
			wantSize:     0,
			wantSegments: 0,
			wantText:     "",
			wantHeight:   0,
		},
		{
			name:         "same type extends trailing segment",
			build:        func() Row { return NewRow(false).Append(stitch.Single, 2).Append(stitch.Single, 3) },
			wantSize:     5,
			wantSegments: 1,
			wantText:     "5 sc",
			wantHeight:   1,
		},
		{
			name: "different types add segments",
			build: func() Row {
				return NewRow(false).Append(stitch.Single, 2).Append(stitch.Double, 3).Append(stitch.Single, 1)
			},
			wantSize:     6,
			wantSegments: 3,
			wantText:     "2 sc, 3 dc, sc",
			wantHeight:   2,
		},
		{
			name:         "taller stitch first keeps max height",
			build:        func() Row { return NewRow(false).Append(stitch.Double, 1).Append(stitch.Slip, 4) },
			wantSize:     5,
			wantSegments: 2,
			wantText:     "dc, 4 sl st",
			wantHeight:   2,
		},
		{
			name:         "non-positive count is a no-op",
			build:        func() Row { return NewRow(false).Append(stitch.Chain, 3).Append(stitch.Single, 0).Append(stitch.Single, -2) },
			wantSize:     3,
			wantSegments: 1,
			wantText:     "3 ch",
			wantHeight:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.build()
			if got := r.Size(); got != tt.wantSize {
				t.Errorf("Size() = %d, want %d", got, tt.wantSize)
			}
			if got := r.SegmentCount(); got != tt.wantSegments {
				t.Errorf("SegmentCount() = %d, want %d", got, tt.wantSegments)
			}
			if got := r.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			if got := r.MaxHeight(); got != tt.wantHeight {
				t.Errorf("MaxHeight() = %v, want %v", got, tt.wantHeight)
			}

			sum := 0
			for _, s := range r.Segments() {
				sum += s.Count
			}
			if sum != r.Size() {
				t.Errorf("sum of segment counts = %d, Size() = %d", sum, r.Size())
			}
		})
	}
}

func TestRowSegmentRanges(t *testing.T) {
	r := NewRow(false).Append(stitch.Chain, 4).Append(stitch.Single, 2).Append(stitch.Double, 3)
	segs := r.Segments()

	want := [][2]int{{0, 4}, {4, 6}, {6, 9}}
	for i, s := range segs {
		if s.Start != want[i][0] || s.End() != want[i][1] {
			t.Errorf("segment %d range = [%d,%d), want [%d,%d)", i, s.Start, s.End(), want[i][0], want[i][1])
		}
	}
}

func TestRowImmutable(t *testing.T) {
	base := NewRow(false).Append(stitch.Single, 2)
	extended := base.Append(stitch.Single, 3)
	branched := base.Append(stitch.Double, 1)

	if base.Size() != 2 || base.Text() != "2 sc" {
		t.Errorf("base changed: %v", base)
	}
	if extended.Text() != "5 sc" {
		t.Errorf("extended.Text() = %q, want %q", extended.Text(), "5 sc")
	}
	if branched.Text() != "2 sc, dc" {
		t.Errorf("branched.Text() = %q, want %q", branched.Text(), "2 sc, dc")
	}

	segs := base.Segments()
	segs[0].Count = 99
	if base.Size() != 2 || base.Segments()[0].Count != 2 {
		t.Error("Segments() exposed internal storage")
	}
}

func TestRowTurned(t *testing.T) {
	r := NewRow(true).Append(stitch.Single, 1)
	if !r.Turned() {
		t.Error("Turned() = false, want true")
	}
	if r.WithTurned(false).Turned() {
		t.Error("WithTurned(false).Turned() = true")
	}
	if !r.Turned() {
		t.Error("WithTurned modified receiver")
	}
}

func TestRowFirstLast(t *testing.T) {
	if _, ok := NewRow(false).First(); ok {
		t.Error("First() on empty row ok = true")
	}
	r := NewRow(false).Append(stitch.HalfDouble, 2).Append(stitch.Slip, 1)
	first, _ := r.First()
	last, _ := r.Last()
	if first.Stitch != stitch.HalfDouble {
		t.Errorf("First().Stitch = %v, want Half-Double", first.Stitch)
	}
	if last.Stitch != stitch.Slip {
		t.Errorf("Last().Stitch = %v, want Slip", last.Stitch)
	}
}

func TestRowEqual(t *testing.T) {
	a := NewRow(false).Append(stitch.Single, 2).Append(stitch.Single, 1)
	b := NewRow(false).Append(stitch.Single, 3)
	if !a.Equal(b) {
		t.Error("rows with same segments not Equal")
	}
	if a.Equal(b.WithTurned(true)) {
		t.Error("rows with different direction Equal")
	}
}
