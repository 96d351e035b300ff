package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/deiva0304/BUDS-Crochet/pkg/cache"
	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"svg", []Format{FormatSVG}, false},
		{"svg, PNG", []Format{FormatSVG, FormatPNG}, false},
		{"json,json", []Format{FormatJSON}, false},
		{"", nil, true},
		{"pdf", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("ParseFormats(%q) error code = %v, want INVALID_FORMAT", tt.in, errors.GetCode(err))
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseFormats(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChartRebuildCaches(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	chart := NewChart(Options{Formats: []Format{FormatJSON}, Cache: c})

	rows, current := sampleRows()
	got, err := chart.Rebuild(ctx, rows, current)
	if err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}
	p, ok := got.(*Preview)
	if !ok {
		t.Fatalf("Rebuild() returned %T, want *Preview", got)
	}
	if len(p.Key) != 64 {
		t.Errorf("Key = %q, want a sha256 hex digest", p.Key)
	}

	key := cache.ArtifactKey(p.Key, cache.ArtifactKeyOpts{Format: string(FormatJSON)})
	cached, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("cache Get() = ok %v, err %v; want cached artifact", ok, err)
	}

	again, err := chart.Rebuild(ctx, rows, current)
	if err != nil {
		t.Fatalf("second Rebuild() error: %v", err)
	}
	if again.(*Preview).Key != p.Key {
		t.Error("same pattern state produced a different preview key")
	}

	art, err := chart.Artifact(ctx, p, FormatJSON)
	if err != nil {
		t.Fatalf("Artifact() error: %v", err)
	}
	if !bytes.Equal(art, cached) {
		t.Error("Artifact() did not return the cached bytes")
	}
}

func TestChartArtifactWithoutCache(t *testing.T) {
	chart := NewChart(Options{Formats: []Format{FormatJSON}})
	rows, current := sampleRows()
	got, err := chart.Rebuild(context.Background(), rows, current)
	if err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	art, err := chart.Artifact(context.Background(), got.(*Preview), FormatJSON)
	if err != nil {
		t.Fatalf("Artifact() error: %v", err)
	}
	if !strings.Contains(string(art), `"blocks"`) {
		t.Errorf("Artifact(json) = %s", art)
	}

	if _, err := chart.Artifact(context.Background(), nil, FormatJSON); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Artifact(nil) error = %v, want NOT_FOUND", err)
	}
}

func TestChartDrivesPattern(t *testing.T) {
	ctx := context.Background()
	chart := NewChart(Options{Formats: []Format{FormatJSON}})
	p := pattern.New(pattern.WithRenderer(chart))

	p.AppendStitches(ctx, stitch.Chain, 5)
	first, err := p.Preview()
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	p.CommitRow(ctx)
	p.AppendStitches(ctx, stitch.Single, 5)
	p.Undo(ctx)
	p.Undo(ctx)

	back, _ := p.Preview()
	if back.(*Preview).Key != first.(*Preview).Key {
		t.Error("undo back to an earlier state should reproduce its preview key")
	}
}

func TestRenderSVG(t *testing.T) {
	rows, current := sampleRows()
	svg, err := Render(context.Background(), Compute(rows, current), FormatSVG)
	if err != nil {
		t.Fatalf("Render(svg) error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "4 dc") {
		t.Errorf("Render(svg) output does not look like the chart:\n%s", svg)
	}
}

func TestFormatContentType(t *testing.T) {
	tests := map[Format]string{
		FormatSVG:  "image/svg+xml",
		FormatPNG:  "image/png",
		FormatJSON: "application/json",
	}
	for f, want := range tests {
		if got := f.ContentType(); got != want {
			t.Errorf("%s.ContentType() = %q, want %q", f, got, want)
		}
	}
}
