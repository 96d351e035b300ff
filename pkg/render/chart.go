package render

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deiva0304/BUDS-Crochet/pkg/cache"
	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/observability"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
)

// Format is an output format of the preview renderer.
type Format string

const (
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatSVG, FormatPNG}

// ParseFormats parses a comma-separated format list such as "svg,png".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/json"
	}
}

// Render draws l in the given format.
func Render(ctx context.Context, l Layout, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return MarshalLayout(l)
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(l))
	case FormatPNG:
		return RenderPNG(ctx, ToDOT(l))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
}

// Options configures a [Chart].
type Options struct {
	// Formats rendered eagerly on every rebuild. Defaults to PNG.
	Formats []Format
	// Cache holds rendered artifacts. Defaults to a [cache.NullCache].
	Cache cache.Cache
	// TTL of cached artifacts. Defaults to [cache.DefaultTTL].
	TTL    time.Duration
	Logger *log.Logger
}

// Preview is the handle a [Chart] hands back to the pattern after a rebuild.
type Preview struct {
	// Key is the content hash of Layout.
	Key     string   `json:"key"`
	Formats []Format `json:"formats"`
	Layout  Layout   `json:"layout"`
}

// Chart renders stitch-chart previews and implements pattern.Renderer.
type Chart struct {
	formats []Format
	cache   cache.Cache
	ttl     time.Duration
	logger  *log.Logger
}

// NewChart creates a chart renderer.
func NewChart(opts Options) *Chart {
	c := &Chart{
		formats: opts.Formats,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		logger:  opts.Logger,
	}
	if len(c.formats) == 0 {
		c.formats = []Format{FormatPNG}
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.ttl <= 0 {
		c.ttl = cache.DefaultTTL
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

var _ pattern.Renderer = (*Chart)(nil)

// Rebuild lays out the pattern and renders every configured format that is
// not already cached. The returned preview is a *Preview.
func (c *Chart) Rebuild(ctx context.Context, rows []pattern.Row, current pattern.Row) (pattern.Preview, error) {
	l := Compute(rows, current)
	data, err := MarshalLayout(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	p := &Preview{Key: cache.Hash(data), Formats: c.formats, Layout: l}

	names := make([]string, len(c.formats))
	for i, f := range c.formats {
		names[i] = string(f)
	}
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, names)
	start := time.Now()

	for _, f := range c.formats {
		if _, err := c.artifact(ctx, p, f); err != nil {
			hooks.OnRenderComplete(ctx, names, time.Since(start), err)
			return p, err
		}
	}
	hooks.OnRenderComplete(ctx, names, time.Since(start), nil)
	c.logger.Debug("preview rebuilt", "key", p.Key[:12], "rows", l.Rows, "blocks", len(l.Blocks))
	return p, nil
}

// Artifact returns the preview rendered in format f, from the cache when
// possible.
func (c *Chart) Artifact(ctx context.Context, p *Preview, f Format) ([]byte, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no preview has been rendered")
	}
	return c.artifact(ctx, p, f)
}

func (c *Chart) artifact(ctx context.Context, p *Preview, f Format) ([]byte, error) {
	key := cache.ArtifactKey(p.Key, cache.ArtifactKeyOpts{Format: string(f)})
	hooks := observability.Cache()

	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("preview cache read failed", "format", f, "err", err)
	}
	if ok {
		hooks.OnCacheHit(ctx, string(f))
		return data, nil
	}
	hooks.OnCacheMiss(ctx, string(f))

	data, err = Render(ctx, p.Layout, f)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("preview cache write failed", "format", f, "err", err)
	} else {
		hooks.OnCacheSet(ctx, string(f), len(data))
	}
	return data, nil
}
