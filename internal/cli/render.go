package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deiva0304/BUDS-Crochet/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	src     source
	output  string // output file (one format) or base path (several)
	formats string // comma-separated formats; empty uses render.formats
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [script]",
		Short: "Draw a pattern as a stitch chart",
		Long: `Run a pattern script and draw it as a stitch chart.

Formats are png, svg, and json (the chart layout). Several formats can be
given comma-separated; each is written next to the base output path.`,
		Example: `  crochet render dishcloth.txt
  crochet render dishcloth.txt -f svg,png -o out/dishcloth
  crochet render --session dishcloth -f json -o -`,
		Args: sourceArgs(&opts.src),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.src.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, svg, json (comma-separated)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	formats := cfg.Render.ParsedFormats()
	if opts.formats != "" {
		if formats, err = render.ParseFormats(opts.formats); err != nil {
			return err
		}
	}
	if opts.output == "-" && len(formats) > 1 {
		return fmt.Errorf("stdout output takes exactly one format")
	}

	p := c.newPattern(cfg, nil)
	if err := opts.src.load(ctx, p); err != nil {
		return err
	}
	c.Logger.Infof("Loaded %s: %d rows, %d stitches", opts.src.name(), p.RowCount(), p.StitchCount())

	prog := newProgress(c.Logger)
	l := render.Compute(p.Rows(), p.Current())
	c.Logger.Debugf("Layout computed: %d blocks", len(l.Blocks))

	spin := newSpinnerWithContext(ctx, "Rendering "+opts.src.name())
	spin.Start()
	defer spin.Stop()

	base := basePath(opts.output, opts.src.name())
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, err := render.Render(ctx, l, f)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		c.Logger.Debugf("Generated %s: %d bytes", f, len(data))
		if opts.output == "-" {
			spin.Stop()
			_, err = os.Stdout.Write(data)
			return err
		}

		path := base + "." + string(f)
		if len(formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	spin.Stop()
	prog.done("Rendered " + opts.src.name())
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .png, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormats(strings.TrimPrefix(ext, ".")); err == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
