package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/script"
)

// source names where a command reads its pattern from: a script file ("-"
// for stdin) or a saved editor session.
type source struct {
	script  string
	session string
}

func (s *source) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.session, "session", "s", "", "read a saved editor session instead of a script")
}

// load fills p from the source.
func (s *source) load(ctx context.Context, p *pattern.Pattern) error {
	if s.session != "" {
		_, err := loadSession(ctx, s.session, p)
		return err
	}

	var r io.Reader = os.Stdin
	if s.script != "-" {
		f, err := os.Open(s.script)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return script.Run(ctx, p, r)
}

// name identifies the source in messages and derived file names.
func (s *source) name() string {
	if s.session != "" {
		return s.session
	}
	if s.script == "-" {
		return "pattern"
	}
	return s.script
}

// sourceArgs accepts one script argument, or none with --session.
func sourceArgs(src *source) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case src.session != "" && len(args) > 0:
			return fmt.Errorf("give either a script or --session, not both")
		case src.session == "" && len(args) != 1:
			return fmt.Errorf("requires a script file (or - for stdin)")
		}
		if len(args) == 1 {
			src.script = args[0]
		}
		return nil
	}
}

// writeCommand creates the write command.
func (c *CLI) writeCommand() *cobra.Command {
	var (
		src   source
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "write [script]",
		Short: "Print the written instructions of a pattern",
		Long: `Run a pattern script and print its row-by-row instructions.

A script has one command per line: a stitch and an amount ("chain 12",
"dc 3", "sl st 2"), or "row", "undo", "redo" or "clear".`,
		Example: `  crochet write dishcloth.txt
  printf 'ch 10\nrow\nsc 10\n' | crochet write -
  crochet write --session dishcloth`,
		Args: sourceArgs(&src),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p := c.newPattern(cfg, nil)
			if err := src.load(cmd.Context(), p); err != nil {
				return err
			}

			written := p.Written()
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), written)
				return nil
			}
			if written == "" {
				printWarning("Pattern %s is empty", src.name())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleWritten(written))
			printCounts(p.RowCount(), p.StitchCount())
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print unstyled text")

	return cmd
}
