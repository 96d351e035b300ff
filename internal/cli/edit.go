package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/script"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "edit [name]",
		Short: "Edit a pattern interactively",
		Long: `Open the terminal pattern editor.

With a name, the editor resumes the saved session of that name (or starts
it) and saves on 's' and on quit. Without one, edits are discarded unless
--export writes them out as a script.`,
		Example: `  crochet edit dishcloth
  crochet edit --export scarf.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
				if err := errors.ValidateSessionID(name); err != nil {
					return err
				}
			}
			return c.runEdit(cmd.Context(), name, export)
		},
	}

	cmd.Flags().StringVarP(&export, "export", "e", "", "write the pattern as a script to this file on quit")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, name, export string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	p := c.newPattern(cfg, nil)

	var save saveFunc
	if name != "" {
		fs, err := openSessions()
		if err != nil {
			return err
		}
		switch saved, err := fs.Load(ctx, name, p); {
		case errors.Is(err, errors.ErrCodeSessionNotFound):
			c.Logger.Debug("starting new session", "name", name)
		case err != nil:
			return err
		default:
			c.Logger.Debug("resumed session", "name", name, "edits", len(saved.Actions))
		}
		save = func(ctx context.Context, p *pattern.Pattern) error {
			return fs.Save(ctx, name, p)
		}
	}

	final, err := tea.NewProgram(NewEditorModel(ctx, p, name, save), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if m, ok := final.(EditorModel); ok && m.Dirty && save != nil {
		if err := save(ctx, p); err != nil {
			return err
		}
		printSuccess("Saved session %s", name)
	}

	if export != "" {
		if err := exportScript(export, p); err != nil {
			return err
		}
		printSuccess("Exported %d edits", len(p.History()))
		printFile(export)
	}
	if name != "" {
		printNextStep("Render it with", "crochet render --session "+name)
	}
	return nil
}

// exportScript writes the pattern's undoable history as a script.
func exportScript(path string, p *pattern.Pattern) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := script.Write(f, p.History()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
