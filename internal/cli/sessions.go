package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/session"
)

// sessionsCommand creates the sessions command with subcommands.
func (c *CLI) sessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved editor sessions",
		Long: `List, inspect and delete the sessions saved by 'crochet edit'.

Sessions are stored in ~/.config/crochet/sessions/ as the list of edits
that rebuild each pattern.`,
	}

	cmd.AddCommand(c.sessionsListCommand())
	cmd.AddCommand(c.sessionsShowCommand())
	cmd.AddCommand(c.sessionsDeleteCommand())

	return cmd
}

func (c *CLI) sessionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := openSessions()
			if err != nil {
				return err
			}
			names, err := fs.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No saved sessions")
				printDetail("Directory: %s", fs.Path())
				printNextStep("Start one with", "crochet edit <name>")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *CLI) sessionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p := c.newPattern(cfg, nil)
			saved, err := loadSession(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}

			printKeyValue("Session", saved.Name)
			printKeyValue("Saved", saved.SavedAt.Local().Format(time.DateTime))
			printKeyValue("Edits", fmt.Sprint(len(saved.Actions)))
			printKeyValue("Rows", fmt.Sprint(p.RowCount()))
			printKeyValue("Stitches", fmt.Sprint(p.StitchCount()))
			if written := p.Written(); written != "" {
				fmt.Println()
				fmt.Println(styleWritten(written))
			}
			return nil
		},
	}
}

func (c *CLI) sessionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := openSessions()
			if err != nil {
				return err
			}
			if err := fs.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Deleted session %s", args[0])
			return nil
		},
	}
}

// openSessions opens the saved-session directory.
func openSessions() (*session.FileStore, error) {
	dir, err := sessionsDir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(dir)
}

// loadSession replays the saved session name into p.
func loadSession(ctx context.Context, name string, p *pattern.Pattern) (*session.Saved, error) {
	fs, err := openSessions()
	if err != nil {
		return nil, err
	}
	return fs.Load(ctx, name, p)
}
