package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stitchesCommand creates the stitches command, which prints the catalog.
func (c *CLI) stitchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stitches",
		Short: "List the stitches a pattern can use",
		Long: `List the stitch catalog. Heights are in single-crochet units; the
turning column is how many chains start a row whose first stitch is that
stitch. A foundation row is chains only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), stitchTable())
			return nil
		},
	}
}
