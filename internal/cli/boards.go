package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardexport/pkg/board"
)

// boardsCommand creates the boards command, which lists a collection.
func (c *CLI) boardsCommand() *cobra.Command {
	var (
		mongo    bool
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "boards [snapshot.json]",
		Short: "List the boards of a snapshot or MongoDB collection",
		Long: `List the boards of a snapshot file or the configured MongoDB collection.

The Exports column counts the boards an obz, cboard, or pdf export rooted at
that board would contain. Use --validate to check every board before export.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			boards, err := loadBoards(cmd.Context(), cfg, input, mongo)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), boardTable(summarize(boards), -1, nil).Render())

			if validate {
				if err := board.ValidateAll(boards); err != nil {
					printError("%v", err)
					return err
				}
				printSuccess("%d boards valid", len(boards))
			}
			if len(boards) > 0 && input != "" {
				printNextStep("Export", fmt.Sprintf("%s export %s --root %s", appName, input, boards[0].ID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&mongo, "mongo", false, "read boards from the configured MongoDB collection")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate every board")

	return cmd
}
