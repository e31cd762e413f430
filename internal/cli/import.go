package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command. Import replaces the whole
// store with the archive's contents.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive-file>",
		Short: "Replace the store from a snapshot archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.Load()
			if err != nil {
				return err
			}
			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Serializer.ImportFromArchive(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported snapshot from %s\n", args[0])
			return nil
		},
	}
}
