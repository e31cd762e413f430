package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local sync state and whether a remote backup exists",
		Args:  cobra.NoArgs,
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

			info, err := app.Orchestrator.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "device:        %s\n", info.Local.DeviceID)
			fmt.Fprintf(out, "last sync:     %s\n", info.Local.LastSyncTimestamp)
			fmt.Fprintf(out, "last export:   %s\n", info.Local.ExportTimestamp)
			fmt.Fprintf(out, "remote backup: %v\n", info.RemoteExists)
			return nil
		},
	}
}
