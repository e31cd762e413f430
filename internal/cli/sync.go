package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bsobat/inventra/internal/cloudsync"
)

func parseResolution(raw string) (cloudsync.ConflictResolution, error) {
	switch raw {
	case "newest":
		return cloudsync.NewestWins, nil
	case "local":
		return cloudsync.LocalWins, nil
	case "remote":
		return cloudsync.RemoteWins, nil
	case "ask":
		return cloudsync.AskUser, nil
	}
	return 0, fmt.Errorf("invalid resolution %q: must be newest, local, remote or ask", raw)
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var resolution string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the store with the remote backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResolution(resolution)
			if err != nil {
				return err
			}
			cfg, err := rootOpts.Load()
			if err != nil {
				return err
			}
			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Orchestrator.Sync(cmd.Context(), res)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch result.Action {
			case cloudsync.ActionConflict:
				fmt.Fprintf(out, "conflict: local %s vs remote %s, re-run with --resolution local or remote\n",
					result.LocalTimestamp, result.RemoteTimestamp)
			case cloudsync.ActionNone:
				fmt.Fprintln(out, "already in sync")
			default:
				fmt.Fprintf(out, "%s completed, backup timestamp %s\n", result.Action, result.RemoteTimestamp)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "newest",
		"conflict resolution (newest|local|remote|ask)")
	return cmd
}
