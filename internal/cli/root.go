package cli

import (
	"github.com/spf13/cobra"

	"github.com/bsobat/inventra/internal/config"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigFile string
	DataDir    string
	DBPath     string
	Provider   string
	DirRoot    string

	cfg *config.Config
}

// Load layers defaults, the JSON config file and the global flags into a
// finalized Config.
func (o *RootOptions) Load() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.LoadConfig(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Provider != "" {
		cfg.Provider = o.Provider
	}
	if o.DirRoot != "" {
		cfg.DirRoot = o.DirRoot
	}
	cfg.Finalize()
	o.cfg = cfg
	return cfg, nil
}

// NewRootCommand creates the root command of the inventra CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "inventra",
		Short:         "Inventra point-of-sale data tool",
		Long:          "Export, import and sync the Inventra store, and inspect backup state.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to JSON config file")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory (db, images, sync state)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the sqlite database")
	cmd.PersistentFlags().StringVar(&opts.Provider, "provider", "", "backup backend (dir|s3)")
	cmd.PersistentFlags().StringVar(&opts.DirRoot, "dir-root", "", "target directory for the dir backend")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}
