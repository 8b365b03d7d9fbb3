package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tradestate/internal/paths"
	"github.com/mesh-intelligence/tradestate/pkg/pagecache"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Create the configuration directory with a default config.yaml, record the data\ndirectory in it, create the data directory, and initialize the configured\nstorage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return sysError("resolve config dir: %w", err)
			}
			cfg, err := a.resolveConfig()
			if err != nil {
				return sysError("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return userError("backend %q: %w", cfg.Backend, err)
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return sysError("create data directory: %w", err)
			}
			if err := recordDataDir(configDir, cfg.DataDir); err != nil {
				return sysError("write config: %w", err)
			}

			engine, err := pagecache.Open(cfg, pagecache.WithLogger(a.logger))
			if err != nil {
				return sysError("initialize storage: %w", err)
			}
			if err := engine.Close(); err != nil {
				return sysError("finalize storage: %w", err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"config_dir": configDir,
					"data_dir":   cfg.DataDir,
					"backend":    cfg.Backend,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "tradestate initialized")
			fmt.Fprintf(out, "  config:  %s\n", configDir)
			fmt.Fprintf(out, "  data:    %s\n", cfg.DataDir)
			fmt.Fprintf(out, "  backend: %s\n", cfg.Backend)
			return nil
		},
	}
}
