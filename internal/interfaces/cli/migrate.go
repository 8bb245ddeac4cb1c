package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/postgres"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
)

func newMigrateCmd() *cobra.Command {
	var (
		configPath string
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Connect to the configured PostgreSQL instance and apply any pending\nschema migrations from the migrations directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			log, err := logging.NewLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			conn, err := postgres.NewConnection(&cfg.Database, log)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.RunMigrations(dir); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path (default: environment only)")
	cmd.Flags().StringVar(&dir, "dir", "migrations", "migrations directory")

	return cmd
}

// loadConfig reads configuration from the given file, or from SPRK_*
// environment variables when no file is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
