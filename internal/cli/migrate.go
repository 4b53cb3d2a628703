package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
)

const migrateTimeout = 2 * time.Minute

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the database and exit",
		Long:  "Create MongoDB indexes or apply PostgreSQL migrations, depending on DB_TYPE.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	}
}

func runMigrate(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, migrateTimeout)
	defer cancel()

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn("Failed to close database: %v", err)
		}
	}()

	if err := st.migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", cfg.Database.Type, err)
	}
	log.Info("%s database is up to date", cfg.Database.Type)
	return nil
}
