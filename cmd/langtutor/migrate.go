package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langtutor/internal/database"
	"github.com/at-ishikawa/langtutor/internal/datasync"
	"github.com/at-ishikawa/langtutor/internal/store"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	migrateCmd.AddCommand(newMigrateImportDBCommand())

	return migrateCmd
}

func newMigrateImportDBCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import-db",
		Short: "Import the JSON data directory into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			source, err := store.NewFileBackend(cfg.Storage.DataDirectory)
			if err != nil {
				return fmt.Errorf("store.NewFileBackend() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()
			destination := store.NewDBBackend(db)
			if !dryRun {
				if err := destination.Migrate(ctx); err != nil {
					return fmt.Errorf("destination.Migrate() > %w", err)
				}
			}

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(source, destination, out)
			result, err := importer.Import(ctx, store.Names, datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			prefix := ""
			if dryRun {
				prefix = "[dry run] "
			}
			_, err = fmt.Fprintf(out, "%sCollections: %d new, %d updated, %d skipped, %d empty. Records: %d\n",
				prefix, result.New, result.Updated, result.Skipped, result.Empty, result.Records)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without writing")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Overwrite collections that already exist in the database")

	return cmd
}
