package cmd

import (
	"database/sql"
	"fmt"

	"github.com/lexdesk/lexdesk/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(db.RunMigrations)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(db.MigrateDown)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(nil)
		},
	})

	return cmd
}

func migrate(step func(*sql.DB, string) error) error {
	cfg := loadConfig()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	if step != nil {
		err = step(database.DB, cfg.DBDriver)
		if err != nil {
			return err
		}
	}

	version, err := db.Version(database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}
	fmt.Println("schema version:", version)
	return nil
}
