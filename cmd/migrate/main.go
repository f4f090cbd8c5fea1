package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/devconnect-api/internal/database"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the devconnect database schema",
		Long:         "Apply, roll back and inspect the embedded SQL migrations against the database configured by DB_* variables.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  runUp,
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE:  runDown,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the state of every migration",
			RunE:  runStatus,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE:  runVersion,
		},
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runUp(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db.DB, database.DialectPostgres); err != nil {
		return err
	}
	return printVersion(cmd, db.DB)
}

func runDown(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Rollback(cmd.Context(), db.DB, database.DialectPostgres); err != nil {
		return err
	}
	return printVersion(cmd, db.DB)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Status(cmd.Context(), db.DB, database.DialectPostgres)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return printVersion(cmd, db.DB)
}
