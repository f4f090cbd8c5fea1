package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/devconnect-api/internal/config"
	"github.com/redmonkez12/devconnect-api/internal/database"
)

func openDB() (*bun.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return database.Open(cfg)
}

func printVersion(cmd *cobra.Command, db *sql.DB) error {
	v, err := database.Version(cmd.Context(), db, database.DialectPostgres)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	cmd.Printf("schema version %d\n", v)
	return nil
}
