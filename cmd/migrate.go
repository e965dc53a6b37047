package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bookrent/util/database"
)

var migrateDB string

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the embedded SQL schema. Statements are idempotent, so running
migrate against an up to date database is a no-op.

Examples:
  bookrent migrate                         # uses DATABASE_URL
  bookrent migrate --db postgres://...     # explicit connection`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDB, "db", "", "database URL (defaults to DATABASE_URL)")
}

func runMigrate(ctx context.Context) error {
	log := newLogger(os.Getenv("LOG_LEVEL"))

	dsn := migrateDB
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return errors.New("missing database url: set DATABASE_URL or --db")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	db, err := database.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(ctx, db.Pool, log)
}
