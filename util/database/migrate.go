package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration in file-name order. The scripts
// are idempotent (IF NOT EXISTS), so running it twice is harmless.
func Migrate(ctx context.Context, q Querier, log *slog.Logger) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if log != nil {
			log.Info("migration applied", "file", name)
		}
	}
	return nil
}
