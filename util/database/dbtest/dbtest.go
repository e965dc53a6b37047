//go:build integration

// Package dbtest starts a throwaway PostgreSQL for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"bookrent/util/database"
)

// Start runs postgres in a container, applies the schema and returns a
// connected DB. Everything is torn down with the test.
func Start(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bookrent"),
		postgres.WithUsername("bookrent"),
		postgres.WithPassword("bookrent"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	db, err := database.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	if err := database.Migrate(ctx, db.Pool, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// applying twice must be harmless
	if err := database.Migrate(ctx, db.Pool, nil); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	return db
}
