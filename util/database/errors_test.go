package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "users_email_key",
	})

	cn, ok := UniqueViolation(err)
	require.True(t, ok)
	require.Equal(t, "users_email_key", cn)

	_, ok = ForeignKeyViolation(err)
	require.False(t, ok)
}

func TestForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "rentals_user_id_fkey"}

	cn, ok := ForeignKeyViolation(err)
	require.True(t, ok)
	require.Equal(t, "rentals_user_id_fkey", cn)
}

func TestPlainErrors(t *testing.T) {
	_, ok := UniqueViolation(errors.New("boom"))
	require.False(t, ok)
	require.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	require.False(t, IsNoRows(errors.New("x")))
}
