//go:build integration

package userrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bookrent/model"
	bookrepo "bookrent/repository/book"
	rentalrepo "bookrent/repository/rental"
	userrepo "bookrent/repository/user"
	usersvc "bookrent/service/user"
	"bookrent/util/database"
	"bookrent/util/database/dbtest"
	"bookrent/util/errcode"
)

func TestUserDirectoryAgainstPostgres(t *testing.T) {
	db := dbtest.Start(t)
	ctx := context.Background()
	repo := userrepo.New(db)
	svc := usersvc.New(repo)

	ann, err := svc.Create(ctx, model.CreateUserReq{Name: "Ann", Email: "Ann@Example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", ann.Email)

	// the lower(email) index rejects a case variant written behind the service
	err = repo.Create(ctx, &model.User{Name: "x", Email: "ANN@example.com", PasswordHash: "x", IsActive: true})
	constraint, ok := database.UniqueViolation(err)
	require.True(t, ok, "%v", err)
	require.Equal(t, "users_email_key", constraint)

	got, err := svc.ByEmail(ctx, "ANN@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, ann.ID, got.ID)

	before := ann.UpdatedAt
	time.Sleep(10 * time.Millisecond)
	name := "Annie"
	upd, err := svc.Update(ctx, ann.ID, model.UserPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Annie", upd.Name)
	require.True(t, upd.UpdatedAt.After(before))

	other, err := svc.Create(ctx, model.CreateUserReq{Name: "Bo", Email: "bo@example.com", Password: "secret1"})
	require.NoError(t, err)

	list, err := svc.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, ann.ID, list[0].ID)

	// a user with rental history cannot be deleted
	books := bookrepo.New(db)
	b := &model.Book{Title: "t", Author: "a", ISBN: "1", TotalCopies: 1, AvailableCopies: 1, Price: decimal.NewFromInt(5), IsActive: true}
	require.NoError(t, books.Create(ctx, b))
	rentals := rentalrepo.New(db)
	require.NoError(t, db.WithTx(ctx, func(q database.Querier) error {
		return rentals.Insert(ctx, q, &model.Rental{UserID: ann.ID, BookID: b.ID, RentalDate: time.Now(),
			DueDate: time.Now().Add(time.Hour), DailyRate: decimal.NewFromInt(1), LateFee: decimal.Zero, Status: model.RentalActive})
	}))
	require.Equal(t, usersvc.ErrHasRentals, errcode.Of(svc.Delete(ctx, ann.ID)))

	require.NoError(t, svc.Delete(ctx, other.ID))
	require.Equal(t, usersvc.ErrNotFound, errcode.Of(svc.Delete(ctx, other.ID)))
}
