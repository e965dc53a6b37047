package authsvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"bookrent/model"
	authsvc "bookrent/service/auth"
	"bookrent/util/errcode"
	"bookrent/util/hash"
	jwtutil "bookrent/util/jwt"
)

type usersMock struct {
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
	byIDFn    func(ctx context.Context, id int64) (*model.User, error)
}

func (m *usersMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.byEmailFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.byEmailFn(ctx, email)
}

func (m *usersMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.byIDFn(ctx, id)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func newTokens() *jwtutil.Manager {
	return jwtutil.NewManager("test-secret", "bookrent", 15*time.Minute, time.Hour)
}

func TestLogin_Success(t *testing.T) {
	ann := &model.User{ID: 7, Name: "Ann", Email: "ann@example.com", IsActive: true, PasswordHash: mustHash(t, "pw1234")}
	users := &usersMock{
		byEmailFn: func(_ context.Context, email string) (*model.User, error) {
			require.Equal(t, "ann@example.com", email)
			return ann, nil
		},
	}
	tm := newTokens()
	s := authsvc.New(users, tm)

	res, err := s.Login(context.Background(), model.LoginReq{Email: "Ann@Example.com", Password: "pw1234"})
	require.NoError(t, err)
	require.Equal(t, "bearer", res.TokenType)
	require.Equal(t, authsvc.Profile{ID: 7, Name: "Ann", Email: "ann@example.com", IsActive: true}, res.User)

	access, err := tm.Verify(res.AccessToken, false, false)
	require.NoError(t, err)
	require.EqualValues(t, 7, access.UserID)

	refresh, err := tm.Verify(res.RefreshToken, false, true)
	require.NoError(t, err)
	require.EqualValues(t, 7, refresh.UserID)

	_, err = tm.Verify(res.RefreshToken, false, false)
	require.ErrorIs(t, err, jwtutil.ErrInvalidToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hashed := mustHash(t, "pw1234")
	cases := []struct {
		name string
		user *model.User
		pw   string
	}{
		{name: "unknown email", pw: "pw1234"},
		{name: "wrong password", user: &model.User{ID: 1, IsActive: true, PasswordHash: hashed}, pw: "nope"},
		{name: "inactive user", user: &model.User{ID: 1, IsActive: false, PasswordHash: hashed}, pw: "pw1234"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &usersMock{}
			if tc.user != nil {
				users.byEmailFn = func(context.Context, string) (*model.User, error) { return tc.user, nil }
			}
			_, err := authsvc.New(users, newTokens()).Login(context.Background(), model.LoginReq{Email: "a@example.com", Password: tc.pw})
			require.Equal(t, authsvc.ErrInvalidCreds, errcode.Of(err))
		})
	}
}

func TestLogin_StoreError(t *testing.T) {
	boom := errors.New("db down")
	users := &usersMock{byEmailFn: func(context.Context, string) (*model.User, error) { return nil, boom }}
	_, err := authsvc.New(users, newTokens()).Login(context.Background(), model.LoginReq{Email: "a@example.com", Password: "x"})
	require.ErrorIs(t, err, boom)
	require.Empty(t, errcode.Of(err))
}

func TestRefresh(t *testing.T) {
	tm := newTokens()
	refresh, err := tm.IssueRefresh(7, "ann@example.com")
	require.NoError(t, err)
	access, err := tm.IssueAccess(7, "ann@example.com")
	require.NoError(t, err)

	known := &usersMock{
		byIDFn: func(_ context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Email: "ann@example.com", IsActive: true}, nil
		},
	}

	t.Run("missing token", func(t *testing.T) {
		_, err := authsvc.New(known, tm).Refresh(context.Background(), "  ")
		require.Equal(t, authsvc.ErrMissingField, errcode.Of(err))
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, err := authsvc.New(known, tm).Refresh(context.Background(), access)
		require.Equal(t, authsvc.ErrInvalidToken, errcode.Of(err))
	})

	t.Run("user gone", func(t *testing.T) {
		_, err := authsvc.New(&usersMock{}, tm).Refresh(context.Background(), refresh)
		require.Equal(t, authsvc.ErrInvalidToken, errcode.Of(err))
	})

	t.Run("deactivated user", func(t *testing.T) {
		inactive := &usersMock{
			byIDFn: func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, Email: "ann@example.com", IsActive: false}, nil
			},
		}
		_, err := authsvc.New(inactive, tm).Refresh(context.Background(), refresh)
		require.Equal(t, authsvc.ErrInvalidToken, errcode.Of(err))
	})

	t.Run("issues a new access token", func(t *testing.T) {
		res, err := authsvc.New(known, tm).Refresh(context.Background(), refresh)
		require.NoError(t, err)
		require.Equal(t, "bearer", res.TokenType)
		claims, err := tm.Verify(res.AccessToken, false, false)
		require.NoError(t, err)
		require.EqualValues(t, 7, claims.UserID)
	})
}

func TestMe(t *testing.T) {
	_, err := authsvc.New(&usersMock{}, newTokens()).Me(context.Background(), 3)
	require.Equal(t, authsvc.ErrUserNotFound, errcode.Of(err))

	users := &usersMock{byIDFn: func(_ context.Context, id int64) (*model.User, error) { return &model.User{ID: id}, nil }}
	u, err := authsvc.New(users, newTokens()).Me(context.Background(), 3)
	require.NoError(t, err)
	require.EqualValues(t, 3, u.ID)
}
