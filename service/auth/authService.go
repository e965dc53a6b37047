package authsvc

import (
	"context"
	"fmt"
	"strings"

	"bookrent/model"
	"bookrent/util/database"
	"bookrent/util/errcode"
	"bookrent/util/hash"
	jwtutil "bookrent/util/jwt"
)

const (
	ErrInvalidCreds errcode.Code = "INVALID_CREDENTIALS"
	ErrInvalidToken errcode.Code = "INVALID_TOKEN"
	ErrMissingField errcode.Code = "MISSING_FIELD"
	ErrUserNotFound errcode.Code = "USER_NOT_FOUND"
)

const tokenTypeBearer = "bearer"

type Users interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Tokens interface {
	IssueAccess(userID int64, email string) (string, error)
	IssueRefresh(userID int64, email string) (string, error)
	Verify(token string, allowExpired, isRefresh bool) (*jwtutil.Claims, error)
}

// Profile is the user block returned with a login.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type LoginResult struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	User         Profile `json:"user"`
}

type RefreshResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service interface {
	Login(ctx context.Context, req model.LoginReq) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Me(ctx context.Context, userID int64) (*model.User, error)
}

type service struct {
	users  Users
	tokens Tokens
}

func New(users Users, tokens Tokens) Service { return &service{users: users, tokens: tokens} }

func (s *service) Login(ctx context.Context, req model.LoginReq) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errcode.New(ErrInvalidCreds)
	}
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, errcode.New(ErrInvalidCreds)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	// unknown email, wrong password and disabled account look the same
	if !hash.Check(u.PasswordHash, req.Password) || !u.IsActive {
		return nil, errcode.New(ErrInvalidCreds)
	}

	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		User:         Profile{ID: u.ID, Name: u.Name, Email: u.Email, IsActive: u.IsActive},
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, errcode.Newf(ErrMissingField, "refresh_token is required")
	}
	claims, err := s.tokens.Verify(refreshToken, false, true)
	if err != nil {
		return nil, errcode.New(ErrInvalidToken)
	}
	u, err := s.users.ByID(ctx, claims.UserID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, errcode.New(ErrInvalidToken)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	// deactivated after login: the refresh token dies with the account
	if !u.IsActive {
		return nil, errcode.New(ErrInvalidToken)
	}
	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{AccessToken: access, TokenType: tokenTypeBearer}, nil
}

func (s *service) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, errcode.New(ErrUserNotFound)
		}
		return nil, err
	}
	return u, nil
}
