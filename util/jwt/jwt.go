package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	UserID int64     `json:"uid"`
	Email  string    `json:"email"`
	Type   TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 access and refresh tokens.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *Manager {
	if issuer == "" {
		issuer = "bookrent"
	}
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) IssueAccess(userID int64, email string) (string, error) {
	return m.issue(userID, email, Access, m.accessTTL)
}

func (m *Manager) IssueRefresh(userID int64, email string) (string, error) {
	return m.issue(userID, email, Refresh, m.refreshTTL)
}

func (m *Manager) issue(userID int64, email string, typ TokenType, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", errors.New("user id required")
	}
	now := m.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks signature, issuer and token type. Expiry is skipped when
// allowExpired is set; the signature never is.
func (m *Manager) Verify(tokenStr string, allowExpired, isRefresh bool) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	} else {
		opts = append(opts, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	if allowExpired && claims.Issuer != m.issuer {
		return nil, fmt.Errorf("%w: bad issuer", ErrInvalidToken)
	}

	want := Access
	if isRefresh {
		want = Refresh
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, want)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}
	return claims, nil
}
