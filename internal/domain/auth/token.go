// Package auth issues and verifies bearer credentials and password hashes.
package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Role distinguishes the two identity kinds carried in a token.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

var (
	// ErrMissingToken is returned when no credential is presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken is returned for malformed, mis-signed, or expired
	// tokens. The cause is not detailed to the caller.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the resolved subject of a verified token.
type Identity struct {
	ID   string
	Role Role
}

// Claims is the JWT claim set used for all tokens.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token authority with the given signing secret and
// token lifetime.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

// Issue signs a token for the identity.
func (t *Tokens) Issue(id Identity, now time.Time) (string, error) {
	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its identity.
func (t *Tokens) Verify(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role := claims.Role
	if role != RoleUser && role != RoleSeller {
		return nil, ErrInvalidToken
	}

	return &Identity{ID: claims.Subject, Role: role}, nil
}
