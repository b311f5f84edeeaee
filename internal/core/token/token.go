// Package token issues and verifies the signed bearer tokens that carry a
// caller's identity and role. The signing secret and lifetime are injected
// at construction so tests can run with distinct secrets.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/courseverse/course-marketplace/internal/core/domain"
)

const defaultTTL = 9000 * time.Hour // 375 days, matching the issued-token contract

// Claims is the verified identity extracted from a bearer token.
type Claims struct {
	Username string
	Role     string
}

// Service signs and verifies HS256 JWTs.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService returns a token Service using the given secret. A non-positive
// ttl falls back to the 375-day default.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue produces a signed token embedding username, role, issuance and
// expiry times.
func (s *Service) Issue(username, role string) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token string. It returns ErrTokenExpired for
// a structurally valid but expired token and ErrTokenInvalid for anything
// else that fails validation.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" || role == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &Claims{Username: username, Role: role}, nil
}
