package store

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenKey = "auth_token"

// Token returns the stored access token, or "" when logged out.
func (s *Store) Token() string {
	value, err := s.Get(tokenKey)
	if err != nil {
		return ""
	}
	return value
}

// SetToken persists the access token
func (s *Store) SetToken(token string) error {
	return s.Set(tokenKey, token)
}

// ClearToken removes the stored access token
func (s *Store) ClearToken() error {
	return s.Delete(tokenKey)
}

// HasValidToken reports whether a token is stored and, when it parses as
// a JWT with an exp claim, not yet expired. The signature is not checked;
// the server remains the authority and will reject a bad token anyway.
func (s *Store) HasValidToken() bool {
	token := s.Token()
	if token == "" {
		return false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Opaque tokens are accepted as-is
		return true
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}
