package store

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if v, err := s.Get("last_section"); err != nil || v != "" {
		t.Fatalf("missing key: got %q, %v", v, err)
	}

	if err := s.Set("last_section", "2"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("last_section"); v != "2" {
		t.Fatalf("expected 2, got %q", v)
	}

	// Upsert overwrites
	if err := s.Set("last_section", "3"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("last_section"); v != "3" {
		t.Fatalf("expected 3, got %q", v)
	}

	if err := s.Delete("last_section"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("last_section"); v != "" {
		t.Fatalf("expected empty after delete, got %q", v)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if s.Token() != "" {
		t.Fatal("fresh store must have no token")
	}

	if err := s.SetToken("abc"); err != nil {
		t.Fatal(err)
	}
	if s.Token() != "abc" {
		t.Fatalf("expected abc, got %q", s.Token())
	}

	if err := s.ClearToken(); err != nil {
		t.Fatal(err)
	}
	if s.Token() != "" {
		t.Fatal("token must be gone after clear")
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestHasValidToken(t *testing.T) {
	s := newTestStore(t)

	if s.HasValidToken() {
		t.Fatal("no token must not count as valid")
	}

	// Opaque tokens are trusted; the server decides
	if err := s.SetToken("opaque-session-id"); err != nil {
		t.Fatal(err)
	}
	if !s.HasValidToken() {
		t.Fatal("opaque token must count as valid")
	}

	if err := s.SetToken(signedToken(t, time.Now().Add(time.Hour))); err != nil {
		t.Fatal(err)
	}
	if !s.HasValidToken() {
		t.Fatal("unexpired JWT must count as valid")
	}

	if err := s.SetToken(signedToken(t, time.Now().Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}
	if s.HasValidToken() {
		t.Fatal("expired JWT must not count as valid")
	}
}
