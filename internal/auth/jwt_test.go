package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("test-secret", "test-issuer", 10*time.Minute, Claims{
		ActorID: "admin-1",
		Email:   "a@x.com",
		Name:    "A",
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.ActorID != "admin-1" || claims.Email != "a@x.com" || claims.Name != "A" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "admin-1" {
		t.Fatalf("expected subject to match actor id, got %s", claims.Subject)
	}
	if claims.Issuer != "test-issuer" {
		t.Fatalf("expected issuer test-issuer, got %s", claims.Issuer)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("expected a future expiry")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := NewAccessToken("test-secret", "test-issuer", 10*time.Minute, Claims{ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatalf("expected signature verification to fail")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := NewAccessToken("test-secret", "test-issuer", -time.Minute, Claims{ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("test-secret", "garbage"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
	if _, err := ParseToken("test-secret", ""); err == nil {
		t.Fatalf("expected empty token to be rejected")
	}
}

func TestTokensDifferAcrossIssuance(t *testing.T) {
	claims := Claims{ActorID: "admin-1", Email: "a@x.com", Name: "A"}
	first, err := NewAccessToken("test-secret", "test-issuer", 10*time.Minute, claims)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	second, err := NewAccessToken("test-secret", "test-issuer", 10*time.Minute, claims)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if first == second {
		t.Fatalf("expected tokens issued at different instants to differ")
	}
	if _, err := ParseToken("test-secret", first); err != nil {
		t.Fatalf("first token should still verify: %v", err)
	}
	if _, err := ParseToken("test-secret", second); err != nil {
		t.Fatalf("second token should verify: %v", err)
	}
}
