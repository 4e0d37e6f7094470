package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCredentialExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"role": "customer",
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString([]byte("not-our-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	got, ok := CredentialExpiry(signed)
	if !ok {
		t.Fatalf("expected expiry to be read")
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}
}

func TestCredentialExpiry_Opaque(t *testing.T) {
	for _, tok := range []string{"", "abc", "not.a.jwt"} {
		if _, ok := CredentialExpiry(tok); ok {
			t.Fatalf("expected no expiry for %q", tok)
		}
	}
}

func TestCredentialExpiry_NoExpClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, ok := CredentialExpiry(signed); ok {
		t.Fatalf("expected no expiry without exp claim")
	}
}
