package utils

import (
	"testing"
	"time"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("secret", "office@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseAdminToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "office@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
}

func TestAdminTokenWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("secret", "office@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseAdminToken("other", token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestAdminTokenExpired(t *testing.T) {
	token, err := GenerateAdminToken("secret", "office@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseAdminToken("secret", token); err == nil {
		t.Fatal("expected expiry failure")
	}
}

func TestParseAdminTokenGarbage(t *testing.T) {
	if _, err := ParseAdminToken("secret", "not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}
