package utils

import (
	"testing"

	"github.com/mittwerk/assetgo/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("geheim123")
	if err != nil {
		t.Fatalf("Failed to hash: %v", err)
	}
	if hash == "geheim123" {
		t.Fatal("Hash equals plaintext")
	}

	if !CheckPasswordHash("geheim123", hash) {
		t.Error("Correct password rejected")
	}
	if CheckPasswordHash("falsch", hash) {
		t.Error("Wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	user := &models.UserAuth{
		ID:    "00000000-0000-0000-0000-000000000001",
		Email: "it@example.de",
		Role:  models.RoleAdmin,
	}

	access, refresh, err := GenerateTokens(user, secret)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("Empty tokens")
	}

	claims, err := ValidateToken(access, secret)
	if err != nil {
		t.Fatalf("Failed to validate: %v", err)
	}
	if claims["role"] != models.RoleAdmin {
		t.Errorf("Role claim = %v, want admin", claims["role"])
	}
	if claims["id"] != user.ID {
		t.Errorf("ID claim = %v, want %s", claims["id"], user.ID)
	}

	if _, err := ValidateToken(access, "other-secret"); err == nil {
		t.Error("Token validated with wrong secret")
	}
}
