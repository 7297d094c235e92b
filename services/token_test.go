package services

import (
	"os"
	"testing"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")
	utils.InitJWT()
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-123", model.RoleAdmin)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	userID, role, err := ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %q", userID)
	}
	if role != model.RoleAdmin {
		t.Errorf("expected admin role, got %q", role)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, _, err := ParseToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestParseTokenDefaultsToCustomerRole(t *testing.T) {
	token, err := GenerateToken("user-456", "")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, role, err := ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if role != model.RoleCustomer {
		t.Errorf("expected customer fallback, got %q", role)
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("Secur3!pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "Secur3!pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword(hash, "Secur3!pass") {
		t.Error("correct password should verify")
	}
	if VerifyPassword(hash, "wrong-password") {
		t.Error("wrong password should not verify")
	}
}
