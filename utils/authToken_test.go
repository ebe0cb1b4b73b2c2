package utils

import (
	"RadCase/models"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	accessToken, refreshToken, err := GenerateTokens("user-1", models.RoleTechnician)
	if err != nil {
		t.Fatalf("GenerateTokens() error: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("expected non-empty tokens")
	}

	claims, err := ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Role != models.RoleTechnician {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleTechnician)
	}
}

func TestValidateTokenRoles(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	token, err := GenerateAccessToken("doc-1", models.RoleDoctor)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}

	if _, err := ValidateToken(token, models.RoleDoctor); err != nil {
		t.Errorf("expected doctor token to satisfy doctor role, got %v", err)
	}
	if _, err := ValidateToken(token, models.RoleTechnician, models.RoleDoctor); err != nil {
		t.Errorf("expected doctor token to satisfy either role, got %v", err)
	}
	if _, err := ValidateToken(token, models.RoleTechnician); err == nil {
		t.Error("expected doctor token to fail the technician-only check")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	if _, err := ValidateToken("v2.local.not-a-real-token"); err == nil {
		t.Error("expected garbage token to be rejected")
	}
}
