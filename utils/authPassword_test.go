package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("Str0ng!pass")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hashed == "Str0ng!pass" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPassword(hashed, "Str0ng!pass") {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(hashed, "wrong-password") {
		t.Error("expected wrong password to fail verification")
	}
}
