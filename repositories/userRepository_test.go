package repositories

import (
	"RadCase/models"
	"encoding/json"
	"strings"
	"testing"
)

func TestUserCacheCodecKeepsPasswordHash(t *testing.T) {
	user := &models.User{
		ID:       "user-1",
		Email:    "tech@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		FullName: "Jane Doe",
		Role:     models.RoleTechnician,
	}

	data, err := encodeUser(user)
	if err != nil {
		t.Fatalf("encodeUser() error: %v", err)
	}

	got, err := decodeUser(string(data))
	if err != nil {
		t.Fatalf("decodeUser() error: %v", err)
	}

	if got.Password != user.Password {
		t.Errorf("cached password hash = %q, want %q", got.Password, user.Password)
	}
	if got.Email != user.Email || got.FullName != user.FullName || got.Role != user.Role {
		t.Errorf("decoded user = %+v, want %+v", got, user)
	}
}

func TestUserAPIJSONHidesPassword(t *testing.T) {
	user := models.User{ID: "user-1", Password: "$2a$10$secret"}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("API JSON leaks the password hash: %s", data)
	}
}
