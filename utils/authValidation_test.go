package utils

import (
	"RadCase/models"
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "Str0ng!pass", nil},
		{"too short", "S1!a", ErrPasswordTooShort},
		{"missing uppercase", "weak1pass!", ErrPasswordNotComplex},
		{"missing lowercase", "WEAK1PASS!", ErrPasswordNotComplex},
		{"missing digit", "WeakPass!!", ErrPasswordNotComplex},
		{"missing special", "WeakPass12", ErrPasswordNotComplex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	valid := models.User{
		Email:    "tech@example.com",
		FullName: "Jane Doe",
		Role:     models.RoleTechnician,
		Password: "Str0ng!pass",
	}

	if err := ValidateSignup(valid); err != nil {
		t.Fatalf("expected valid signup, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(u *models.User)
	}{
		{"bad email", func(u *models.User) { u.Email = "not-an-email" }},
		{"empty email", func(u *models.User) { u.Email = "" }},
		{"short name", func(u *models.User) { u.FullName = "J" }},
		{"unknown role", func(u *models.User) { u.Role = "admin" }},
		{"weak password", func(u *models.User) { u.Password = "password" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			if err := ValidateSignup(u); err == nil {
				t.Errorf("expected signup validation to fail")
			}
		})
	}
}

func TestValidateNewCase(t *testing.T) {
	doctorID := "7a1e1b84-3f07-4f29-9a4f-6f8f1c2d3e4a"

	if err := ValidateNewCase("John Smith", "P-1001", "MRI", doctorID); err != nil {
		t.Fatalf("expected valid case fields, got %v", err)
	}

	cases := []struct {
		name        string
		patientName string
		patientID   string
		studyType   string
		assignedTo  string
	}{
		{"missing patient name", "", "P-1001", "MRI", doctorID},
		{"missing patient id", "John Smith", "", "MRI", doctorID},
		{"missing study type", "John Smith", "P-1001", "", doctorID},
		{"assignee not a uuid", "John Smith", "P-1001", "MRI", "doctor-1"},
		{"missing assignee", "John Smith", "P-1001", "MRI", ""},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateNewCase(tt.patientName, tt.patientID, tt.studyType, tt.assignedTo); err == nil {
				t.Errorf("expected validation to fail")
			}
		})
	}
}
