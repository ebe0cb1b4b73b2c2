package models

import (
	"fmt"
	"testing"
	"time"
)

func TestInferFileType(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     string
	}{
		{"mp4 video", "video/mp4", FileTypeVideo},
		{"webm video", "video/webm", FileTypeVideo},
		{"jpeg image", "image/jpeg", FileTypeImage},
		{"png image", "image/png", FileTypeImage},
		{"dicom", "application/dicom", FileTypeImage},
		{"pdf", "application/pdf", FileTypeImage},
		{"empty", "", FileTypeImage},
		{"video prefix must match exactly", "videos/mp4", FileTypeImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferFileType(tt.mimeType); got != tt.want {
				t.Errorf("InferFileType(%q) = %q, want %q", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{"archived", false},
		{"Pending", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := ValidStatus(tt.status); got != tt.want {
				t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestNewCaseNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	want := fmt.Sprintf("CASE-%d", now.UnixMilli())

	if got := NewCaseNumber(now); got != want {
		t.Errorf("NewCaseNumber() = %q, want %q", got, want)
	}
}

func TestCaseIsParticipant(t *testing.T) {
	c := &Case{
		UploadedBy: "tech-1",
		AssignedTo: "doc-1",
	}

	tests := []struct {
		name   string
		userID string
		want   bool
	}{
		{"uploading technician", "tech-1", true},
		{"assigned doctor", "doc-1", true},
		{"other user", "doc-2", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsParticipant(tt.userID); got != tt.want {
				t.Errorf("IsParticipant(%q) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleTechnician, true},
		{RoleDoctor, true},
		{"admin", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := ValidRole(tt.role); got != tt.want {
				t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
