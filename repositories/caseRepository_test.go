package repositories

import (
	"RadCase/models"
	"testing"
)

func TestCaseCacheCodecKeepsParticipantNames(t *testing.T) {
	c := &models.Case{
		ID:          "case-1",
		CaseNumber:  "CASE-1700000000000",
		PatientName: "John Smith",
		Status:      models.StatusPending,
		UploadedBy:  "tech-1",
		AssignedTo:  "doc-1",
		Technician:  models.User{ID: "tech-1", FullName: "Jane Doe"},
		Doctor:      models.User{ID: "doc-1", FullName: "Dr. Adams"},
	}

	data, err := encodeCase(c)
	if err != nil {
		t.Fatalf("encodeCase() error: %v", err)
	}

	got, err := decodeCase(string(data))
	if err != nil {
		t.Fatalf("decodeCase() error: %v", err)
	}

	if got.Technician.FullName != "Jane Doe" {
		t.Errorf("cached technician name = %q, want %q", got.Technician.FullName, "Jane Doe")
	}
	if got.Doctor.FullName != "Dr. Adams" {
		t.Errorf("cached doctor name = %q, want %q", got.Doctor.FullName, "Dr. Adams")
	}
	if got.CaseNumber != c.CaseNumber || got.Status != c.Status {
		t.Errorf("decoded case = %+v, want %+v", got, c)
	}
}

func TestCaseListCacheCodecKeepsParticipantNames(t *testing.T) {
	cases := []models.Case{
		{
			ID:         "case-1",
			Technician: models.User{ID: "tech-1", FullName: "Jane Doe"},
			Doctor:     models.User{ID: "doc-1", FullName: "Dr. Adams"},
		},
		{
			ID:         "case-2",
			Technician: models.User{ID: "tech-1", FullName: "Jane Doe"},
			Doctor:     models.User{ID: "doc-2", FullName: "Dr. Brown"},
		},
	}

	data, err := encodeCases(cases)
	if err != nil {
		t.Fatalf("encodeCases() error: %v", err)
	}

	got, err := decodeCases(string(data))
	if err != nil {
		t.Fatalf("decodeCases() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("decoded %d cases, want 2", len(got))
	}
	if got[0].Technician.FullName != "Jane Doe" || got[1].Doctor.FullName != "Dr. Brown" {
		t.Errorf("decoded list lost participant names: %+v", got)
	}
}
