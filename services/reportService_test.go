package services

import (
	"RadCase/models"
	"context"
	"errors"
	"testing"
)

func TestCanAuthorReport(t *testing.T) {
	c := &models.Case{
		UploadedBy: "tech-1",
		AssignedTo: "doc-1",
	}

	tests := []struct {
		name   string
		userID string
		role   string
		want   bool
	}{
		{"assigned doctor", "doc-1", models.RoleDoctor, true},
		{"other doctor", "doc-2", models.RoleDoctor, false},
		{"uploading technician", "tech-1", models.RoleTechnician, false},
		{"technician with doctor id", "doc-1", models.RoleTechnician, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAuthorReport(tt.userID, tt.role, c); got != tt.want {
				t.Errorf("CanAuthorReport(%q, %q) = %v, want %v", tt.userID, tt.role, got, tt.want)
			}
		})
	}
}

func newReportServiceForTest(reportRepo *fakeReportRepo, cases ...*models.Case) *ReportService {
	return NewReportService(reportRepo, newFakeCaseRepo(cases...))
}

func TestSaveReportUpsertsInPlace(t *testing.T) {
	stubLocks(t)
	reportRepo := newFakeReportRepo()
	svc := newReportServiceForTest(reportRepo, &models.Case{
		ID:         "case-1",
		UploadedBy: "tech-1",
		AssignedTo: "doc-1",
	})
	ctx := context.Background()

	first, err := svc.Save(ctx, "case-1", "doc-1", models.RoleDoctor, "Initial findings.")
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if reportRepo.creates != 1 || reportRepo.updates != 0 {
		t.Fatalf("first save: creates=%d updates=%d, want 1/0", reportRepo.creates, reportRepo.updates)
	}

	second, err := svc.Save(ctx, "case-1", "doc-1", models.RoleDoctor, "Revised findings.")
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if reportRepo.creates != 1 || reportRepo.updates != 1 {
		t.Errorf("second save: creates=%d updates=%d, want 1/1", reportRepo.creates, reportRepo.updates)
	}
	if second.ID != first.ID {
		t.Errorf("second save produced a new row: %q vs %q", second.ID, first.ID)
	}
	if second.Content != "Revised findings." {
		t.Errorf("content = %q, want the revised text", second.Content)
	}
}

func TestSaveReportAuthorization(t *testing.T) {
	stubLocks(t)
	svc := newReportServiceForTest(newFakeReportRepo(), &models.Case{
		ID:         "case-1",
		UploadedBy: "tech-1",
		AssignedTo: "doc-1",
	})
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		role    string
		content string
		wantErr error
	}{
		{"non-assignee doctor", "doc-2", models.RoleDoctor, "text", ErrAccessDenied},
		{"uploading technician", "tech-1", models.RoleTechnician, "text", ErrAccessDenied},
		{"blank content", "doc-1", models.RoleDoctor, "   ", ErrEmptyReport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Save(ctx, "case-1", tt.userID, tt.role, tt.content); !errors.Is(err, tt.wantErr) {
				t.Errorf("Save() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetReportReadableByAnyDoctor(t *testing.T) {
	reportRepo := newFakeReportRepo()
	reportRepo.byCase["case-1"] = &models.Report{ID: "rep-1", CaseID: "case-1", Content: "Findings."}
	svc := newReportServiceForTest(reportRepo, &models.Case{
		ID:         "case-1",
		UploadedBy: "tech-1",
		AssignedTo: "doc-1",
	})
	ctx := context.Background()

	report, err := svc.Get(ctx, "case-1", "doc-2", models.RoleDoctor)
	if err != nil {
		t.Fatalf("non-assignee doctor read failed: %v", err)
	}
	if report == nil || report.Content != "Findings." {
		t.Errorf("report = %+v, want the stored content", report)
	}

	if _, err := svc.Get(ctx, "case-1", "tech-2", models.RoleTechnician); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("other technician read = %v, want ErrAccessDenied", err)
	}
}
