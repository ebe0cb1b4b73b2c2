package services

import (
	"RadCase/models"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// In-memory fakes backing the service tests.

type fakeCaseRepo struct {
	cases         map[string]*models.Case
	lists         []models.Case
	statusUpdates []string
}

func newFakeCaseRepo(cases ...*models.Case) *fakeCaseRepo {
	f := &fakeCaseRepo{cases: make(map[string]*models.Case)}
	for _, c := range cases {
		f.cases[c.ID] = c
	}
	return f
}

func (f *fakeCaseRepo) Create(ctx context.Context, c *models.Case) error {
	f.cases[c.ID] = c
	return nil
}

func (f *fakeCaseRepo) GetByID(ctx context.Context, caseID string) (*models.Case, error) {
	return f.cases[caseID], nil
}

func (f *fakeCaseRepo) ListByUploader(ctx context.Context, uploaderID, status string) ([]models.Case, error) {
	return f.filter(func(c models.Case) bool { return c.UploadedBy == uploaderID }, status), nil
}

func (f *fakeCaseRepo) ListByAssignee(ctx context.Context, assigneeID, status string) ([]models.Case, error) {
	return f.filter(func(c models.Case) bool { return c.AssignedTo == assigneeID }, status), nil
}

func (f *fakeCaseRepo) filter(match func(models.Case) bool, status string) []models.Case {
	var out []models.Case
	for _, c := range f.lists {
		if match(c) && (status == "" || c.Status == status) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeCaseRepo) UpdateStatus(ctx context.Context, caseID, status string) error {
	f.statusUpdates = append(f.statusUpdates, caseID+":"+status)
	if c, ok := f.cases[caseID]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeCaseRepo) DeleteCache(ctx context.Context, caseID string) error { return nil }

type fakeReportRepo struct {
	byCase  map[string]*models.Report
	creates int
	updates int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{byCase: make(map[string]*models.Report)}
}

func (f *fakeReportRepo) GetByCase(ctx context.Context, caseID string) (*models.Report, error) {
	return f.byCase[caseID], nil
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	if _, ok := f.byCase[report.CaseID]; ok {
		return errors.New("duplicate report for case")
	}
	f.byCase[report.CaseID] = report
	f.creates++
	return nil
}

func (f *fakeReportRepo) UpdateContent(ctx context.Context, reportID, content string) error {
	for _, r := range f.byCase {
		if r.ID == reportID {
			r.Content = content
			f.updates++
			return nil
		}
	}
	return errors.New("report not found")
}

func (f *fakeReportRepo) CaseIDsWithReports(ctx context.Context, caseIDs []string) (map[string]bool, error) {
	reported := make(map[string]bool)
	for _, id := range caseIDs {
		if _, ok := f.byCase[id]; ok {
			reported[id] = true
		}
	}
	return reported, nil
}

type fakeConnectionRepo struct {
	connections []models.DoctorConnection
}

func (f *fakeConnectionRepo) ListByTechnician(ctx context.Context, technicianID string) ([]models.DoctorConnection, error) {
	var out []models.DoctorConnection
	for _, c := range f.connections {
		if c.TechnicianID == technicianID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConnectionRepo) Exists(ctx context.Context, technicianID, doctorID string) (bool, error) {
	for _, c := range f.connections {
		if c.TechnicianID == technicianID && c.DoctorID == doctorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConnectionRepo) GetByID(ctx context.Context, connectionID string) (*models.DoctorConnection, error) {
	for i := range f.connections {
		if f.connections[i].ID == connectionID {
			return &f.connections[i], nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionRepo) Create(ctx context.Context, connection *models.DoctorConnection) error {
	f.connections = append(f.connections, *connection)
	return nil
}

func (f *fakeConnectionRepo) Delete(ctx context.Context, connection *models.DoctorConnection) error {
	for i := range f.connections {
		if f.connections[i].ID == connection.ID {
			f.connections = append(f.connections[:i], f.connections[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeMediaRepo struct {
	files []models.MediaFile
}

func (f *fakeMediaRepo) Create(ctx context.Context, file *models.MediaFile) error {
	f.files = append(f.files, *file)
	return nil
}

func (f *fakeMediaRepo) ListByCase(ctx context.Context, caseID string) ([]models.MediaFile, error) {
	var out []models.MediaFile
	for _, file := range f.files {
		if file.CaseID == caseID {
			out = append(out, file)
		}
	}
	return out, nil
}

// stubLocks makes the Redis lock helpers succeed without a Redis instance.
func stubLocks(t *testing.T) {
	t.Helper()
	origNew, origRelease := newLock, releaseLock
	newLock = func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
		return true, nil
	}
	releaseLock = func(ctx context.Context, key, value string) error { return nil }
	t.Cleanup(func() { newLock, releaseLock = origNew, origRelease })
}

func newCaseServiceForTest(caseRepo *fakeCaseRepo, reportRepo *fakeReportRepo) *CaseService {
	return NewCaseService(caseRepo, &fakeMediaRepo{}, reportRepo, &fakeConnectionRepo{}, nil)
}

func TestCanViewCase(t *testing.T) {
	c := &models.Case{UploadedBy: "tech-1", AssignedTo: "doc-1"}

	tests := []struct {
		name   string
		userID string
		role   string
		want   bool
	}{
		{"uploading technician", "tech-1", models.RoleTechnician, true},
		{"assigned doctor", "doc-1", models.RoleDoctor, true},
		{"non-assignee doctor", "doc-2", models.RoleDoctor, true},
		{"other technician", "tech-2", models.RoleTechnician, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewCase(tt.userID, tt.role, c); got != tt.want {
				t.Errorf("CanViewCase(%q, %q) = %v, want %v", tt.userID, tt.role, got, tt.want)
			}
		})
	}
}

func TestGetCaseReadAccess(t *testing.T) {
	caseRepo := newFakeCaseRepo(&models.Case{
		ID:         "case-1",
		UploadedBy: "tech-1",
		AssignedTo: "doc-1",
		Technician: models.User{FullName: "Jane Doe"},
		Doctor:     models.User{FullName: "Dr. Adams"},
	})
	svc := newCaseServiceForTest(caseRepo, newFakeReportRepo())
	ctx := context.Background()

	summary, err := svc.Get(ctx, "case-1", "doc-2", models.RoleDoctor)
	if err != nil {
		t.Fatalf("non-assignee doctor read failed: %v", err)
	}
	if summary.TechName != "Jane Doe" || summary.DoctorName != "Dr. Adams" {
		t.Errorf("summary names = %q/%q", summary.TechName, summary.DoctorName)
	}

	if _, err := svc.Get(ctx, "case-1", "tech-2", models.RoleTechnician); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("other technician read = %v, want ErrAccessDenied", err)
	}
	if _, err := svc.Get(ctx, "missing", "doc-2", models.RoleDoctor); !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("missing case = %v, want ErrCaseNotFound", err)
	}
}

func TestListForUserStatusFilter(t *testing.T) {
	caseRepo := newFakeCaseRepo()
	caseRepo.lists = []models.Case{
		{ID: "case-1", UploadedBy: "tech-1", AssignedTo: "doc-1", Status: models.StatusPending},
		{ID: "case-2", UploadedBy: "tech-1", AssignedTo: "doc-1", Status: models.StatusCompleted},
		{ID: "case-3", UploadedBy: "tech-2", AssignedTo: "doc-1", Status: models.StatusPending},
	}
	reportRepo := newFakeReportRepo()
	reportRepo.byCase["case-2"] = &models.Report{ID: "rep-1", CaseID: "case-2"}
	svc := newCaseServiceForTest(caseRepo, reportRepo)
	ctx := context.Background()

	if _, err := svc.ListForUser(ctx, "tech-1", models.RoleTechnician, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status filter = %v, want ErrInvalidStatus", err)
	}

	pending, err := svc.ListForUser(ctx, "tech-1", models.RoleTechnician, models.StatusPending)
	if err != nil {
		t.Fatalf("technician list failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "case-1" {
		t.Errorf("pending uploads = %+v, want only case-1", pending)
	}

	assigned, err := svc.ListForUser(ctx, "doc-1", models.RoleDoctor, "")
	if err != nil {
		t.Fatalf("doctor list failed: %v", err)
	}
	if len(assigned) != 3 {
		t.Fatalf("doctor sees %d cases, want 3", len(assigned))
	}
	for _, s := range assigned {
		if want := s.ID == "case-2"; s.HasReport != want {
			t.Errorf("case %s HasReport = %v, want %v", s.ID, s.HasReport, want)
		}
	}
}

func TestUpdateStatusSameValueIsNoOp(t *testing.T) {
	caseRepo := newFakeCaseRepo(&models.Case{
		ID:         "case-1",
		UploadedBy: "tech-1",
		AssignedTo: "doc-1",
		Status:     models.StatusPending,
	})
	svc := newCaseServiceForTest(caseRepo, newFakeReportRepo())
	ctx := context.Background()

	if err := svc.UpdateStatus(ctx, "case-1", "tech-1", models.StatusPending); err != nil {
		t.Fatalf("same-value update failed: %v", err)
	}
	if len(caseRepo.statusUpdates) != 0 {
		t.Errorf("same-value update wrote %v, want nothing", caseRepo.statusUpdates)
	}

	if err := svc.UpdateStatus(ctx, "case-1", "doc-1", models.StatusCompleted); err != nil {
		t.Fatalf("completed transition failed: %v", err)
	}
	if len(caseRepo.statusUpdates) != 1 {
		t.Errorf("expected one persisted update, got %v", caseRepo.statusUpdates)
	}

	if err := svc.UpdateStatus(ctx, "case-1", "doc-2", models.StatusPending); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("non-participant update = %v, want ErrAccessDenied", err)
	}
	if err := svc.UpdateStatus(ctx, "case-1", "tech-1", "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status = %v, want ErrInvalidStatus", err)
	}
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	svc := newCaseServiceForTest(newFakeCaseRepo(), newFakeReportRepo())

	_, err := svc.Create(context.Background(), "tech-1", CreateCaseRequest{
		PatientName: "",
		PatientID:   "P-1001",
		StudyType:   "MRI",
		AssignedTo:  "7a1e1b84-3f07-4f29-9a4f-6f8f1c2d3e4a",
	}, nil)
	if !errors.Is(err, ErrInvalidCaseData) {
		t.Errorf("blank patient name = %v, want ErrInvalidCaseData", err)
	}
}

func TestMediaObjectKeyIsCollisionFree(t *testing.T) {
	now := time.Now()
	k1 := mediaObjectKey("case-1", "media-1", "scan.PNG", now)
	k2 := mediaObjectKey("case-1", "media-2", "scan.PNG", now)

	if k1 == k2 {
		t.Errorf("same-millisecond keys collide: %q", k1)
	}
	if !strings.HasPrefix(k1, "medical-files/case-1/") {
		t.Errorf("unexpected key prefix: %q", k1)
	}
	if !strings.HasSuffix(k1, ".png") {
		t.Errorf("extension not lowercased: %q", k1)
	}
}
