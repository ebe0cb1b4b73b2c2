package services

import (
	"RadCase/database"
	"RadCase/models"
	"RadCase/repositories"
	"RadCase/storage"
	"RadCase/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCaseNotFound         = errors.New("case not found")
	ErrAccessDenied         = errors.New("access denied")
	ErrNoFiles              = errors.New("at least one file is required")
	ErrInvalidStatus        = errors.New("invalid case status")
	ErrInvalidCaseData      = errors.New("invalid case data")
	ErrAssigneeNotConnected = errors.New("assigned doctor is not in your connections")
)

// Redis lock entry points, indirected so service tests can stub them out.
var (
	newLock     = database.NewLock
	releaseLock = database.ReleaseLock
)

// CanViewCase reports whether the user may read the case. Both participants
// may, and any doctor gets a read-only view; writes stay with the
// participants.
func CanViewCase(userID, role string, c *models.Case) bool {
	return c.IsParticipant(userID) || role == models.RoleDoctor
}

// CreateCaseRequest carries the scalar fields of a new case.
type CreateCaseRequest struct {
	PatientName string
	PatientID   string
	StudyType   string
	AssignedTo  string
}

// CaseSummary is a case row decorated with the participant names and, for
// doctors, whether a report has been written yet.
type CaseSummary struct {
	models.Case
	TechName   string `json:"tech_name"`
	DoctorName string `json:"doctor_name"`
	HasReport  bool   `json:"has_report"`
}

type CaseService struct {
	caseRepo       repositories.CaseRepository
	mediaRepo      repositories.MediaFileRepository
	reportRepo     repositories.ReportRepository
	connectionRepo repositories.ConnectionRepository
	storage        *storage.Client
}

func NewCaseService(
	caseRepo repositories.CaseRepository,
	mediaRepo repositories.MediaFileRepository,
	reportRepo repositories.ReportRepository,
	connectionRepo repositories.ConnectionRepository,
	storageClient *storage.Client,
) *CaseService {
	return &CaseService{
		caseRepo:       caseRepo,
		mediaRepo:      mediaRepo,
		reportRepo:     reportRepo,
		connectionRepo: connectionRepo,
		storage:        storageClient,
	}
}

// Create inserts the case row, then uploads each file sequentially and
// inserts one media row per file. The steps are deliberately not wrapped in
// a transaction: a failure partway through leaves the case with the files
// persisted so far and reports the error. There is no rollback and no retry.
func (s *CaseService) Create(ctx context.Context, technicianID string, req CreateCaseRequest, files []*multipart.FileHeader) (*models.Case, error) {
	if err := utils.ValidateNewCase(req.PatientName, req.PatientID, req.StudyType, req.AssignedTo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCaseData, err)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	// The assignee must be a doctor in the creating technician's
	// connection list.
	connected, err := s.connectionRepo.Exists(ctx, technicianID, req.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("failed to check connection: %w", err)
	}
	if !connected {
		return nil, ErrAssigneeNotConnected
	}

	lockKey := fmt.Sprintf("case_create_lock:%s", technicianID)
	lockValue := uuid.New().String()
	locked, err := newLock(ctx, lockKey, lockValue, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another case creation is in progress")
	}
	defer func() {
		if err := releaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	now := time.Now()
	newCase := &models.Case{
		ID:          uuid.New().String(),
		CaseNumber:  models.NewCaseNumber(now),
		PatientName: req.PatientName,
		PatientID:   req.PatientID,
		StudyType:   req.StudyType,
		Status:      models.StatusPending,
		UploadedBy:  technicianID,
		AssignedTo:  req.AssignedTo,
	}

	if err := s.caseRepo.Create(ctx, newCase); err != nil {
		return nil, err
	}

	for _, fh := range files {
		if err := s.addMediaFile(ctx, newCase.ID, fh); err != nil {
			return nil, fmt.Errorf("case %s left partially populated: %w", newCase.CaseNumber, err)
		}
	}

	return newCase, nil
}

// mediaObjectKey builds the storage key for an upload. The media row's ID is
// part of the key so two files landing in the same millisecond cannot collide.
func mediaObjectKey(caseID, mediaID, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("medical-files/%s/%d-%s%s", caseID, now.UnixMilli(), mediaID, ext)
}

func (s *CaseService) addMediaFile(ctx context.Context, caseID string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	mediaID := uuid.New().String()
	key := mediaObjectKey(caseID, mediaID, fh.Filename, time.Now())

	if err := s.storage.Upload(ctx, key, mime, src, fh.Size); err != nil {
		return err
	}

	return s.mediaRepo.Create(ctx, &models.MediaFile{
		ID:       mediaID,
		CaseID:   caseID,
		FileName: fh.Filename,
		FilePath: key,
		FileType: models.InferFileType(mime),
		FileSize: fh.Size,
	})
}

// ListForUser returns the caller's cases: uploads for a technician,
// assignments for a doctor. Doctor listings carry the has_report flag.
func (s *CaseService) ListForUser(ctx context.Context, userID, role, status string) ([]CaseSummary, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var (
		cases []models.Case
		err   error
	)
	switch role {
	case models.RoleTechnician:
		cases, err = s.caseRepo.ListByUploader(ctx, userID, status)
	case models.RoleDoctor:
		cases, err = s.caseRepo.ListByAssignee(ctx, userID, status)
	default:
		return nil, ErrAccessDenied
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]CaseSummary, 0, len(cases))
	for _, c := range cases {
		summaries = append(summaries, CaseSummary{
			Case:       c,
			TechName:   c.Technician.FullName,
			DoctorName: c.Doctor.FullName,
		})
	}

	if role == models.RoleDoctor {
		caseIDs := make([]string, len(cases))
		for i, c := range cases {
			caseIDs[i] = c.ID
		}
		reported, err := s.reportRepo.CaseIDsWithReports(ctx, caseIDs)
		if err != nil {
			return nil, err
		}
		for i := range summaries {
			summaries[i].HasReport = reported[summaries[i].ID]
		}
	}

	return summaries, nil
}

// Get returns a case to its participants, or read-only to any doctor.
func (s *CaseService) Get(ctx context.Context, caseID, userID, role string) (*CaseSummary, error) {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	if !CanViewCase(userID, role, c) {
		return nil, ErrAccessDenied
	}

	return &CaseSummary{
		Case:       *c,
		TechName:   c.Technician.FullName,
		DoctorName: c.Doctor.FullName,
	}, nil
}

// UpdateStatus moves a case to a new status. Either participant may
// transition to any of the three statuses; setting the current status again
// is a no-op.
func (s *CaseService) UpdateStatus(ctx context.Context, caseID, userID, status string) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}

	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCaseNotFound
	}
	if !c.IsParticipant(userID) {
		return ErrAccessDenied
	}
	if c.Status == status {
		return nil
	}

	return s.caseRepo.UpdateStatus(ctx, caseID, status)
}
