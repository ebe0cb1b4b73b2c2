package services

import (
	"RadCase/models"
	"RadCase/repositories"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyReport = errors.New("report content cannot be empty")
)

// CanAuthorReport reports whether a user may create or update the report of a
// case: the user must be a doctor and the case's assignee.
func CanAuthorReport(userID, role string, c *models.Case) bool {
	return role == models.RoleDoctor && c.AssignedTo == userID
}

type ReportService struct {
	reportRepo repositories.ReportRepository
	caseRepo   repositories.CaseRepository
}

func NewReportService(reportRepo repositories.ReportRepository, caseRepo repositories.CaseRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, caseRepo: caseRepo}
}

// Get returns the case's report to anyone who can view the case. A nil
// report means none has been written yet, which is a normal state.
func (s *ReportService) Get(ctx context.Context, caseID, userID, role string) (*models.Report, error) {
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

	return s.reportRepo.GetByCase(ctx, caseID)
}

// Save creates the case's report, or updates its content when one already
// exists. Only the assigned doctor may write; a second save never produces a
// second row.
func (s *ReportService) Save(ctx context.Context, caseID, userID, role, content string) (*models.Report, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyReport
	}

	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	if !CanAuthorReport(userID, role, c) {
		return nil, ErrAccessDenied
	}

	lockKey := fmt.Sprintf("report_lock:%s", caseID)
	lockValue := uuid.New().String()
	locked, err := newLock(ctx, lockKey, lockValue, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("report is being saved by another request")
	}
	defer func() {
		if err := releaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	existing, err := s.reportRepo.GetByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.reportRepo.UpdateContent(ctx, existing.ID, content); err != nil {
			return nil, err
		}
		existing.Content = content
		return existing, nil
	}

	report := &models.Report{
		ID:        uuid.New().String(),
		CaseID:    caseID,
		Content:   content,
		CreatedBy: userID,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}
