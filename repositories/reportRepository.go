package repositories

import (
	"RadCase/cache"
	"RadCase/database"
	"RadCase/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ReportRepository interface {
	GetByCase(ctx context.Context, caseID string) (*models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	UpdateContent(ctx context.Context, reportID, content string) error
	CaseIDsWithReports(ctx context.Context, caseIDs []string) (map[string]bool, error)
}

type reportRepository struct {
	cache *cache.Cache
}

func NewReportRepository(cache *cache.Cache) ReportRepository {
	return &reportRepository{cache: cache}
}

// GetByCase returns the case's report, or nil when none has been written yet.
// Absence is a normal state, not an error.
func (r *reportRepository) GetByCase(ctx context.Context, caseID string) (*models.Report, error) {
	var report models.Report
	err := database.DB.WithContext(ctx).First(&report, "case_id = ?", caseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := database.DB.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return r.invalidate(ctx, report.CaseID)
}

// UpdateContent rewrites the report text in place, leaving authorship intact.
func (r *reportRepository) UpdateContent(ctx context.Context, reportID, content string) error {
	err := database.DB.WithContext(ctx).Model(&models.Report{}).Where("id = ?", reportID).
		Update("content", content).Error
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	var report models.Report
	if err := database.DB.WithContext(ctx).Select("case_id").First(&report, "id = ?", reportID).Error; err != nil {
		return fmt.Errorf("failed to find report: %w", err)
	}
	return r.invalidate(ctx, report.CaseID)
}

// CaseIDsWithReports returns the subset of caseIDs that already have a report.
func (r *reportRepository) CaseIDsWithReports(ctx context.Context, caseIDs []string) (map[string]bool, error) {
	reported := make(map[string]bool, len(caseIDs))
	if len(caseIDs) == 0 {
		return reported, nil
	}

	var ids []string
	err := database.DB.WithContext(ctx).Model(&models.Report{}).
		Where("case_id IN ?", caseIDs).
		Pluck("case_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query reported cases: %w", err)
	}

	for _, id := range ids {
		reported[id] = true
	}
	return reported, nil
}

func (r *reportRepository) invalidate(ctx context.Context, caseID string) error {
	if err := r.cache.Delete(ctx, fmt.Sprintf("case_cache:%s", caseID)); err != nil {
		return fmt.Errorf("failed to delete case cache: %w", err)
	}
	// has_report flags live in the cached doctor lists
	return r.cache.DeleteAll(ctx, "cases_cache*")
}
