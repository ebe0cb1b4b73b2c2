package repositories

import (
	"RadCase/cache"
	"RadCase/database"
	"RadCase/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const (
	CaseCacheExpiry = time.Hour
)

type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) error
	GetByID(ctx context.Context, caseID string) (*models.Case, error)
	ListByUploader(ctx context.Context, uploaderID, status string) ([]models.Case, error)
	ListByAssignee(ctx context.Context, assigneeID, status string) ([]models.Case, error)
	UpdateStatus(ctx context.Context, caseID, status string) error
	DeleteCache(ctx context.Context, caseID string) error
}

type caseRepository struct {
	cache *cache.Cache
}

func NewCaseRepository(cache *cache.Cache) CaseRepository {
	return &caseRepository{cache: cache}
}

// cachedCase is the cache representation of a case. The API model hides the
// preloaded participant rows from JSON, so caching it directly would return
// empty technician and doctor names on every cache hit.
type cachedCase struct {
	models.Case
	Technician models.User `json:"technician"`
	Doctor     models.User `json:"doctor"`
}

func encodeCase(c *models.Case) ([]byte, error) {
	return json.Marshal(cachedCase{Case: *c, Technician: c.Technician, Doctor: c.Doctor})
}

func decodeCase(data string) (*models.Case, error) {
	var cached cachedCase
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, err
	}
	c := cached.Case
	c.Technician = cached.Technician
	c.Doctor = cached.Doctor
	return &c, nil
}

func encodeCases(cases []models.Case) ([]byte, error) {
	cachedCases := make([]cachedCase, len(cases))
	for i, c := range cases {
		cachedCases[i] = cachedCase{Case: c, Technician: c.Technician, Doctor: c.Doctor}
	}
	return json.Marshal(cachedCases)
}

func decodeCases(data string) ([]models.Case, error) {
	var cachedCases []cachedCase
	if err := json.Unmarshal([]byte(data), &cachedCases); err != nil {
		return nil, err
	}
	cases := make([]models.Case, len(cachedCases))
	for i, cached := range cachedCases {
		c := cached.Case
		c.Technician = cached.Technician
		c.Doctor = cached.Doctor
		cases[i] = c
	}
	return cases, nil
}

func (r *caseRepository) Create(ctx context.Context, c *models.Case) error {
	if err := database.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}
	return r.invalidateLists(ctx)
}

func (r *caseRepository) GetByID(ctx context.Context, caseID string) (*models.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getCaseCacheKey(caseID)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		if c, err := decodeCase(cached); err == nil {
			return c, nil
		}
	}

	var c models.Case
	err = database.DB.WithContext(ctx).
		Preload("Technician", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email")
		}).
		First(&c, "id = ?", caseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	caseJSON, err := encodeCase(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal case: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, caseJSON, CaseCacheExpiry); err != nil {
		log.Printf("Failed to set case in cache: %v", err)
	}

	return &c, nil
}

// ListByUploader returns the cases a technician created, newest first,
// optionally filtered by status.
func (r *caseRepository) ListByUploader(ctx context.Context, uploaderID, status string) ([]models.Case, error) {
	return r.list(ctx, "uploaded_by", uploaderID, status)
}

// ListByAssignee returns the cases assigned to a doctor, newest first,
// optionally filtered by status.
func (r *caseRepository) ListByAssignee(ctx context.Context, assigneeID, status string) ([]models.Case, error) {
	return r.list(ctx, "assigned_to", assigneeID, status)
}

func (r *caseRepository) list(ctx context.Context, column, userID, status string) ([]models.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("cases_cache:%s:%s:%s", column, userID, status)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		if cases, err := decodeCases(cached); err == nil {
			return cases, nil
		}
	}

	query := database.DB.WithContext(ctx).
		Preload("Technician", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name")
		}).
		Where(column+" = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var cases []models.Case
	if err := query.Order("created_at DESC").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	casesJSON, err := encodeCases(cases)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cases: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, casesJSON, CaseCacheExpiry); err != nil {
		log.Printf("Failed to set cases in cache: %v", err)
	}

	return cases, nil
}

// UpdateStatus persists a status change and touches updated_at.
func (r *caseRepository) UpdateStatus(ctx context.Context, caseID, status string) error {
	err := database.DB.WithContext(ctx).Model(&models.Case{}).Where("id = ?", caseID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update case status: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getCaseCacheKey(caseID)); err != nil {
		return fmt.Errorf("failed to delete case cache: %w", err)
	}
	return r.invalidateLists(ctx)
}

func (r *caseRepository) DeleteCache(ctx context.Context, caseID string) error {
	return r.cache.Delete(ctx, r.getCaseCacheKey(caseID))
}

func (r *caseRepository) invalidateLists(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, "cases_cache*")
}

func (r *caseRepository) getCaseCacheKey(caseID string) string {
	return fmt.Sprintf("case_cache:%s", caseID)
}
