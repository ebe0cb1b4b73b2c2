package repositories

import (
	"RadCase/cache"
	"RadCase/database"
	"RadCase/models"
	"context"
	"fmt"
)

// MediaFileRepository persists media rows. Media metadata is never cached:
// each fetch re-mints signed URLs, so rows are always read fresh alongside
// them.
type MediaFileRepository interface {
	Create(ctx context.Context, file *models.MediaFile) error
	ListByCase(ctx context.Context, caseID string) ([]models.MediaFile, error)
}

type mediaFileRepository struct {
	cache *cache.Cache
}

func NewMediaFileRepository(cache *cache.Cache) MediaFileRepository {
	return &mediaFileRepository{cache: cache}
}

func (r *mediaFileRepository) Create(ctx context.Context, file *models.MediaFile) error {
	if err := database.DB.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to create media file: %w", err)
	}
	// A new file changes the case's media set; drop the cached case detail.
	return r.cache.Delete(ctx, fmt.Sprintf("case_cache:%s", file.CaseID))
}

// ListByCase returns a case's media rows ordered by upload time.
func (r *mediaFileRepository) ListByCase(ctx context.Context, caseID string) ([]models.MediaFile, error) {
	var files []models.MediaFile
	err := database.DB.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("uploaded_at").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list media files: %w", err)
	}
	return files, nil
}
