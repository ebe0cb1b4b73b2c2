package services

import (
	"RadCase/models"
	"RadCase/repositories"
	"RadCase/storage"
	"context"
	"fmt"
)

// MediaView is a media row plus a short-lived signed URL for viewing it.
type MediaView struct {
	models.MediaFile
	URL string `json:"url"`
}

type MediaService struct {
	mediaRepo repositories.MediaFileRepository
	caseRepo  repositories.CaseRepository
	storage   *storage.Client
}

func NewMediaService(mediaRepo repositories.MediaFileRepository, caseRepo repositories.CaseRepository, storageClient *storage.Client) *MediaService {
	return &MediaService{mediaRepo: mediaRepo, caseRepo: caseRepo, storage: storageClient}
}

// ListForCase returns a case's media ordered by upload time, each with a
// fresh signed URL. URLs expire after an hour and are minted on every call,
// never cached.
func (s *MediaService) ListForCase(ctx context.Context, caseID, userID, role string) ([]MediaView, error) {
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

	files, err := s.mediaRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	views := make([]MediaView, 0, len(files))
	for _, f := range files {
		url, err := s.storage.SignedURL(ctx, f.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to sign URL for %q: %w", f.FileName, err)
		}
		views = append(views, MediaView{MediaFile: f, URL: url})
	}
	return views, nil
}
