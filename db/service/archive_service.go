package service

import (
	"time"

	"github.com/soletta-dev/postpilot/db/models"
	"github.com/soletta-dev/postpilot/db/repository"
	"github.com/soletta-dev/postpilot/logger"
)

// ArchiveService records which platform posts each draft produced.
type ArchiveService struct {
	repo repository.PublishedPostRepository
}

// NewArchiveService creates a new archive service
func NewArchiveService(repo repository.PublishedPostRepository) *ArchiveService {
	return &ArchiveService{repo: repo}
}

// RecordPublication archives every post id a draft produced, in thread
// order. Archive failures are logged and swallowed; the publish itself
// already succeeded and must not be reported as failed over bookkeeping.
func (s *ArchiveService) RecordPublication(draftID, kind string, postIDs []string, threadURL string) {
	now := time.Now()
	for i, postID := range postIDs {
		post := &models.PublishedPost{
			DraftID:     draftID,
			PostID:      postID,
			Kind:        kind,
			Position:    i,
			ThreadURL:   threadURL,
			PublishedAt: now,
		}
		if err := s.repo.Create(post); err != nil {
			logger.Logger.Printf("Error archiving post %s for draft %s: %v", postID, draftID, err)
		}
	}
}

// PostsForDraft returns the archived posts for a draft in thread order.
func (s *ArchiveService) PostsForDraft(draftID string) []models.PublishedPost {
	posts, err := s.repo.FindByDraftID(draftID)
	if err != nil {
		logger.Logger.Printf("Error loading archive for draft %s: %v", draftID, err)
		return nil
	}
	return posts
}

// PublishedLastDays counts posts archived within the last n days.
func (s *ArchiveService) PublishedLastDays(days int) int64 {
	since := time.Now().AddDate(0, 0, -days).Unix()
	count, err := s.repo.CountSince(since)
	if err != nil {
		logger.Logger.Printf("Error counting archived posts: %v", err)
		return 0
	}
	return count
}
