package services

import (
	"context"

	"github.com/pushp314/coursehub-backend/pkg/logger"
)

// ProgressStore is the read side the progress calculator needs.
type ProgressStore interface {
	PublishedChapterIDs(ctx context.Context, courseID string) ([]string, error)
	CountCompleted(ctx context.Context, userID string, chapterIDs []string) (int64, error)
}

// ProgressCalculator reports how much of a course's published content a user has completed.
type ProgressCalculator struct {
	store ProgressStore
}

func NewProgressCalculator(store ProgressStore) *ProgressCalculator {
	return &ProgressCalculator{store: store}
}

// Compute returns the completed share of published chapters as a percentage in [0, 100].
// A course without published chapters is 0% complete.
func (p *ProgressCalculator) Compute(ctx context.Context, userID, courseID string) (float64, error) {
	chapterIDs, err := p.store.PublishedChapterIDs(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if len(chapterIDs) == 0 {
		return 0, nil
	}

	completed, err := p.store.CountCompleted(ctx, userID, chapterIDs)
	if err != nil {
		return 0, err
	}
	return float64(completed) / float64(len(chapterIDs)) * 100, nil
}

// ComputeProgress is Compute with store failures logged and reported as 0.
func (p *ProgressCalculator) ComputeProgress(ctx context.Context, userID, courseID string) float64 {
	progress, err := p.Compute(ctx, userID, courseID)
	if err != nil {
		logger.Error().Err(err).
			Str("op", "GET_PROGRESS").
			Str("user_id", userID).
			Str("course_id", courseID).
			Msg("Failed to compute course progress")
		return 0
	}
	return progress
}
