package repository

import (
	"context"
	"errors"
	"time"

	"pulse/internal/cache"
	"pulse/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository defines the interface for feedback data operations
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Feedback, error)
	List(ctx context.Context, category string, limit, offset int, currentUserID uint) ([]*models.Feedback, error)
	Update(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id uint) error
	CastVote(ctx context.Context, feedbackID, userID uint, voteType models.VoteType) error
}

// feedbackRepository implements FeedbackRepository
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeedbackList(ctx)
	return nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Feedback, error) {
	var feedback models.Feedback
	key := cache.FeedbackKey(id)

	fetch := func() error {
		if err := r.applyFeedbackDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			First(&feedback, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Feedback", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		// Anonymous reads share a cache entry; per-user vote state makes
		// authenticated reads uncacheable.
		err = cache.Aside(ctx, key, &feedback, cache.FeedbackTTL, fetch)
	} else {
		err = fetch()
	}

	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) List(ctx context.Context, category string, limit, offset int, currentUserID uint) ([]*models.Feedback, error) {
	var items []*models.Feedback

	fetch := func() error {
		q := r.applyFeedbackDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author")
		if category != "" {
			q = q.Where("feedbacks.category = ?", category)
		}
		q = q.Order("score DESC, created_at DESC")
		// A non-positive limit means the full set. Offset only applies to an
		// explicit page; sqlite rejects OFFSET without LIMIT.
		if limit > 0 {
			q = q.Limit(limit).Offset(offset)
		}
		if err := q.Find(&items).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		key := cache.FeedbackListKey(ctx, category, limit, offset)
		err = cache.Aside(ctx, key, &items, cache.FeedbackListTTL, fetch)
	} else {
		err = fetch()
	}

	if err != nil {
		return nil, err
	}
	return items, nil
}

// applyFeedbackDetails adds subqueries that compute vote tallies and the
// requesting user's own vote in a single query. The score alias is referenced
// by ORDER BY at the same query level.
func (r *feedbackRepository) applyFeedbackDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "feedbacks.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.feedback_id = feedbacks.id AND votes.vote_type = 'upvote') as upvotes, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.feedback_id = feedbacks.id AND votes.vote_type = 'downvote') as downvotes, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.feedback_id = feedbacks.id AND votes.vote_type = 'upvote') - " +
		"(SELECT COUNT(*) FROM votes WHERE votes.feedback_id = feedbacks.id AND votes.vote_type = 'downvote') as score"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", COALESCE((SELECT vote_type FROM votes WHERE votes.feedback_id = feedbacks.id AND votes.user_id = ?), '') as my_vote",
			currentUserID)
	}

	return db.Select(selectQuery + ", '' as my_vote")
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Save(feedback).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FeedbackKey(feedback.ID))
	cache.InvalidateFeedbackList(ctx)
	return nil
}

// Delete removes the item and its votes permanently. The explicit vote
// delete keeps the ledger consistent even when the driver has foreign key
// enforcement off.
func (r *feedbackRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feedback_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Feedback{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FeedbackKey(id))
	cache.InvalidateFeedbackList(ctx)
	return nil
}

// CastVote records or replaces the caller's vote in a single statement. The
// unique index on (feedback_id, user_id) makes concurrent casts collapse into
// one row per voter regardless of interleaving.
func (r *feedbackRepository) CastVote(ctx context.Context, feedbackID, userID uint, voteType models.VoteType) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO votes (feedback_id, user_id, vote_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (feedback_id, user_id)
		 DO UPDATE SET vote_type = excluded.vote_type, updated_at = excluded.updated_at`,
		feedbackID, userID, string(voteType), now, now,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FeedbackKey(feedbackID))
	cache.InvalidateFeedbackList(ctx)
	return nil
}
