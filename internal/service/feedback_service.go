// Package service contains the application's business logic, sitting between
// HTTP handlers and repositories.
package service

import (
	"context"

	"pulse/internal/models"
	"pulse/internal/repository"
)

type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
}

type CreateFeedbackInput struct {
	AuthorID    uint
	Title       string
	Description string
	Category    models.Category
}

type UpdateFeedbackInput struct {
	UserID      uint
	FeedbackID  uint
	Title       string
	Description string
	Category    models.Category
}

type ListFeedbackInput struct {
	Category      string
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

func (s *FeedbackService) CreateFeedback(ctx context.Context, in CreateFeedbackInput) (*models.Feedback, error) {
	if !in.Category.IsValid() {
		return nil, models.NewValidationError("Invalid category")
	}

	feedback := &models.Feedback{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		AuthorID:    in.AuthorID,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	// Re-read so the response carries the author and zeroed tallies.
	return s.feedbackRepo.GetByID(ctx, feedback.ID, in.AuthorID)
}

func (s *FeedbackService) ListFeedback(ctx context.Context, in ListFeedbackInput) ([]*models.Feedback, error) {
	if in.Category != "" && !models.Category(in.Category).IsValid() {
		return nil, models.NewValidationError("Invalid category")
	}
	return s.feedbackRepo.List(ctx, in.Category, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *FeedbackService) GetFeedback(ctx context.Context, id uint, currentUserID uint) (*models.Feedback, error) {
	return s.feedbackRepo.GetByID(ctx, id, currentUserID)
}

// UpdateFeedback replaces the mutable fields wholesale. Only the author may
// update their item.
func (s *FeedbackService) UpdateFeedback(ctx context.Context, in UpdateFeedbackInput) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, in.FeedbackID, in.UserID)
	if err != nil {
		return nil, err
	}

	if feedback.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own feedback")
	}

	if !in.Category.IsValid() {
		return nil, models.NewValidationError("Invalid category")
	}

	feedback.Title = in.Title
	feedback.Description = in.Description
	feedback.Category = in.Category

	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, err
	}
	return s.feedbackRepo.GetByID(ctx, in.FeedbackID, in.UserID)
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, userID, feedbackID uint) error {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID, userID)
	if err != nil {
		return err
	}

	if feedback.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own feedback")
	}

	return s.feedbackRepo.Delete(ctx, feedbackID)
}

// CastVote records or replaces the user's vote and returns the item with
// fresh tallies. Voting on a missing item is a not-found, never an implicit
// create.
func (s *FeedbackService) CastVote(ctx context.Context, userID, feedbackID uint, voteType models.VoteType) (*models.Feedback, error) {
	if !voteType.IsValid() {
		return nil, models.NewValidationError("voteType must be 'upvote' or 'downvote'")
	}

	if _, err := s.feedbackRepo.GetByID(ctx, feedbackID, userID); err != nil {
		return nil, err
	}

	if err := s.feedbackRepo.CastVote(ctx, feedbackID, userID, voteType); err != nil {
		return nil, err
	}

	return s.feedbackRepo.GetByID(ctx, feedbackID, userID)
}
