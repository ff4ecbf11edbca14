package server

import (
	"pulse/internal/middleware"
	"pulse/internal/models"
	"pulse/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/votes/:feedbackId
func (s *Server) CastVote(c *fiber.Ctx) error {
	feedbackID, err := s.parseID(c, "feedbackId")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req validation.VoteInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	feedback, err := s.feedbackService.CastVote(c.Context(), userID, feedbackID, models.VoteType(req.VoteType))
	if err != nil {
		return respondError(c, err)
	}

	middleware.VotesCast.WithLabelValues(req.VoteType).Inc()

	s.publishBroadcastEvent(EventFeedbackVoteUpdated, map[string]interface{}{
		"feedback_id": feedback.ID,
		"upvotes":     feedback.Upvotes,
		"downvotes":   feedback.Downvotes,
		"score":       feedback.Score,
	})

	// Authors also get a targeted notification, except for self-votes.
	if feedback.AuthorID != userID {
		s.publishUserEvent(feedback.AuthorID, EventFeedbackVoted, map[string]interface{}{
			"feedback_id": feedback.ID,
			"title":       feedback.Title,
			"vote_type":   req.VoteType,
			"score":       feedback.Score,
		})
	}

	return c.JSON(feedback)
}
