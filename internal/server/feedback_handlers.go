package server

import (
	"pulse/internal/models"
	"pulse/internal/service"
	"pulse/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateFeedback handles POST /api/feedback
func (s *Server) CreateFeedback(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req validation.FeedbackInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	feedback, err := s.feedbackService.CreateFeedback(c.Context(), service.CreateFeedbackInput{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    models.Category(req.Category),
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(EventFeedbackCreated, map[string]interface{}{
		"feedback": feedback,
		"author":   userSummary(feedback.Author),
	})

	return c.Status(fiber.StatusCreated).JSON(feedback)
}

// GetFeedbackList handles GET /api/feedback
func (s *Server) GetFeedbackList(c *fiber.Ctx) error {
	currentUserID, _ := s.optionalUserID(c)
	p := parsePagination(c)

	items, err := s.feedbackService.ListFeedback(c.Context(), service.ListFeedbackInput{
		Category:      c.Query("category"),
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: currentUserID,
	})
	if err != nil {
		return respondError(c, err)
	}

	if items == nil {
		items = []*models.Feedback{}
	}
	return c.JSON(items)
}

// GetFeedback handles GET /api/feedback/:id
func (s *Server) GetFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	feedback, err := s.feedbackService.GetFeedback(c.Context(), id, currentUserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feedback)
}

// UpdateFeedback handles PUT /api/feedback/:id
func (s *Server) UpdateFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req validation.FeedbackInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	feedback, err := s.feedbackService.UpdateFeedback(c.Context(), service.UpdateFeedbackInput{
		UserID:      userID,
		FeedbackID:  id,
		Title:       req.Title,
		Description: req.Description,
		Category:    models.Category(req.Category),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feedback)
}

// DeleteFeedback handles DELETE /api/feedback/:id
func (s *Server) DeleteFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.feedbackService.DeleteFeedback(c.Context(), userID, id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Feedback deleted successfully",
	})
}
