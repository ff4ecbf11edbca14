// Package validation defines request input schemas and their validation.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterInput is the request body for account registration.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// LoginInput is the request body for login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FeedbackInput is the request body for creating or updating a feedback
// item. Updates replace all three fields, so the full schema applies.
type FeedbackInput struct {
	Title       string `json:"title" validate:"required,min=5,max=120"`
	Description string `json:"description" validate:"required,min=20,max=4000"`
	Category    string `json:"category" validate:"required,oneof=bug feature improvement other"`
}

// VoteInput is the request body for casting a vote.
type VoteInput struct {
	VoteType string `json:"voteType" validate:"required,oneof=upvote downvote"`
}

// Validate checks the input against its schema and returns a human-readable
// error for the first failing field.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(messageFor(verrs[0]))
	}
	return err
}

// messageFor maps a field error to the message clients expect.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please enter a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
