package models

import "time"

// VoteType is the direction of a vote.
type VoteType string

// Wire names kept compatible with the original API clients.
const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// IsValid reports whether the vote type is upvote or downvote.
func (t VoteType) IsValid() bool {
	return t == VoteUp || t == VoteDown
}

// Vote records a single user's vote on a feedback item.
// The combination of FeedbackID and UserID must be unique: the ledger is a
// keyed mapping from voter to vote type, and re-casting replaces the type
// in place.
type Vote struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	FeedbackID uint     `gorm:"not null;uniqueIndex:idx_feedback_voter" json:"feedback_id"`
	UserID     uint     `gorm:"not null;uniqueIndex:idx_feedback_voter" json:"user_id"`
	VoteType   VoteType `gorm:"type:varchar(8);not null" json:"vote_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Feedback Feedback `gorm:"foreignKey:FeedbackID" json:"-"`
}
