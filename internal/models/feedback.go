package models

import "time"

// Category classifies a feedback item.
type Category string

// Valid feedback categories.
const (
	CategoryBug         Category = "bug"
	CategoryFeature     Category = "feature"
	CategoryImprovement Category = "improvement"
	CategoryOther       Category = "other"
)

// IsValid reports whether the category is one of the fixed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBug, CategoryFeature, CategoryImprovement, CategoryOther:
		return true
	}
	return false
}

// Feedback represents a user-submitted feedback item with its vote ledger.
// Deletion is permanent and removes the item together with its votes.
type Feedback struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    Category `gorm:"type:varchar(16);not null;index" json:"category"`
	AuthorID    uint     `gorm:"not null;index" json:"author_id"`
	Author      User     `gorm:"foreignKey:AuthorID" json:"author"`
	Votes       []Vote   `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"votes,omitempty"`
	// Upvotes is not persisted; computed at query time
	Upvotes int `gorm:"->" json:"upvotes"`
	// Downvotes is not persisted; computed at query time
	Downvotes int `gorm:"->" json:"downvotes"`
	// Score is upvotes minus downvotes, computed at query time and used for ordering
	Score int `gorm:"->" json:"score"`
	// MyVote holds the requesting user's vote type, empty when absent (computed)
	MyVote    string    `gorm:"->" json:"my_vote,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
