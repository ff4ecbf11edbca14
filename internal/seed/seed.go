// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"pulse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumFeedback int
	ShouldClean bool
	// SkipBcrypt swaps the real hash for a constant to make large seeds fast.
	SkipBcrypt bool
}

var featureIdeas = []string{
	"Dark mode for the dashboard",
	"Export reports to CSV",
	"Keyboard shortcuts for power users",
	"Bulk edit for feedback items",
	"Slack integration for new feedback",
	"Weekly digest email",
	"Custom feedback categories",
	"Public roadmap page",
	"Saved filters",
	"Duplicate detection on submit",
}

var bugReports = []string{
	"Avatar upload fails for large PNGs",
	"Search results lose focus on refresh",
	"Pagination skips the last page",
	"Session expires without warning",
	"Sorting resets after voting",
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d feedback items...", opts.NumUsers, opts.NumFeedback)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := createUsers(db, opts)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	items, err := createFeedback(db, users, opts.NumFeedback)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	log.Printf("%d feedback items created", len(items))

	votes, err := createVotes(db, users, items)
	if err != nil {
		return fmt.Errorf("failed to create votes: %w", err)
	}
	log.Printf("%d votes cast", votes)

	return nil
}

func clearData(db *gorm.DB) error {
	// Order matters: votes reference feedback and users
	for _, model := range []any{&models.Vote{}, &models.Feedback{}, &models.User{}} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, opts Options) ([]*models.User, error) {
	password := "password123"
	hashed := password
	if !opts.SkipBcrypt {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed = string(h)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		users = append(users, &models.User{
			Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(10, 99)),
			Email:    fmt.Sprintf("user%d.%s", i, gofakeit.Email()),
			Password: hashed,
		})
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createFeedback(db *gorm.DB, users []*models.User, count int) ([]*models.Feedback, error) {
	if len(users) == 0 || count == 0 {
		return nil, nil
	}

	categories := []models.Category{
		models.CategoryBug,
		models.CategoryFeature,
		models.CategoryImprovement,
		models.CategoryOther,
	}

	items := make([]*models.Feedback, 0, count)
	for i := 0; i < count; i++ {
		category := categories[rand.Intn(len(categories))]
		title := randomTitle(category)
		item := &models.Feedback{
			Title:       title,
			Description: gofakeit.Paragraph(1, 3, 8, " "),
			Category:    category,
			AuthorID:    users[rand.Intn(len(users))].ID,
			// Spread creation times so score ties exercise the recency tiebreak
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
		}
		items = append(items, item)
	}
	if err := db.Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func randomTitle(category models.Category) string {
	switch category {
	case models.CategoryBug:
		return bugReports[rand.Intn(len(bugReports))]
	case models.CategoryFeature:
		return featureIdeas[rand.Intn(len(featureIdeas))]
	default:
		title := strings.TrimSuffix(gofakeit.Sentence(6), ".")
		if len(title) < 5 {
			title = "Make " + title + " better"
		}
		return title
	}
}

func createVotes(db *gorm.DB, users []*models.User, items []*models.Feedback) (int, error) {
	total := 0
	for _, item := range items {
		// Each item gets votes from a random subset of users
		for _, user := range users {
			if rand.Intn(100) >= 40 {
				continue
			}
			voteType := models.VoteUp
			if rand.Intn(100) < 25 {
				voteType = models.VoteDown
			}
			vote := &models.Vote{
				FeedbackID: item.ID,
				UserID:     user.ID,
				VoteType:   voteType,
			}
			if err := db.Create(vote).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
