package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse/internal/config"
	"pulse/internal/models"
	"pulse/internal/repository"
	"pulse/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testServer wires a Server against an in-memory sqlite database so handler
// tests cover the full path down to SQL.
func setupFeedbackTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Feedback{},
		&models.Vote{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	feedbackRepo := repository.NewFeedbackRepository(db)
	s := &Server{
		config:          &config.Config{JWTSecret: "test_secret"},
		db:              db,
		userRepo:        repository.NewUserRepository(db),
		feedbackRepo:    feedbackRepo,
		feedbackService: service.NewFeedbackService(feedbackRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, s *Server, username string) (*models.User, string) {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeFeedback(t *testing.T, resp *http.Response) models.Feedback {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var fb models.Feedback
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fb))
	return fb
}

var validFeedbackBody = map[string]string{
	"title":       "Dark mode please",
	"description": "The app is blinding at night, a dark theme would help a lot.",
	"category":    "feature",
}

func TestCreateFeedbackHandler(t *testing.T) {
	s, app, db := setupFeedbackTestServer(t)
	_, token := createHandlerTestUser(t, db, s, "author")

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/feedback/", "", validFeedbackBody)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects short title", func(t *testing.T) {
		body := map[string]string{
			"title":       "abcd",
			"description": validFeedbackBody["description"],
			"category":    "feature",
		}
		resp := doJSON(t, app, http.MethodPost, "/api/feedback/", token, body)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects short description", func(t *testing.T) {
		body := map[string]string{
			"title":       "Dark mode please",
			"description": "too short",
			"category":    "feature",
		}
		resp := doJSON(t, app, http.MethodPost, "/api/feedback/", token, body)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		body := map[string]string{
			"title":       "Dark mode please",
			"description": validFeedbackBody["description"],
			"category":    "rant",
		}
		resp := doJSON(t, app, http.MethodPost, "/api/feedback/", token, body)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("creates and resolves author", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/feedback/", token, validFeedbackBody)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		fb := decodeFeedback(t, resp)
		assert.NotZero(t, fb.ID)
		assert.Equal(t, "author", fb.Author.Username)
		assert.Equal(t, 0, fb.Score)
		assert.Equal(t, models.CategoryFeature, fb.Category)
	})
}

func TestGetFeedbackHandler(t *testing.T) {
	s, app, db := setupFeedbackTestServer(t)
	_, token := createHandlerTestUser(t, db, s, "reader")

	created := decodeFeedback(t, doJSON(t, app, http.MethodPost, "/api/feedback/", token, validFeedbackBody))

	t.Run("found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/1", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		fb := decodeFeedback(t, resp)
		assert.Equal(t, created.ID, fb.ID)
	})

	t.Run("missing returns 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/999", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/abc", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateFeedbackHandler(t *testing.T) {
	s, app, db := setupFeedbackTestServer(t)
	_, authorToken := createHandlerTestUser(t, db, s, "author")
	_, otherToken := createHandlerTestUser(t, db, s, "other")

	created := decodeFeedback(t, doJSON(t, app, http.MethodPost, "/api/feedback/", authorToken, validFeedbackBody))

	update := map[string]string{
		"title":       "Dark mode everywhere",
		"description": "Expand the dark theme to the settings and admin screens too.",
		"category":    "improvement",
	}

	t.Run("non-author is forbidden", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/feedback/1", otherToken, update)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/feedback/1", "", update)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("author replaces all fields", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/feedback/1", authorToken, update)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		fb := decodeFeedback(t, resp)
		assert.Equal(t, created.ID, fb.ID)
		assert.Equal(t, "Dark mode everywhere", fb.Title)
		assert.Equal(t, models.CategoryImprovement, fb.Category)
	})

	t.Run("update re-validates the payload", func(t *testing.T) {
		bad := map[string]string{"title": "ok", "description": "short", "category": "bug"}
		resp := doJSON(t, app, http.MethodPut, "/api/feedback/1", authorToken, bad)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteFeedbackHandler(t *testing.T) {
	s, app, db := setupFeedbackTestServer(t)
	_, authorToken := createHandlerTestUser(t, db, s, "author")
	_, otherToken := createHandlerTestUser(t, db, s, "other")

	decodeFeedback(t, doJSON(t, app, http.MethodPost, "/api/feedback/", authorToken, validFeedbackBody))

	t.Run("non-author is forbidden", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/feedback/1", otherToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("author deletes with 200", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/feedback/1", authorToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Contains(t, payload["message"], "deleted")
	})

	t.Run("deleted item is gone", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/1", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFeedbackListHandler(t *testing.T) {
	s, app, db := setupFeedbackTestServer(t)
	_, authorToken := createHandlerTestUser(t, db, s, "author")
	_, voterToken := createHandlerTestUser(t, db, s, "voter")

	first := decodeFeedback(t, doJSON(t, app, http.MethodPost, "/api/feedback/", authorToken, validFeedbackBody))
	second := decodeFeedback(t, doJSON(t, app, http.MethodPost, "/api/feedback/", authorToken, map[string]string{
		"title":       "Export to CSV",
		"description": "Reports should be exportable to CSV for offline analysis.",
		"category":    "feature",
	}))

	// Upvote the older item so score ordering puts it first
	resp := doJSON(t, app, http.MethodPost, "/api/votes/1", voterToken, map[string]string{"voteType": "upvote"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	t.Run("ordered by score then recency", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer func() { _ = resp.Body.Close() }()

		var items []models.Feedback
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.Len(t, items, 2)
		assert.Equal(t, first.ID, items[0].ID)
		assert.Equal(t, 1, items[0].Score)
		assert.Equal(t, second.ID, items[1].ID)
		assert.Equal(t, "author", items[0].Author.Username)
	})

	t.Run("authenticated list carries my_vote", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/", voterToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer func() { _ = resp.Body.Close() }()

		var items []models.Feedback
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.Len(t, items, 2)
		assert.Equal(t, "upvote", items[0].MyVote)
		assert.Empty(t, items[1].MyVote)
	})

	t.Run("category filter", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/?category=bug", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer func() { _ = resp.Body.Close() }()

		var items []models.Feedback
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		assert.Empty(t, items)
	})

	t.Run("unknown category filter is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/?category=rant", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("returns every item without a limit parameter", func(t *testing.T) {
		author, _ := createHandlerTestUser(t, db, s, "bulk")
		const extra = 60
		for i := 0; i < extra; i++ {
			fb := &models.Feedback{
				Title:       "Bulk suggestion",
				Description: "Yet another suggestion padding out the listing for this check.",
				Category:    models.CategoryOther,
				AuthorID:    author.ID,
			}
			require.NoError(t, db.Create(fb).Error)
		}

		resp := doJSON(t, app, http.MethodGet, "/api/feedback/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer func() { _ = resp.Body.Close() }()

		var items []models.Feedback
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		assert.Len(t, items, extra+2)
	})

	t.Run("explicit limit pages the listing", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/feedback/?limit=10", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer func() { _ = resp.Body.Close() }()

		var items []models.Feedback
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		assert.Len(t, items, 10)
	})
}
