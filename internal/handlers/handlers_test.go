package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/generalink/backend/internal/middleware"
	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/services"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	router *chi.Mux
	stores *services.MemoryStores
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stores := services.NewMemoryStores()

	authHandler := NewAuthHandler(stores.Users, nil, testJWTSecret, time.Hour)
	profileHandler := NewProfileHandler(stores.Users, services.NewPhotoService(t.TempDir()), nil, 10)
	matchHandler := NewMatchHandler(stores.Matches)
	messageHandler := NewMessageHandler(stores.Conversations, nil)
	reportHandler := NewReportHandler(stores.Conversations, nil)
	storyHandler := NewStoryHandler(stores.Stories)
	userHandler := NewUserHandler(stores.Users)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		r.Get("/profile", profileHandler.GetProfile)
		r.Post("/profile", profileHandler.UpdateProfile)
		r.Post("/profile/photo", profileHandler.UploadPhoto)

		r.Get("/matches/potential", matchHandler.GetPotentialMatches)
		r.Get("/matches", matchHandler.GetMatches)
		r.Post("/matches", matchHandler.CreateMatch)
		r.Delete("/matches", matchHandler.RemoveMatch)

		r.Get("/messages/{conversationId}", messageHandler.GetMessages)
		r.Post("/messages", messageHandler.SendMessage)

		r.Post("/report", reportHandler.SubmitReport)

		r.Get("/stories", storyHandler.ListStories)
		r.Post("/stories", storyHandler.CreateStory)
		r.Post("/stories/{storyId}/like", storyHandler.LikeStory)

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(testJWTSecret))
			r.Use(appMiddleware.RequireAdmin)
			r.Get("/users", userHandler.ListUsers)
			r.Get("/admin/reports", reportHandler.ListReports)
		})
	})

	return &testEnv{router: r, stores: stores}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestSignupLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec, payload := env.do(t, http.MethodPost, "/api/signup", map[string]interface{}{
		"email":    "new@example.com",
		"password": "secret123",
		"name":     "Newcomer",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.NotEmpty(t, payload["token"])

	user := payload["user"].(map[string]interface{})
	assert.Equal(t, "new@example.com", user["email"])
	assert.Equal(t, false, user["isAdmin"])

	rec, _ = env.do(t, http.MethodPost, "/api/signup", map[string]interface{}{
		"email":    "new@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, payload = env.do(t, http.MethodPost, "/api/login", map[string]interface{}{
		"email":    "new@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, payload["token"])

	rec, payload = env.do(t, http.MethodPost, "/api/login", map[string]interface{}{
		"email":    "new@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, payload["success"])
}

func TestProfileRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.stores.Users.Put(&models.User{
		ID: "user-1", Email: "u1@example.com",
		Profile: models.ProfileData{"name": "Before", "verified": false},
	})

	rec, payload := env.do(t, http.MethodGet, "/api/profile?userId=user-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := payload["profile"].(map[string]interface{})
	assert.Equal(t, "Before", profile["name"])

	rec, payload = env.do(t, http.MethodPost, "/api/profile", map[string]interface{}{
		"userId":  "user-1",
		"updates": map[string]interface{}{"name": "After"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile = payload["profile"].(map[string]interface{})
	assert.Equal(t, "After", profile["name"])
	assert.Equal(t, false, profile["verified"])

	rec, _ = env.do(t, http.MethodGet, "/api/profile?userId=user-missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/profile", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/profile", map[string]interface{}{"userId": "user-1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.stores.Users.Put(&models.User{
		ID: "senior-1", Email: "s@example.com",
		Profile: models.ProfileData{"ageGroup": "senior", "interests": []string{"cooking"}},
	})
	env.stores.Users.Put(&models.User{
		ID: "youth-1", Email: "y@example.com",
		Profile: models.ProfileData{"ageGroup": "youth", "interests": []string{"cooking"}},
	})

	rec, payload := env.do(t, http.MethodGet, "/api/matches/potential?userId=senior-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	candidates := payload["matches"].([]interface{})
	require.Len(t, candidates, 1)
	first := candidates[0].(map[string]interface{})
	assert.Equal(t, "youth-1", first["id"])
	assert.Equal(t, float64(100), first["score"])

	rec, _ = env.do(t, http.MethodPost, "/api/matches", map[string]interface{}{
		"userId": "senior-1", "matchId": "youth-1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/matches", map[string]interface{}{"userId": "senior-1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload = env.do(t, http.MethodGet, "/api/matches?userId=youth-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["matches"].([]interface{}), 1)

	rec, _ = env.do(t, http.MethodDelete, "/api/matches?userId=senior-1&matchId=youth-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, payload = env.do(t, http.MethodGet, "/api/matches?userId=senior-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, payload["matches"])
}

func TestMessageEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, payload := env.do(t, http.MethodPost, "/api/messages", map[string]interface{}{
		"conversationId": "conv-1",
		"message":        map[string]interface{}{"senderId": "user-a", "text": "hello"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sent := payload["message"].(map[string]interface{})
	assert.Equal(t, "user-a", sent["senderId"])
	assert.NotEmpty(t, sent["id"])

	rec, _ = env.do(t, http.MethodPost, "/api/messages", map[string]interface{}{
		"conversationId": "conv-1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload = env.do(t, http.MethodGet, "/api/messages/conv-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := payload["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].(map[string]interface{})["text"])

	rec, payload = env.do(t, http.MethodGet, "/api/messages/conv-empty", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, payload["messages"])
}

func TestStoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.stores.Users.Put(&models.User{
		ID: "author-1", Email: "a@example.com",
		Profile: models.ProfileData{"name": "Margaret", "ageGroup": "senior", "age": 68},
	})

	rec, payload := env.do(t, http.MethodPost, "/api/stories", map[string]interface{}{
		"authorId": "author-1", "content": "hello feed",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	story := payload["story"].(map[string]interface{})
	storyID := story["id"].(string)
	assert.Equal(t, "Margaret", story["author_name"])

	rec, _ = env.do(t, http.MethodPost, "/api/stories", map[string]interface{}{"authorId": "author-1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for i := 0; i < 3; i++ {
		rec, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/stories/%s/like", storyID), nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, _ = env.do(t, http.MethodPost, "/api/stories/story-missing/like", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, payload = env.do(t, http.MethodGet, "/api/stories", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stories := payload["stories"].([]interface{})
	require.Len(t, stories, 1)
	assert.Equal(t, float64(3), stories[0].(map[string]interface{})["likes"])
}

func TestReportEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, payload := env.do(t, http.MethodPost, "/api/report", map[string]interface{}{
		"conversationId": "conv-1",
		"report": map[string]interface{}{
			"userId": "user-a", "reason": "harassment", "details": "details here",
		},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := payload["report"].(map[string]interface{})
	assert.Equal(t, "user-a", report["reportedBy"])
	assert.Equal(t, "pending", report["status"])

	rec, _ = env.do(t, http.MethodPost, "/api/report", map[string]interface{}{"conversationId": "conv-1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	env := newTestEnv(t)
	env.stores.Users.Put(adminUser(t, "admin-1", "admin@example.com"))

	// No token at all.
	rec, _ := env.do(t, http.MethodGet, "/api/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Regular user token.
	_, payload := env.do(t, http.MethodPost, "/api/signup", map[string]interface{}{
		"email": "pleb@example.com", "password": "secret123",
	}, nil)
	userToken := payload["token"].(string)
	rec, _ = env.do(t, http.MethodGet, "/api/users", nil, bearer(userToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin token.
	rec, payload = env.do(t, http.MethodPost, "/api/login", map[string]interface{}{
		"email": "admin@example.com", "password": "password",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	adminToken := payload["token"].(string)

	rec, payload = env.do(t, http.MethodGet, "/api/users", nil, bearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)
	users := payload["users"].([]interface{})
	require.NotEmpty(t, users)
	for _, u := range users {
		_, hasPassword := u.(map[string]interface{})["password"]
		assert.False(t, hasPassword)
	}

	rec, payload = env.do(t, http.MethodGet, "/api/admin/reports", nil, bearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, payload["reports"])
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func adminUser(t *testing.T, id, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.User{
		ID: id, Email: email, PasswordHash: string(hash),
		Role:    models.RoleAdmin,
		Profile: models.ProfileData{"name": "Admin"},
	}
}
