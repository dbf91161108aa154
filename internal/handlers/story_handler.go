package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/services"
)

type StoryHandler struct {
	stories services.StoryService
}

func NewStoryHandler(stories services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// ListStories returns the feed newest-first, each story enriched with the
// author's current display name, age group, and age.
func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	stories, err := h.stories.List(ctx)
	if err != nil {
		log.Printf("[ListStories] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load stories"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("stories", stories)))
}

func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.AuthorID == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing fields"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	story, err := h.stories.Create(ctx, req.AuthorID, req.Content)
	if err != nil {
		log.Printf("[CreateStory] author=%s error=%v", req.AuthorID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create story"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("story", story)))
}

func (h *StoryHandler) LikeStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyId")

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.stories.Like(ctx, storyID); err != nil {
		if err == services.ErrStoryNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Story not found"))
			return
		}
		log.Printf("[LikeStory] story=%s error=%v", storyID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to like story"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil))
}
