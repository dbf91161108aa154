package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/services"
)

type MatchHandler struct {
	matches services.MatchService
}

func NewMatchHandler(matches services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// GetPotentialMatches lists opposite-cohort candidates scored by interest
// overlap. An unknown requester yields an empty list, not an error.
func (h *MatchHandler) GetPotentialMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing userId"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	candidates, err := h.matches.PotentialMatches(ctx, userID)
	if err != nil {
		log.Printf("[GetPotentialMatches] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load matches"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("matches", candidates)))
}

func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing userId"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	matches, err := h.matches.Matches(ctx, userID)
	if err != nil {
		log.Printf("[GetMatches] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load matches"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("matches", matches)))
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.UserID == "" || req.MatchID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing IDs"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.matches.SaveMatch(ctx, req.UserID, req.MatchID); err != nil {
		log.Printf("[CreateMatch] user=%s match=%s error=%v", req.UserID, req.MatchID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save match"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("message", "Match created")))
}

// RemoveMatch deletes only the edge stored under the caller's own id. A
// reciprocal edge saved by the partner keeps the pair visible to both sides.
func (h *MatchHandler) RemoveMatch(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	matchID := r.URL.Query().Get("matchId")
	if userID == "" || matchID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing IDs"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := h.matches.RemoveMatch(ctx, userID, matchID); err != nil {
		log.Printf("[RemoveMatch] user=%s match=%s error=%v", userID, matchID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove match"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("message", "Match removed")))
}
