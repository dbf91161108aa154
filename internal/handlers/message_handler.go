package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/realtime"
	"github.com/generalink/backend/internal/services"
)

type MessageHandler struct {
	conversations services.ConversationService
	hub           *realtime.Hub
}

// NewMessageHandler wires chat history and sends. hub may be nil when no
// websocket fan-out is running (tests).
func NewMessageHandler(conversations services.ConversationService, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{conversations: conversations, hub: hub}
}

func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")

	ctx, cancel := requestContext(r)
	defer cancel()

	messages, err := h.conversations.Messages(ctx, conversationID)
	if err != nil {
		log.Printf("[GetMessages] conversation=%s error=%v", conversationID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load messages"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("messages", messages)))
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.ConversationID == "" || req.Message == nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing conversationId or message"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	message, err := h.conversations.AppendMessage(ctx, req.ConversationID, req.Message)
	if err != nil {
		log.Printf("[SendMessage] conversation=%s error=%v", req.ConversationID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send message"))
		return
	}

	if h.hub != nil {
		h.hub.BroadcastNewMessage(req.ConversationID, message)
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("message", message)))
}
