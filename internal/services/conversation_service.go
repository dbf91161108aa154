package services

import (
	"context"
	"sync"
	"time"

	"github.com/generalink/backend/internal/models"
)

// ConversationService holds two append-only logs per conversation id:
// messages and abuse reports. A conversation id is an opaque grouping key.
// There is no membership record; any two participants sharing the id read
// and write the same logs.
//
// Entries are individual rows rather than a whole serialized list per key, so
// concurrent appends to the same conversation cannot lose each other.
type ConversationService interface {
	// Messages returns the conversation's log in insertion order; an unknown
	// id yields an empty list.
	Messages(ctx context.Context, conversationID string) ([]*models.Message, error)
	AppendMessage(ctx context.Context, conversationID string, msg *models.MessagePayload) (*models.Message, error)
	SubmitReport(ctx context.Context, conversationID string, rep *models.ReportPayload) (*models.Report, error)
	// AllReports is the administrative listing: every report across all
	// conversations, newest first, conversation id attached.
	AllReports(ctx context.Context) ([]*models.Report, error)
}

func newMessage(conversationID string, payload *models.MessagePayload) *models.Message {
	now := time.Now()
	return &models.Message{
		ID:             newEntityID("msg"),
		ConversationID: conversationID,
		SenderID:       payload.SenderID,
		Text:           payload.Text,
		Timestamp:      now.Format(time.RFC3339Nano),
		CreatedAt:      now,
	}
}

func newReport(conversationID string, payload *models.ReportPayload) *models.Report {
	now := time.Now()
	return &models.Report{
		ID:             newEntityID("report"),
		ConversationID: conversationID,
		ReportedBy:     payload.UserID,
		Reason:         payload.Reason,
		Details:        payload.Details,
		Timestamp:      now.Format(time.RFC3339Nano),
		Status:         models.ReportStatusPending,
		CreatedAt:      now,
	}
}

type MemoryConversationService struct {
	mu       sync.RWMutex
	messages map[string][]*models.Message // conversationID -> ordered log
	reports  []*models.Report             // all reports, insertion order
}

func NewMemoryConversationService() *MemoryConversationService {
	return &MemoryConversationService{
		messages: make(map[string][]*models.Message),
	}
}

func (s *MemoryConversationService) Messages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.messages[conversationID]
	out := make([]*models.Message, len(log))
	copy(out, log)
	return out, nil
}

func (s *MemoryConversationService) AppendMessage(ctx context.Context, conversationID string, payload *models.MessagePayload) (*models.Message, error) {
	msg := newMessage(conversationID, payload)

	s.mu.Lock()
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	s.mu.Unlock()

	return msg, nil
}

func (s *MemoryConversationService) SubmitReport(ctx context.Context, conversationID string, payload *models.ReportPayload) (*models.Report, error) {
	rep := newReport(conversationID, payload)

	s.mu.Lock()
	s.reports = append(s.reports, rep)
	s.mu.Unlock()

	// The submit response omits the conversation id.
	resp := *rep
	resp.ConversationID = ""
	return &resp, nil
}

func (s *MemoryConversationService) AllReports(ctx context.Context) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Report, 0, len(s.reports))
	for i := len(s.reports) - 1; i >= 0; i-- {
		out = append(out, s.reports[i])
	}
	return out, nil
}
