package services

import (
	"log"
	"sort"
	"time"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/storage"
)

// DevState is the snapshot document for the in-memory services. When the
// server runs without a Mongo URI, state is loaded from disk at boot and
// written back on shutdown.
//
// The stored row types re-expose fields the API response shapes hide
// (password hashes, conversation ids, badge strings, created-at times) so a
// snapshot round-trip loses nothing.
type DevState struct {
	Users    []storedUser        `json:"users"`
	Edges    []*models.MatchEdge `json:"matches"`
	Messages []storedMessage     `json:"messages"`
	Reports  []storedReport      `json:"reports"`
	Stories  []storedStory       `json:"stories"`
}

type storedUser struct {
	models.User
	PasswordHash string `json:"password"`
}

type storedMessage struct {
	models.Message
	ConversationID string    `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type storedReport struct {
	models.Report
	CreatedAt time.Time `json:"createdAt"`
}

type storedStory struct {
	models.Story
	Badges    string    `json:"badges"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u storedUser) restore() *models.User {
	out := u.User
	out.PasswordHash = u.PasswordHash
	return &out
}

func (m storedMessage) restore() *models.Message {
	out := m.Message
	out.ConversationID = m.ConversationID
	out.CreatedAt = m.CreatedAt
	return &out
}

func (r storedReport) restore() *models.Report {
	out := r.Report
	out.CreatedAt = r.CreatedAt
	return &out
}

func (s storedStory) restore() *models.Story {
	out := s.Story
	out.Badges = s.Badges
	out.CreatedAt = s.CreatedAt
	return &out
}

// MemoryStores bundles the in-memory implementations behind one snapshot.
type MemoryStores struct {
	Users         *MemoryUserService
	Matches       *MemoryMatchService
	Conversations *MemoryConversationService
	Stories       *MemoryStoryService
}

func NewMemoryStores() *MemoryStores {
	users := NewMemoryUserService()
	return &MemoryStores{
		Users:         users,
		Matches:       NewMemoryMatchService(users),
		Conversations: NewMemoryConversationService(),
		Stories:       NewMemoryStoryService(users),
	}
}

// SeedIfEmpty mirrors the first-boot fixture load of the Mongo path.
func (m *MemoryStores) SeedIfEmpty() {
	if len(m.Users.users) > 0 {
		return
	}
	for _, u := range SeedUsers() {
		m.Users.Put(u)
	}
	for _, st := range SeedStories() {
		m.Stories.put(st)
	}
}

// Load restores a snapshot from the store, if one exists.
func (m *MemoryStores) Load(store *storage.JSONStore) error {
	var state DevState
	if err := store.Load(&state); err != nil {
		return err
	}

	for _, u := range state.Users {
		m.Users.Put(u.restore())
	}
	for _, e := range state.Edges {
		m.Matches.putEdge(e)
	}
	msgs := state.Messages
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	for _, msg := range msgs {
		m.Conversations.putMessage(msg.restore())
	}
	for _, rep := range state.Reports {
		m.Conversations.putReport(rep.restore())
	}
	stories := state.Stories
	sort.SliceStable(stories, func(i, j int) bool { return stories[i].CreatedAt.Before(stories[j].CreatedAt) })
	for _, st := range stories {
		m.Stories.put(st.restore())
	}
	return nil
}

// Save snapshots all in-memory state to the store.
func (m *MemoryStores) Save(store *storage.JSONStore) error {
	state := DevState{
		Edges: m.Matches.export(),
	}
	for _, u := range m.Users.export() {
		state.Users = append(state.Users, storedUser{User: *u, PasswordHash: u.PasswordHash})
	}
	for _, msg := range m.Conversations.exportMessages() {
		state.Messages = append(state.Messages, storedMessage{Message: *msg, ConversationID: msg.ConversationID, CreatedAt: msg.CreatedAt})
	}
	for _, rep := range m.Conversations.exportReports() {
		state.Reports = append(state.Reports, storedReport{Report: *rep, CreatedAt: rep.CreatedAt})
	}
	for _, st := range m.Stories.export() {
		state.Stories = append(state.Stories, storedStory{Story: *st, Badges: st.Badges, CreatedAt: st.CreatedAt})
	}
	if err := store.Save(&state); err != nil {
		return err
	}
	log.Printf("[devstate] snapshot saved: users=%d matches=%d messages=%d reports=%d stories=%d",
		len(state.Users), len(state.Edges), len(state.Messages), len(state.Reports), len(state.Stories))
	return nil
}

func (s *MemoryUserService) export() []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryMatchService) putEdge(e *models.MatchEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[edgeKey(e.UserID, e.MatchID)] = e
}

func (s *MemoryMatchService) export() []*models.MatchEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.MatchEdge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return edgeKey(out[i].UserID, out[i].MatchID) < edgeKey(out[j].UserID, out[j].MatchID)
	})
	return out
}

func (s *MemoryConversationService) putMessage(msg *models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], msg)
}

func (s *MemoryConversationService) putReport(rep *models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, rep)
}

func (s *MemoryConversationService) exportMessages() []*models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Message, 0)
	for _, log := range s.messages {
		out = append(out, log...)
	}
	return out
}

func (s *MemoryConversationService) exportReports() []*models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

func (s *MemoryStoryService) put(st *models.Story) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.stories[st.ID]; !exists {
		s.order = append(s.order, st.ID)
	}
	s.stories[st.ID] = st
}

func (s *MemoryStoryService) export() []*models.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Story, 0, len(s.order))
	for _, id := range s.order {
		if st, ok := s.stories[id]; ok {
			out = append(out, st)
		}
	}
	return out
}
