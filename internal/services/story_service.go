package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/generalink/backend/internal/models"
)

var ErrStoryNotFound = errors.New("story not found")

// StoryService is the community story feed. Author display fields are not
// stored on the story; they are resolved from the author's current profile at
// read time, so profile edits retroactively change how old stories render.
type StoryService interface {
	// List returns all stories newest-first, enriched.
	List(ctx context.Context) ([]*models.StoryView, error)
	Create(ctx context.Context, authorID, content string) (*models.StoryView, error)
	// Like increments the like counter. There is no per-user dedup record, so
	// repeat likes from the same user all count.
	Like(ctx context.Context, storyID string) error
}

// enrichStory joins the author's current display fields onto the stored story.
// A missing author leaves those fields empty rather than failing the listing.
func enrichStory(story *models.Story, author *models.User) *models.StoryView {
	view := &models.StoryView{
		ID:        story.ID,
		AuthorID:  story.AuthorID,
		Content:   story.Content,
		Timestamp: story.Timestamp,
		Likes:     story.Likes,
		Badges:    story.BadgeList(),
	}
	if author != nil {
		view.AuthorName = author.Profile.Name()
		view.AuthorAgeGroup = author.Profile.AgeGroup()
		view.AuthorAge = author.Profile.Age()
	}
	return view
}

type MemoryStoryService struct {
	mu      sync.RWMutex
	stories map[string]*models.Story
	order   []string // insertion order of story ids
	users   UserService
}

func NewMemoryStoryService(users UserService) *MemoryStoryService {
	return &MemoryStoryService{
		stories: make(map[string]*models.Story),
		users:   users,
	}
}

func (s *MemoryStoryService) List(ctx context.Context) ([]*models.StoryView, error) {
	s.mu.RLock()
	ordered := make([]*models.Story, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if st, ok := s.stories[s.order[i]]; ok {
			copied := *st
			ordered = append(ordered, &copied)
		}
	}
	s.mu.RUnlock()

	out := make([]*models.StoryView, 0, len(ordered))
	for _, st := range ordered {
		out = append(out, enrichStory(st, s.lookupAuthor(ctx, st.AuthorID)))
	}
	return out, nil
}

func (s *MemoryStoryService) lookupAuthor(ctx context.Context, authorID string) *models.User {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil
	}
	return author
}

func (s *MemoryStoryService) Create(ctx context.Context, authorID, content string) (*models.StoryView, error) {
	now := time.Now()
	story := &models.Story{
		ID:        newEntityID("story"),
		AuthorID:  authorID,
		Content:   content,
		Timestamp: now.Format(time.RFC3339Nano),
		Likes:     0,
		Badges:    "",
		CreatedAt: now,
	}

	s.mu.Lock()
	s.stories[story.ID] = story
	s.order = append(s.order, story.ID)
	// Enrich a copy; the stored record may already be taking likes.
	copied := *story
	s.mu.Unlock()

	return enrichStory(&copied, s.lookupAuthor(ctx, authorID)), nil
}

func (s *MemoryStoryService) Like(ctx context.Context, storyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	story, exists := s.stories[storyID]
	if !exists {
		return ErrStoryNotFound
	}
	story.Likes++
	return nil
}
