package models

import (
	"strings"
	"time"
)

// Story is the stored form. Badges persist as a comma-joined string and are
// exploded to a list on the way out.
type Story struct {
	ID        string    `json:"id" bson:"_id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	Timestamp string    `json:"timestamp" bson:"timestamp"`
	Likes     int       `json:"likes" bson:"likes"`
	Badges    string    `json:"-" bson:"badges"`
	CreatedAt time.Time `json:"-" bson:"created_at"`
}

// StoryView is the enriched representation returned to clients. Author display
// fields are resolved from the author's current profile at read time, so a
// profile edit retroactively changes how past stories render.
type StoryView struct {
	ID             string   `json:"id"`
	AuthorID       string   `json:"author_id"`
	Content        string   `json:"content"`
	Timestamp      string   `json:"timestamp"`
	Likes          int      `json:"likes"`
	Badges         []string `json:"badges"`
	AuthorName     string   `json:"author_name,omitempty"`
	AuthorAgeGroup string   `json:"author_age_group,omitempty"`
	AuthorAge      int      `json:"author_age,omitempty"`
}

// BadgeList explodes the comma-joined badge string; empty string means no badges.
func (s *Story) BadgeList() []string {
	if s.Badges == "" {
		return []string{}
	}
	return strings.Split(s.Badges, ",")
}

type CreateStoryRequest struct {
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
}
