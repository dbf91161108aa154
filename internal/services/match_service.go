package services

import (
	"context"
	"sync"
	"time"

	"github.com/generalink/backend/internal/models"
)

// MatchService records confirmed match edges and recommends candidates.
//
// Edges are directional. A pair is visible to both parties once either has
// initiated it, but RemoveMatch only deletes the exact (user, match) edge the
// caller names: if the edge was recorded with the parties swapped, removal is
// a silent no-op.
type MatchService interface {
	// PotentialMatches returns candidate profiles for the user: strictly
	// opposite cohort, not self, not already initiated-matched, each with
	// an "id" and a similarity "score" attached. An unknown user yields an
	// empty list, not an error.
	PotentialMatches(ctx context.Context, userID string) ([]models.ProfileData, error)
	// SaveMatch upserts one directional edge keyed by the (user, match) pair.
	SaveMatch(ctx context.Context, userID, matchID string) error
	// Matches unions edges in both directions and resolves each to the other
	// party's profile with "id" attached. Unresolvable parties are skipped.
	Matches(ctx context.Context, userID string) ([]models.ProfileData, error)
	// RemoveMatch deletes exactly the (userID, matchID) edge.
	RemoveMatch(ctx context.Context, userID, matchID string) error
}

// candidateProfile clones a user's profile and attaches the fields the
// matching surfaces expect on each entry.
func candidateProfile(u *models.User) models.ProfileData {
	p := u.Profile
	if p == nil {
		p = models.ProfileData{}
	}
	out := p.Clone()
	out["id"] = u.ID
	return out
}

// potentialMatches runs the recommendation filter over all known users. Both
// implementations share it; only edge storage differs.
func potentialMatches(requester *models.User, all []*models.User, initiated map[string]bool) []models.ProfileData {
	cohort := requester.Profile.AgeGroup()
	interests := requester.Profile.Interests()

	candidates := make([]models.ProfileData, 0)
	for _, u := range all {
		if u.ID == requester.ID || initiated[u.ID] {
			continue
		}
		// Strict opposite-cohort filter: same-group users never surface.
		if u.Profile.AgeGroup() == cohort {
			continue
		}
		c := candidateProfile(u)
		c["score"] = Similarity(interests, u.Profile.Interests())
		candidates = append(candidates, c)
	}
	return candidates
}

// MemoryMatchService keeps edges in a map keyed by the directional pair.
type MemoryMatchService struct {
	mu    sync.RWMutex
	edges map[string]*models.MatchEdge // "userID|matchID" -> edge
	users UserService
}

func NewMemoryMatchService(users UserService) *MemoryMatchService {
	return &MemoryMatchService{
		edges: make(map[string]*models.MatchEdge),
		users: users,
	}
}

func edgeKey(userID, matchID string) string {
	return userID + "|" + matchID
}

func (s *MemoryMatchService) PotentialMatches(ctx context.Context, userID string) ([]models.ProfileData, error) {
	requester, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == ErrUserNotFound {
			return []models.ProfileData{}, nil
		}
		return nil, err
	}

	all, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	initiated := make(map[string]bool)
	for _, e := range s.edges {
		if e.UserID == userID {
			initiated[e.MatchID] = true
		}
	}
	s.mu.RUnlock()

	return potentialMatches(requester, all, initiated), nil
}

func (s *MemoryMatchService) SaveMatch(ctx context.Context, userID, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-creating the same pair overwrites, never duplicates.
	s.edges[edgeKey(userID, matchID)] = &models.MatchEdge{
		UserID:    userID,
		MatchID:   matchID,
		Timestamp: time.Now(),
	}
	return nil
}

func (s *MemoryMatchService) Matches(ctx context.Context, userID string) ([]models.ProfileData, error) {
	s.mu.RLock()
	partnerIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, e := range s.edges {
		var other string
		switch {
		case e.UserID == userID:
			other = e.MatchID
		case e.MatchID == userID:
			other = e.UserID
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			partnerIDs = append(partnerIDs, other)
		}
	}
	s.mu.RUnlock()

	return s.resolvePartners(ctx, partnerIDs)
}

func (s *MemoryMatchService) resolvePartners(ctx context.Context, partnerIDs []string) ([]models.ProfileData, error) {
	out := make([]models.ProfileData, 0, len(partnerIDs))
	for _, id := range partnerIDs {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			if err == ErrUserNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, candidateProfile(u))
	}
	return out, nil
}

func (s *MemoryMatchService) RemoveMatch(ctx context.Context, userID, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Directional delete only; a swapped-direction edge survives.
	delete(s.edges, edgeKey(userID, matchID))
	return nil
}
