package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/generalink/backend/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
)

// UserService stores user records: credentials, profile data, role.
type UserService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdateProfile merges updates into profile_data as a shallow key
	// overwrite and returns the merged profile.
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (models.ProfileData, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}

// newEntityID builds ids like "user-1717171717123-a1b2c3d4". The timestamp
// keeps them roughly ordered; the uuid fragment keeps same-millisecond
// creations from colliding now that every record is its own row.
func newEntityID(prefix string) string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), frag)
}

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// newSignupUser builds the stored record for a fresh signup: hashed password,
// default badge, unverified.
func newSignupUser(req *models.SignupRequest) (*models.User, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = "New User"
	}

	return &models.User{
		ID:           newEntityID("user"),
		Email:        req.Email,
		PasswordHash: hashed,
		Phone:        req.Phone,
		NRIC:         req.NRIC,
		Role:         models.RoleUser,
		Profile: models.ProfileData{
			"name":     name,
			"badges":   []string{"First Connection"},
			"verified": false,
		},
		CreatedAt: time.Now(),
	}, nil
}

// MemoryUserService is the in-memory implementation used in tests and when no
// Mongo URI is configured.
//
// Reads hand out copies and profile updates swap in a freshly merged map, so
// no caller ever holds a map the store will mutate under it.
type MemoryUserService struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string // email -> userID
}

func cloneUser(u *models.User) *models.User {
	out := *u
	out.Profile = u.Profile.Clone()
	return &out
}

func NewMemoryUserService() *MemoryUserService {
	return &MemoryUserService{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	user, err := newSignupUser(req)
	if err != nil {
		return nil, err
	}

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return cloneUser(user), nil
}

func (s *MemoryUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.byEmail[email]
	if !exists {
		return nil, ErrUserNotFound
	}

	user := s.users[userID]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return cloneUser(user), nil
}

func (s *MemoryUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *MemoryUserService) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (models.ProfileData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}

	// Copy-on-write: merge into a clone and swap it in, so readers holding
	// the previous map never see it mutate.
	merged := user.Profile.Clone()
	merged.Merge(updates)
	user.Profile = merged
	return merged.Clone(), nil
}

func (s *MemoryUserService) ListAll(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put inserts a user record directly, bypassing signup. Used by seeding.
func (s *MemoryUserService) Put(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
}
