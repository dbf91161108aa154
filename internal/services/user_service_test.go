package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/generalink/backend/internal/models"
)

func TestMemoryUserServiceSignup(t *testing.T) {
	svc := NewMemoryUserService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, &models.SignupRequest{
		Email:    "margaret@example.com",
		Password: "secret123",
		Name:     "Margaret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "margaret@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.Equal(t, "Margaret", user.Profile.Name())
	assert.Equal(t, false, user.Profile["verified"])
}

func TestMemoryUserServiceSignupDuplicateEmail(t *testing.T) {
	svc := NewMemoryUserService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &models.SignupRequest{Email: "a@b.com", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestMemoryUserServiceSignupDefaultName(t *testing.T) {
	svc := NewMemoryUserService()

	user, err := svc.Signup(context.Background(), &models.SignupRequest{
		Email:    "anon@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "New User", user.Profile.Name())
}

func TestMemoryUserServiceAuthenticate(t *testing.T) {
	svc := NewMemoryUserService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, &models.SignupRequest{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate(ctx, "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Authenticate(ctx, "nobody@b.com", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserServiceUpdateProfileShallowMerge(t *testing.T) {
	svc := NewMemoryUserService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, &models.SignupRequest{Email: "a@b.com", Password: "secret123", Name: "Before"})
	require.NoError(t, err)

	profile, err := svc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		"name":      "After",
		"interests": []string{"cooking"},
	})
	require.NoError(t, err)

	assert.Equal(t, "After", profile.Name())
	assert.Equal(t, []string{"cooking"}, profile.Interests())
	// Keys not named in the update survive.
	assert.Equal(t, false, profile["verified"])
}

func TestMemoryUserServiceGetByIDReturnsCopy(t *testing.T) {
	svc := NewMemoryUserService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, &models.SignupRequest{Email: "a@b.com", Password: "secret123", Name: "Original"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Profile["name"] = "Mutated"

	again, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Profile.Name())
}

func TestMemoryUserServiceConcurrentUpdateAndRead(t *testing.T) {
	svc := NewMemoryUserService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, &models.SignupRequest{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, err := svc.UpdateProfile(ctx, created.ID, map[string]interface{}{"bio": "updated"})
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			user, err := svc.GetByID(ctx, created.ID)
			assert.NoError(t, err)
			for range user.Profile {
			}
		}
	}()
	wg.Wait()
}

func TestMemoryUserServiceUpdateProfileUnknownUser(t *testing.T) {
	svc := NewMemoryUserService()

	_, err := svc.UpdateProfile(context.Background(), "user-missing", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSeedUsersFixtures(t *testing.T) {
	users := SeedUsers()
	require.Len(t, users, 3)

	svc := NewMemoryUserService()
	for _, u := range users {
		svc.Put(u)
	}

	margaret, err := svc.Authenticate(context.Background(), users[0].Email, "password")
	require.NoError(t, err)
	assert.Equal(t, "senior", margaret.Profile.AgeGroup())
}
