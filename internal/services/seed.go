package services

import (
	"time"

	"github.com/generalink/backend/internal/models"
)

// SeedUsers returns the fixture accounts inserted into an empty database.
// All fixture accounts share the password "password".
func SeedUsers() []*models.User {
	seedPasswordHash, err := hashPassword("password")
	if err != nil {
		panic(err)
	}
	now := time.Now()
	return []*models.User{
		{
			ID: "1", Email: "margaret@example.com", PasswordHash: seedPasswordHash,
			Phone: "11111111", NRIC: "111A", Role: models.RoleUser, CreatedAt: now,
			Profile: models.ProfileData{
				"name": "Margaret Chen", "ageGroup": "senior", "age": 68,
				"interests": []string{"Cooking & Recipes", "History & Heritage", "Life Stories"},
				"bio":       "Retired teacher who loves sharing traditional Peranakan recipes and Singapore's history.",
				"canShare":  "Traditional cooking methods, stories from 1960s Singapore",
				"wantToLearn": "How to use video calls", "verified": true,
			},
		},
		{
			ID: "2", Email: "weijie@example.com", PasswordHash: seedPasswordHash,
			Phone: "22222222", NRIC: "222A", Role: models.RoleUser, CreatedAt: now,
			Profile: models.ProfileData{
				"name": "Wei Jie", "ageGroup": "youth", "age": 19,
				"interests": []string{"Technology", "Music & Arts", "Languages"},
				"bio":       "University student studying computer science.",
				"canShare":  "Tech support, social media basics",
				"wantToLearn": "Life wisdom, traditional Chinese calligraphy", "verified": true,
			},
		},
		{
			ID: "3", Email: "tan@example.com", PasswordHash: seedPasswordHash,
			Phone: "33333333", NRIC: "333A", Role: models.RoleUser, CreatedAt: now,
			Profile: models.ProfileData{
				"name": "Uncle Tan", "ageGroup": "senior", "age": 72,
				"interests": []string{"Gardening", "Sports & Fitness", "Travel"},
				"bio":       "Former national athlete and gardening enthusiast.",
				"canShare":  "Gardening tips, fitness routines",
				"wantToLearn": "Smartphone apps for tracking fitness", "verified": true,
			},
		},
	}
}

// SeedStories returns the fixture community stories.
func SeedStories() []*models.Story {
	now := time.Now()
	return []*models.Story{
		{
			ID: "1", AuthorID: "1",
			Content:   "Today I spent a wonderful afternoon teaching Wei Jie how to make traditional kueh lapis! 🎂 He was so patient learning each layer. In return, he showed me how to use video calls on my phone. Now I can see my grandchildren in London anytime! This is what GeneraLink is all about - sharing knowledge across generations. ❤️",
			Likes:     47,
			Badges:    "Storyteller,Verified",
			Timestamp: now.Format(time.RFC3339Nano),
			CreatedAt: now,
		},
		{
			ID: "3", AuthorID: "2",
			Content:   "Just had the most amazing conversation with Mdm Lim about her experience during Singapore's independence! 🇸🇬 Her stories brought my history textbook to life. She also taught me traditional Chinese calligraphy - my first attempt at writing '友谊' (friendship). Thank you for sharing your wisdom, Mdm Lim! 🙏",
			Likes:     134,
			Badges:    "History Buff,First Connection",
			Timestamp: now.Add(time.Second).Format(time.RFC3339Nano),
			CreatedAt: now.Add(time.Second),
		},
	}
}
