package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/generalink/backend/internal/models"
)

type MongoStoryService struct {
	client     *mongo.Client
	db         *mongo.Database
	storiesCol *mongo.Collection
	users      UserService
}

func NewMongoStoryService(ctx context.Context, mongoURI, dbName string, users UserService) (*MongoStoryService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("stories")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})

	return &MongoStoryService{client: client, db: db, storiesCol: col, users: users}, nil
}

func (s *MongoStoryService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStoryService) List(ctx context.Context) ([]*models.StoryView, error) {
	cur, err := s.storiesCol.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.StoryView, 0)
	for cur.Next(ctx) {
		var story models.Story
		if err := cur.Decode(&story); err != nil {
			return nil, err
		}
		out = append(out, enrichStory(&story, s.lookupAuthor(ctx, story.AuthorID)))
	}
	return out, cur.Err()
}

func (s *MongoStoryService) lookupAuthor(ctx context.Context, authorID string) *models.User {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil
	}
	return author
}

func (s *MongoStoryService) Create(ctx context.Context, authorID, content string) (*models.StoryView, error) {
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

	if _, err := s.storiesCol.InsertOne(ctx, story); err != nil {
		return nil, err
	}

	// Re-fetch so creation returns the same enriched shape as the listing.
	var stored models.Story
	if err := s.storiesCol.FindOne(ctx, bson.M{"_id": story.ID}).Decode(&stored); err != nil {
		return nil, err
	}
	return enrichStory(&stored, s.lookupAuthor(ctx, authorID)), nil
}

func (s *MongoStoryService) Like(ctx context.Context, storyID string) error {
	// Single $inc, so concurrent likes cannot clobber each other.
	res, err := s.storiesCol.UpdateOne(ctx,
		bson.M{"_id": storyID},
		bson.M{"$inc": bson.M{"likes": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStoryNotFound
	}
	return nil
}
