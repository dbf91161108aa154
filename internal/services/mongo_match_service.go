package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/generalink/backend/internal/models"
)

type MongoMatchService struct {
	client     *mongo.Client
	db         *mongo.Database
	matchesCol *mongo.Collection
	users      UserService
}

func NewMongoMatchService(ctx context.Context, mongoURI, dbName string, users UserService) (*MongoMatchService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("matches")

	// Best-effort indexes. The compound unique index is what makes SaveMatch
	// an overwrite rather than a duplicate.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "match_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "match_id", Value: 1}}},
	})

	return &MongoMatchService{client: client, db: db, matchesCol: col, users: users}, nil
}

func (s *MongoMatchService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoMatchService) PotentialMatches(ctx context.Context, userID string) ([]models.ProfileData, error) {
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

	cur, err := s.matchesCol.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	initiated := make(map[string]bool)
	for cur.Next(ctx) {
		var edge models.MatchEdge
		if err := cur.Decode(&edge); err != nil {
			return nil, err
		}
		initiated[edge.MatchID] = true
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return potentialMatches(requester, all, initiated), nil
}

func (s *MongoMatchService) SaveMatch(ctx context.Context, userID, matchID string) error {
	_, err := s.matchesCol.UpdateOne(ctx,
		bson.M{"user_id": userID, "match_id": matchID},
		bson.M{"$set": bson.M{
			"user_id":   userID,
			"match_id":  matchID,
			"timestamp": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoMatchService) Matches(ctx context.Context, userID string) ([]models.ProfileData, error) {
	cur, err := s.matchesCol.Find(ctx, bson.M{
		"$or": bson.A{
			bson.M{"user_id": userID},
			bson.M{"match_id": userID},
		},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	seen := make(map[string]bool)
	partnerIDs := make([]string, 0)
	for cur.Next(ctx) {
		var edge models.MatchEdge
		if err := cur.Decode(&edge); err != nil {
			return nil, err
		}
		other := edge.MatchID
		if edge.MatchID == userID {
			other = edge.UserID
		}
		if !seen[other] {
			seen[other] = true
			partnerIDs = append(partnerIDs, other)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

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

func (s *MongoMatchService) RemoveMatch(ctx context.Context, userID, matchID string) error {
	// Directional delete only; a swapped-direction edge survives.
	_, err := s.matchesCol.DeleteOne(ctx, bson.M{"user_id": userID, "match_id": matchID})
	return err
}
