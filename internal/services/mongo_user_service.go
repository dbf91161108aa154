package services

import (
	"context"
	"crypto/tls"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/generalink/backend/internal/models"
)

// dialMongo opens a client with TLS pinned to 1.2. Atlas occasionally fails
// TLS negotiation in some environments unless we force it.
func dialMongo(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

type MongoUserService struct {
	client   *mongo.Client
	db       *mongo.Database
	usersCol *mongo.Collection
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("users")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoUserService{client: client, db: db, usersCol: col}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoUserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	count, err := s.usersCol.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	user, err := newSignupUser(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.usersCol.InsertOne(ctx, user); err != nil {
		// Unique email index closes the check-then-insert window.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *MongoUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return &user, nil
}

func (s *MongoUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (models.ProfileData, error) {
	// Read-merge-write: profile_data may still be in its legacy string form,
	// so the merged document is written back whole rather than via $set paths.
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = models.ProfileData{}
	}
	profile.Merge(updates)

	_, err = s.usersCol.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"profile_data": map[string]interface{}(profile)},
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *MongoUserService) ListAll(ctx context.Context) ([]*models.User, error) {
	cur, err := s.usersCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.User, 0)
	for cur.Next(ctx) {
		var user models.User
		if err := cur.Decode(&user); err != nil {
			return nil, err
		}
		out = append(out, &user)
	}
	return out, cur.Err()
}

// SeedIfEmpty inserts fixture users and stories when the users collection has
// no rows yet, mirroring first-boot behavior against a fresh database.
func (s *MongoUserService) SeedIfEmpty(ctx context.Context, stories *MongoStoryService) error {
	count, err := s.usersCol.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, u := range SeedUsers() {
		if _, err := s.usersCol.InsertOne(ctx, u); err != nil && !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	if stories != nil {
		for _, st := range SeedStories() {
			if _, err := stories.storiesCol.InsertOne(ctx, st); err != nil && !mongo.IsDuplicateKeyError(err) {
				return err
			}
		}
	}
	return nil
}
