package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/generalink/backend/internal/models"
)

type MongoConversationService struct {
	client      *mongo.Client
	db          *mongo.Database
	messagesCol *mongo.Collection
	reportsCol  *mongo.Collection
}

func NewMongoConversationService(ctx context.Context, mongoURI, dbName string) (*MongoConversationService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	messages := db.Collection("messages")
	reports := db.Collection("reports")

	// Best-effort indexes.
	_, _ = messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	})
	_, _ = reports.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})

	return &MongoConversationService{
		client:      client,
		db:          db,
		messagesCol: messages,
		reportsCol:  reports,
	}, nil
}

func (s *MongoConversationService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoConversationService) Messages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	// _id breaks ties between rows created in the same millisecond, since
	// BSON datetimes carry no finer precision.
	cur, err := s.messagesCol.Find(ctx,
		bson.M{"conversation_id": conversationID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Message, 0)
	for cur.Next(ctx) {
		var msg models.Message
		if err := cur.Decode(&msg); err != nil {
			return nil, err
		}
		out = append(out, &msg)
	}
	return out, cur.Err()
}

func (s *MongoConversationService) AppendMessage(ctx context.Context, conversationID string, payload *models.MessagePayload) (*models.Message, error) {
	msg := newMessage(conversationID, payload)
	if _, err := s.messagesCol.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MongoConversationService) SubmitReport(ctx context.Context, conversationID string, payload *models.ReportPayload) (*models.Report, error) {
	rep := newReport(conversationID, payload)
	if _, err := s.reportsCol.InsertOne(ctx, rep); err != nil {
		return nil, err
	}

	// The submit response omits the conversation id.
	resp := *rep
	resp.ConversationID = ""
	return &resp, nil
}

func (s *MongoConversationService) AllReports(ctx context.Context) ([]*models.Report, error) {
	cur, err := s.reportsCol.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Report, 0)
	for cur.Next(ctx) {
		var rep models.Report
		if err := cur.Decode(&rep); err != nil {
			return nil, err
		}
		out = append(out, &rep)
	}
	return out, cur.Err()
}
