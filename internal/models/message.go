package models

import "time"

type Message struct {
	ID             string    `json:"id" bson:"_id"`
	ConversationID string    `json:"-" bson:"conversation_id"`
	SenderID       string    `json:"senderId" bson:"sender_id"`
	Text           string    `json:"text" bson:"text"`
	Timestamp      string    `json:"timestamp" bson:"timestamp"`
	CreatedAt      time.Time `json:"-" bson:"created_at"`
}

type SendMessageRequest struct {
	ConversationID string          `json:"conversationId"`
	Message        *MessagePayload `json:"message"`
}

type MessagePayload struct {
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}
