package models

import "time"

// ReportStatusPending is the initial (and currently only) report status.
const ReportStatusPending = "pending"

type Report struct {
	ID             string    `json:"id" bson:"_id"`
	ConversationID string    `json:"conversationId,omitempty" bson:"conversation_id"`
	ReportedBy     string    `json:"reportedBy" bson:"reported_by"`
	Reason         string    `json:"reason" bson:"reason"`
	Details        string    `json:"details" bson:"details"`
	Timestamp      string    `json:"timestamp" bson:"timestamp"`
	Status         string    `json:"status" bson:"status"`
	CreatedAt      time.Time `json:"-" bson:"created_at"`
}

type SubmitReportRequest struct {
	ConversationID string         `json:"conversationId"`
	Report         *ReportPayload `json:"report"`
}

type ReportPayload struct {
	UserID  string `json:"userId"`
	Reason  string `json:"reason"`
	Details string `json:"details"`
}
