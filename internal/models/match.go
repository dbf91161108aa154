package models

import "time"

// MatchEdge is a directional record: UserID proposed a connection to MatchID.
// Listing is bidirectional (edges in either direction surface the pairing) but
// removal only ever deletes the exact initiated edge.
type MatchEdge struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	MatchID   string    `json:"match_id" bson:"match_id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type CreateMatchRequest struct {
	UserID  string `json:"userId"`
	MatchID string `json:"matchId"`
}
