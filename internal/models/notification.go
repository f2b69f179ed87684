package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationStatus represents the dispatch state of a notification
type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "SENT"
	NotificationStatusFailed NotificationStatus = "FAILED"
)

// Notification records one winner-announcement dispatch attempt. Dispatch is
// best-effort; a failed notification never affects the draw that caused it.
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID       primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	WinnerRecordID primitive.ObjectID `bson:"winnerRecordId" json:"winnerRecordId"`
	Recipient      string             `bson:"recipient" json:"recipient"`
	Subject        string             `bson:"subject" json:"subject"`
	Body           string             `bson:"body" json:"body"`
	Status         NotificationStatus `bson:"status" json:"status"`
	StatusMessage  string             `bson:"statusMessage,omitempty" json:"statusMessage,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
