package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WinnerStatus represents the lifecycle state of a winner record
type WinnerStatus string

const (
	WinnerStatusActive     WinnerStatus = "ACTIVE"
	WinnerStatusSuperseded WinnerStatus = "SUPERSEDED"
)

// WinnerRecord is an immutable audit record of one winning draw. Only the
// status and the contact/delivery bookkeeping fields are ever updated.
type WinnerRecord struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID            primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	EntryID             primitive.ObjectID `bson:"entryId" json:"entryId"`
	Email               string             `bson:"email" json:"email"`
	WinningTicketNumber int                `bson:"winningTicketNumber" json:"winningTicketNumber"`
	PoolSizeAtDraw      int                `bson:"poolSizeAtDraw" json:"poolSizeAtDraw"`
	RandomSeed          string             `bson:"randomSeed" json:"randomSeed"`
	VerificationHash    string             `bson:"verificationHash" json:"verificationHash"`
	SelectionMethod     string             `bson:"selectionMethod" json:"selectionMethod"`
	Status              WinnerStatus       `bson:"status" json:"status"`
	ContactedAt         time.Time          `bson:"contactedAt,omitempty" json:"contactedAt,omitempty"`
	PrizeDeliveredAt    time.Time          `bson:"prizeDeliveredAt,omitempty" json:"prizeDeliveredAt,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DrawResult is returned to the caller of a successful draw.
type DrawResult struct {
	WinnerRecordID      primitive.ObjectID `json:"winnerRecordId"`
	Email               string             `json:"email"`
	WinningTicketNumber int                `json:"winningTicketNumber"`
	PoolSize            int                `json:"poolSize"`
	VerificationHash    string             `json:"verificationHash"`
	RandomSeed          string             `json:"randomSeed"`
	WinnerIndex         int                `json:"winnerIndex"`
	RemainingSlots      int                `json:"remainingSlots"`
}

// VerificationResult is the outcome of recomputing a stored winner record's
// verification hash, plus the derived fairness statistics.
type VerificationResult struct {
	WinnerRecordID    primitive.ObjectID `json:"winnerRecordId"`
	IsValid           bool               `json:"isValid"`
	ExpectedHash      string             `json:"expectedHash"`
	StoredHash        string             `json:"storedHash"`
	WinnerTicketCount int                `json:"winnerTicketCount"`
	WinProbability    float64            `json:"winProbability"`
}
