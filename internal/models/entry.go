package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus represents the payment state of an entry
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Entry represents one purchase transaction. A raffle-type entry buys
// Quantity raffle slots; a direct-purchase entry buys merchandise and
// never participates in ticket allocation.
type Entry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID       primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	Email          string             `bson:"email" json:"email"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	AmountPaid     float64            `bson:"amountPaid" json:"amountPaid"`
	PaymentStatus  PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentRef     string             `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	ProductID      string             `bson:"productId" json:"productId"`
	DirectPurchase bool               `bson:"directPurchase" json:"directPurchase"`
	CompletedAt    time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsRaffleEntry reports whether tickets may be minted for this entry.
func (e *Entry) IsRaffleEntry() bool {
	return !e.DirectPurchase && e.PaymentStatus == PaymentStatusCompleted
}

// NormalizeEmail lowercases and trims a buyer email before storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
