package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket represents one numbered raffle chance. Across the whole pool the
// numbers form a contiguous run 1..T; tickets for a single entry occupy a
// contiguous sub-range in payment-completion order.
type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID  primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	EntryID   primitive.ObjectID `bson:"entryId" json:"entryId"`
	Email     string             `bson:"email" json:"email"`
	Number    int                `bson:"number" json:"number"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
