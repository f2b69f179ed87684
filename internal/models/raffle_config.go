package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelectionState represents how far winner selection has progressed
// for a raffle.
type SelectionState string

const (
	SelectionStateNoWinnersYet      SelectionState = "NO_WINNERS_YET"
	SelectionStatePartiallySelected SelectionState = "PARTIALLY_SELECTED"
	SelectionStateComplete          SelectionState = "COMPLETE"
)

// RaffleConfig represents one raffle's configuration. TotalEntries is a
// cached, potentially-stale view of the true sum over completed entries;
// external reconciliation keeps it in sync.
type RaffleConfig struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	EndDate       time.Time          `bson:"endDate" json:"endDate"`
	TicketPrice   float64            `bson:"ticketPrice" json:"ticketPrice"`
	MaxWinners    int                `bson:"maxWinners" json:"maxWinners"`
	TotalEntries  int                `bson:"totalEntries" json:"totalEntries"`
	WinnerEmail   string             `bson:"winnerEmail,omitempty" json:"winnerEmail,omitempty"`
	WinnerDrawnAt time.Time          `bson:"winnerDrawnAt,omitempty" json:"winnerDrawnAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveMaxWinners returns MaxWinners with the single-winner default applied.
func (r *RaffleConfig) EffectiveMaxWinners() int {
	if r.MaxWinners <= 0 {
		return 1
	}
	return r.MaxWinners
}

// SelectionStateFor derives the per-raffle winner state machine position
// from the count of active winner records.
func (r *RaffleConfig) SelectionStateFor(activeWinners int) SelectionState {
	switch {
	case activeWinners == 0:
		return SelectionStateNoWinnersYet
	case activeWinners < r.EffectiveMaxWinners():
		return SelectionStatePartiallySelected
	default:
		return SelectionStateComplete
	}
}
