package services

import (
	"errors"
	"fmt"
	"strings"
)

// Draw and allocation failure conditions. Every failure aborts the operation
// with no partial writes; callers surface these to the operator.
var (
	// ErrAllWinnersSelected is returned when the raffle already has
	// maxWinners active winner records.
	ErrAllWinnersSelected = errors.New("all winners have already been selected for this raffle")

	// ErrEmptyPool is returned when the ticket pool has no tickets at all.
	ErrEmptyPool = errors.New("ticket pool is empty")

	// ErrNoAvailableTickets is returned when every ticket is already bound
	// to an active winner record.
	ErrNoAvailableTickets = errors.New("no tickets available after excluding prior winners")

	// ErrDataCorruption indicates a dangling reference (a winning ticket
	// whose owning entry no longer exists). It must be logged loudly.
	ErrDataCorruption = errors.New("ticket references a missing entry")

	// ErrEntryNotCompleted is returned when ticket allocation is requested
	// for an entry whose payment has not completed.
	ErrEntryNotCompleted = errors.New("entry payment is not completed")

	// ErrDirectPurchase is returned when ticket allocation is requested for
	// a direct-merchandise purchase.
	ErrDirectPurchase = errors.New("entry is a direct purchase, not a raffle entry")
)

// TicketIntegrityError is returned when a draw is refused because the ticket
// pool fails its integrity check. The operator must rebuild before retrying.
type TicketIntegrityError struct {
	Issues []string
}

func (e *TicketIntegrityError) Error() string {
	return fmt.Sprintf("ticket pool failed integrity check: %s", strings.Join(e.Issues, "; "))
}
