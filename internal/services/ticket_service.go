package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// TicketService defines the interface for ticket allocation operations
type TicketService interface {
	AssignTickets(ctx context.Context, entryID primitive.ObjectID) (*models.AllocationResult, error)
	RebuildAllTickets(ctx context.Context) (*models.RebuildResult, error)
	ValidateIntegrity(ctx context.Context) (*models.IntegrityReport, error)
	GetTicketsByEntry(ctx context.Context, entryID primitive.ObjectID) ([]*models.Ticket, error)
}

// Compile-time check to ensure TicketServiceImpl implements TicketService
var _ TicketService = (*TicketServiceImpl)(nil)

// TicketServiceImpl assigns contiguous, gap-free ticket numbers to paid
// raffle entries. The allocMu mutex serializes the read-max-then-insert step
// so two concurrent allocations cannot compute the same start number; a
// rebuild holds the same lock for its full duration.
type TicketServiceImpl struct {
	entryRepo  repositories.EntryRepository
	ticketRepo repositories.TicketRepository
	allocMu    sync.Mutex
}

// NewTicketService creates a new TicketServiceImpl
func NewTicketService(entryRepo repositories.EntryRepository, ticketRepo repositories.TicketRepository) *TicketServiceImpl {
	return &TicketServiceImpl{
		entryRepo:  entryRepo,
		ticketRepo: ticketRepo,
	}
}

// AssignTickets mints Quantity tickets for a completed raffle entry,
// continuing the numbering from the current pool maximum. Calling it again
// for the same entry is a no-op that returns the existing assignment.
func (s *TicketServiceImpl) AssignTickets(ctx context.Context, entryID primitive.ObjectID) (*models.AllocationResult, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		slog.Error("AssignTickets: failed to find entry", "error", err, "entryId", entryID)
		return nil, fmt.Errorf("entry not found: %w", err)
	}

	if entry.PaymentStatus != models.PaymentStatusCompleted {
		slog.Warn("AssignTickets: entry payment not completed", "entryId", entryID, "status", entry.PaymentStatus)
		return nil, ErrEntryNotCompleted
	}
	if entry.DirectPurchase {
		slog.Warn("AssignTickets: entry is a direct purchase", "entryId", entryID, "productId", entry.ProductID)
		return nil, ErrDirectPurchase
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	// Duplicate trigger invocations must not mint twice.
	existing, err := s.ticketRepo.FindByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tickets: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("AssignTickets: tickets already exist for entry, skipping",
			"entryId", entryID, "count", len(existing))
		return &models.AllocationResult{
			EntryID:       entryID.Hex(),
			TicketsMinted: len(existing),
			StartNumber:   existing[0].Number,
			EndNumber:     existing[len(existing)-1].Number,
			AlreadyExists: true,
		}, nil
	}

	max, err := s.ticketRepo.MaxNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current max ticket number: %w", err)
	}

	start := max + 1
	tickets := make([]*models.Ticket, 0, entry.Quantity)
	for i := 0; i < entry.Quantity; i++ {
		tickets = append(tickets, &models.Ticket{
			RaffleID: entry.RaffleID,
			EntryID:  entry.ID,
			Email:    entry.Email,
			Number:   start + i,
		})
	}

	if err := s.ticketRepo.CreateMany(ctx, tickets); err != nil {
		slog.Error("AssignTickets: failed to create tickets", "error", err, "entryId", entryID)
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}

	end := start + entry.Quantity - 1
	slog.Info("Tickets assigned", "entryId", entryID, "count", entry.Quantity, "start", start, "end", end)
	return &models.AllocationResult{
		EntryID:       entryID.Hex(),
		TicketsMinted: entry.Quantity,
		StartNumber:   start,
		EndNumber:     end,
	}, nil
}

// RebuildAllTickets deletes every ticket and re-mints the pool from scratch,
// walking completed raffle entries in payment-completion order. It restores
// the contiguity invariant regardless of what drift existed before.
func (s *TicketServiceImpl) RebuildAllTickets(ctx context.Context) (*models.RebuildResult, error) {
	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	entries, err := s.entryRepo.FindCompletedRaffleEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed entries: %w", err)
	}

	deleted, err := s.ticketRepo.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete existing tickets: %w", err)
	}

	var tickets []*models.Ticket
	next := 1
	for _, entry := range entries {
		for i := 0; i < entry.Quantity; i++ {
			tickets = append(tickets, &models.Ticket{
				RaffleID: entry.RaffleID,
				EntryID:  entry.ID,
				Email:    entry.Email,
				Number:   next,
			})
			next++
		}
	}

	if len(tickets) > 0 {
		if err := s.ticketRepo.CreateMany(ctx, tickets); err != nil {
			slog.Error("RebuildAllTickets: failed to recreate tickets", "error", err)
			return nil, fmt.Errorf("failed to recreate tickets: %w", err)
		}
	}

	result := &models.RebuildResult{
		TicketsDeleted: int(deleted),
		TicketsCreated: len(tickets),
	}
	if len(tickets) > 0 {
		result.FirstNumber = 1
		result.LastNumber = len(tickets)
	}
	slog.Info("Ticket pool rebuilt", "deleted", deleted, "created", len(tickets), "entries", len(entries))
	return result, nil
}

// ValidateIntegrity checks the full ticket pool against the contiguity
// invariant (numbers are exactly 1..T) and the conservation invariant
// (T equals the sum of Quantity over completed raffle entries).
func (s *TicketServiceImpl) ValidateIntegrity(ctx context.Context) (*models.IntegrityReport, error) {
	tickets, err := s.ticketRepo.FindAllSortedByNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}
	expectedTotal, err := s.entryRepo.SumCompletedRaffleQuantity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum completed entry quantities: %w", err)
	}

	report := &models.IntegrityReport{
		ExpectedTotal: expectedTotal,
		ActualTotal:   len(tickets),
	}

	expected := 1
	for _, t := range tickets {
		switch {
		case t.Number == expected:
			expected++
		case t.Number < expected:
			report.Issues = append(report.Issues, fmt.Sprintf("duplicate ticket number %d", t.Number))
		default:
			for expected < t.Number {
				report.Issues = append(report.Issues, fmt.Sprintf("gap at position %d", expected))
				expected++
			}
			expected++
		}
	}

	if len(tickets) != expectedTotal {
		report.Issues = append(report.Issues,
			fmt.Sprintf("ticket count %d does not match expected total %d", len(tickets), expectedTotal))
	}

	report.Valid = len(report.Issues) == 0
	if !report.Valid {
		slog.Warn("Ticket pool failed integrity check", "issues", len(report.Issues),
			"expected", expectedTotal, "actual", len(tickets))
	}
	return report, nil
}

// GetTicketsByEntry returns the tickets minted for one entry.
func (s *TicketServiceImpl) GetTicketsByEntry(ctx context.Context, entryID primitive.ObjectID) ([]*models.Ticket, error) {
	tickets, err := s.ticketRepo.FindByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tickets: %w", err)
	}
	return tickets, nil
}
