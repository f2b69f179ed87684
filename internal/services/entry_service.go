package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// EntryService defines the interface for entry and payment-event operations
type EntryService interface {
	CreateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	GetEntryByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error)
	GetEntriesByEmail(ctx context.Context, email string, page, limit int) ([]*models.Entry, error)
	GetEntriesByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Entry, error)
	GetEntryCount(ctx context.Context) (int64, error)
	HandlePaymentCompleted(ctx context.Context, entryID primitive.ObjectID, paymentRef string) (*models.AllocationResult, error)
	HandlePaymentFailed(ctx context.Context, entryID primitive.ObjectID, reason string) error
}

// Compile-time check to ensure EntryServiceImpl implements EntryService
var _ EntryService = (*EntryServiceImpl)(nil)

// EntryServiceImpl handles entry lifecycle and the payment-completion signal
// that triggers ticket allocation. The payment processor's callback is
// trusted; payment authenticity is verified upstream.
type EntryServiceImpl struct {
	entryRepo        repositories.EntryRepository
	ticketService    TicketService
	directProductIDs map[string]bool
}

// NewEntryService creates a new EntryServiceImpl. directProductIDs is the
// fixed set of product identifiers sold as direct merchandise rather than
// raffle slots.
func NewEntryService(entryRepo repositories.EntryRepository, ticketService TicketService, directProductIDs []string) *EntryServiceImpl {
	ids := make(map[string]bool, len(directProductIDs))
	for _, id := range directProductIDs {
		ids[id] = true
	}
	return &EntryServiceImpl{
		entryRepo:        entryRepo,
		ticketService:    ticketService,
		directProductIDs: ids,
	}
}

// CreateEntry records a new pending purchase. The direct-purchase flag is
// derived from the excluded-product set, never taken from the caller.
func (s *EntryServiceImpl) CreateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if entry.Quantity <= 0 {
		return nil, errors.New("entry quantity must be positive")
	}
	entry.Email = models.NormalizeEmail(entry.Email)
	entry.PaymentStatus = models.PaymentStatusPending
	entry.DirectPurchase = s.directProductIDs[entry.ProductID]

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		slog.Error("CreateEntry: failed to create entry", "error", err, "email", entry.Email)
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	slog.Info("Entry created", "entryId", entry.ID, "quantity", entry.Quantity,
		"directPurchase", entry.DirectPurchase)
	return entry, nil
}

// HandlePaymentCompleted transitions a pending entry to completed and mints
// its tickets. A second confirmation for the same entry is a no-op: the
// status transition is skipped and AssignTickets returns the existing range.
func (s *EntryServiceImpl) HandlePaymentCompleted(ctx context.Context, entryID primitive.ObjectID, paymentRef string) (*models.AllocationResult, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("entry not found: %w", err)
		}
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}

	switch entry.PaymentStatus {
	case models.PaymentStatusPending:
		entry.PaymentStatus = models.PaymentStatusCompleted
		entry.PaymentRef = paymentRef
		entry.CompletedAt = time.Now()
		if err := s.entryRepo.Update(ctx, entry); err != nil {
			slog.Error("HandlePaymentCompleted: failed to mark entry completed", "error", err, "entryId", entryID)
			return nil, fmt.Errorf("failed to mark entry completed: %w", err)
		}
		slog.Info("Payment completed", "entryId", entryID, "paymentRef", paymentRef)
	case models.PaymentStatusCompleted:
		slog.Info("HandlePaymentCompleted: entry already completed, re-confirming", "entryId", entryID)
	default:
		return nil, fmt.Errorf("entry is %s, cannot complete payment", entry.PaymentStatus)
	}

	if entry.DirectPurchase {
		// Merchandise sales never enter the ticket pool.
		return &models.AllocationResult{EntryID: entryID.Hex()}, nil
	}

	result, err := s.ticketService.AssignTickets(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("ticket allocation failed: %w", err)
	}
	return result, nil
}

// HandlePaymentFailed transitions a pending entry to failed.
func (s *EntryServiceImpl) HandlePaymentFailed(ctx context.Context, entryID primitive.ObjectID, reason string) error {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("entry not found: %w", err)
	}
	if entry.PaymentStatus != models.PaymentStatusPending {
		slog.Warn("HandlePaymentFailed: entry not pending, ignoring", "entryId", entryID, "status", entry.PaymentStatus)
		return nil
	}
	entry.PaymentStatus = models.PaymentStatusFailed
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return fmt.Errorf("failed to mark entry failed: %w", err)
	}
	slog.Info("Payment failed", "entryId", entryID, "reason", reason)
	return nil
}

// GetEntryByID retrieves one entry.
func (s *EntryServiceImpl) GetEntryByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entry: %w", err)
	}
	return entry, nil
}

// GetEntriesByEmail retrieves a buyer's entries with pagination.
func (s *EntryServiceImpl) GetEntriesByEmail(ctx context.Context, email string, page, limit int) ([]*models.Entry, error) {
	entries, err := s.entryRepo.FindByEmail(ctx, email, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}
	return entries, nil
}

// GetEntriesByStatus retrieves entries by payment status with pagination.
func (s *EntryServiceImpl) GetEntriesByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Entry, error) {
	entries, err := s.entryRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}
	return entries, nil
}

// GetEntryCount counts all entries.
func (s *EntryServiceImpl) GetEntryCount(ctx context.Context) (int64, error) {
	return s.entryRepo.Count(ctx)
}
