package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"github.com/vengeanceprashlesh/most-valuable-sub000/pkg/rng"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// SelectionMethodUniform labels draws made by a uniform crypto/rand pick
// over the available ticket pool.
const SelectionMethodUniform = "UNIFORM_CRYPTO_RAND"

// WinnerService defines the interface for winner selection operations
type WinnerService interface {
	SelectWinner(ctx context.Context, raffleID primitive.ObjectID) (*models.DrawResult, error)
	Verify(ctx context.Context, winnerRecordID primitive.ObjectID) (*models.VerificationResult, error)
	GetWinnerRecord(ctx context.Context, winnerRecordID primitive.ObjectID) (*models.WinnerRecord, error)
	ResetWinners(ctx context.Context, raffleID primitive.ObjectID) (int64, error)
	GetWinnersByRaffle(ctx context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error)
	GetSelectionState(ctx context.Context, raffleID primitive.ObjectID) (models.SelectionState, int, int, error)
	MarkContacted(ctx context.Context, winnerRecordID primitive.ObjectID) error
	MarkPrizeDelivered(ctx context.Context, winnerRecordID primitive.ObjectID) error
}

// Compile-time check to ensure WinnerServiceImpl implements WinnerService
var _ WinnerService = (*WinnerServiceImpl)(nil)

// WinnerServiceImpl draws winners uniformly at random from the ticket pool,
// without replacement across multiple winners, and persists an auditable
// record of each draw. The drawMu mutex serializes the read-active-count
// then-write-record step so two concurrent draws cannot both take the last
// winner slot.
type WinnerServiceImpl struct {
	raffleRepo      repositories.RaffleConfigRepository
	entryRepo       repositories.EntryRepository
	ticketRepo      repositories.TicketRepository
	winnerRepo      repositories.WinnerRecordRepository
	ticketService   TicketService
	notificationSvc NotificationService
	drawMu          sync.Mutex
}

// NewWinnerService creates a new WinnerServiceImpl
func NewWinnerService(
	raffleRepo repositories.RaffleConfigRepository,
	entryRepo repositories.EntryRepository,
	ticketRepo repositories.TicketRepository,
	winnerRepo repositories.WinnerRecordRepository,
	ticketService TicketService,
	notificationSvc NotificationService,
) *WinnerServiceImpl {
	return &WinnerServiceImpl{
		raffleRepo:      raffleRepo,
		entryRepo:       entryRepo,
		ticketRepo:      ticketRepo,
		winnerRepo:      winnerRepo,
		ticketService:   ticketService,
		notificationSvc: notificationSvc,
	}
}

// ComputeVerificationHash derives the verification hash stored on a winner
// record. Anyone holding the four inputs can recompute and compare it; the
// hash detects accidental corruption of a stored record, it is not a keyed
// commitment against a malicious operator.
func ComputeVerificationHash(ticketNumber, poolSize int, seed, email string) string {
	payload := fmt.Sprintf("ticket=%d|pool=%d|seed=%s|email=%s", ticketNumber, poolSize, seed, email)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// SelectWinner draws one winner for the raffle. Preconditions: the raffle has
// a free winner slot, the ticket pool passes its integrity check, and at
// least one ticket is not already bound to an active winner record.
func (s *WinnerServiceImpl) SelectWinner(ctx context.Context, raffleID primitive.ObjectID) (*models.DrawResult, error) {
	s.drawMu.Lock()
	defer s.drawMu.Unlock()

	cfg, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		slog.Error("SelectWinner: failed to find raffle config", "error", err, "raffleId", raffleID)
		return nil, fmt.Errorf("raffle not found: %w", err)
	}
	maxWinners := cfg.EffectiveMaxWinners()

	activeCount, err := s.winnerRepo.CountActiveByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active winners: %w", err)
	}
	if int(activeCount) >= maxWinners {
		slog.Warn("SelectWinner: all winner slots taken", "raffleId", raffleID, "maxWinners", maxWinners)
		return nil, ErrAllWinnersSelected
	}

	// The draw must never proceed over a corrupt pool.
	report, err := s.ticketService.ValidateIntegrity(ctx)
	if err != nil {
		return nil, fmt.Errorf("integrity check failed to run: %w", err)
	}
	if !report.Valid {
		return nil, &TicketIntegrityError{Issues: report.Issues}
	}

	tickets, err := s.ticketRepo.FindAllSortedByNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket pool: %w", err)
	}
	if len(tickets) == 0 {
		return nil, ErrEmptyPool
	}

	activeWinners, err := s.winnerRepo.FindActiveByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active winners: %w", err)
	}
	excluded := make(map[int]bool, len(activeWinners))
	for _, w := range activeWinners {
		excluded[w.WinningTicketNumber] = true
	}

	available := make([]*models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !excluded[t.Number] {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		return nil, ErrNoAvailableTickets
	}

	// The seed is audit metadata bound into the verification hash; the draw
	// index itself comes from a separate crypto/rand pick.
	seed, err := rng.AuditSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate draw seed: %w", err)
	}
	idx, err := rng.UniformIndex(len(available))
	if err != nil {
		return nil, fmt.Errorf("failed to draw winning index: %w", err)
	}
	winning := available[idx]

	entry, err := s.entryRepo.FindByID(ctx, winning.EntryID)
	if err != nil {
		slog.Error("SelectWinner: winning ticket references a missing entry",
			"error", err, "ticketNumber", winning.Number, "entryId", winning.EntryID)
		return nil, fmt.Errorf("%w: ticket %d, entry %s", ErrDataCorruption, winning.Number, winning.EntryID.Hex())
	}

	// Pool size is the full pool, not the post-exclusion pool, so reported
	// win probabilities reflect true odds.
	poolSize := len(tickets)
	hash := ComputeVerificationHash(winning.Number, poolSize, seed, entry.Email)

	record := &models.WinnerRecord{
		RaffleID:            raffleID,
		EntryID:             entry.ID,
		Email:               entry.Email,
		WinningTicketNumber: winning.Number,
		PoolSizeAtDraw:      poolSize,
		RandomSeed:          seed,
		VerificationHash:    hash,
		SelectionMethod:     SelectionMethodUniform,
		Status:              models.WinnerStatusActive,
	}
	if err := s.winnerRepo.Create(ctx, record); err != nil {
		slog.Error("SelectWinner: failed to persist winner record", "error", err, "raffleId", raffleID)
		return nil, fmt.Errorf("failed to persist winner record: %w", err)
	}

	// First winner mirrors onto the raffle config for single-winner display.
	if activeCount == 0 {
		cfg.WinnerEmail = entry.Email
		cfg.WinnerDrawnAt = time.Now()
		if err := s.raffleRepo.Update(ctx, cfg); err != nil {
			slog.Error("SelectWinner: failed to mirror winner onto raffle config",
				"error", err, "raffleId", raffleID)
		}
	}

	slog.Info("Winner selected", "raffleId", raffleID, "ticketNumber", winning.Number,
		"poolSize", poolSize, "winnerIndex", activeCount+1, "maxWinners", maxWinners)

	if s.notificationSvc != nil {
		go s.notificationSvc.NotifyWinnerSelected(context.Background(), cfg, record)
	}

	return &models.DrawResult{
		WinnerRecordID:      record.ID,
		Email:               entry.Email,
		WinningTicketNumber: winning.Number,
		PoolSize:            poolSize,
		VerificationHash:    hash,
		RandomSeed:          seed,
		WinnerIndex:         int(activeCount) + 1,
		RemainingSlots:      maxWinners - int(activeCount) - 1,
	}, nil
}

// Verify recomputes a stored winner record's verification hash and reports
// whether it matches, along with the winner's ticket count and true win
// probability at draw time. It is deterministic and touches no randomness.
func (s *WinnerServiceImpl) Verify(ctx context.Context, winnerRecordID primitive.ObjectID) (*models.VerificationResult, error) {
	record, err := s.winnerRepo.FindByID(ctx, winnerRecordID)
	if err != nil {
		return nil, fmt.Errorf("winner record not found: %w", err)
	}

	expected := ComputeVerificationHash(record.WinningTicketNumber, record.PoolSizeAtDraw, record.RandomSeed, record.Email)

	ticketCount, err := s.ticketRepo.CountByEmail(ctx, record.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to count winner tickets: %w", err)
	}

	result := &models.VerificationResult{
		WinnerRecordID:    record.ID,
		IsValid:           expected == record.VerificationHash,
		ExpectedHash:      expected,
		StoredHash:        record.VerificationHash,
		WinnerTicketCount: int(ticketCount),
	}
	if record.PoolSizeAtDraw > 0 {
		result.WinProbability = float64(ticketCount) / float64(record.PoolSizeAtDraw) * 100
	}
	if !result.IsValid {
		slog.Warn("Winner record failed verification", "winnerRecordId", winnerRecordID)
	}
	return result, nil
}

// ResetWinners deactivates every active winner record for the raffle and
// clears the winner mirror on the raffle config, returning the raffle to the
// no-winners state. Destructive; intended as an explicit operator action.
func (s *WinnerServiceImpl) ResetWinners(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	s.drawMu.Lock()
	defer s.drawMu.Unlock()

	superseded, err := s.winnerRepo.SupersedeAllByRaffleID(ctx, raffleID)
	if err != nil {
		return 0, fmt.Errorf("failed to supersede winner records: %w", err)
	}

	cfg, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		return superseded, fmt.Errorf("raffle not found: %w", err)
	}
	cfg.WinnerEmail = ""
	cfg.WinnerDrawnAt = time.Time{}
	if err := s.raffleRepo.Update(ctx, cfg); err != nil {
		return superseded, fmt.Errorf("failed to clear raffle winner mirror: %w", err)
	}

	slog.Info("Winners reset", "raffleId", raffleID, "superseded", superseded)
	return superseded, nil
}

// GetWinnerRecord returns one winner record.
func (s *WinnerServiceImpl) GetWinnerRecord(ctx context.Context, winnerRecordID primitive.ObjectID) (*models.WinnerRecord, error) {
	record, err := s.winnerRepo.FindByID(ctx, winnerRecordID)
	if err != nil {
		return nil, fmt.Errorf("winner record not found: %w", err)
	}
	return record, nil
}

// GetWinnersByRaffle returns all winner records for a raffle, newest first.
func (s *WinnerServiceImpl) GetWinnersByRaffle(ctx context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error) {
	records, err := s.winnerRepo.FindByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve winner records: %w", err)
	}
	return records, nil
}

// GetSelectionState derives the raffle's winner state machine position plus
// the active-winner count and the configured maximum.
func (s *WinnerServiceImpl) GetSelectionState(ctx context.Context, raffleID primitive.ObjectID) (models.SelectionState, int, int, error) {
	cfg, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		return "", 0, 0, fmt.Errorf("raffle not found: %w", err)
	}
	activeCount, err := s.winnerRepo.CountActiveByRaffleID(ctx, raffleID)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to count active winners: %w", err)
	}
	return cfg.SelectionStateFor(int(activeCount)), int(activeCount), cfg.EffectiveMaxWinners(), nil
}

// MarkContacted stamps the post-draw contact bookkeeping field.
func (s *WinnerServiceImpl) MarkContacted(ctx context.Context, winnerRecordID primitive.ObjectID) error {
	return s.stampRecord(ctx, winnerRecordID, func(record *models.WinnerRecord) {
		record.ContactedAt = time.Now()
	})
}

// MarkPrizeDelivered stamps the post-draw delivery bookkeeping field.
func (s *WinnerServiceImpl) MarkPrizeDelivered(ctx context.Context, winnerRecordID primitive.ObjectID) error {
	return s.stampRecord(ctx, winnerRecordID, func(record *models.WinnerRecord) {
		record.PrizeDeliveredAt = time.Now()
	})
}

func (s *WinnerServiceImpl) stampRecord(ctx context.Context, id primitive.ObjectID, stamp func(*models.WinnerRecord)) error {
	record, err := s.winnerRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("winner record not found: %w", err)
	}
	stamp(record)
	if err := s.winnerRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to update winner record: %w", err)
	}
	return nil
}
