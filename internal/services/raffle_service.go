package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// RaffleService defines the interface for raffle configuration operations
type RaffleService interface {
	CreateRaffle(ctx context.Context, cfg *models.RaffleConfig) (*models.RaffleConfig, error)
	GetRaffleByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleConfig, error)
	GetActiveRaffle(ctx context.Context) (*models.RaffleConfig, error)
	UpdateRaffle(ctx context.Context, cfg *models.RaffleConfig) error
	// ReconcileTotalEntries refreshes the cached TotalEntries counter from
	// the true sum over completed raffle entries.
	ReconcileTotalEntries(ctx context.Context, id primitive.ObjectID) (*models.RaffleConfig, error)
}

// Compile-time check to ensure RaffleServiceImpl implements RaffleService
var _ RaffleService = (*RaffleServiceImpl)(nil)

// RaffleServiceImpl handles raffle configuration business logic
type RaffleServiceImpl struct {
	raffleRepo repositories.RaffleConfigRepository
	entryRepo  repositories.EntryRepository
}

// NewRaffleService creates a new RaffleServiceImpl
func NewRaffleService(raffleRepo repositories.RaffleConfigRepository, entryRepo repositories.EntryRepository) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		raffleRepo: raffleRepo,
		entryRepo:  entryRepo,
	}
}

// CreateRaffle creates a raffle configuration.
func (s *RaffleServiceImpl) CreateRaffle(ctx context.Context, cfg *models.RaffleConfig) (*models.RaffleConfig, error) {
	if cfg.EndDate.Before(cfg.StartDate) {
		return nil, errors.New("raffle end date must not precede start date")
	}
	if cfg.MaxWinners < 0 {
		return nil, errors.New("maxWinners must not be negative")
	}
	if err := s.raffleRepo.Create(ctx, cfg); err != nil {
		slog.Error("CreateRaffle: failed to create raffle config", "error", err)
		return nil, fmt.Errorf("failed to create raffle: %w", err)
	}
	slog.Info("Raffle created", "raffleId", cfg.ID, "maxWinners", cfg.EffectiveMaxWinners())
	return cfg, nil
}

// GetRaffleByID retrieves one raffle configuration.
func (s *RaffleServiceImpl) GetRaffleByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleConfig, error) {
	cfg, err := s.raffleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve raffle: %w", err)
	}
	return cfg, nil
}

// GetActiveRaffle retrieves the raffle currently inside its start/end window.
func (s *RaffleServiceImpl) GetActiveRaffle(ctx context.Context) (*models.RaffleConfig, error) {
	cfg, err := s.raffleRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve active raffle: %w", err)
	}
	return cfg, nil
}

// UpdateRaffle updates a raffle configuration.
func (s *RaffleServiceImpl) UpdateRaffle(ctx context.Context, cfg *models.RaffleConfig) error {
	if err := s.raffleRepo.Update(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update raffle: %w", err)
	}
	return nil
}

// ReconcileTotalEntries refreshes the cached TotalEntries counter.
func (s *RaffleServiceImpl) ReconcileTotalEntries(ctx context.Context, id primitive.ObjectID) (*models.RaffleConfig, error) {
	cfg, err := s.raffleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("raffle not found: %w", err)
	}
	total, err := s.entryRepo.SumCompletedRaffleQuantity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum completed entries: %w", err)
	}
	if cfg.TotalEntries != total {
		slog.Info("Reconciling total entries", "raffleId", id, "cached", cfg.TotalEntries, "actual", total)
		cfg.TotalEntries = total
		if err := s.raffleRepo.Update(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to update raffle: %w", err)
		}
	}
	return cfg, nil
}
