package repositories

import (
	"context"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryRepository defines the interface for entry data operations
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error)
	FindByPaymentRef(ctx context.Context, ref string) (*models.Entry, error)
	FindByEmail(ctx context.Context, email string, page, limit int) ([]*models.Entry, error)
	FindByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Entry, error)
	// FindCompletedRaffleEntries returns every completed, raffle-type entry
	// ordered by payment-completion time ascending.
	FindCompletedRaffleEntries(ctx context.Context) ([]*models.Entry, error)
	// SumCompletedRaffleQuantity returns the sum of Quantity over completed
	// raffle-type entries, i.e. the expected size of the ticket pool.
	SumCompletedRaffleQuantity(ctx context.Context) (int, error)
	Update(ctx context.Context, entry *models.Entry) error
	Count(ctx context.Context) (int64, error)
}

// TicketRepository defines the interface for ticket data operations
type TicketRepository interface {
	CreateMany(ctx context.Context, tickets []*models.Ticket) error
	FindByEntryID(ctx context.Context, entryID primitive.ObjectID) ([]*models.Ticket, error)
	CountByEntryID(ctx context.Context, entryID primitive.ObjectID) (int64, error)
	FindByNumber(ctx context.Context, number int) (*models.Ticket, error)
	// FindAllSortedByNumber returns the full ticket pool ordered by number ascending.
	FindAllSortedByNumber(ctx context.Context) ([]*models.Ticket, error)
	// MaxNumber returns the highest assigned ticket number, or 0 when the pool is empty.
	MaxNumber(ctx context.Context) (int, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// WinnerRecordRepository defines the interface for winner record operations
type WinnerRecordRepository interface {
	Create(ctx context.Context, record *models.WinnerRecord) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.WinnerRecord, error)
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error)
	FindActiveByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.WinnerRecord, error)
	CountActiveByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, record *models.WinnerRecord) error
	// SupersedeAllByRaffleID flips every ACTIVE record for the raffle to
	// SUPERSEDED and returns how many were flipped.
	SupersedeAllByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error)
}

// RaffleConfigRepository defines the interface for raffle configuration operations
type RaffleConfigRepository interface {
	Create(ctx context.Context, cfg *models.RaffleConfig) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleConfig, error)
	// FindActive returns the raffle whose start/end window contains now.
	FindActive(ctx context.Context) (*models.RaffleConfig, error)
	Update(ctx context.Context, cfg *models.RaffleConfig) error
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	Update(ctx context.Context, adminUser *models.AdminUser) error
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByWinnerRecordID(ctx context.Context, winnerRecordID primitive.ObjectID) ([]*models.Notification, error)
	FindByStatus(ctx context.Context, status models.NotificationStatus, page, limit int) ([]*models.Notification, error)
	Count(ctx context.Context) (int64, error)
}
