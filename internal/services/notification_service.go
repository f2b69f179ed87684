package services

import (
	"context"
	"fmt"

	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/models"
	"github.com/vengeanceprashlesh/most-valuable-sub000/internal/repositories"
	"github.com/vengeanceprashlesh/most-valuable-sub000/pkg/notifier"
	"golang.org/x/exp/slog"
)

// NotificationService defines the interface for winner announcement dispatch
type NotificationService interface {
	// NotifyWinnerSelected dispatches the admin announcement for a new
	// winner. Best-effort: failures are recorded and logged, never returned
	// to the draw path.
	NotifyWinnerSelected(ctx context.Context, cfg *models.RaffleConfig, record *models.WinnerRecord)
	GetNotificationsByStatus(ctx context.Context, status models.NotificationStatus, page, limit int) ([]*models.Notification, error)
	GetNotificationCount(ctx context.Context) (int64, error)
}

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl records every dispatch attempt so failed
// announcements can be found and re-sent by an operator.
type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	gateway          notifier.Notifier
	adminRecipient   string
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(notificationRepo repositories.NotificationRepository, gateway notifier.Notifier, adminRecipient string) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		gateway:          gateway,
		adminRecipient:   adminRecipient,
	}
}

// NotifyWinnerSelected dispatches the winner announcement and records the
// attempt. Called from a goroutine after a successful draw commits.
func (s *NotificationServiceImpl) NotifyWinnerSelected(ctx context.Context, cfg *models.RaffleConfig, record *models.WinnerRecord) {
	notice := notifier.WinnerNotice{
		RaffleID:            record.RaffleID.Hex(),
		RaffleName:          cfg.Name,
		WinnerRecordID:      record.ID.Hex(),
		WinnerEmail:         record.Email,
		WinningTicketNumber: record.WinningTicketNumber,
		PoolSize:            record.PoolSizeAtDraw,
		DrawnAt:             record.CreatedAt,
	}

	notification := &models.Notification{
		RaffleID:       record.RaffleID,
		WinnerRecordID: record.ID,
		Recipient:      s.adminRecipient,
		Subject:        fmt.Sprintf("Winner selected for %s", cfg.Name),
		Body: fmt.Sprintf("Winner %s drawn with ticket #%d out of %d",
			record.Email, record.WinningTicketNumber, record.PoolSizeAtDraw),
	}

	if _, err := s.gateway.NotifyWinner(ctx, notice); err != nil {
		notification.Status = models.NotificationStatusFailed
		notification.StatusMessage = err.Error()
		slog.Error("Winner notification dispatch failed", "error", err,
			"winnerRecordId", record.ID, "raffleId", record.RaffleID)
	} else {
		notification.Status = models.NotificationStatusSent
		slog.Info("Winner notification dispatched", "winnerRecordId", record.ID)
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		slog.Error("Failed to record notification attempt", "error", err, "winnerRecordId", record.ID)
	}
}

// GetNotificationsByStatus retrieves notifications by status with pagination.
func (s *NotificationServiceImpl) GetNotificationsByStatus(ctx context.Context, status models.NotificationStatus, page, limit int) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve notifications: %w", err)
	}
	return notifications, nil
}

// GetNotificationCount counts all notifications.
func (s *NotificationServiceImpl) GetNotificationCount(ctx context.Context) (int64, error) {
	return s.notificationRepo.Count(ctx)
}
