package service

import (
	"context"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

type notificationStore interface {
	GetNotificationsByMerchant(ctx context.Context, merchantID int64) ([]models.Notification, error)
	GetNotificationByID(ctx context.Context, id int64) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) (*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, merchantID int64) (int64, error)
}

// NotificationService manages the per-merchant notification feed
type NotificationService struct {
	store  notificationStore
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(store notificationStore) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListForMerchant returns a merchant's notifications, newest first
func (s *NotificationService) ListForMerchant(ctx context.Context, merchantID int64) ([]models.Notification, error) {
	return s.store.GetNotificationsByMerchant(ctx, merchantID)
}

// MarkRead flips a notification to read. Marking an already-read
// notification is a no-op returning the current state.
func (s *NotificationService) MarkRead(ctx context.Context, merchantID, notificationID int64) (*models.Notification, error) {
	notification, err := s.store.GetNotificationByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.MerchantID != merchantID {
		return nil, apperr.New(apperr.KindForbidden, "notification does not belong to merchant")
	}
	if notification.Read {
		return notification, nil
	}

	updated, err := s.store.MarkNotificationRead(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	util.NotificationsReadTotal.Inc()
	return updated, nil
}

// MarkAllRead flips every unread notification for a merchant and returns
// the number updated. Calling it again updates zero records.
func (s *NotificationService) MarkAllRead(ctx context.Context, merchantID int64) (int64, error) {
	updated, err := s.store.MarkAllNotificationsRead(ctx, merchantID)
	if err != nil {
		return 0, err
	}

	if updated > 0 {
		util.NotificationsReadTotal.Add(float64(updated))
		s.logger.Info("Notifications marked read",
			zap.Int64("merchant_id", merchantID),
			zap.Int64("count", updated))
	}
	return updated, nil
}
