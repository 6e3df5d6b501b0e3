package store

import (
	"context"
	"database/sql"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
)

// CreateNotification appends a notification to a merchant's feed
func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (merchant_id, message, is_read)
		VALUES ($1, $2, false)
		RETURNING id, is_read, created_at`

	return s.db.GetContext(ctx, notification, query,
		notification.MerchantID, notification.Message)
}

// GetNotificationByID retrieves a notification by ID
func (s *Store) GetNotificationByID(ctx context.Context, id int64) (*models.Notification, error) {
	var notification models.Notification
	err := s.db.GetContext(ctx, &notification, "SELECT * FROM notifications WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "notification not found")
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetNotificationsByMerchant retrieves a merchant's feed, newest first
func (s *Store) GetNotificationsByMerchant(ctx context.Context, merchantID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications WHERE merchant_id = $1 ORDER BY created_at DESC", merchantID)
	return notifications, err
}

// MarkNotificationRead flips a notification to read and returns the updated
// row. Already-read notifications pass through unchanged.
func (s *Store) MarkNotificationRead(ctx context.Context, id int64) (*models.Notification, error) {
	var notification models.Notification
	err := s.db.GetContext(ctx, &notification, `
		UPDATE notifications SET is_read = true
		WHERE id = $1
		RETURNING *`, id)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "notification not found")
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkAllNotificationsRead flips every unread notification for a merchant
// and returns the number of rows updated.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, merchantID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = true WHERE merchant_id = $1 AND is_read = false",
		merchantID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
