package store

import (
	"context"
	"database/sql"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
)

// CreateOrderWithNotification persists an order and its merchant
// notification in one transaction. Either both become visible or neither
// does.
func (s *Store) CreateOrderWithNotification(ctx context.Context, order *models.Order, notification *models.Notification) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (product_id, customer_name, customer_phone, wilaya, commune, address, delivery_type, delivery_price, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err = tx.GetContext(ctx, order, orderQuery,
		order.ProductID, order.CustomerName, order.CustomerPhone,
		order.Wilaya, order.Commune, order.Address,
		order.DeliveryType, order.DeliveryPrice, order.TotalPrice, order.Status)
	if err != nil {
		return err
	}

	notifQuery := `
		INSERT INTO notifications (merchant_id, message, is_read)
		VALUES ($1, $2, false)
		RETURNING id, is_read, created_at`

	err = tx.GetContext(ctx, notification, notifQuery,
		notification.MerchantID, notification.Message)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderMerchant resolves the merchant that owns an order's product
func (s *Store) GetOrderMerchant(ctx context.Context, orderID int64) (int64, error) {
	var merchantID int64
	err := s.db.GetContext(ctx, &merchantID, `
		SELECT p.merchant_id FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE o.id = $1`, orderID)
	if err == sql.ErrNoRows {
		return 0, apperr.New(apperr.KindNotFound, "order not found")
	}
	if err != nil {
		return 0, err
	}
	return merchantID, nil
}

// GetOrdersByMerchant retrieves all orders placed against a merchant's
// products, newest first.
func (s *Store) GetOrdersByMerchant(ctx context.Context, merchantID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, `
		SELECT o.* FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE p.merchant_id = $1
		ORDER BY o.created_at DESC`, merchantID)
	return orders, err
}

// UpdateOrderStatus sets an order's status and returns the updated row
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`, status, orderID)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
