package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateOrderWithNotification(ctx context.Context, order *models.Order, notification *models.Notification) error
	GetOrderMerchant(ctx context.Context, orderID int64) (int64, error)
	GetOrdersByMerchant(ctx context.Context, merchantID int64) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error)
}

type eventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// OrderService runs the order intake pipeline and order status transitions
type OrderService struct {
	store  orderStore
	events eventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new order service. events may be nil; domain
// events are then not published.
func NewOrderService(store orderStore, events eventPublisher) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// FlexInt64 decodes a JSON number or numeric string. Anything else decodes
// to zero; validation rejects it afterwards.
type FlexInt64 int64

func (v *FlexInt64) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = FlexInt64(n)
	return nil
}

// FlexFloat decodes a JSON number or numeric string, defaulting to zero for
// anything non-numeric.
type FlexFloat float64

func (v *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = FlexFloat(f)
	return nil
}

// SubmitOrderRequest represents a customer order submission. Field decoding
// is deliberately loose: storefront order pages send ids and prices as
// strings.
type SubmitOrderRequest struct {
	ProductID     FlexInt64 `json:"productId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	Wilaya        string    `json:"wilaya"`
	Commune       string    `json:"commune"`
	Address       string    `json:"address"`
	DeliveryType  string    `json:"deliveryType"`
	DeliveryPrice FlexFloat `json:"deliveryPrice"`
}

// SubmitOrder validates a customer submission, computes the total, and
// persists the order together with the merchant notification in one
// transaction. The pair is visible together or not at all.
func (s *OrderService) SubmitOrder(ctx context.Context, req *SubmitOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SubmitOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderIntakeLatency.Observe(time.Since(start).Seconds())
	}()

	productID := int64(req.ProductID)
	if productID <= 0 || req.CustomerName == "" || req.CustomerPhone == "" {
		util.OrdersFailedTotal.WithLabelValues("invalid_input").Inc()
		return nil, apperr.New(apperr.KindInvalidInput, "productId, customerName and customerPhone are required")
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			util.OrdersFailedTotal.WithLabelValues("product_not_found").Inc()
		}
		return nil, err
	}

	deliveryPrice := float64(req.DeliveryPrice)
	if deliveryPrice < 0 {
		deliveryPrice = 0
	}

	order := &models.Order{
		ProductID:     product.ID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Wilaya:        req.Wilaya,
		Commune:       req.Commune,
		Address:       req.Address,
		DeliveryType:  req.DeliveryType,
		DeliveryPrice: deliveryPrice,
		TotalPrice:    product.Price + deliveryPrice,
		Status:        models.OrderStatusPending,
	}

	notification := &models.Notification{
		MerchantID: product.MerchantID,
		Message:    fmt.Sprintf("New order for product: %s", product.Name),
	}

	if err := s.store.CreateOrderWithNotification(ctx, order, notification); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, apperr.Wrap(apperr.KindInternal, "failed to record order", err)
	}

	util.OrdersCreatedTotal.Inc()
	util.NotificationsCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("product_id", product.ID),
		zap.Float64("total_price", order.TotalPrice))

	s.publishOrderCreated(ctx, order, product)

	return order, nil
}

// UpdateStatus transitions an order between the three accepted statuses.
// Only the merchant owning the order's product may call it; transitions are
// otherwise unconstrained.
func (s *OrderService) UpdateStatus(ctx context.Context, merchantID, orderID int64, status string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidOrderStatus(status) {
		return nil, apperr.New(apperr.KindInvalidStatus,
			fmt.Sprintf("status must be one of %s, %s, %s",
				models.OrderStatusPending, models.OrderStatusDone, models.OrderStatusCanceled))
	}

	owner, err := s.store.GetOrderMerchant(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if owner != merchantID {
		return nil, apperr.New(apperr.KindForbidden, "order does not belong to merchant")
	}

	order, err := s.store.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", status))

	if s.events != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:    orderID,
			MerchantID: merchantID,
			NewStatus:  status,
		}
		if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	return order, nil
}

// ListMerchantOrders lists all orders placed against a merchant's products
func (s *OrderService) ListMerchantOrders(ctx context.Context, merchantID int64) ([]models.Order, error) {
	return s.store.GetOrdersByMerchant(ctx, merchantID)
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order, product *models.Product) {
	if s.events == nil {
		return
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		ProductID:   product.ID,
		MerchantID:  product.MerchantID,
		ProductName: product.Name,
		TotalPrice:  order.TotalPrice,
	}

	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}
