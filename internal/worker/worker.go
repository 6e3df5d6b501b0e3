package worker

import (
	"context"
	"fmt"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

type notificationStore interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// NotificationWorker consumes order events and appends follow-up entries to
// merchant notification feeds. The intake notification itself is written
// transactionally with the order and never passes through here.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        notificationStore
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, store notificationStore) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		store:    store,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	notification := &models.Notification{
		MerchantID: event.MerchantID,
		Message:    fmt.Sprintf("Order #%d is now %s", event.OrderID, event.NewStatus),
	}

	if err := w.store.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create status notification: %w", err)
	}

	util.NotificationsCreatedTotal.Inc()
	return nil
}
