package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

type statsStore interface {
	GetOrdersByMerchant(ctx context.Context, merchantID int64) ([]models.Order, error)
}

// StatsService derives aggregate sales figures from a merchant's orders
type StatsService struct {
	store  statsStore
	logger *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(store statsStore) *StatsService {
	return &StatsService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// MerchantStats is the aggregate returned to a merchant's dashboard
type MerchantStats struct {
	TotalOrders   int     `json:"totalOrders"`
	PendingOrders int     `json:"pendingOrders"`
	DoneOrders    int     `json:"doneOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// ComputeStats scans the merchant's orders and derives counts and revenue.
// pendingOrders counts every order that is not done, canceled included.
// Revenue sums only done orders. The scan is fresh on every call.
func (s *StatsService) ComputeStats(ctx context.Context, merchantID int64) (*MerchantStats, error) {
	ctx, span := util.StartSpan(ctx, "StatsService.ComputeStats")
	defer span.End()

	orders, err := s.store.GetOrdersByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	stats := &MerchantStats{TotalOrders: len(orders)}
	for _, order := range orders {
		if order.Status == models.OrderStatusDone {
			stats.DoneOrders++
			stats.TotalRevenue += order.TotalPrice
		} else {
			stats.PendingOrders++
		}
	}

	return stats, nil
}
