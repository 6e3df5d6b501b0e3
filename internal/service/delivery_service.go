package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

type deliveryStore interface {
	GetDeliveryCompanies(ctx context.Context) ([]models.DeliveryCompany, error)
	GetDeliveryCompanyByID(ctx context.Context, id int64) (*models.DeliveryCompany, error)
	UpsertDeliveryLink(ctx context.Context, merchantID, companyID int64) error
	GetDeliveryLinksByMerchant(ctx context.Context, merchantID int64) ([]models.DeliveryLink, error)
}

// DeliveryService manages merchant delivery-company selections
type DeliveryService struct {
	store  deliveryStore
	logger *zap.Logger
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(store deliveryStore) *DeliveryService {
	return &DeliveryService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListCompanies returns the delivery-company catalog
func (s *DeliveryService) ListCompanies(ctx context.Context) ([]models.DeliveryCompany, error) {
	return s.store.GetDeliveryCompanies(ctx)
}

// SelectCompany records that a merchant works with a delivery company.
// Selecting the same company twice is a no-op.
func (s *DeliveryService) SelectCompany(ctx context.Context, merchantID, companyID int64) error {
	if _, err := s.store.GetDeliveryCompanyByID(ctx, companyID); err != nil {
		return err
	}
	return s.store.UpsertDeliveryLink(ctx, merchantID, companyID)
}

// ListMerchantLinks returns a merchant's delivery-company selections
func (s *DeliveryService) ListMerchantLinks(ctx context.Context, merchantID int64) ([]models.DeliveryLink, error) {
	return s.store.GetDeliveryLinksByMerchant(ctx, merchantID)
}
