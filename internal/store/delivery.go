package store

import (
	"context"
	"database/sql"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
)

// GetDeliveryCompanies retrieves the delivery-company catalog
func (s *Store) GetDeliveryCompanies(ctx context.Context) ([]models.DeliveryCompany, error) {
	var companies []models.DeliveryCompany
	err := s.db.SelectContext(ctx, &companies, "SELECT * FROM delivery_companies ORDER BY id")
	return companies, err
}

// GetDeliveryCompanyByID retrieves a delivery company by ID
func (s *Store) GetDeliveryCompanyByID(ctx context.Context, id int64) (*models.DeliveryCompany, error) {
	var company models.DeliveryCompany
	err := s.db.GetContext(ctx, &company, "SELECT * FROM delivery_companies WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "delivery company not found")
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// UpsertDeliveryLink records a merchant's selection of a delivery company.
// Re-selecting an existing pair is a no-op.
func (s *Store) UpsertDeliveryLink(ctx context.Context, merchantID, companyID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO delivery_links (merchant_id, company_id)
		VALUES ($1, $2)
		ON CONFLICT (merchant_id, company_id) DO NOTHING`,
		merchantID, companyID)
	return err
}

// GetDeliveryLinksByMerchant retrieves a merchant's selected companies
func (s *Store) GetDeliveryLinksByMerchant(ctx context.Context, merchantID int64) ([]models.DeliveryLink, error) {
	var links []models.DeliveryLink
	err := s.db.SelectContext(ctx, &links,
		"SELECT * FROM delivery_links WHERE merchant_id = $1 ORDER BY id", merchantID)
	return links, err
}
