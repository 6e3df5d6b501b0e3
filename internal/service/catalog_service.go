package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

const (
	orderLinkAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	orderLinkLength   = 6
	maxLinkAttempts   = 5
)

type catalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductByOrderLink(ctx context.Context, code string) (*models.Product, error)
	GetMerchantProduct(ctx context.Context, merchantID, productID int64) (*models.Product, error)
	GetProductsByMerchant(ctx context.Context, merchantID int64) ([]models.Product, error)
	UpdateProduct(ctx context.Context, merchantID, productID int64, name, category string, price float64, description string) (*models.Product, error)
}

type productCache interface {
	GetProductByOrderLink(ctx context.Context, code string) (*models.Product, error)
	SetProductByOrderLink(ctx context.Context, product *models.Product) error
	InvalidateOrderLink(ctx context.Context, code string) error
}

// CatalogService resolves products and merchants and owns order-link
// assignment
type CatalogService struct {
	store  catalogStore
	cache  productCache
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil; lookups
// then always hit the database.
func NewCatalogService(store catalogStore, cache productCache) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest represents a new product listing
type CreateProductRequest struct {
	MerchantID  int64    `json:"merchant_id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Image       string   `json:"image"`
}

// UpdateProductRequest carries the merchant-editable product fields
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// NewOrderLink generates a short public order-link code
func NewOrderLink() string {
	buf := make([]byte, orderLinkLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = orderLinkAlphabet[int(b)%len(orderLinkAlphabet)]
	}
	return string(buf)
}

// CreateProduct lists a new product and assigns its order-link code. A code
// collision reported by the store triggers regeneration with a fresh code.
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if req.MerchantID <= 0 || req.Name == "" || req.Category == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "merchant_id, name and category are required")
	}
	if req.Price < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "price must not be negative")
	}

	product := &models.Product{
		MerchantID:  req.MerchantID,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Features:    req.Features,
		Image:       req.Image,
		Status:      models.ProductStatusActive,
	}

	var err error
	for attempt := 0; attempt < maxLinkAttempts; attempt++ {
		product.OrderLink = NewOrderLink()
		err = s.store.CreateProduct(ctx, product)
		if err == nil {
			util.ProductsCreatedTotal.Inc()
			s.logger.Info("Product created",
				zap.Int64("product_id", product.ID),
				zap.Int64("merchant_id", product.MerchantID),
				zap.String("order_link", product.OrderLink))
			return product, nil
		}
		if !apperr.IsKind(err, apperr.KindDuplicateOrderLink) {
			return nil, err
		}
		util.OrderLinkRetriesTotal.Inc()
		s.logger.Warn("Order-link collision, regenerating",
			zap.String("order_link", product.OrderLink))
	}

	return nil, err
}

// FindProductByID resolves a product by identity
func (s *CatalogService) FindProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// FindProductByOrderLink resolves a product by its public order-link code.
// Serves the unauthenticated order page, so lookups go through the cache
// first; any cache failure falls back to the database.
func (s *CatalogService) FindProductByOrderLink(ctx context.Context, code string) (*models.Product, error) {
	if s.cache != nil {
		product, err := s.cache.GetProductByOrderLink(ctx, code)
		if err == nil {
			util.OrderLinkCacheHitsTotal.WithLabelValues("hit").Inc()
			return product, nil
		}
		if !redisclient.IsCacheMiss(err) {
			s.logger.Warn("Order-link cache lookup failed, falling back to DB",
				zap.String("order_link", code),
				zap.Error(err))
		}
		util.OrderLinkCacheHitsTotal.WithLabelValues("miss").Inc()
	}

	product, err := s.store.GetProductByOrderLink(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProductByOrderLink(ctx, product); err != nil {
			s.logger.Warn("Failed to cache product", zap.Error(err))
		}
	}

	return product, nil
}

// FindMerchantProduct resolves a product only if owned by the merchant. A
// product owned by another merchant resolves exactly like a missing one.
func (s *CatalogService) FindMerchantProduct(ctx context.Context, merchantID, productID int64) (*models.Product, error) {
	return s.store.GetMerchantProduct(ctx, merchantID, productID)
}

// ListMerchantProducts lists all products owned by a merchant
func (s *CatalogService) ListMerchantProducts(ctx context.Context, merchantID int64) ([]models.Product, error) {
	return s.store.GetProductsByMerchant(ctx, merchantID)
}

// UpdateProduct applies a merchant-scoped product update and invalidates the
// order-link cache entry.
func (s *CatalogService) UpdateProduct(ctx context.Context, merchantID, productID int64, req *UpdateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Category == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "name and category are required")
	}
	if req.Price < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "price must not be negative")
	}

	product, err := s.store.UpdateProduct(ctx, merchantID, productID,
		req.Name, req.Category, req.Price, req.Description)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOrderLink(ctx, product.OrderLink); err != nil {
			s.logger.Warn("Failed to invalidate order-link cache",
				zap.String("order_link", product.OrderLink),
				zap.Error(err))
		}
	}

	return product, nil
}
