package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation on the named constraint. Empty name matches any constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// CreateMerchant persists a new merchant. A duplicate email surfaces as a
// duplicate_email error.
func (s *Store) CreateMerchant(ctx context.Context, merchant *models.Merchant) error {
	query := `
		INSERT INTO merchants (name, email, phone, password_hash, status, trial_ends_at, subscription_plan, store_name, store_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, merchant, query,
		merchant.Name, merchant.Email, merchant.Phone, merchant.PasswordHash,
		merchant.Status, merchant.TrialEndsAt, merchant.SubscriptionPlan,
		merchant.StoreName, merchant.StoreImage)
	if isUniqueViolation(err, "merchants_email_key") {
		return apperr.Wrap(apperr.KindDuplicateEmail, "email already registered", err)
	}
	return err
}

// GetMerchantByEmail retrieves a merchant by email
func (s *Store) GetMerchantByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := s.db.GetContext(ctx, &merchant, "SELECT * FROM merchants WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

// GetMerchantByID retrieves a merchant by ID
func (s *Store) GetMerchantByID(ctx context.Context, id int64) (*models.Merchant, error) {
	var merchant models.Merchant
	err := s.db.GetContext(ctx, &merchant, "SELECT * FROM merchants WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

// UpdateMerchantPassword overwrites a merchant's stored credential
func (s *Store) UpdateMerchantPassword(ctx context.Context, merchantID int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE merchants SET password_hash = $1 WHERE id = $2",
		passwordHash, merchantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "merchant not found")
	}
	return nil
}

// UpdateMerchantProfile updates mutable merchant profile fields
func (s *Store) UpdateMerchantProfile(ctx context.Context, merchantID int64, name, phone, storeName string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := s.db.GetContext(ctx, &merchant, `
		UPDATE merchants SET name = $1, phone = $2, store_name = $3
		WHERE id = $4
		RETURNING *`,
		name, phone, storeName, merchantID)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

// CreateProduct persists a new product. A colliding order-link code surfaces
// as a duplicate_order_link error so the caller can regenerate and retry.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (merchant_id, name, category, price, description, features, image, order_link, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, product, query,
		product.MerchantID, product.Name, product.Category, product.Price,
		product.Description, product.Features, product.Image,
		product.OrderLink, product.Status)
	if isUniqueViolation(err, "products_order_link_key") {
		return apperr.Wrap(apperr.KindDuplicateOrderLink, "order link already taken", err)
	}
	return err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductByOrderLink retrieves a product by its public order-link code
func (s *Store) GetProductByOrderLink(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE order_link = $1", code)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetMerchantProduct retrieves a product only if owned by the merchant.
// A product owned by someone else is indistinguishable from a missing one.
func (s *Store) GetMerchantProduct(ctx context.Context, merchantID, productID int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 AND merchant_id = $2", productID, merchantID)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByMerchant retrieves all products owned by a merchant
func (s *Store) GetProductsByMerchant(ctx context.Context, merchantID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE merchant_id = $1 ORDER BY id", merchantID)
	return products, err
}

// UpdateProduct updates the merchant-editable product fields, scoped to the
// owning merchant.
func (s *Store) UpdateProduct(ctx context.Context, merchantID, productID int64, name, category string, price float64, description string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, `
		UPDATE products SET name = $1, category = $2, price = $3, description = $4
		WHERE id = $5 AND merchant_id = $6
		RETURNING *`,
		name, category, price, description, productID, merchantID)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
