package models

import (
	"time"

	"github.com/lib/pq"
)

// Merchant represents a storefront operator account
type Merchant struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	Phone            string    `db:"phone" json:"phone"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	Status           string    `db:"status" json:"status"`
	TrialEndsAt      time.Time `db:"trial_ends_at" json:"trial_ends_at"`
	SubscriptionPlan string    `db:"subscription_plan" json:"subscription_plan"`
	StoreName        string    `db:"store_name" json:"store_name"`
	StoreImage       string    `db:"store_image" json:"store_image,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// MerchantPublic is the subset of merchant fields safe to return to clients
type MerchantPublic struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public strips credential and lifecycle fields from a merchant
func (m *Merchant) Public() MerchantPublic {
	return MerchantPublic{ID: m.ID, Name: m.Name, Email: m.Email}
}

// Product represents a sellable item owned by a merchant
type Product struct {
	ID          int64          `db:"id" json:"id"`
	MerchantID  int64          `db:"merchant_id" json:"merchant_id"`
	Name        string         `db:"name" json:"name"`
	Category    string         `db:"category" json:"category"`
	Price       float64        `db:"price" json:"price"`
	Description string         `db:"description" json:"description"`
	Features    pq.StringArray `db:"features" json:"features,omitempty"`
	Image       string         `db:"image" json:"image,omitempty"`
	OrderLink   string         `db:"order_link" json:"order_link"`
	Status      string         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Order represents a customer order for a single product
type Order struct {
	ID            int64     `db:"id" json:"id"`
	ProductID     int64     `db:"product_id" json:"product_id"`
	CustomerName  string    `db:"customer_name" json:"customer_name"`
	CustomerPhone string    `db:"customer_phone" json:"customer_phone"`
	Wilaya        string    `db:"wilaya" json:"wilaya"`
	Commune       string    `db:"commune" json:"commune"`
	Address       string    `db:"address" json:"address"`
	DeliveryType  string    `db:"delivery_type" json:"delivery_type"`
	DeliveryPrice float64   `db:"delivery_price" json:"delivery_price"`
	TotalPrice    float64   `db:"total_price" json:"total_price"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Notification is an entry in a merchant's notification feed
type Notification struct {
	ID         int64     `db:"id" json:"id"`
	MerchantID int64     `db:"merchant_id" json:"merchant_id"`
	Message    string    `db:"message" json:"message"`
	Read       bool      `db:"is_read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DeliveryCompany is a courier a merchant can hand orders to
type DeliveryCompany struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
	Logo  string `db:"logo" json:"logo,omitempty"`
}

// DeliveryLink records that a merchant selected a delivery company.
// The merchant+company pair is unique.
type DeliveryLink struct {
	ID         int64     `db:"id" json:"id"`
	MerchantID int64     `db:"merchant_id" json:"merchant_id"`
	CompanyID  int64     `db:"company_id" json:"company_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Order statuses
const (
	OrderStatusPending  = "pending"
	OrderStatusDone     = "done"
	OrderStatusCanceled = "canceled"
)

// ValidOrderStatus reports whether s is one of the three accepted statuses
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusDone, OrderStatusCanceled:
		return true
	}
	return false
}

// Merchant statuses
const (
	MerchantStatusTrial  = "trial"
	MerchantStatusActive = "active"
)

// Product statuses
const (
	ProductStatusActive = "active"
)
