package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// fakeStore is an in-memory stand-in for the persistence gateway. It
// enforces the same uniqueness rules as the real schema.
type fakeStore struct {
	mu sync.Mutex

	merchants        map[int64]*models.Merchant
	merchantsByEmail map[string]int64
	products         map[int64]*models.Product
	productsByLink   map[string]int64
	orders           map[int64]*models.Order
	notifications    map[int64]*models.Notification

	nextID int64
	clock  time.Time

	failOrderTx bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		merchants:        make(map[int64]*models.Merchant),
		merchantsByEmail: make(map[string]int64),
		products:         make(map[int64]*models.Product),
		productsByLink:   make(map[string]int64),
		orders:           make(map[int64]*models.Order),
		notifications:    make(map[int64]*models.Notification),
		clock:            time.Now(),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) CreateMerchant(_ context.Context, merchant *models.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.merchantsByEmail[merchant.Email]; ok {
		return apperr.New(apperr.KindDuplicateEmail, "email already registered")
	}

	merchant.ID = f.id()
	merchant.CreatedAt = f.tick()
	cp := *merchant
	f.merchants[merchant.ID] = &cp
	f.merchantsByEmail[merchant.Email] = merchant.ID
	return nil
}

func (f *fakeStore) GetMerchantByEmail(_ context.Context, email string) (*models.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.merchantsByEmail[email]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	cp := *f.merchants[id]
	return &cp, nil
}

func (f *fakeStore) GetMerchantByID(_ context.Context, id int64) (*models.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	merchant, ok := f.merchants[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	cp := *merchant
	return &cp, nil
}

func (f *fakeStore) UpdateMerchantProfile(_ context.Context, merchantID int64, name, phone, storeName string) (*models.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	merchant, ok := f.merchants[merchantID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	merchant.Name = name
	merchant.Phone = phone
	merchant.StoreName = storeName
	cp := *merchant
	return &cp, nil
}

func (f *fakeStore) UpdateMerchantPassword(_ context.Context, merchantID int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	merchant, ok := f.merchants[merchantID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "merchant not found")
	}
	merchant.PasswordHash = passwordHash
	return nil
}

func (f *fakeStore) CreateProduct(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.productsByLink[product.OrderLink]; ok {
		return apperr.New(apperr.KindDuplicateOrderLink, "order link already taken")
	}

	product.ID = f.id()
	product.CreatedAt = f.tick()
	cp := *product
	f.products[product.ID] = &cp
	f.productsByLink[product.OrderLink] = product.ID
	return nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	product, ok := f.products[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	cp := *product
	return &cp, nil
}

func (f *fakeStore) GetProductByOrderLink(_ context.Context, code string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.productsByLink[code]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	cp := *f.products[id]
	return &cp, nil
}

func (f *fakeStore) GetMerchantProduct(_ context.Context, merchantID, productID int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	product, ok := f.products[productID]
	if !ok || product.MerchantID != merchantID {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	cp := *product
	return &cp, nil
}

func (f *fakeStore) GetProductsByMerchant(_ context.Context, merchantID int64) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var products []models.Product
	for _, p := range f.products {
		if p.MerchantID == merchantID {
			products = append(products, *p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, merchantID, productID int64, name, category string, price float64, description string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	product, ok := f.products[productID]
	if !ok || product.MerchantID != merchantID {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	product.Name = name
	product.Category = category
	product.Price = price
	product.Description = description
	cp := *product
	return &cp, nil
}

func (f *fakeStore) CreateOrderWithNotification(_ context.Context, order *models.Order, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOrderTx {
		return apperr.New(apperr.KindInternal, "storage unavailable")
	}

	order.ID = f.id()
	order.CreatedAt = f.tick()
	order.UpdatedAt = order.CreatedAt
	orderCp := *order
	f.orders[order.ID] = &orderCp

	notification.ID = f.id()
	notification.CreatedAt = f.tick()
	notifCp := *notification
	f.notifications[notification.ID] = &notifCp
	return nil
}

func (f *fakeStore) GetOrderMerchant(_ context.Context, orderID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return 0, apperr.New(apperr.KindNotFound, "order not found")
	}
	product, ok := f.products[order.ProductID]
	if !ok {
		return 0, apperr.New(apperr.KindNotFound, "order not found")
	}
	return product.MerchantID, nil
}

func (f *fakeStore) GetOrdersByMerchant(_ context.Context, merchantID int64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var orders []models.Order
	for _, o := range f.orders {
		product, ok := f.products[o.ProductID]
		if ok && product.MerchantID == merchantID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, orderID int64, status string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	order.Status = status
	order.UpdatedAt = f.tick()
	cp := *order
	return &cp, nil
}

func (f *fakeStore) GetNotificationsByMerchant(_ context.Context, merchantID int64) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var notifications []models.Notification
	for _, n := range f.notifications {
		if n.MerchantID == merchantID {
			notifications = append(notifications, *n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (f *fakeStore) GetNotificationByID(_ context.Context, id int64) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification, ok := f.notifications[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "notification not found")
	}
	cp := *notification
	return &cp, nil
}

func (f *fakeStore) MarkNotificationRead(_ context.Context, id int64) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification, ok := f.notifications[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "notification not found")
	}
	notification.Read = true
	cp := *notification
	return &cp, nil
}

func (f *fakeStore) MarkAllNotificationsRead(_ context.Context, merchantID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	for _, n := range f.notifications {
		if n.MerchantID == merchantID && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

// fakeCache is an in-memory stand-in for the order-link product cache.
// A missing entry surfaces as redis.Nil, matching the real client.
type fakeCache struct {
	mu sync.Mutex

	products      map[string]*models.Product
	sets          int
	invalidations []string

	failWith error
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: make(map[string]*models.Product)}
}

func (f *fakeCache) GetProductByOrderLink(_ context.Context, code string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}
	product, ok := f.products[code]
	if !ok {
		return nil, redis.Nil
	}
	cp := *product
	return &cp, nil
}

func (f *fakeCache) SetProductByOrderLink(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	cp := *product
	f.products[product.OrderLink] = &cp
	f.sets++
	return nil
}

func (f *fakeCache) InvalidateOrderLink(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.products, code)
	f.invalidations = append(f.invalidations, code)
	return nil
}

// helpers for seeding fixtures

func (f *fakeStore) seedProduct(merchantID int64, name string, price float64, link string) *models.Product {
	product := &models.Product{
		MerchantID: merchantID,
		Name:       name,
		Category:   "general",
		Price:      price,
		OrderLink:  link,
		Status:     models.ProductStatusActive,
	}
	_ = f.CreateProduct(context.Background(), product)
	return product
}

func (f *fakeStore) seedOrder(productID int64, totalPrice float64, status string) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	order := &models.Order{
		ID:         f.id(),
		ProductID:  productID,
		TotalPrice: totalPrice,
		Status:     status,
		CreatedAt:  f.tick(),
	}
	f.orders[order.ID] = order
	return order
}

func (f *fakeStore) seedNotification(merchantID int64, message string, read bool) *models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	notification := &models.Notification{
		ID:         f.id(),
		MerchantID: merchantID,
		Message:    message,
		Read:       read,
		CreatedAt:  f.tick(),
	}
	f.notifications[notification.ID] = notification
	return notification
}
