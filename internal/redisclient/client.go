package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const orderLinkTTL = 5 * time.Minute

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func orderLinkKey(code string) string {
	return fmt.Sprintf("product:link:%s", code)
}

// GetProductByOrderLink returns a cached product for an order-link code.
// redis.Nil is surfaced as-is so callers can distinguish a miss from a
// transport failure.
func (c *Client) GetProductByOrderLink(ctx context.Context, code string) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, orderLinkKey(code)).Bytes()
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode cached product: %w", err)
	}
	return &product, nil
}

// IsCacheMiss reports whether err is a cache miss rather than a failure
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}

// SetProductByOrderLink caches a product under its order-link code
func (c *Client) SetProductByOrderLink(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}
	return c.rdb.Set(ctx, orderLinkKey(product.OrderLink), data, orderLinkTTL).Err()
}

// InvalidateOrderLink drops the cached product for an order-link code.
// Called after any product mutation so the public order page never serves
// stale prices past the TTL window.
func (c *Client) InvalidateOrderLink(ctx context.Context, code string) error {
	return c.rdb.Del(ctx, orderLinkKey(code)).Err()
}
