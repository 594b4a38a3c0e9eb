// Package service holds the request-scoped business logic between the gin
// handlers and the stores. Services accept narrow store interfaces so the
// sqlx store can be swapped for fakes in tests.
package service

import (
	"context"
	"errors"
	"time"

	"shwedadar-service/internal/models"
)

var (
	// ErrValidation marks malformed or out-of-range input, detected
	// before any persistence happens.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials covers unknown usernames, wrong passwords,
	// and deactivated accounts alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConsolidationRunning means another consolidation run holds the
	// maintenance lock.
	ErrConsolidationRunning = errors.New("consolidation already running")
)

// Publisher is the slice of the event publisher the services use.
type Publisher interface {
	PublishSaleCreated(ctx context.Context, event *models.SaleCreatedEvent) error
	PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error
	PublishTypesConsolidated(ctx context.Context, event *models.TypesConsolidatedEvent) error
}

// Locker guards maintenance operations that must not overlap.
type Locker interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}
