package repository

import (
	"context"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// TariffRepository defines the persistence operations for region fare
// schedules.
type TariffRepository interface {
	// GetByCode retrieves the schedule for a fare-region code.
	GetByCode(ctx context.Context, code domain.RegionCode) (*domain.RegionFare, error)

	// List retrieves every configured schedule.
	List(ctx context.Context) ([]*domain.RegionFare, error)

	// Upsert creates or replaces a schedule.
	Upsert(ctx context.Context, fare *domain.RegionFare) error

	// Delete removes a schedule. Schedules are never auto-deleted;
	// this is the explicit user action.
	Delete(ctx context.Context, code domain.RegionCode) error
}
