package repository

import (
	"context"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// TripRepository defines the persistence operations for completed trips.
type TripRepository interface {
	// Create persists a completed trip. Trips are immutable once
	// stored.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// List retrieves trips for a device, newest first, one page at a
	// time. It returns the page and the total trip count.
	List(ctx context.Context, deviceID string, page, pageSize int) ([]*domain.Trip, int64, error)

	// Delete removes a trip from history.
	Delete(ctx context.Context, id string) error
}
