package service

import (
	"context"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/repository"
)

// TripService handles completed-trip history operations.
type TripService struct {
	tripRepo repository.TripRepository
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo repository.TripRepository) *TripService {
	return &TripService{tripRepo: tripRepo}
}

// TripPage is one page of trip history.
type TripPage struct {
	Trips    []*domain.Trip
	Total    int64
	Page     int
	PageSize int
}

// History retrieves one page of a device's completed trips, newest
// first.
func (s *TripService) History(ctx context.Context, deviceID string, page, pageSize int) (*TripPage, error) {
	if deviceID == "" {
		return nil, ErrInvalidDeviceID
	}
	if page < 1 || pageSize < 1 || pageSize > 100 {
		return nil, ErrInvalidPage
	}

	trips, total, err := s.tripRepo.List(ctx, deviceID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &TripPage{Trips: trips, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.tripRepo.GetByID(ctx, tripID)
}

// DeleteTrip removes a trip from history.
func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	if tripID == "" {
		return ErrInvalidTripID
	}
	return s.tripRepo.Delete(ctx, tripID)
}
