package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/repository"
	"github.com/devbada/hogumeter-sub001/internal/tariff"
)

// TariffService manages the region fare schedules: the tariff
// configuration store collaborator of the meter engine.
type TariffService struct {
	tariffRepo repository.TariffRepository
	homeRegion domain.RegionCode
}

// NewTariffService creates a new TariffService.
func NewTariffService(tariffRepo repository.TariffRepository, homeRegion domain.RegionCode) *TariffService {
	return &TariffService{tariffRepo: tariffRepo, homeRegion: homeRegion}
}

// EnsureSeeded loads the built-in schedules for any region not yet
// configured. User-edited schedules are never overwritten.
func (s *TariffService) EnsureSeeded(ctx context.Context) error {
	for _, fare := range tariff.Seed() {
		_, err := s.tariffRepo.GetByCode(ctx, fare.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := s.tariffRepo.Upsert(ctx, fare); err != nil {
			return err
		}
	}
	return nil
}

// List retrieves every configured schedule.
func (s *TariffService) List(ctx context.Context) ([]*domain.RegionFare, error) {
	return s.tariffRepo.List(ctx)
}

// Get retrieves one schedule by region code.
func (s *TariffService) Get(ctx context.Context, code domain.RegionCode) (*domain.RegionFare, error) {
	if code == "" {
		return nil, ErrInvalidRegionCode
	}
	return s.tariffRepo.GetByCode(ctx, code)
}

// Upsert validates and stores a canonical three-tier schedule.
func (s *TariffService) Upsert(ctx context.Context, fare *domain.RegionFare) error {
	if fare == nil || fare.Code == "" {
		return ErrInvalidRegionCode
	}
	if err := fare.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTariff, err)
	}
	fare.IsUserCreated = true
	return s.tariffRepo.Upsert(ctx, fare)
}

// UpsertLegacy accepts the legacy single-tier schema, converting it to
// the canonical shape at this boundary.
func (s *TariffService) UpsertLegacy(ctx context.Context, legacy tariff.LegacyRegionFare) (*domain.RegionFare, error) {
	fare, err := tariff.FromLegacy(legacy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTariff, err)
	}
	if err := s.tariffRepo.Upsert(ctx, fare); err != nil {
		return nil, err
	}
	return fare, nil
}

// Delete removes a schedule from the user's region list. The home
// region's schedule is protected; active trips are unaffected because a
// running trip locks onto its schedule at start.
func (s *TariffService) Delete(ctx context.Context, code domain.RegionCode) error {
	if code == "" {
		return ErrInvalidRegionCode
	}
	if code == s.homeRegion {
		return ErrHomeRegionProtected
	}
	return s.tariffRepo.Delete(ctx, code)
}
