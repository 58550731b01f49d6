package service

import (
	"context"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type vehicleService struct {
	repos *repository.Repositories
}

func NewVehicleService(repos *repository.Repositories) VehicleService {
	return &vehicleService{repos: repos}
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	vehicle, err := s.repos.Vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	units, err := s.repos.Units.ListByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	vehicle.Units = units
	return vehicle, nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	return s.repos.Vehicles.List(ctx, page, pageSize)
}

// CheckAvailability is the read-only availability probe: it reports how
// many units of a vehicle remain free for the given date range, or whether
// a specific unit is free. The answer is advisory; allocation re-checks it
// under a lock.
func (s *vehicleService) CheckAvailability(ctx context.Context, vehicleID int32, unitID *int32, start, end time.Time) (int32, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("end date must be after start date: %w", domain.ErrValidation)
	}

	if unitID != nil {
		unit, err := s.repos.Units.GetByID(ctx, *unitID)
		if err != nil {
			return 0, err
		}
		if !unit.IsAvailable() {
			return 0, nil
		}
		overlapping, err := s.repos.Rentals.CountOverlapping(ctx, vehicleID, unitID, start, end)
		if err != nil {
			return 0, err
		}
		if overlapping > 0 {
			return 0, nil
		}
		return 1, nil
	}

	total, err := s.repos.Units.CountByVehicle(ctx, vehicleID)
	if err != nil {
		return 0, err
	}
	overlapping, err := s.repos.Rentals.CountOverlapping(ctx, vehicleID, nil, start, end)
	if err != nil {
		return 0, err
	}
	free := total - overlapping
	if free < 0 {
		free = 0
	}
	return free, nil
}
