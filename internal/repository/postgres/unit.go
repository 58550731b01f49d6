package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type unitRepository struct {
	db dbtx
}

func NewUnitRepository(db dbtx) repository.UnitRepository {
	return &unitRepository{db: db}
}

const unitColumns = `id, vehicle_id, plate_number, status, current_location, current_latitude, current_longitude, mileage, last_maintenance_date, next_maintenance_date, notes, created_at, updated_at`

func scanUnit(row interface{ Scan(...interface{}) error }) (*domain.VehicleUnit, error) {
	u := &domain.VehicleUnit{}
	var location, notes sql.NullString
	err := row.Scan(&u.ID, &u.VehicleID, &u.PlateNumber, &u.Status, &location, &u.CurrentLat,
		&u.CurrentLng, &u.Mileage, &u.LastMaintenanceDate, &u.NextMaintenanceDate, &notes,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.CurrentLocation = location.String
	u.Notes = notes.String
	return u, nil
}

func (r *unitRepository) GetByID(ctx context.Context, id int32) (*domain.VehicleUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM vehicle_units WHERE id = $1`
	u, err := scanUnit(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle unit %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetForUpdate locks the unit row until the enclosing transaction ends. Two
// allocations racing for the same unit serialize here.
func (r *unitRepository) GetForUpdate(ctx context.Context, id int32) (*domain.VehicleUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM vehicle_units WHERE id = $1 FOR UPDATE`
	u, err := scanUnit(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle unit %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *unitRepository) FirstAvailableForUpdate(ctx context.Context, vehicleID int32) (*domain.VehicleUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM vehicle_units
	          WHERE vehicle_id = $1 AND status = $2
	          ORDER BY id LIMIT 1 FOR UPDATE SKIP LOCKED`
	u, err := scanUnit(r.db.QueryRowContext(ctx, query, vehicleID, domain.UnitStatusAvailable))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no available unit for vehicle %d: %w", vehicleID, domain.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *unitRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.VehicleUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM vehicle_units WHERE vehicle_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.VehicleUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

func (r *unitRepository) CountByVehicle(ctx context.Context, vehicleID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM vehicle_units WHERE vehicle_id = $1`, vehicleID).Scan(&count)
	return count, err
}

func (r *unitRepository) CountAvailable(ctx context.Context, vehicleID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM vehicle_units WHERE vehicle_id = $1 AND status = $2`,
		vehicleID, domain.UnitStatusAvailable).Scan(&count)
	return count, err
}

func (r *unitRepository) UpdateStatus(ctx context.Context, id int32, status domain.UnitStatus) error {
	query := `UPDATE vehicle_units SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("vehicle unit %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
