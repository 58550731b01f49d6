package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"

	"github.com/lib/pq"
)

type rentalRepository struct {
	db dbtx
}

func NewRentalRepository(db dbtx) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, user_id, vehicle_id, unit_id, start_date, end_date, total_days, price_per_day, total_amount, status, admin_approval_status, approved_by, approved_at, rejection_reason, pickup_location, pickup_latitude, pickup_longitude, return_location, return_latitude, return_longitude, notes, created_at, updated_at`

func scanRental(row interface{ Scan(...interface{}) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var rejection, pickupLoc, returnLoc, notes sql.NullString
	err := row.Scan(&rt.ID, &rt.UserID, &rt.VehicleID, &rt.UnitID, &rt.StartDate, &rt.EndDate,
		&rt.TotalDays, &rt.PricePerDay, &rt.TotalAmount, &rt.Status, &rt.ApprovalStatus,
		&rt.ApprovedBy, &rt.ApprovedAt, &rejection, &pickupLoc, &rt.PickupLat, &rt.PickupLng,
		&returnLoc, &rt.ReturnLat, &rt.ReturnLng, &notes, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rt.RejectionReason = rejection.String
	rt.PickupLocation = pickupLoc.String
	rt.ReturnLocation = returnLoc.String
	rt.Notes = notes.String
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (user_id, vehicle_id, unit_id, start_date, end_date, total_days, price_per_day, total_amount, status, admin_approval_status, pickup_location, pickup_latitude, pickup_longitude, return_location, return_latitude, return_longitude, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rt.UserID, rt.VehicleID, rt.UnitID, rt.StartDate, rt.EndDate, rt.TotalDays,
		rt.PricePerDay, rt.TotalAmount, rt.Status, rt.ApprovalStatus,
		nullString(rt.PickupLocation), rt.PickupLat, rt.PickupLng,
		nullString(rt.ReturnLocation), rt.ReturnLat, rt.ReturnLng,
		nullString(rt.Notes), now, now,
	).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rental %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, admin_approval_status=$2, approved_by=$3, approved_at=$4, rejection_reason=$5, notes=$6, updated_at=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, rt.Status, rt.ApprovalStatus, rt.ApprovedBy,
		rt.ApprovedAt, nullString(rt.RejectionReason), nullString(rt.Notes), time.Now(), rt.ID)
	return err
}

func occupyingStatusStrings() []string {
	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func (r *rentalRepository) CountOverlapping(ctx context.Context, vehicleID int32, unitID *int32, start, end time.Time) (int32, error) {
	// Half-open intervals: a rental ending exactly when the new one starts
	// does not overlap it.
	query := `SELECT count(*) FROM rentals
	          WHERE vehicle_id = $1 AND status = ANY($2)
	            AND start_date < $3 AND end_date > $4`
	args := []interface{}{vehicleID, pq.Array(occupyingStatusStrings()), end, start}
	if unitID != nil {
		query += ` AND unit_id = $5`
		args = append(args, *unitID)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rentals, err := r.queryRentals(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) List(ctx context.Context, status, approvalStatus string, page, pageSize int32) ([]domain.Rental, int32, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE true`
	var args []interface{}
	argIdx := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	if approvalStatus != "" {
		query += fmt.Sprintf(" AND admin_approval_status = $%d", argIdx)
		args = append(args, approvalStatus)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rentals, err := r.queryRentals(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListExpired(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = ANY($1) AND end_date < $2 ORDER BY end_date`
	expirable := []string{string(domain.RentalStatusActive), string(domain.RentalStatusConfirmed)}
	return r.queryRentals(ctx, query, pq.Array(expirable), today)
}

func (r *rentalRepository) ListDueToStart(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = $1 AND admin_approval_status = $2 AND start_date <= $3 ORDER BY start_date`
	return r.queryRentals(ctx, query, domain.RentalStatusApproved, domain.ApprovalStatusApproved, today)
}

func (r *rentalRepository) UserStats(ctx context.Context, userID int32) (*domain.UserRentalStats, error) {
	query := `SELECT
	            count(*) FILTER (WHERE status = 'completed'),
	            count(*) FILTER (WHERE status IN ('active', 'approved'))
	          FROM rentals WHERE user_id = $1`
	stats := &domain.UserRentalStats{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&stats.TotalTrips, &stats.ActiveRentals); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *rentalRepository) AdminStats(ctx context.Context) (*domain.RentalStats, error) {
	query := `SELECT
	            count(*),
	            count(*) FILTER (WHERE admin_approval_status = 'pending' AND status = 'confirmed'),
	            count(*) FILTER (WHERE status = 'active'),
	            count(*) FILTER (WHERE status = 'completed'),
	            COALESCE(sum(total_amount) FILTER (WHERE status = 'completed'), 0)
	          FROM rentals`
	stats := &domain.RentalStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalRentals, &stats.PendingApprovals,
		&stats.ActiveRentals, &stats.CompletedRentals, &stats.TotalRevenue)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *rentalRepository) queryRentals(ctx context.Context, query string, args ...interface{}) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
