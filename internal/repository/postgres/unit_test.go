package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var unitRows = []string{
	"id", "vehicle_id", "plate_number", "status", "current_location", "current_latitude",
	"current_longitude", "mileage", "last_maintenance_date", "next_maintenance_date",
	"notes", "created_at", "updated_at",
}

func unitRow(id int32, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(unitRows).
		AddRow(id, 2, "B 1234 XYZ", status, nil, nil, nil, 12000, nil, nil, nil, now, now)
}

func TestUnitRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUnitRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM vehicle_units WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(unitRow(7, "available"))

		unit, err := repo.GetForUpdate(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), unit.ID)
		assert.True(t, unit.IsAvailable())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM vehicle_units WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(unitRows))

		_, err := repo.GetForUpdate(ctx, 99)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestUnitRepository_FirstAvailableForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUnitRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM vehicle_units").
			WithArgs(int32(2), domain.UnitStatusAvailable).
			WillReturnRows(unitRow(7, "available"))

		unit, err := repo.FirstAvailableForUpdate(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), unit.ID)
	})

	t.Run("NoneAvailable", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM vehicle_units").
			WithArgs(int32(2), domain.UnitStatusAvailable).
			WillReturnRows(sqlmock.NewRows(unitRows))

		_, err := repo.FirstAvailableForUpdate(ctx, 2)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})
}

func TestUnitRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUnitRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE vehicle_units SET status").
			WithArgs(domain.UnitStatusRented, sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 7, domain.UnitStatusRented))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE vehicle_units SET status").
			WithArgs(domain.UnitStatusRented, sqlmock.AnyArg(), int32(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, 99, domain.UnitStatusRented)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
