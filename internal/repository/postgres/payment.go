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

type paymentRepository struct {
	db dbtx
}

func NewPaymentRepository(db dbtx) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, rental_id, user_id, amount, payment_method, payment_status, order_id, transaction_id, snap_token, snap_redirect_url, payment_response, paid_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*domain.Payment, error) {
	p := &domain.Payment{}
	var method, orderID, txID, token, redirect sql.NullString
	var raw []byte
	err := row.Scan(&p.ID, &p.RentalID, &p.UserID, &p.Amount, &method, &p.Status, &orderID,
		&txID, &token, &redirect, &raw, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Method = method.String
	p.OrderID = orderID.String
	p.TransactionID = txID.String
	p.SnapToken = token.String
	p.RedirectURL = redirect.String
	p.RawResponse = raw
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (rental_id, user_id, amount, payment_status, order_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, p.RentalID, p.UserID, p.Amount, p.Status,
		nullString(p.OrderID), now, now).Scan(&p.ID)
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment for order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) GetByRentalID(ctx context.Context, rentalID int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE rental_id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, rentalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment for rental %d: %w", rentalID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments SET payment_method=$1, payment_status=$2, order_id=$3, transaction_id=$4, snap_token=$5, snap_redirect_url=$6, payment_response=$7, paid_at=$8, updated_at=$9 WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, nullString(p.Method), p.Status, nullString(p.OrderID),
		nullString(p.TransactionID), nullString(p.SnapToken), nullString(p.RedirectURL),
		[]byte(p.RawResponse), p.PaidAt, time.Now(), p.ID)
	return err
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Payment, int32, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND payment_status = $%d", argIdx)
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

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	return payments, count, rows.Err()
}

func (r *paymentRepository) ListPendingOrders(ctx context.Context, limit int32) ([]string, error) {
	query := `SELECT order_id FROM payments
	          WHERE payment_status = $1 AND order_id IS NOT NULL
	          ORDER BY created_at LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, domain.PaymentStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []string
	for rows.Next() {
		var orderID string
		if err := rows.Scan(&orderID); err != nil {
			return nil, err
		}
		orders = append(orders, orderID)
	}
	return orders, rows.Err()
}
