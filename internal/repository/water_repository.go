package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gramseva/panchayat-api/internal/models"
)

// WaterRepository provides persistence for water connections, bills and
// payments plus property-tax payment confirmations.
type WaterRepository struct {
	db *sqlx.DB
}

// NewWaterRepository creates the repository.
func NewWaterRepository(db *sqlx.DB) *WaterRepository {
	return &WaterRepository{db: db}
}

// CreateConnection inserts a single connection row.
func (r *WaterRepository) CreateConnection(ctx context.Context, conn *models.WaterConnection) error {
	if conn.ID == "" {
		conn.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	conn.UpdatedAt = now

	const query = `INSERT INTO water_connections (id, connection_number, owner_name, owner_name_mr, address, contact, connection_type, created_at, updated_at)
VALUES (:id, :connection_number, :owner_name, :owner_name_mr, :address, :contact, :connection_type, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, conn); err != nil {
		return fmt.Errorf("create water connection: %w", err)
	}
	return nil
}

// GetConnectionByNumber returns a connection by its office-assigned number.
func (r *WaterRepository) GetConnectionByNumber(ctx context.Context, connectionNumber string) (*models.WaterConnection, error) {
	const query = `SELECT id, connection_number, owner_name, owner_name_mr, address, contact, connection_type, created_at, updated_at
FROM water_connections WHERE connection_number = $1 LIMIT 1`
	var conn models.WaterConnection
	if err := r.db.GetContext(ctx, &conn, query, connectionNumber); err != nil {
		return nil, err
	}
	return &conn, nil
}

// ListBillsByConnection returns bills for a connection, newest period
// first.
func (r *WaterRepository) ListBillsByConnection(ctx context.Context, connectionNumber string) ([]models.WaterBill, error) {
	const query = `SELECT id, connection_number, billing_period, amount_paise, due_date, paid, paid_at, created_at
FROM water_bills WHERE connection_number = $1 ORDER BY billing_period DESC`
	var bills []models.WaterBill
	if err := r.db.SelectContext(ctx, &bills, query, connectionNumber); err != nil {
		return nil, fmt.Errorf("list water bills: %w", err)
	}
	return bills, nil
}

// GetBillByID returns a single bill row.
func (r *WaterRepository) GetBillByID(ctx context.Context, id string) (*models.WaterBill, error) {
	const query = `SELECT id, connection_number, billing_period, amount_paise, due_date, paid, paid_at, created_at
FROM water_bills WHERE id = $1 LIMIT 1`
	var bill models.WaterBill
	if err := r.db.GetContext(ctx, &bill, query, id); err != nil {
		return nil, err
	}
	return &bill, nil
}

// CreatePayment inserts a manually confirmed payment.
func (r *WaterRepository) CreatePayment(ctx context.Context, payment *models.WaterPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO water_payments (id, connection_number, bill_id, amount_paise, upi_transaction_id, payer_name, created_at)
VALUES (:id, :connection_number, :bill_id, :amount_paise, :upi_transaction_id, :payer_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create water payment: %w", err)
	}
	return nil
}

// MarkBillPaid flags a bill as settled.
func (r *WaterRepository) MarkBillPaid(ctx context.Context, billID string, paidAt time.Time) error {
	const query = `UPDATE water_bills SET paid = TRUE, paid_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, billID, paidAt); err != nil {
		return fmt.Errorf("mark water bill paid: %w", err)
	}
	return nil
}

// CreatePropertyPayment inserts a property-tax payment confirmation.
func (r *WaterRepository) CreatePropertyPayment(ctx context.Context, payment *models.PropertyPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO property_payments (id, tracking_number, property_number, owner_name, amount_paise, upi_transaction_id, contact, created_at)
VALUES (:id, :tracking_number, :property_number, :owner_name, :amount_paise, :upi_transaction_id, :contact, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create property payment: %w", err)
	}
	return nil
}
