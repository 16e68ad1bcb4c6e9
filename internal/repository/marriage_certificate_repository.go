package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gramseva/panchayat-api/internal/models"
)

// MarriageCertificateRepository provides persistence for the marriage
// register.
type MarriageCertificateRepository struct {
	db *sqlx.DB
}

// NewMarriageCertificateRepository creates the repository.
func NewMarriageCertificateRepository(db *sqlx.DB) *MarriageCertificateRepository {
	return &MarriageCertificateRepository{db: db}
}

const marriageColumns = `id, tracking_number, groom_name, groom_name_mr, bride_name, bride_name_mr, date_of_marriage,
place_of_marriage, witness_name, address, contact, status, created_at, updated_at`

// List returns applications matching the filter with a total count.
func (r *MarriageCertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.MarriageCertificate, int, error) {
	baseQuery := `FROM marriage_certificates WHERE 1=1`
	conditions, args := certificateConditions(filter, "groom_name")
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", marriageColumns, baseQuery, pageSize, offset)

	var records []models.MarriageCertificate
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list marriage certificates: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count marriage certificates: %w", err)
	}
	return records, total, nil
}

// GetByID returns an application by identifier.
func (r *MarriageCertificateRepository) GetByID(ctx context.Context, id string) (*models.MarriageCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM marriage_certificates WHERE id = $1 LIMIT 1", marriageColumns)
	var record models.MarriageCertificate
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByTrackingNumber returns an application by tracking number.
func (r *MarriageCertificateRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.MarriageCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM marriage_certificates WHERE tracking_number = $1 LIMIT 1", marriageColumns)
	var record models.MarriageCertificate
	if err := r.db.GetContext(ctx, &record, query, trackingNumber); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new application.
func (r *MarriageCertificateRepository) Create(ctx context.Context, record *models.MarriageCertificate) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO marriage_certificates (id, tracking_number, groom_name, groom_name_mr, bride_name, bride_name_mr, date_of_marriage,
place_of_marriage, witness_name, address, contact, status, created_at, updated_at)
VALUES (:id, :tracking_number, :groom_name, :groom_name_mr, :bride_name, :bride_name_mr, :date_of_marriage,
:place_of_marriage, :witness_name, :address, :contact, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create marriage certificate: %w", err)
	}
	return nil
}

// Update modifies mutable fields; the tracking number stays untouched.
func (r *MarriageCertificateRepository) Update(ctx context.Context, record *models.MarriageCertificate) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE marriage_certificates SET groom_name = :groom_name, groom_name_mr = :groom_name_mr,
bride_name = :bride_name, bride_name_mr = :bride_name_mr, date_of_marriage = :date_of_marriage,
place_of_marriage = :place_of_marriage, witness_name = :witness_name,
address = :address, contact = :contact, status = :status, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update marriage certificate: %w", err)
	}
	return nil
}

// UpdateStatus patches only the lifecycle status.
func (r *MarriageCertificateRepository) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	const query = `UPDATE marriage_certificates SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update marriage certificate status: %w", err)
	}
	return nil
}

// Delete removes an application permanently.
func (r *MarriageCertificateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM marriage_certificates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete marriage certificate: %w", err)
	}
	return nil
}
