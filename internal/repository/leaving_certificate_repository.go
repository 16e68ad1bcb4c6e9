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

// LeavingCertificateRepository provides persistence for the leaving
// certificate register.
type LeavingCertificateRepository struct {
	db *sqlx.DB
}

// NewLeavingCertificateRepository creates the repository.
func NewLeavingCertificateRepository(db *sqlx.DB) *LeavingCertificateRepository {
	return &LeavingCertificateRepository{db: db}
}

const leavingColumns = `id, tracking_number, applicant_name, applicant_name_mr, father_name, father_name_mr, date_of_birth,
village, village_mr, reason, reason_mr, address, contact, aadhaar_number, status, created_at, updated_at`

// List returns applications matching the filter with a total count.
func (r *LeavingCertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.LeavingCertificate, int, error) {
	baseQuery := `FROM leaving_certificates WHERE 1=1`
	conditions, args := certificateConditions(filter, "applicant_name")
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", leavingColumns, baseQuery, pageSize, offset)

	var records []models.LeavingCertificate
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list leaving certificates: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count leaving certificates: %w", err)
	}
	return records, total, nil
}

// GetByID returns an application by identifier.
func (r *LeavingCertificateRepository) GetByID(ctx context.Context, id string) (*models.LeavingCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM leaving_certificates WHERE id = $1 LIMIT 1", leavingColumns)
	var record models.LeavingCertificate
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByTrackingNumber returns an application by tracking number.
func (r *LeavingCertificateRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.LeavingCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM leaving_certificates WHERE tracking_number = $1 LIMIT 1", leavingColumns)
	var record models.LeavingCertificate
	if err := r.db.GetContext(ctx, &record, query, trackingNumber); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new application.
func (r *LeavingCertificateRepository) Create(ctx context.Context, record *models.LeavingCertificate) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO leaving_certificates (id, tracking_number, applicant_name, applicant_name_mr, father_name, father_name_mr, date_of_birth,
village, village_mr, reason, reason_mr, address, contact, aadhaar_number, status, created_at, updated_at)
VALUES (:id, :tracking_number, :applicant_name, :applicant_name_mr, :father_name, :father_name_mr, :date_of_birth,
:village, :village_mr, :reason, :reason_mr, :address, :contact, :aadhaar_number, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create leaving certificate: %w", err)
	}
	return nil
}

// Update modifies mutable fields; the tracking number stays untouched.
func (r *LeavingCertificateRepository) Update(ctx context.Context, record *models.LeavingCertificate) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leaving_certificates SET applicant_name = :applicant_name, applicant_name_mr = :applicant_name_mr,
father_name = :father_name, father_name_mr = :father_name_mr, date_of_birth = :date_of_birth,
village = :village, village_mr = :village_mr, reason = :reason, reason_mr = :reason_mr,
address = :address, contact = :contact, aadhaar_number = :aadhaar_number, status = :status, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update leaving certificate: %w", err)
	}
	return nil
}

// SaveMarathiFields persists lazily transliterated Marathi variants so
// the next print does not need the network.
func (r *LeavingCertificateRepository) SaveMarathiFields(ctx context.Context, record *models.LeavingCertificate) error {
	const query = `UPDATE leaving_certificates SET applicant_name_mr = :applicant_name_mr, father_name_mr = :father_name_mr,
village_mr = :village_mr, reason_mr = :reason_mr, updated_at = :updated_at WHERE id = :id`
	record.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("save leaving certificate marathi fields: %w", err)
	}
	return nil
}

// UpdateStatus patches only the lifecycle status.
func (r *LeavingCertificateRepository) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	const query = `UPDATE leaving_certificates SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update leaving certificate status: %w", err)
	}
	return nil
}

// Delete removes an application permanently.
func (r *LeavingCertificateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM leaving_certificates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete leaving certificate: %w", err)
	}
	return nil
}
