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

// BirthCertificateRepository provides persistence for the birth register.
type BirthCertificateRepository struct {
	db *sqlx.DB
}

// NewBirthCertificateRepository creates the repository.
func NewBirthCertificateRepository(db *sqlx.DB) *BirthCertificateRepository {
	return &BirthCertificateRepository{db: db}
}

const birthColumns = `id, tracking_number, child_name, child_name_mr, gender, date_of_birth, place_of_birth, place_of_birth_mr,
father_name, father_name_mr, mother_name, mother_name_mr, address, contact, aadhaar_number, status, created_at, updated_at`

// List returns applications matching the filter with a total count.
func (r *BirthCertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.BirthCertificate, int, error) {
	baseQuery := `FROM birth_certificates WHERE 1=1`
	conditions, args := certificateConditions(filter, "child_name")
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", birthColumns, baseQuery, pageSize, offset)

	var records []models.BirthCertificate
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list birth certificates: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count birth certificates: %w", err)
	}
	return records, total, nil
}

// GetByID returns an application by identifier.
func (r *BirthCertificateRepository) GetByID(ctx context.Context, id string) (*models.BirthCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM birth_certificates WHERE id = $1 LIMIT 1", birthColumns)
	var record models.BirthCertificate
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByTrackingNumber returns an application by tracking number.
func (r *BirthCertificateRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.BirthCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM birth_certificates WHERE tracking_number = $1 LIMIT 1", birthColumns)
	var record models.BirthCertificate
	if err := r.db.GetContext(ctx, &record, query, trackingNumber); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new application.
func (r *BirthCertificateRepository) Create(ctx context.Context, record *models.BirthCertificate) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO birth_certificates (id, tracking_number, child_name, child_name_mr, gender, date_of_birth, place_of_birth, place_of_birth_mr,
father_name, father_name_mr, mother_name, mother_name_mr, address, contact, aadhaar_number, status, created_at, updated_at)
VALUES (:id, :tracking_number, :child_name, :child_name_mr, :gender, :date_of_birth, :place_of_birth, :place_of_birth_mr,
:father_name, :father_name_mr, :mother_name, :mother_name_mr, :address, :contact, :aadhaar_number, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create birth certificate: %w", err)
	}
	return nil
}

// Update modifies mutable fields; the tracking number stays untouched.
func (r *BirthCertificateRepository) Update(ctx context.Context, record *models.BirthCertificate) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE birth_certificates SET child_name = :child_name, child_name_mr = :child_name_mr, gender = :gender,
date_of_birth = :date_of_birth, place_of_birth = :place_of_birth, place_of_birth_mr = :place_of_birth_mr,
father_name = :father_name, father_name_mr = :father_name_mr, mother_name = :mother_name, mother_name_mr = :mother_name_mr,
address = :address, contact = :contact, aadhaar_number = :aadhaar_number, status = :status, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update birth certificate: %w", err)
	}
	return nil
}

// UpdateStatus patches only the lifecycle status.
func (r *BirthCertificateRepository) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	const query = `UPDATE birth_certificates SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update birth certificate status: %w", err)
	}
	return nil
}

// Delete removes an application permanently.
func (r *BirthCertificateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM birth_certificates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete birth certificate: %w", err)
	}
	return nil
}

// certificateConditions builds the shared filter clauses for the
// certificate registers; searchColumn is the register's primary name
// column.
func certificateConditions(filter models.CertificateFilter, searchColumn string) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(%s) LIKE $%d OR LOWER(tracking_number) LIKE $%d)", searchColumn, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	return conditions, args
}

// clampPage normalises pagination inputs into a page size and offset.
func clampPage(page, pageSize int) (int, int) {
	page, pageSize = models.NormalizePage(page, pageSize)
	return pageSize, (page - 1) * pageSize
}
