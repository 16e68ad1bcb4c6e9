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

// DeathCertificateRepository provides persistence for the death register.
type DeathCertificateRepository struct {
	db *sqlx.DB
}

// NewDeathCertificateRepository creates the repository.
func NewDeathCertificateRepository(db *sqlx.DB) *DeathCertificateRepository {
	return &DeathCertificateRepository{db: db}
}

const deathColumns = `id, tracking_number, deceased_name, deceased_name_mr, gender, date_of_death, place_of_death, place_of_death_mr,
cause_of_death, applicant_name, relation, address, contact, aadhaar_number, status, created_at, updated_at`

// List returns applications matching the filter with a total count.
func (r *DeathCertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.DeathCertificate, int, error) {
	baseQuery := `FROM death_certificates WHERE 1=1`
	conditions, args := certificateConditions(filter, "deceased_name")
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	pageSize, offset := clampPage(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", deathColumns, baseQuery, pageSize, offset)

	var records []models.DeathCertificate
	if err := r.db.SelectContext(ctx, &records, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list death certificates: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", baseQuery), args...); err != nil {
		return nil, 0, fmt.Errorf("count death certificates: %w", err)
	}
	return records, total, nil
}

// GetByID returns an application by identifier.
func (r *DeathCertificateRepository) GetByID(ctx context.Context, id string) (*models.DeathCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM death_certificates WHERE id = $1 LIMIT 1", deathColumns)
	var record models.DeathCertificate
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByTrackingNumber returns an application by tracking number.
func (r *DeathCertificateRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.DeathCertificate, error) {
	query := fmt.Sprintf("SELECT %s FROM death_certificates WHERE tracking_number = $1 LIMIT 1", deathColumns)
	var record models.DeathCertificate
	if err := r.db.GetContext(ctx, &record, query, trackingNumber); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new application.
func (r *DeathCertificateRepository) Create(ctx context.Context, record *models.DeathCertificate) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO death_certificates (id, tracking_number, deceased_name, deceased_name_mr, gender, date_of_death, place_of_death, place_of_death_mr,
cause_of_death, applicant_name, relation, address, contact, aadhaar_number, status, created_at, updated_at)
VALUES (:id, :tracking_number, :deceased_name, :deceased_name_mr, :gender, :date_of_death, :place_of_death, :place_of_death_mr,
:cause_of_death, :applicant_name, :relation, :address, :contact, :aadhaar_number, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create death certificate: %w", err)
	}
	return nil
}

// Update modifies mutable fields; the tracking number stays untouched.
func (r *DeathCertificateRepository) Update(ctx context.Context, record *models.DeathCertificate) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE death_certificates SET deceased_name = :deceased_name, deceased_name_mr = :deceased_name_mr, gender = :gender,
date_of_death = :date_of_death, place_of_death = :place_of_death, place_of_death_mr = :place_of_death_mr,
cause_of_death = :cause_of_death, applicant_name = :applicant_name, relation = :relation,
address = :address, contact = :contact, aadhaar_number = :aadhaar_number, status = :status, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update death certificate: %w", err)
	}
	return nil
}

// UpdateStatus patches only the lifecycle status.
func (r *DeathCertificateRepository) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	const query = `UPDATE death_certificates SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update death certificate status: %w", err)
	}
	return nil
}

// Delete removes an application permanently.
func (r *DeathCertificateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM death_certificates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete death certificate: %w", err)
	}
	return nil
}
