package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gramseva/panchayat-api/internal/models"
)

// ExportJobRepository persists register export jobs.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository creates the repository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

const exportJobColumns = `id, register, format, period_from, period_to, status, file_path, error_message, created_by, created_at, finished_at`

// Create inserts a queued job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}

	const query = `INSERT INTO export_jobs (id, register, format, period_from, period_to, status, file_path, error_message, created_by, created_at)
VALUES (:id, :register, :format, :period_from, :period_to, :status, :file_path, :error_message, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// GetByID returns a job by identifier.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE id = $1 LIMIT 1", exportJobColumns)
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateStatus records a job state change, optionally with a file path or
// error message.
func (r *ExportJobRepository) UpdateStatus(ctx context.Context, id string, status models.ExportStatus, filePath, errorMessage string, finishedAt *time.Time) error {
	const query = `UPDATE export_jobs SET status = $2, file_path = $3, error_message = $4, finished_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, filePath, errorMessage, finishedAt); err != nil {
		return fmt.Errorf("update export job status: %w", err)
	}
	return nil
}

// ListFinishedBefore returns completed jobs whose files are old enough to
// clean up.
func (r *ExportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE status = $1 AND finished_at IS NOT NULL AND finished_at < $2 LIMIT %d", exportJobColumns, limit)
	var jobs []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobs, query, models.ExportStatusDone, cutoff); err != nil {
		return nil, fmt.Errorf("list finished export jobs: %w", err)
	}
	return jobs, nil
}
