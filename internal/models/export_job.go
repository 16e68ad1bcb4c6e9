package models

import "time"

// ExportFormat selects the register export output.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus is the lifecycle of an export job.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "queued"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusDone       ExportStatus = "done"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJobParams narrows which register rows are exported.
type ExportJobParams struct {
	Register string       `json:"register"`
	From     string       `json:"from,omitempty"`
	To       string       `json:"to,omitempty"`
	Format   ExportFormat `json:"format"`
}

// ExportJob is a persisted register export request processed by the
// background worker queue.
type ExportJob struct {
	ID           string       `db:"id" json:"id"`
	Register     string       `db:"register" json:"register"`
	Format       ExportFormat `db:"format" json:"format"`
	PeriodFrom   string       `db:"period_from" json:"period_from,omitempty"`
	PeriodTo     string       `db:"period_to" json:"period_to,omitempty"`
	Status       ExportStatus `db:"status" json:"status"`
	FilePath     string       `db:"file_path" json:"-"`
	ErrorMessage string       `db:"error_message" json:"error_message,omitempty"`
	CreatedBy    string       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}
