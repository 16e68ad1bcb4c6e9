package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/export"
	"github.com/gramseva/panchayat-api/pkg/jobs"
	"github.com/gramseva/panchayat-api/pkg/storage"
)

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	UpdateStatus(ctx context.Context, id string, status models.ExportStatus, filePath, errorMessage string, finishedAt *time.Time) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error)
}

// CreateExportRequest asks for a register export.
type CreateExportRequest struct {
	Register string `json:"register" validate:"required,oneof=birth death marriage leaving"`
	Format   string `json:"format" validate:"required,oneof=csv pdf"`
	From     string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// ExportStatusResponse is the poll payload; DownloadURL is set once the
// job is done and carries the signed token.
type ExportStatusResponse struct {
	Job         *models.ExportJob `json:"job"`
	DownloadURL string            `json:"download_url,omitempty"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
}

const exportPageSize = 500

// ExportService produces downloadable register exports through the
// background worker queue.
type ExportService struct {
	repo     exportJobRepository
	birth    birthCertificateRepository
	death    deathCertificateRepository
	marriage marriageCertificateRepository
	leaving  leavingCertificateRepository

	queue   *jobs.Queue
	store   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	fileTTL time.Duration

	validator *validator.Validate
	logger    *zap.Logger
}

// ExportServiceDeps bundles the register repositories.
type ExportServiceDeps struct {
	Jobs     exportJobRepository
	Birth    birthCertificateRepository
	Death    deathCertificateRepository
	Marriage marriageCertificateRepository
	Leaving  leavingCertificateRepository
}

// NewExportService creates an instance of ExportService. Call Start to
// begin processing queued jobs.
func NewExportService(deps ExportServiceDeps, store *storage.LocalStorage, signer *storage.SignedURLSigner, fileTTL time.Duration, queueCfg jobs.QueueConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if fileTTL <= 0 {
		fileTTL = 24 * time.Hour
	}

	s := &ExportService{
		repo:      deps.Jobs,
		birth:     deps.Birth,
		death:     deps.Death,
		marriage:  deps.Marriage,
		leaving:   deps.Leaving,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		fileTTL:   fileTTL,
		validator: validate,
		logger:    logger,
	}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("register-exports", s.process, queueCfg)
	return s
}

// Start launches the worker pool and the expired-file janitor.
func (s *ExportService) Start(ctx context.Context, cleanupInterval time.Duration) {
	s.queue.Start(ctx)
	if cleanupInterval > 0 {
		go s.cleanupLoop(ctx, cleanupInterval)
	}
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// CreateJob persists an export request and queues it for processing.
func (s *ExportService) CreateJob(ctx context.Context, req CreateExportRequest, actorID string) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	job := &models.ExportJob{
		ID:         uuid.NewString(),
		Register:   req.Register,
		Format:     models.ExportFormat(req.Format),
		PeriodFrom: req.From,
		PeriodTo:   req.To,
		Status:     models.ExportStatusQueued,
		CreatedBy:  actorID,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "register-export"}); err != nil {
		now := time.Now().UTC()
		if updateErr := s.repo.UpdateStatus(ctx, job.ID, models.ExportStatusFailed, "", "queue unavailable", &now); updateErr != nil {
			s.logger.Error("failed to mark export job failed", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export job")
	}

	return job, nil
}

// Status returns the job state plus a signed download URL when done.
func (s *ExportService) Status(ctx context.Context, id string) (*ExportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}

	resp := &ExportStatusResponse{Job: job}
	if job.Status == models.ExportStatusDone && job.FilePath != "" {
		token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download URL")
		}
		resp.DownloadURL = "/api/v1/exports/download?token=" + token
		resp.ExpiresAt = &expiresAt
	}

	return resp, nil
}

// Download validates a signed token and opens the export file.
func (s *ExportService) Download(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	record, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", job.ID, err)
	}

	if err := s.repo.UpdateStatus(ctx, record.ID, models.ExportStatusProcessing, "", "", nil); err != nil {
		return fmt.Errorf("mark export job processing: %w", err)
	}

	dataset, err := s.buildDataset(ctx, record)
	if err == nil {
		var payload []byte
		switch record.Format {
		case models.ExportFormatPDF:
			payload, err = s.pdf.Render(*dataset, record.Register+" register")
		default:
			payload, err = s.csv.Render(*dataset)
		}
		if err == nil {
			filename := fmt.Sprintf("%s-register-%s.%s", record.Register, record.ID, record.Format)
			_, err = s.store.Save(filename, payload)
			if err == nil {
				now := time.Now().UTC()
				return s.repo.UpdateStatus(ctx, record.ID, models.ExportStatusDone, filename, "", &now)
			}
		}
	}

	now := time.Now().UTC()
	if updateErr := s.repo.UpdateStatus(ctx, record.ID, models.ExportStatusFailed, "", err.Error(), &now); updateErr != nil {
		s.logger.Error("failed to mark export job failed", zap.String("job_id", record.ID), zap.Error(updateErr))
	}
	return err
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (*export.Dataset, error) {
	filter := models.CertificateFilter{PageSize: exportPageSize}
	if job.PeriodFrom != "" {
		if from, err := time.Parse("2006-01-02", job.PeriodFrom); err == nil {
			filter.From = &from
		}
	}
	if job.PeriodTo != "" {
		if to, err := time.Parse("2006-01-02", job.PeriodTo); err == nil {
			end := to.Add(24 * time.Hour)
			filter.To = &end
		}
	}

	switch job.Register {
	case "birth":
		return s.birthDataset(ctx, filter)
	case "death":
		return s.deathDataset(ctx, filter)
	case "marriage":
		return s.marriageDataset(ctx, filter)
	case "leaving":
		return s.leavingDataset(ctx, filter)
	default:
		return nil, fmt.Errorf("unknown register %q", job.Register)
	}
}

func (s *ExportService) birthDataset(ctx context.Context, filter models.CertificateFilter) (*export.Dataset, error) {
	dataset := &export.Dataset{Headers: []string{"Tracking", "Child", "Gender", "Date of Birth", "Place", "Father", "Mother", "Status"}}
	for page := 1; ; page++ {
		filter.Page = page
		records, total, err := s.birth.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list birth register page %d: %w", page, err)
		}
		for _, r := range records {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Tracking": r.TrackingNumber, "Child": r.ChildName, "Gender": r.Gender,
				"Date of Birth": r.DateOfBirth, "Place": r.PlaceOfBirth,
				"Father": r.FatherName, "Mother": r.MotherName, "Status": string(r.Status),
			})
		}
		if len(records) == 0 || len(dataset.Rows) >= total {
			return dataset, nil
		}
	}
}

func (s *ExportService) deathDataset(ctx context.Context, filter models.CertificateFilter) (*export.Dataset, error) {
	dataset := &export.Dataset{Headers: []string{"Tracking", "Deceased", "Gender", "Date of Death", "Place", "Applicant", "Status"}}
	for page := 1; ; page++ {
		filter.Page = page
		records, total, err := s.death.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list death register page %d: %w", page, err)
		}
		for _, r := range records {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Tracking": r.TrackingNumber, "Deceased": r.DeceasedName, "Gender": r.Gender,
				"Date of Death": r.DateOfDeath, "Place": r.PlaceOfDeath,
				"Applicant": r.ApplicantName, "Status": string(r.Status),
			})
		}
		if len(records) == 0 || len(dataset.Rows) >= total {
			return dataset, nil
		}
	}
}

func (s *ExportService) marriageDataset(ctx context.Context, filter models.CertificateFilter) (*export.Dataset, error) {
	dataset := &export.Dataset{Headers: []string{"Tracking", "Groom", "Bride", "Date of Marriage", "Place", "Witness", "Status"}}
	for page := 1; ; page++ {
		filter.Page = page
		records, total, err := s.marriage.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list marriage register page %d: %w", page, err)
		}
		for _, r := range records {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Tracking": r.TrackingNumber, "Groom": r.GroomName, "Bride": r.BrideName,
				"Date of Marriage": r.DateOfMarriage, "Place": r.PlaceOfMarriage,
				"Witness": r.WitnessName, "Status": string(r.Status),
			})
		}
		if len(records) == 0 || len(dataset.Rows) >= total {
			return dataset, nil
		}
	}
}

func (s *ExportService) leavingDataset(ctx context.Context, filter models.CertificateFilter) (*export.Dataset, error) {
	dataset := &export.Dataset{Headers: []string{"Tracking", "Applicant", "Father", "Date of Birth", "Village", "Reason", "Status"}}
	for page := 1; ; page++ {
		filter.Page = page
		records, total, err := s.leaving.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list leaving register page %d: %w", page, err)
		}
		for _, r := range records {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Tracking": r.TrackingNumber, "Applicant": r.ApplicantName, "Father": r.FatherName,
				"Date of Birth": r.DateOfBirth, "Village": r.Village,
				"Reason": r.Reason, "Status": string(r.Status),
			})
		}
		if len(records) == 0 || len(dataset.Rows) >= total {
			return dataset, nil
		}
	}
}

func (s *ExportService) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.store.CleanupOlderThan(s.fileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired export files removed", zap.Int("count", len(removed)))
			}
		}
	}
}
