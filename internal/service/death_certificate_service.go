package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/tracking"
)

type deathCertificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.DeathCertificate, int, error)
	GetByID(ctx context.Context, id string) (*models.DeathCertificate, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.DeathCertificate, error)
	Create(ctx context.Context, record *models.DeathCertificate) error
	Update(ctx context.Context, record *models.DeathCertificate) error
	UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error
	Delete(ctx context.Context, id string) error
}

// DeathCertificateRequest is the application payload.
type DeathCertificateRequest struct {
	DeceasedName   string `json:"deceased_name" validate:"required"`
	DeceasedNameMr string `json:"deceased_name_mr"`
	Gender         string `json:"gender" validate:"required,oneof=male female other"`
	DateOfDeath    string `json:"date_of_death" validate:"required"`
	PlaceOfDeath   string `json:"place_of_death" validate:"required"`
	PlaceOfDeathMr string `json:"place_of_death_mr"`
	CauseOfDeath   string `json:"cause_of_death"`
	ApplicantName  string `json:"applicant_name" validate:"required"`
	Relation       string `json:"relation" validate:"required"`
	Address        string `json:"address" validate:"required"`
	Contact        string `json:"contact" validate:"required,len=10,numeric"`
	AadhaarNumber  string `json:"aadhaar_number" validate:"omitempty,len=12,numeric"`
}

// DeathCertificateService manages the death register.
type DeathCertificateService struct {
	repo      deathCertificateRepository
	audit     auditRecorder
	generator *tracking.Generator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDeathCertificateService creates an instance of DeathCertificateService.
func NewDeathCertificateService(repo deathCertificateRepository, audit auditRecorder, generator *tracking.Generator, validate *validator.Validate, logger *zap.Logger) *DeathCertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if generator == nil {
		generator = tracking.NewGenerator()
	}
	return &DeathCertificateService{repo: repo, audit: audit, generator: generator, validator: validate, logger: logger}
}

// Create registers a death certificate application in the pending state.
func (s *DeathCertificateService) Create(ctx context.Context, req DeathCertificateRequest) (*models.DeathCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid death certificate payload")
	}

	record := &models.DeathCertificate{
		ID:             uuid.NewString(),
		TrackingNumber: s.generator.Next(tracking.PrefixDeath),
		DeceasedName:   req.DeceasedName,
		DeceasedNameMr: req.DeceasedNameMr,
		Gender:         req.Gender,
		DateOfDeath:    req.DateOfDeath,
		PlaceOfDeath:   req.PlaceOfDeath,
		PlaceOfDeathMr: req.PlaceOfDeathMr,
		CauseOfDeath:   req.CauseOfDeath,
		ApplicantName:  req.ApplicantName,
		Relation:       req.Relation,
		Address:        req.Address,
		Contact:        req.Contact,
		AadhaarNumber:  req.AadhaarNumber,
		Status:         models.StatusPending,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create death certificate")
	}

	s.logger.Info("death certificate application registered", zap.String("tracking_number", record.TrackingNumber))

	return record, nil
}

// Track returns an application by its public tracking number.
func (s *DeathCertificateService) Track(ctx context.Context, trackingNumber string) (*models.DeathCertificate, error) {
	record, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no application found for this tracking number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up death certificate")
	}
	return record, nil
}

// List returns applications for the admin register view.
func (s *DeathCertificateService) List(ctx context.Context, filter models.CertificateFilter) ([]models.DeathCertificate, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list death certificates")
	}
	return records, listPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an application by ID.
func (s *DeathCertificateService) Get(ctx context.Context, id string) (*models.DeathCertificate, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "death certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load death certificate")
	}
	return record, nil
}

// Update lets an admin correct the application.
func (s *DeathCertificateService) Update(ctx context.Context, id string, req DeathCertificateRequest, actorID string, meta models.RequestMeta) (*models.DeathCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid death certificate payload")
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPayload, _ := json.Marshal(record)

	record.DeceasedName = req.DeceasedName
	record.DeceasedNameMr = req.DeceasedNameMr
	record.Gender = req.Gender
	record.DateOfDeath = req.DateOfDeath
	record.PlaceOfDeath = req.PlaceOfDeath
	record.PlaceOfDeathMr = req.PlaceOfDeathMr
	record.CauseOfDeath = req.CauseOfDeath
	record.ApplicantName = req.ApplicantName
	record.Relation = req.Relation
	record.Address = req.Address
	record.Contact = req.Contact
	record.AadhaarNumber = req.AadhaarNumber

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update death certificate")
	}

	newPayload, _ := json.Marshal(record)
	s.recordAudit(ctx, actorID, models.AuditActionRecordUpdate, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// UpdateStatus moves the application through its lifecycle.
func (s *DeathCertificateService) UpdateStatus(ctx context.Context, id string, status models.RecordStatus, actorID string, meta models.RequestMeta) (*models.DeathCertificate, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkTransition(record.Status, status); err != nil {
		return nil, err
	}
	if record.Status == status {
		return record, nil
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"status": record.Status})

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update death certificate status")
	}
	record.Status = status

	newPayload, _ := json.Marshal(map[string]interface{}{"status": status})
	s.recordAudit(ctx, actorID, models.AuditActionStatusChange, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// Delete removes an application permanently.
func (s *DeathCertificateService) Delete(ctx context.Context, id string, actorID string, meta models.RequestMeta) error {
	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete death certificate")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"tracking_number": record.TrackingNumber})
	s.recordAudit(ctx, actorID, models.AuditActionRecordDelete, record.ID, oldPayload, nil, meta)

	return nil
}

func (s *DeathCertificateService) recordAudit(ctx context.Context, actorID string, action models.AuditAction, resourceID string, oldValues, newValues []byte, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "death_certificates",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record death certificate audit log", zap.Error(err))
	}
}
