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

type marriageCertificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.MarriageCertificate, int, error)
	GetByID(ctx context.Context, id string) (*models.MarriageCertificate, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.MarriageCertificate, error)
	Create(ctx context.Context, record *models.MarriageCertificate) error
	Update(ctx context.Context, record *models.MarriageCertificate) error
	UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error
	Delete(ctx context.Context, id string) error
}

// MarriageCertificateRequest is the application payload.
type MarriageCertificateRequest struct {
	GroomName       string `json:"groom_name" validate:"required"`
	GroomNameMr     string `json:"groom_name_mr"`
	BrideName       string `json:"bride_name" validate:"required"`
	BrideNameMr     string `json:"bride_name_mr"`
	DateOfMarriage  string `json:"date_of_marriage" validate:"required"`
	PlaceOfMarriage string `json:"place_of_marriage" validate:"required"`
	WitnessName     string `json:"witness_name" validate:"required"`
	Address         string `json:"address" validate:"required"`
	Contact         string `json:"contact" validate:"required,len=10,numeric"`
}

// MarriageCertificateService manages the marriage register.
type MarriageCertificateService struct {
	repo      marriageCertificateRepository
	audit     auditRecorder
	generator *tracking.Generator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarriageCertificateService creates an instance of MarriageCertificateService.
func NewMarriageCertificateService(repo marriageCertificateRepository, audit auditRecorder, generator *tracking.Generator, validate *validator.Validate, logger *zap.Logger) *MarriageCertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if generator == nil {
		generator = tracking.NewGenerator()
	}
	return &MarriageCertificateService{repo: repo, audit: audit, generator: generator, validator: validate, logger: logger}
}

// Create registers a marriage certificate application in the pending state.
func (s *MarriageCertificateService) Create(ctx context.Context, req MarriageCertificateRequest) (*models.MarriageCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marriage certificate payload")
	}

	record := &models.MarriageCertificate{
		ID:              uuid.NewString(),
		TrackingNumber:  s.generator.Next(tracking.PrefixMarriage),
		GroomName:       req.GroomName,
		GroomNameMr:     req.GroomNameMr,
		BrideName:       req.BrideName,
		BrideNameMr:     req.BrideNameMr,
		DateOfMarriage:  req.DateOfMarriage,
		PlaceOfMarriage: req.PlaceOfMarriage,
		WitnessName:     req.WitnessName,
		Address:         req.Address,
		Contact:         req.Contact,
		Status:          models.StatusPending,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create marriage certificate")
	}

	s.logger.Info("marriage certificate application registered", zap.String("tracking_number", record.TrackingNumber))

	return record, nil
}

// Track returns an application by its public tracking number.
func (s *MarriageCertificateService) Track(ctx context.Context, trackingNumber string) (*models.MarriageCertificate, error) {
	record, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no application found for this tracking number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up marriage certificate")
	}
	return record, nil
}

// List returns applications for the admin register view.
func (s *MarriageCertificateService) List(ctx context.Context, filter models.CertificateFilter) ([]models.MarriageCertificate, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list marriage certificates")
	}
	return records, listPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an application by ID.
func (s *MarriageCertificateService) Get(ctx context.Context, id string) (*models.MarriageCertificate, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "marriage certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marriage certificate")
	}
	return record, nil
}

// Update lets an admin correct the application.
func (s *MarriageCertificateService) Update(ctx context.Context, id string, req MarriageCertificateRequest, actorID string, meta models.RequestMeta) (*models.MarriageCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marriage certificate payload")
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPayload, _ := json.Marshal(record)

	record.GroomName = req.GroomName
	record.GroomNameMr = req.GroomNameMr
	record.BrideName = req.BrideName
	record.BrideNameMr = req.BrideNameMr
	record.DateOfMarriage = req.DateOfMarriage
	record.PlaceOfMarriage = req.PlaceOfMarriage
	record.WitnessName = req.WitnessName
	record.Address = req.Address
	record.Contact = req.Contact

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update marriage certificate")
	}

	newPayload, _ := json.Marshal(record)
	s.recordAudit(ctx, actorID, models.AuditActionRecordUpdate, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// UpdateStatus moves the application through its lifecycle.
func (s *MarriageCertificateService) UpdateStatus(ctx context.Context, id string, status models.RecordStatus, actorID string, meta models.RequestMeta) (*models.MarriageCertificate, error) {
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
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update marriage certificate status")
	}
	record.Status = status

	newPayload, _ := json.Marshal(map[string]interface{}{"status": status})
	s.recordAudit(ctx, actorID, models.AuditActionStatusChange, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// Delete removes an application permanently.
func (s *MarriageCertificateService) Delete(ctx context.Context, id string, actorID string, meta models.RequestMeta) error {
	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete marriage certificate")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"tracking_number": record.TrackingNumber})
	s.recordAudit(ctx, actorID, models.AuditActionRecordDelete, record.ID, oldPayload, nil, meta)

	return nil
}

func (s *MarriageCertificateService) recordAudit(ctx context.Context, actorID string, action models.AuditAction, resourceID string, oldValues, newValues []byte, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "marriage_certificates",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record marriage certificate audit log", zap.Error(err))
	}
}
