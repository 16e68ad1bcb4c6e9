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

type birthCertificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.BirthCertificate, int, error)
	GetByID(ctx context.Context, id string) (*models.BirthCertificate, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.BirthCertificate, error)
	Create(ctx context.Context, record *models.BirthCertificate) error
	Update(ctx context.Context, record *models.BirthCertificate) error
	UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error
	Delete(ctx context.Context, id string) error
}

// BirthCertificateRequest is the application payload for both public
// creation and admin correction. The Marathi fields are optional; the
// entry form fills them through the transliteration widget.
type BirthCertificateRequest struct {
	ChildName      string `json:"child_name" validate:"required"`
	ChildNameMr    string `json:"child_name_mr"`
	Gender         string `json:"gender" validate:"required,oneof=male female other"`
	DateOfBirth    string `json:"date_of_birth" validate:"required"`
	PlaceOfBirth   string `json:"place_of_birth" validate:"required"`
	PlaceOfBirthMr string `json:"place_of_birth_mr"`
	FatherName     string `json:"father_name" validate:"required"`
	FatherNameMr   string `json:"father_name_mr"`
	MotherName     string `json:"mother_name" validate:"required"`
	MotherNameMr   string `json:"mother_name_mr"`
	Address        string `json:"address" validate:"required"`
	Contact        string `json:"contact" validate:"required,len=10,numeric"`
	AadhaarNumber  string `json:"aadhaar_number" validate:"omitempty,len=12,numeric"`
}

// BirthCertificateService manages the birth register.
type BirthCertificateService struct {
	repo      birthCertificateRepository
	audit     auditRecorder
	generator *tracking.Generator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBirthCertificateService creates an instance of BirthCertificateService.
func NewBirthCertificateService(repo birthCertificateRepository, audit auditRecorder, generator *tracking.Generator, validate *validator.Validate, logger *zap.Logger) *BirthCertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if generator == nil {
		generator = tracking.NewGenerator()
	}
	return &BirthCertificateService{repo: repo, audit: audit, generator: generator, validator: validate, logger: logger}
}

// Create registers a birth certificate application in the pending state.
func (s *BirthCertificateService) Create(ctx context.Context, req BirthCertificateRequest) (*models.BirthCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth certificate payload")
	}

	record := &models.BirthCertificate{
		ID:             uuid.NewString(),
		TrackingNumber: s.generator.Next(tracking.PrefixBirth),
		ChildName:      req.ChildName,
		ChildNameMr:    req.ChildNameMr,
		Gender:         req.Gender,
		DateOfBirth:    req.DateOfBirth,
		PlaceOfBirth:   req.PlaceOfBirth,
		PlaceOfBirthMr: req.PlaceOfBirthMr,
		FatherName:     req.FatherName,
		FatherNameMr:   req.FatherNameMr,
		MotherName:     req.MotherName,
		MotherNameMr:   req.MotherNameMr,
		Address:        req.Address,
		Contact:        req.Contact,
		AadhaarNumber:  req.AadhaarNumber,
		Status:         models.StatusPending,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create birth certificate")
	}

	s.logger.Info("birth certificate application registered", zap.String("tracking_number", record.TrackingNumber))

	return record, nil
}

// Track returns an application by its public tracking number.
func (s *BirthCertificateService) Track(ctx context.Context, trackingNumber string) (*models.BirthCertificate, error) {
	record, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no application found for this tracking number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up birth certificate")
	}
	return record, nil
}

// List returns applications for the admin register view.
func (s *BirthCertificateService) List(ctx context.Context, filter models.CertificateFilter) ([]models.BirthCertificate, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list birth certificates")
	}
	return records, listPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an application by ID.
func (s *BirthCertificateService) Get(ctx context.Context, id string) (*models.BirthCertificate, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "birth certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load birth certificate")
	}
	return record, nil
}

// Update lets an admin correct the application. Tracking number and
// status are not touched here.
func (s *BirthCertificateService) Update(ctx context.Context, id string, req BirthCertificateRequest, actorID string, meta models.RequestMeta) (*models.BirthCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth certificate payload")
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPayload, _ := json.Marshal(record)

	record.ChildName = req.ChildName
	record.ChildNameMr = req.ChildNameMr
	record.Gender = req.Gender
	record.DateOfBirth = req.DateOfBirth
	record.PlaceOfBirth = req.PlaceOfBirth
	record.PlaceOfBirthMr = req.PlaceOfBirthMr
	record.FatherName = req.FatherName
	record.FatherNameMr = req.FatherNameMr
	record.MotherName = req.MotherName
	record.MotherNameMr = req.MotherNameMr
	record.Address = req.Address
	record.Contact = req.Contact
	record.AadhaarNumber = req.AadhaarNumber

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update birth certificate")
	}

	newPayload, _ := json.Marshal(record)
	s.recordAudit(ctx, actorID, models.AuditActionRecordUpdate, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// UpdateStatus moves the application through its lifecycle.
func (s *BirthCertificateService) UpdateStatus(ctx context.Context, id string, status models.RecordStatus, actorID string, meta models.RequestMeta) (*models.BirthCertificate, error) {
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
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update birth certificate status")
	}
	record.Status = status

	newPayload, _ := json.Marshal(map[string]interface{}{"status": status})
	s.recordAudit(ctx, actorID, models.AuditActionStatusChange, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// Delete removes an application permanently.
func (s *BirthCertificateService) Delete(ctx context.Context, id string, actorID string, meta models.RequestMeta) error {
	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete birth certificate")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"tracking_number": record.TrackingNumber})
	s.recordAudit(ctx, actorID, models.AuditActionRecordDelete, record.ID, oldPayload, nil, meta)

	return nil
}

func (s *BirthCertificateService) recordAudit(ctx context.Context, actorID string, action models.AuditAction, resourceID string, oldValues, newValues []byte, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "birth_certificates",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record birth certificate audit log", zap.Error(err))
	}
}
