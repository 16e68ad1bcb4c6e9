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

type leavingCertificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.LeavingCertificate, int, error)
	GetByID(ctx context.Context, id string) (*models.LeavingCertificate, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.LeavingCertificate, error)
	Create(ctx context.Context, record *models.LeavingCertificate) error
	Update(ctx context.Context, record *models.LeavingCertificate) error
	SaveMarathiFields(ctx context.Context, record *models.LeavingCertificate) error
	UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error
	Delete(ctx context.Context, id string) error
}

// LeavingCertificateRequest is the application payload. The entry form
// has no transliteration widget for this register, so the Marathi
// fields stay empty until the first print fills them.
type LeavingCertificateRequest struct {
	ApplicantName string `json:"applicant_name" validate:"required"`
	FatherName    string `json:"father_name" validate:"required"`
	DateOfBirth   string `json:"date_of_birth" validate:"required"`
	Village       string `json:"village" validate:"required"`
	Reason        string `json:"reason" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Contact       string `json:"contact" validate:"required,len=10,numeric"`
	AadhaarNumber string `json:"aadhaar_number" validate:"omitempty,len=12,numeric"`
}

// LeavingCertificateService manages the leaving certificate register.
type LeavingCertificateService struct {
	repo      leavingCertificateRepository
	audit     auditRecorder
	generator *tracking.Generator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeavingCertificateService creates an instance of LeavingCertificateService.
func NewLeavingCertificateService(repo leavingCertificateRepository, audit auditRecorder, generator *tracking.Generator, validate *validator.Validate, logger *zap.Logger) *LeavingCertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if generator == nil {
		generator = tracking.NewGenerator()
	}
	return &LeavingCertificateService{repo: repo, audit: audit, generator: generator, validator: validate, logger: logger}
}

// Create registers a leaving certificate application in the pending state.
func (s *LeavingCertificateService) Create(ctx context.Context, req LeavingCertificateRequest) (*models.LeavingCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leaving certificate payload")
	}

	record := &models.LeavingCertificate{
		ID:             uuid.NewString(),
		TrackingNumber: s.generator.Next(tracking.PrefixLeaving),
		ApplicantName:  req.ApplicantName,
		FatherName:     req.FatherName,
		DateOfBirth:    req.DateOfBirth,
		Village:        req.Village,
		Reason:         req.Reason,
		Address:        req.Address,
		Contact:        req.Contact,
		AadhaarNumber:  req.AadhaarNumber,
		Status:         models.StatusPending,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leaving certificate")
	}

	s.logger.Info("leaving certificate application registered", zap.String("tracking_number", record.TrackingNumber))

	return record, nil
}

// Track returns an application by its public tracking number.
func (s *LeavingCertificateService) Track(ctx context.Context, trackingNumber string) (*models.LeavingCertificate, error) {
	record, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no application found for this tracking number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up leaving certificate")
	}
	return record, nil
}

// List returns applications for the admin register view.
func (s *LeavingCertificateService) List(ctx context.Context, filter models.CertificateFilter) ([]models.LeavingCertificate, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leaving certificates")
	}
	return records, listPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an application by ID.
func (s *LeavingCertificateService) Get(ctx context.Context, id string) (*models.LeavingCertificate, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leaving certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leaving certificate")
	}
	return record, nil
}

// Update lets an admin correct the application. English edits clear the
// cached Marathi fields so the next print re-transliterates them.
func (s *LeavingCertificateService) Update(ctx context.Context, id string, req LeavingCertificateRequest, actorID string, meta models.RequestMeta) (*models.LeavingCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leaving certificate payload")
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPayload, _ := json.Marshal(record)

	if record.ApplicantName != req.ApplicantName {
		record.ApplicantNameMr = ""
	}
	if record.FatherName != req.FatherName {
		record.FatherNameMr = ""
	}
	if record.Village != req.Village {
		record.VillageMr = ""
	}
	if record.Reason != req.Reason {
		record.ReasonMr = ""
	}

	record.ApplicantName = req.ApplicantName
	record.FatherName = req.FatherName
	record.DateOfBirth = req.DateOfBirth
	record.Village = req.Village
	record.Reason = req.Reason
	record.Address = req.Address
	record.Contact = req.Contact
	record.AadhaarNumber = req.AadhaarNumber

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leaving certificate")
	}

	newPayload, _ := json.Marshal(record)
	s.recordAudit(ctx, actorID, models.AuditActionRecordUpdate, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// UpdateStatus moves the application through its lifecycle.
func (s *LeavingCertificateService) UpdateStatus(ctx context.Context, id string, status models.RecordStatus, actorID string, meta models.RequestMeta) (*models.LeavingCertificate, error) {
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
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leaving certificate status")
	}
	record.Status = status

	newPayload, _ := json.Marshal(map[string]interface{}{"status": status})
	s.recordAudit(ctx, actorID, models.AuditActionStatusChange, record.ID, oldPayload, newPayload, meta)

	return record, nil
}

// Delete removes an application permanently.
func (s *LeavingCertificateService) Delete(ctx context.Context, id string, actorID string, meta models.RequestMeta) error {
	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete leaving certificate")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"tracking_number": record.TrackingNumber})
	s.recordAudit(ctx, actorID, models.AuditActionRecordDelete, record.ID, oldPayload, nil, meta)

	return nil
}

func (s *LeavingCertificateService) recordAudit(ctx context.Context, actorID string, action models.AuditAction, resourceID string, oldValues, newValues []byte, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "leaving_certificates",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record leaving certificate audit log", zap.Error(err))
	}
}
