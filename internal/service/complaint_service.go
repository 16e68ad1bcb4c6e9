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

type complaintRepository interface {
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error)
	GetByID(ctx context.Context, id string) (*models.Complaint, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Complaint, error)
	Create(ctx context.Context, complaint *models.Complaint) error
	Update(ctx context.Context, complaint *models.Complaint) error
	UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error
	Delete(ctx context.Context, id string) error
}

// CreateComplaintRequest is the public submission payload.
type CreateComplaintRequest struct {
	Name        string `json:"name" validate:"required"`
	Contact     string `json:"contact" validate:"required,len=10,numeric"`
	Address     string `json:"address" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateComplaintRequest is the admin correction payload. The tracking
// number and status are deliberately not part of it.
type UpdateComplaintRequest struct {
	Name        string `json:"name" validate:"required"`
	Contact     string `json:"contact" validate:"required,len=10,numeric"`
	Address     string `json:"address" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ComplaintService handles citizen grievances end to end: public
// submission and tracking, admin triage and lifecycle changes.
type ComplaintService struct {
	repo      complaintRepository
	audit     auditRecorder
	generator *tracking.Generator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewComplaintService creates an instance of ComplaintService.
func NewComplaintService(repo complaintRepository, audit auditRecorder, generator *tracking.Generator, validate *validator.Validate, logger *zap.Logger) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if generator == nil {
		generator = tracking.NewGenerator()
	}
	return &ComplaintService{repo: repo, audit: audit, generator: generator, validator: validate, logger: logger}
}

func parseComplaintCategory(raw string) (models.ComplaintCategory, error) {
	switch models.ComplaintCategory(raw) {
	case models.ComplaintCategoryWater, models.ComplaintCategoryRoads, models.ComplaintCategorySanitation,
		models.ComplaintCategoryElectricity, models.ComplaintCategoryOther:
		return models.ComplaintCategory(raw), nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown complaint category")
	}
}

// Create registers a new complaint, assigns its tracking number and
// starts it in the pending state.
func (s *ComplaintService) Create(ctx context.Context, req CreateComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid complaint payload")
	}

	category, err := parseComplaintCategory(req.Category)
	if err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		ID:             uuid.NewString(),
		TrackingNumber: s.generator.Next(tracking.PrefixComplaint),
		Name:           req.Name,
		Contact:        req.Contact,
		Address:        req.Address,
		Category:       category,
		Description:    req.Description,
		Status:         models.StatusPending,
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create complaint")
	}

	s.logger.Info("complaint registered",
		zap.String("tracking_number", complaint.TrackingNumber),
		zap.String("category", string(complaint.Category)),
	)

	return complaint, nil
}

// Track returns a complaint by its public tracking number.
func (s *ComplaintService) Track(ctx context.Context, trackingNumber string) (*models.Complaint, error) {
	complaint, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no complaint found for this tracking number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up complaint")
	}
	return complaint, nil
}

// List returns complaints for the admin dashboard.
func (s *ComplaintService) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, *models.Pagination, error) {
	complaints, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list complaints")
	}

	return complaints, listPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a complaint by ID.
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}
	return complaint, nil
}

// Update lets an admin correct complaint details. The tracking number
// never changes, whatever the incoming payload carries.
func (s *ComplaintService) Update(ctx context.Context, id string, req UpdateComplaintRequest, actorID string, meta models.RequestMeta) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid complaint payload")
	}

	category, err := parseComplaintCategory(req.Category)
	if err != nil {
		return nil, err
	}

	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPayload, _ := json.Marshal(complaint)

	complaint.Name = req.Name
	complaint.Contact = req.Contact
	complaint.Address = req.Address
	complaint.Category = category
	complaint.Description = req.Description

	if err := s.repo.Update(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update complaint")
	}

	newPayload, _ := json.Marshal(complaint)
	s.recordAudit(ctx, actorID, models.AuditActionRecordUpdate, complaint.ID, oldPayload, newPayload, meta)

	return complaint, nil
}

// UpdateStatus moves the complaint through its lifecycle. Only the
// transitions allowed by the state machine are accepted.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status models.RecordStatus, actorID string, meta models.RequestMeta) (*models.Complaint, error) {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkTransition(complaint.Status, status); err != nil {
		return nil, err
	}

	if complaint.Status == status {
		return complaint, nil
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"status": complaint.Status})

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update complaint status")
	}
	complaint.Status = status

	newPayload, _ := json.Marshal(map[string]interface{}{"status": status})
	s.recordAudit(ctx, actorID, models.AuditActionStatusChange, complaint.ID, oldPayload, newPayload, meta)

	return complaint, nil
}

// Delete removes a complaint permanently.
func (s *ComplaintService) Delete(ctx context.Context, id string, actorID string, meta models.RequestMeta) error {
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete complaint")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"tracking_number": complaint.TrackingNumber})
	s.recordAudit(ctx, actorID, models.AuditActionRecordDelete, complaint.ID, oldPayload, nil, meta)

	return nil
}

func (s *ComplaintService) recordAudit(ctx context.Context, actorID string, action models.AuditAction, resourceID string, oldValues, newValues []byte, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "complaints",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record complaint audit log", zap.Error(err))
	}
}
