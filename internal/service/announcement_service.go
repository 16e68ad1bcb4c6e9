package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

type announcementCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const announcementCachePrefix = "announcements:list"

// AnnouncementRequest is the payload for creating and updating notices.
// Both language variants are mandatory.
type AnnouncementRequest struct {
	Title         string `json:"title" validate:"required"`
	TitleMr       string `json:"title_mr" validate:"required"`
	Description   string `json:"description" validate:"required"`
	DescriptionMr string `json:"description_mr" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Priority      string `json:"priority" validate:"required,oneof=low normal high urgent"`
	Date          string `json:"date" validate:"required"`
}

// AnnouncementList is the cached public listing payload.
type AnnouncementList struct {
	Announcements []models.Announcement `json:"announcements"`
	Pagination    models.Pagination     `json:"pagination"`
}

// AnnouncementService manages public notices with a Redis-backed read
// cache on the listing path.
type AnnouncementService struct {
	repo      announcementRepository
	cache     announcementCache
	audit     auditRecorder
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService creates an instance of AnnouncementService.
func NewAnnouncementService(repo announcementRepository, cache announcementCache, audit auditRecorder, metrics *MetricsService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnnouncementService{repo: repo, cache: cache, audit: audit, metrics: metrics, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

func announcementCacheKey(filter models.AnnouncementFilter) string {
	priority := ""
	if filter.Priority != nil {
		priority = string(*filter.Priority)
	}
	return fmt.Sprintf("%s:%s:%s:%d:%d", announcementCachePrefix, filter.Category, priority, filter.Page, filter.PageSize)
}

// List returns notices ordered by priority then date. Results are served
// from cache when possible; a cache failure falls through to Postgres.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) (*AnnouncementList, error) {
	key := announcementCacheKey(filter)

	if s.cache != nil {
		var cached AnnouncementList
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("announcement cache read failed", zap.Error(err))
		}
	}

	announcements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	if announcements == nil {
		announcements = []models.Announcement{}
	}

	result := &AnnouncementList{
		Announcements: announcements,
		Pagination:    *listPagination(filter.Page, filter.PageSize, total),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("announcement cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

// Get returns a notice by ID.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	return announcement, nil
}

// Create publishes a new notice and invalidates the listing cache.
func (s *AnnouncementService) Create(ctx context.Context, req AnnouncementRequest, actorID string, meta models.RequestMeta) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement := &models.Announcement{
		ID:            uuid.NewString(),
		Title:         req.Title,
		TitleMr:       req.TitleMr,
		Description:   req.Description,
		DescriptionMr: req.DescriptionMr,
		Category:      req.Category,
		Priority:      models.AnnouncementPriority(req.Priority),
		Date:          req.Date,
		CreatedBy:     actorID,
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}

	s.invalidateCache(ctx)

	newPayload, _ := json.Marshal(announcement)
	s.recordAudit(ctx, actorID, models.AuditActionRecordCreate, announcement.ID, nil, newPayload, meta)

	return announcement, nil
}

// Update modifies a notice and invalidates the listing cache.
func (s *AnnouncementService) Update(ctx context.Context, id string, req AnnouncementRequest, actorID string, meta models.RequestMeta) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPayload, _ := json.Marshal(announcement)

	announcement.Title = req.Title
	announcement.TitleMr = req.TitleMr
	announcement.Description = req.Description
	announcement.DescriptionMr = req.DescriptionMr
	announcement.Category = req.Category
	announcement.Priority = models.AnnouncementPriority(req.Priority)
	announcement.Date = req.Date

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}

	s.invalidateCache(ctx)

	newPayload, _ := json.Marshal(announcement)
	s.recordAudit(ctx, actorID, models.AuditActionRecordUpdate, announcement.ID, oldPayload, newPayload, meta)

	return announcement, nil
}

// Delete removes a notice and invalidates the listing cache.
func (s *AnnouncementService) Delete(ctx context.Context, id string, actorID string, meta models.RequestMeta) error {
	announcement, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}

	s.invalidateCache(ctx)

	oldPayload, _ := json.Marshal(map[string]interface{}{"title": announcement.Title})
	s.recordAudit(ctx, actorID, models.AuditActionRecordDelete, announcement.ID, oldPayload, nil, meta)

	return nil
}

func (s *AnnouncementService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, announcementCachePrefix+":*"); err != nil {
		s.logger.Warn("announcement cache invalidation failed", zap.Error(err))
	}
}

func (s *AnnouncementService) recordAudit(ctx context.Context, actorID string, action models.AuditAction, resourceID string, oldValues, newValues []byte, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "announcements",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record announcement audit log", zap.Error(err))
	}
}
