package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

type mockComplaintRepo struct {
	items         map[string]*models.Complaint
	byTracking    map[string]*models.Complaint
	listResult    []models.Complaint
	listTotal     int
	statusUpdates []models.RecordStatus
	deleted       []string
}

func (m *mockComplaintRepo) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockComplaintRepo) GetByID(ctx context.Context, id string) (*models.Complaint, error) {
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockComplaintRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Complaint, error) {
	if c, ok := m.byTracking[trackingNumber]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	if m.items == nil {
		m.items = make(map[string]*models.Complaint)
	}
	cp := *complaint
	m.items[complaint.ID] = &cp
	return nil
}

func (m *mockComplaintRepo) Update(ctx context.Context, complaint *models.Complaint) error {
	cp := *complaint
	m.items[complaint.ID] = &cp
	return nil
}

func (m *mockComplaintRepo) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	if c, ok := m.items[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *mockComplaintRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockAudit struct {
	logs []models.AuditLog
	err  error
}

func (m *mockAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, *log)
	return nil
}

func validComplaintRequest() CreateComplaintRequest {
	return CreateComplaintRequest{
		Name:        "Ramesh Patil",
		Contact:     "9876543210",
		Address:     "Ward 3, Shirwal",
		Category:    "water",
		Description: "No water supply since Monday",
	}
}

func TestComplaintServiceListReportsEffectivePageSize(t *testing.T) {
	repo := &mockComplaintRepo{listResult: []models.Complaint{}, listTotal: 0}
	service := NewComplaintService(repo, nil, nil, validator.New(), zap.NewNop())

	// An oversized page_size is reset to the default; the envelope must
	// report the size actually queried, not the requested one.
	_, pagination, err := service.List(context.Background(), models.ComplaintFilter{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}

func TestComplaintServiceCreate(t *testing.T) {
	repo := &mockComplaintRepo{}
	service := NewComplaintService(repo, nil, nil, validator.New(), zap.NewNop())

	complaint, err := service.Create(context.Background(), validComplaintRequest())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CMP\d{8}$`), complaint.TrackingNumber)
	assert.Equal(t, models.StatusPending, complaint.Status)
	assert.Equal(t, models.ComplaintCategoryWater, complaint.Category)
	assert.Len(t, repo.items, 1)
}

func TestComplaintServiceCreateInvalidContact(t *testing.T) {
	service := NewComplaintService(&mockComplaintRepo{}, nil, nil, validator.New(), zap.NewNop())

	req := validComplaintRequest()
	req.Contact = "12345"
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestComplaintServiceCreateUnknownCategory(t *testing.T) {
	service := NewComplaintService(&mockComplaintRepo{}, nil, nil, validator.New(), zap.NewNop())

	req := validComplaintRequest()
	req.Category = "potholes"
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestComplaintServiceTrackNotFound(t *testing.T) {
	service := NewComplaintService(&mockComplaintRepo{}, nil, nil, validator.New(), zap.NewNop())

	_, err := service.Track(context.Background(), "CMP00000000")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestComplaintServiceUpdateStatus(t *testing.T) {
	repo := &mockComplaintRepo{
		items: map[string]*models.Complaint{
			"c1": {ID: "c1", TrackingNumber: "CMP00000001", Status: models.StatusPending},
		},
	}
	audit := &mockAudit{}
	service := NewComplaintService(repo, audit, nil, validator.New(), zap.NewNop())

	complaint, err := service.UpdateStatus(context.Background(), "c1", models.StatusApproved, "admin-1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, complaint.Status)
	assert.Equal(t, []models.RecordStatus{models.StatusApproved}, repo.statusUpdates)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionStatusChange, audit.logs[0].Action)
	assert.Equal(t, "complaints", audit.logs[0].Resource)
}

func TestComplaintServiceUpdateStatusFromTerminal(t *testing.T) {
	repo := &mockComplaintRepo{
		items: map[string]*models.Complaint{
			"c1": {ID: "c1", Status: models.StatusApproved},
		},
	}
	service := NewComplaintService(repo, nil, nil, validator.New(), zap.NewNop())

	_, err := service.UpdateStatus(context.Background(), "c1", models.StatusPending, "admin-1", models.RequestMeta{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
	assert.Empty(t, repo.statusUpdates)
}

func TestComplaintServiceUpdateStatusUnknownValue(t *testing.T) {
	repo := &mockComplaintRepo{
		items: map[string]*models.Complaint{
			"c1": {ID: "c1", Status: models.StatusPending},
		},
	}
	service := NewComplaintService(repo, nil, nil, validator.New(), zap.NewNop())

	_, err := service.UpdateStatus(context.Background(), "c1", "archived", "admin-1", models.RequestMeta{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestComplaintServiceUpdateStatusNoOp(t *testing.T) {
	repo := &mockComplaintRepo{
		items: map[string]*models.Complaint{
			"c1": {ID: "c1", Status: models.StatusProcessing},
		},
	}
	audit := &mockAudit{}
	service := NewComplaintService(repo, audit, nil, validator.New(), zap.NewNop())

	complaint, err := service.UpdateStatus(context.Background(), "c1", models.StatusProcessing, "admin-1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, complaint.Status)
	assert.Empty(t, repo.statusUpdates)
	assert.Empty(t, audit.logs)
}

func TestComplaintServiceUpdateKeepsTrackingNumber(t *testing.T) {
	repo := &mockComplaintRepo{
		items: map[string]*models.Complaint{
			"c1": {ID: "c1", TrackingNumber: "CMP00000042", Status: models.StatusPending, Category: models.ComplaintCategoryRoads},
		},
	}
	service := NewComplaintService(repo, &mockAudit{}, nil, validator.New(), zap.NewNop())

	req := UpdateComplaintRequest(validComplaintRequest())
	updated, err := service.Update(context.Background(), "c1", req, "admin-1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "CMP00000042", updated.TrackingNumber)
	assert.Equal(t, models.ComplaintCategoryWater, updated.Category)
}
