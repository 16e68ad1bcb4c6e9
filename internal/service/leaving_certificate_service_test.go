package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
)

type mockLeavingRepo struct {
	items map[string]*models.LeavingCertificate
}

func (m *mockLeavingRepo) List(ctx context.Context, filter models.CertificateFilter) ([]models.LeavingCertificate, int, error) {
	return nil, 0, nil
}

func (m *mockLeavingRepo) GetByID(ctx context.Context, id string) (*models.LeavingCertificate, error) {
	if r, ok := m.items[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLeavingRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.LeavingCertificate, error) {
	for _, r := range m.items {
		if r.TrackingNumber == trackingNumber {
			cp := *r
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockLeavingRepo) Create(ctx context.Context, record *models.LeavingCertificate) error {
	if m.items == nil {
		m.items = make(map[string]*models.LeavingCertificate)
	}
	cp := *record
	m.items[record.ID] = &cp
	return nil
}

func (m *mockLeavingRepo) Update(ctx context.Context, record *models.LeavingCertificate) error {
	cp := *record
	m.items[record.ID] = &cp
	return nil
}

func (m *mockLeavingRepo) SaveMarathiFields(ctx context.Context, record *models.LeavingCertificate) error {
	cp := *record
	m.items[record.ID] = &cp
	return nil
}

func (m *mockLeavingRepo) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	if r, ok := m.items[id]; ok {
		r.Status = status
	}
	return nil
}

func (m *mockLeavingRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func validLeavingRequest() LeavingCertificateRequest {
	return LeavingCertificateRequest{
		ApplicantName: "Sunita More",
		FatherName:    "Baban More",
		DateOfBirth:   "1998-06-01",
		Village:       "Shirwal",
		Reason:        "Higher education",
		Address:       "Ward 1, Shirwal",
		Contact:       "9876543211",
	}
}

func TestLeavingCertificateServiceCreate(t *testing.T) {
	repo := &mockLeavingRepo{}
	service := NewLeavingCertificateService(repo, nil, nil, validator.New(), zap.NewNop())

	record, err := service.Create(context.Background(), validLeavingRequest())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^LVC\d{8}$`), record.TrackingNumber)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Empty(t, record.ApplicantNameMr)
}

func TestLeavingCertificateServiceUpdateClearsStaleMarathi(t *testing.T) {
	repo := &mockLeavingRepo{
		items: map[string]*models.LeavingCertificate{
			"l1": {
				ID:              "l1",
				TrackingNumber:  "LVC00000001",
				ApplicantName:   "Sunita More",
				ApplicantNameMr: "सुनीता मोरे",
				FatherName:      "Baban More",
				FatherNameMr:    "बबन मोरे",
				Village:         "Shirwal",
				VillageMr:       "शिरवळ",
				Reason:          "Higher education",
				ReasonMr:        "उच्च शिक्षण",
				Status:          models.StatusPending,
			},
		},
	}
	service := NewLeavingCertificateService(repo, &mockAudit{}, nil, validator.New(), zap.NewNop())

	req := validLeavingRequest()
	req.ApplicantName = "Sunita Baban More"

	updated, err := service.Update(context.Background(), "l1", req, "admin-1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Empty(t, updated.ApplicantNameMr, "edited field loses its cached transliteration")
	assert.Equal(t, "बबन मोरे", updated.FatherNameMr, "untouched fields keep theirs")
	assert.Equal(t, "शिरवळ", updated.VillageMr)
	assert.Equal(t, "उच्च शिक्षण", updated.ReasonMr)
}

func TestLeavingCertificateServiceAadhaarValidation(t *testing.T) {
	service := NewLeavingCertificateService(&mockLeavingRepo{}, nil, nil, validator.New(), zap.NewNop())

	req := validLeavingRequest()
	req.AadhaarNumber = "12345"
	_, err := service.Create(context.Background(), req)
	require.Error(t, err)

	req.AadhaarNumber = "123456789012"
	_, err = service.Create(context.Background(), req)
	require.NoError(t, err)
}
