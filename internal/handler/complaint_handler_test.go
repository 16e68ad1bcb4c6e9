package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	"github.com/gramseva/panchayat-api/internal/service"
)

type fakeComplaintRepo struct {
	items map[string]*models.Complaint
}

func (f *fakeComplaintRepo) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	var out []models.Complaint
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeComplaintRepo) GetByID(ctx context.Context, id string) (*models.Complaint, error) {
	if c, ok := f.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeComplaintRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Complaint, error) {
	for _, c := range f.items {
		if c.TrackingNumber == trackingNumber {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	if f.items == nil {
		f.items = make(map[string]*models.Complaint)
	}
	cp := *complaint
	f.items[complaint.ID] = &cp
	return nil
}

func (f *fakeComplaintRepo) Update(ctx context.Context, complaint *models.Complaint) error {
	cp := *complaint
	f.items[complaint.ID] = &cp
	return nil
}

func (f *fakeComplaintRepo) UpdateStatus(ctx context.Context, id string, status models.RecordStatus) error {
	if c, ok := f.items[id]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeComplaintRepo) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func newComplaintHandler(repo *fakeComplaintRepo) *ComplaintHandler {
	svc := service.NewComplaintService(repo, nil, nil, nil, zap.NewNop())
	return NewComplaintHandler(svc, nil)
}

func TestComplaintHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeComplaintRepo{}
	handler := newComplaintHandler(repo)

	body, _ := json.Marshal(map[string]string{
		"name":        "Ramesh Patil",
		"contact":     "9876543210",
		"address":     "Ward 3, Shirwal",
		"category":    "water",
		"description": "No water supply since Monday",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/complaints", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Complaint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Regexp(t, `^CMP\d{8}$`, envelope.Data.TrackingNumber)
	assert.Equal(t, models.StatusPending, envelope.Data.Status)
}

func TestComplaintHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newComplaintHandler(&fakeComplaintRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/complaints", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComplaintHandlerTrackNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newComplaintHandler(&fakeComplaintRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/complaints/track/CMP00000000", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "trackingNumber", Value: "CMP00000000"}}

	handler.Track(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestComplaintHandlerUpdateStatusInvalidTransition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeComplaintRepo{
		items: map[string]*models.Complaint{
			"c1": {ID: "c1", TrackingNumber: "CMP00000001", Status: models.StatusRejected},
		},
	}
	handler := newComplaintHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/admin/complaints/c1/status", bytes.NewBufferString(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_STATUS_TRANSITION", envelope.Error.Code)
}

func TestComplaintHandlerUpdateStatusUnknownValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeComplaintRepo{
		items: map[string]*models.Complaint{
			"c1": {ID: "c1", Status: models.StatusPending},
		},
	}
	handler := newComplaintHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/admin/complaints/c1/status", bytes.NewBufferString(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
