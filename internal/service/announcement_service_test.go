package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

type mockAnnouncementRepo struct {
	items      map[string]*models.Announcement
	listResult []models.Announcement
	listTotal  int
	listCalls  int
}

func (m *mockAnnouncementRepo) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	m.listCalls++
	return m.listResult, m.listTotal, nil
}

func (m *mockAnnouncementRepo) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	if m.items == nil {
		m.items = make(map[string]*models.Announcement)
	}
	cp := *announcement
	m.items[announcement.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, announcement *models.Announcement) error {
	cp := *announcement
	m.items[announcement.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// fakeCache serialises values through JSON the way the Redis client does.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func validAnnouncementRequest() AnnouncementRequest {
	return AnnouncementRequest{
		Title:         "Gram Sabha meeting",
		TitleMr:       "ग्रामसभा बैठक",
		Description:   "Monthly gram sabha at the panchayat hall",
		DescriptionMr: "पंचायत सभागृहात मासिक ग्रामसभा",
		Category:      "meeting",
		Priority:      "high",
		Date:          "2026-09-05",
	}
}

func TestAnnouncementServiceListCachesResult(t *testing.T) {
	repo := &mockAnnouncementRepo{
		listResult: []models.Announcement{{ID: "a1", Title: "Gram Sabha meeting"}},
		listTotal:  1,
	}
	cache := newFakeCache()
	service := NewAnnouncementService(repo, cache, nil, nil, time.Minute, validator.New(), zap.NewNop())

	filter := models.AnnouncementFilter{Page: 1, PageSize: 20}

	first, err := service.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, first.Announcements, 1)
	assert.Equal(t, 1, repo.listCalls)

	second, err := service.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, second.Announcements, 1)
	assert.Equal(t, 1, repo.listCalls, "second read should come from cache")
}

func TestAnnouncementServiceListCountsCacheHitsAndMisses(t *testing.T) {
	repo := &mockAnnouncementRepo{
		listResult: []models.Announcement{{ID: "a1", Title: "Gram Sabha meeting"}},
		listTotal:  1,
	}
	cache := newFakeCache()
	metrics := NewMetricsService()
	service := NewAnnouncementService(repo, cache, nil, metrics, time.Minute, validator.New(), zap.NewNop())

	filter := models.AnnouncementFilter{Page: 1, PageSize: 20}

	_, err := service.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheMisses))

	_, err = service.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheMisses))
}

func TestAnnouncementServiceCreateAuditsAsCreate(t *testing.T) {
	audit := &mockAudit{}
	service := NewAnnouncementService(&mockAnnouncementRepo{}, nil, audit, nil, 0, validator.New(), zap.NewNop())

	created, err := service.Create(context.Background(), validAnnouncementRequest(), "admin-1", models.RequestMeta{IP: "10.0.0.5"})
	require.NoError(t, err)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionRecordCreate, audit.logs[0].Action)
	assert.Equal(t, created.ID, *audit.logs[0].ResourceID)
	assert.Equal(t, "10.0.0.5", audit.logs[0].IPAddress)
}

func TestAnnouncementServiceCreateInvalidatesCache(t *testing.T) {
	repo := &mockAnnouncementRepo{listTotal: 0}
	cache := newFakeCache()
	service := NewAnnouncementService(repo, cache, &mockAudit{}, nil, time.Minute, validator.New(), zap.NewNop())

	filter := models.AnnouncementFilter{Page: 1, PageSize: 20}
	_, err := service.List(context.Background(), filter)
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	_, err = service.Create(context.Background(), validAnnouncementRequest(), "admin-1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Empty(t, cache.entries)

	_, err = service.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestAnnouncementServiceListWithoutCache(t *testing.T) {
	repo := &mockAnnouncementRepo{listTotal: 0}
	service := NewAnnouncementService(repo, nil, nil, nil, 0, validator.New(), zap.NewNop())

	result, err := service.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	assert.NotNil(t, result.Announcements)
	assert.Equal(t, 1, result.Pagination.Page)
}

func TestAnnouncementServiceCreateRequiresBothLanguages(t *testing.T) {
	service := NewAnnouncementService(&mockAnnouncementRepo{}, nil, nil, nil, 0, validator.New(), zap.NewNop())

	req := validAnnouncementRequest()
	req.TitleMr = ""
	_, err := service.Create(context.Background(), req, "admin-1", models.RequestMeta{})
	require.Error(t, err)
}

func TestAnnouncementServiceCreateRejectsUnknownPriority(t *testing.T) {
	service := NewAnnouncementService(&mockAnnouncementRepo{}, nil, nil, nil, 0, validator.New(), zap.NewNop())

	req := validAnnouncementRequest()
	req.Priority = "critical"
	_, err := service.Create(context.Background(), req, "admin-1", models.RequestMeta{})
	require.Error(t, err)
}
