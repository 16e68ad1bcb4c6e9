package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/panchayat-api/internal/models"
)

func newBirthRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func birthRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tracking_number", "child_name", "child_name_mr", "gender", "date_of_birth",
		"place_of_birth", "place_of_birth_mr", "father_name", "father_name_mr",
		"mother_name", "mother_name_mr", "address", "contact", "aadhaar_number",
		"status", "created_at", "updated_at",
	}).AddRow("b1", "BRT00012345", "Aarav Sharma", "आरव शर्मा", "male", "2026-01-15",
		"Shirwal", "शिरवळ", "Rohan Sharma", "", "Priya Sharma", "", "Ward 2",
		"9876543210", "123456789012", "pending", time.Now(), time.Now())
}

func TestBirthCertificateRepositoryListSearchByTrackingNumber(t *testing.T) {
	db, mock, cleanup := newBirthRepoMock(t)
	defer cleanup()
	repo := NewBirthCertificateRepository(db)

	// The clerk searches by the uppercase tracking number printed on the
	// acknowledgement; both sides are lowercased for the comparison.
	mock.ExpectQuery(regexp.QuoteMeta("FROM birth_certificates WHERE 1=1 AND (LOWER(child_name) LIKE $1 OR LOWER(tracking_number) LIKE $1) ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("%brt00012345%").
		WillReturnRows(birthRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM birth_certificates WHERE 1=1 AND (LOWER(child_name) LIKE $1 OR LOWER(tracking_number) LIKE $1)")).
		WithArgs("%brt00012345%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), models.CertificateFilter{Search: "BRT00012345"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "BRT00012345", records[0].TrackingNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBirthCertificateRepositoryListStatusFilter(t *testing.T) {
	db, mock, cleanup := newBirthRepoMock(t)
	defer cleanup()
	repo := NewBirthCertificateRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM birth_certificates WHERE 1=1 AND status = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(models.StatusPending).
		WillReturnRows(birthRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM birth_certificates WHERE 1=1 AND status = $1")).
		WithArgs(models.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status := models.StatusPending
	records, total, err := repo.List(context.Background(), models.CertificateFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantSize   int
		wantOffset int
	}{
		{"defaults", 0, 0, 20, 0},
		{"second page", 2, 10, 10, 10},
		{"oversized reset", 1, 500, 20, 0},
		{"negative page", -3, 20, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, offset := clampPage(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantSize, size)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
