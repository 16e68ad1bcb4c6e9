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

func newComplaintRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func complaintRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "tracking_number", "name", "contact", "address", "category", "description", "status", "created_at", "updated_at"}).
		AddRow("c1", "CMP00000001", "Ramesh Patil", "9876543210", "Ward 3", "water", "No supply", "pending", time.Now(), time.Now())
}

func TestComplaintRepositoryList(t *testing.T) {
	db, mock, cleanup := newComplaintRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, tracking_number, name, contact, address, category, description, status, created_at, updated_at FROM complaints WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(complaintRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM complaints WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	complaints, total, err := repo.List(context.Background(), models.ComplaintFilter{})
	require.NoError(t, err)
	assert.Len(t, complaints, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryListWithStatusFilter(t *testing.T) {
	db, mock, cleanup := newComplaintRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM complaints WHERE 1=1 AND status = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(models.StatusPending).
		WillReturnRows(complaintRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM complaints WHERE 1=1 AND status = $1")).
		WithArgs(models.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status := models.StatusPending
	complaints, total, err := repo.List(context.Background(), models.ComplaintFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, complaints, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryListSearchByTrackingNumber(t *testing.T) {
	db, mock, cleanup := newComplaintRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	// Tracking numbers are stored uppercase; the search compares both
	// sides lowercased so a clerk can paste the number as given.
	mock.ExpectQuery(regexp.QuoteMeta("FROM complaints WHERE 1=1 AND (LOWER(name) LIKE $1 OR LOWER(tracking_number) LIKE $1) ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("%cmp00000001%").
		WillReturnRows(complaintRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM complaints WHERE 1=1 AND (LOWER(name) LIKE $1 OR LOWER(tracking_number) LIKE $1)")).
		WithArgs("%cmp00000001%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	complaints, total, err := repo.List(context.Background(), models.ComplaintFilter{Search: "CMP00000001"})
	require.NoError(t, err)
	assert.Len(t, complaints, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryGetByTrackingNumber(t *testing.T) {
	db, mock, cleanup := newComplaintRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM complaints WHERE tracking_number = $1 LIMIT 1")).
		WithArgs("CMP00000001").
		WillReturnRows(complaintRows())

	complaint, err := repo.GetByTrackingNumber(context.Background(), "CMP00000001")
	require.NoError(t, err)
	assert.Equal(t, "CMP00000001", complaint.TrackingNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newComplaintRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec("INSERT INTO complaints").
		WillReturnResult(sqlmock.NewResult(1, 1))

	complaint := &models.Complaint{
		TrackingNumber: "CMP00000001",
		Name:           "Ramesh Patil",
		Contact:        "9876543210",
		Address:        "Ward 3",
		Category:       models.ComplaintCategoryWater,
		Description:    "No supply",
		Status:         models.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), complaint))
	assert.NotEmpty(t, complaint.ID)
	assert.False(t, complaint.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newComplaintRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE complaints SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("c1", models.StatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "c1", models.StatusApproved))
	assert.NoError(t, mock.ExpectationsWereMet())
}
