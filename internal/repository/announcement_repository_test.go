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

func newAnnouncementRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func announcementRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "title_mr", "description", "description_mr", "category", "priority", "date", "created_by", "created_at", "updated_at"}).
		AddRow("a1", "Gram Sabha meeting", "ग्रामसभा बैठक", "Monthly meeting", "मासिक बैठक", "meeting", "high", "2026-09-05", "admin-1", time.Now(), time.Now())
}

func TestAnnouncementRepositoryListOrdersByPriority(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END, created_at DESC")).
		WillReturnRows(announcementRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM announcements WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	announcements, total, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	assert.Len(t, announcements, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListWithCategory(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements WHERE 1=1 AND category = $1")).
		WithArgs("meeting").
		WillReturnRows(announcementRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM announcements WHERE 1=1 AND category = $1")).
		WithArgs("meeting").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	announcements, _, err := repo.List(context.Background(), models.AnnouncementFilter{Category: "meeting"})
	require.NoError(t, err)
	assert.Len(t, announcements, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newAnnouncementRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("INSERT INTO announcements").
		WillReturnResult(sqlmock.NewResult(1, 1))

	announcement := &models.Announcement{
		Title:         "Gram Sabha meeting",
		TitleMr:       "ग्रामसभा बैठक",
		Description:   "Monthly meeting",
		DescriptionMr: "मासिक बैठक",
		Category:      "meeting",
		Priority:      models.AnnouncementPriorityHigh,
		Date:          "2026-09-05",
		CreatedBy:     "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), announcement))
	assert.NotEmpty(t, announcement.ID)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements WHERE id = $1")).
		WithArgs(announcement.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), announcement.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
