package services

import (
	"context"
	"testing"
	"time"

	"document-review-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*ReviewRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	return NewReviewRepository(db), mock
}

func TestFindRequestWithLockUsesSelectForUpdate(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()
	deadline := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `review_requests` WHERE review_request_id = \\? LIMIT .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"review_request_id", "document_id", "reviewer_id", "status", "response_deadline"}).
			AddRow(id.String(), uuid.NewString(), uuid.NewString(), "PENDING", deadline))
	mock.ExpectCommit()

	err := repo.Transaction(context.Background(), func(tx *ReviewRepository) error {
		req, err := tx.FindRequest(context.Background(), id, true)
		if err != nil {
			return err
		}
		assert.Equal(t, id, req.ReviewRequestID)
		assert.Equal(t, models.ReviewRequestPending, req.Status)
		assert.True(t, req.ResponseDeadline.Equal(deadline))
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDocumentWithoutLockHasNoForUpdate(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT \\* FROM `documents` WHERE document_id = \\? AND delete_at IS NULL LIMIT \\S+$").
		WillReturnRows(sqlmock.NewRows([]string{"document_id", "title", "is_premium", "status"}).
			AddRow(id.String(), "Outlook", true, "PENDING_REVIEW"))

	doc, err := repo.FindDocument(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, "Outlook", doc.Title)
	assert.Equal(t, models.DocStatusPendingReview, doc.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireOverdueRequestsUpdatesPendingPastDeadline(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2024, 3, 12, 0, 0, 1, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `review_requests` SET .*`status`=\\?.* WHERE status = \\? AND response_deadline < \\?").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.ExpireOverdueRequests(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
