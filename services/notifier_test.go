package services

import (
	"context"
	"testing"
	"time"

	"document-review-api/config"
	"document-review-api/logger"
	"document-review-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxNotifierStoresRowAndMails(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	sent := make(chan []string, 1)

	n := NewInboxNotifier(repo, config.MailSettings{Host: "smtp.example.org", Port: 587, From: "desk@example.org"}, logger.NewNop())
	n.send = func(_ config.MailSettings, to []string, subject, body string) error {
		assert.Equal(t, "New review request", subject)
		assert.Contains(t, body, "&lt;Outlook&gt;")
		sent <- to
		return nil
	}

	docID := uuid.New()
	user := &models.User{UserID: uuid.New(), FullName: "Rae", Email: "rae@example.org"}
	err := n.Notify(context.Background(), Notice{
		Recipient:  user,
		Title:      "New review request",
		Message:    "Please review <Outlook>",
		DocumentID: &docID,
	})
	require.NoError(t, err)

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, user.UserID, rows[0].UserID)
	assert.Equal(t, "info", rows[0].Type)
	require.NotNil(t, rows[0].RelatedDocumentID)
	assert.Equal(t, docID, *rows[0].RelatedDocumentID)

	select {
	case to := <-sent:
		assert.Equal(t, []string{"rae@example.org"}, to)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an email to be sent")
	}
}

func TestInboxNotifierSkipsMailWhenUnconfigured(t *testing.T) {
	db := newTestDB(t)
	n := NewInboxNotifier(NewReviewRepository(db), config.MailSettings{}, logger.NewNop())
	n.send = func(config.MailSettings, []string, string, string) error {
		t.Error("mail should not be sent")
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), Notice{Recipient: &models.User{UserID: uuid.New(), Email: "x@example.org"}, Title: "t"}))
	require.Error(t, n.Notify(context.Background(), Notice{Title: "nobody"}))
}
