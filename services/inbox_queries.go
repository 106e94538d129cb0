package services

import (
	"context"
	"fmt"

	"document-review-api/models"

	"github.com/google/uuid"
)

// NotificationPage is one page of a user's inbox.
type NotificationPage struct {
	Items  []models.Notification `json:"items"`
	Total  int64                 `json:"total"`
	Unread int64                 `json:"unread"`
	Page   int                   `json:"page"`
	Size   int                   `json:"size"`
}

// ListNotifications returns the user's inbox along with the unread count.
func (w *ReviewWorkflow) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page PageRequest) (*NotificationPage, error) {
	page = page.normalized()
	rows, total, err := w.repo.ListNotifications(ctx, userID, unreadOnly, page)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Notification{}
	}
	unread, err := w.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}
	return &NotificationPage{Items: rows, Total: total, Unread: unread, Page: page.Page, Size: page.Size}, nil
}

func (w *ReviewWorkflow) UnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := w.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkNotificationRead marks one of the user's notifications as read. Marking an already
// read notification is a no-op; someone else's notification is reported as missing.
func (w *ReviewWorkflow) MarkNotificationRead(ctx context.Context, userID uuid.UUID, id uint) error {
	n, err := w.repo.MarkNotificationsRead(ctx, userID, &id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n > 0 {
		return nil
	}
	exists, err := w.repo.NotificationExists(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("load notification: %w", err)
	}
	if !exists {
		return notFound("notification %d not found", id)
	}
	return nil
}

// MarkAllNotificationsRead returns how many notifications changed.
func (w *ReviewWorkflow) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := w.repo.MarkNotificationsRead(ctx, userID, nil)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}
