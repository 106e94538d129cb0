package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"document-review-api/config"
	"document-review-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository persists documents, users and the review chain rows.
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	if db == nil {
		db = config.DB
	}
	return &ReviewRepository{db: db}
}

// Transaction runs fn against a repository bound to a single database transaction.
func (r *ReviewRepository) Transaction(ctx context.Context, fn func(tx *ReviewRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReviewRepository{db: tx})
	})
}

func (r *ReviewRepository) session(ctx context.Context, lock bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// RequestFilter narrows ListRequests. Zero fields do not filter.
type RequestFilter struct {
	DocumentID *uuid.UUID
	ReviewerID *uuid.UUID
	Statuses   []models.ReviewRequestStatus
}

// ResultFilter narrows ListResults. Zero fields do not filter.
type ResultFilter struct {
	ReviewerID    *uuid.UUID
	Statuses      []models.ReviewResultStatus
	Decision      models.ReviewDecision
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	TitleSearch   string
}

// PageRequest is a zero-based page window.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) normalized() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

func (p PageRequest) apply(q *gorm.DB) *gorm.DB {
	p = p.normalized()
	return q.Offset(p.Page * p.Size).Limit(p.Size)
}

func (r *ReviewRepository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.session(ctx, false).Where("user_id = ? AND delete_at IS NULL", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *ReviewRepository) FindDocument(ctx context.Context, id uuid.UUID, lock bool) (*models.Document, error) {
	var doc models.Document
	if err := r.session(ctx, lock).Where("document_id = ? AND delete_at IS NULL", id).Take(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *ReviewRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	return r.session(ctx, false).Omit(clause.Associations).Save(doc).Error
}

func (r *ReviewRepository) FindRequest(ctx context.Context, id uuid.UUID, lock bool) (*models.ReviewRequest, error) {
	var req models.ReviewRequest
	if err := r.session(ctx, lock).Where("review_request_id = ?", id).Take(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindRequestDetail loads a request with its document and people for notifications and responses.
func (r *ReviewRepository) FindRequestDetail(ctx context.Context, id uuid.UUID) (*models.ReviewRequest, error) {
	var req models.ReviewRequest
	err := r.session(ctx, false).
		Preload("Document").
		Preload("Reviewer").
		Preload("AssignedBy").
		Where("review_request_id = ?", id).
		Take(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// HasActiveRequest reports whether reviewerID holds a PENDING or ACCEPTED request on the
// document, ignoring excludeID when set.
func (r *ReviewRepository) HasActiveRequest(ctx context.Context, documentID, reviewerID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	q := r.session(ctx, false).Model(&models.ReviewRequest{}).
		Where("document_id = ? AND reviewer_id = ? AND status IN ?", documentID, reviewerID, models.ActiveReviewRequestStatuses)
	if excludeID != nil {
		q = q.Where("review_request_id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReviewRepository) CreateRequest(ctx context.Context, req *models.ReviewRequest) error {
	if req.ReviewRequestID == uuid.Nil {
		req.ReviewRequestID = uuid.New()
	}
	return r.session(ctx, false).Omit(clause.Associations).Create(req).Error
}

func (r *ReviewRepository) SaveRequest(ctx context.Context, req *models.ReviewRequest) error {
	return r.session(ctx, false).Omit(clause.Associations).Save(req).Error
}

func (r *ReviewRepository) FindResult(ctx context.Context, id uuid.UUID, lock bool) (*models.ReviewResult, error) {
	var res models.ReviewResult
	if err := r.session(ctx, lock).Where("review_result_id = ?", id).Take(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// LatestResult returns the most recently submitted result under a request, or nil when
// nothing has been submitted yet.
func (r *ReviewRepository) LatestResult(ctx context.Context, requestID uuid.UUID) (*models.ReviewResult, error) {
	var res models.ReviewResult
	err := r.session(ctx, false).
		Where("review_request_id = ?", requestID).
		Order("submitted_at DESC").
		Take(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// LatestResultDetail is LatestResult with relations loaded, for read endpoints.
func (r *ReviewRepository) LatestResultDetail(ctx context.Context, requestID uuid.UUID) (*models.ReviewResult, error) {
	var res models.ReviewResult
	err := r.session(ctx, false).
		Preload("Document").
		Preload("Reviewer").
		Preload("ApprovedBy").
		Where("review_request_id = ?", requestID).
		Order("submitted_at DESC").
		Take(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReviewRepository) CreateResult(ctx context.Context, res *models.ReviewResult) error {
	if res.ReviewResultID == uuid.Nil {
		res.ReviewResultID = uuid.New()
	}
	return r.session(ctx, false).Omit(clause.Associations).Create(res).Error
}

func (r *ReviewRepository) SaveResult(ctx context.Context, res *models.ReviewResult) error {
	return r.session(ctx, false).Omit(clause.Associations).Save(res).Error
}

func (r *ReviewRepository) CreateStatusHistory(ctx context.Context, h *models.DocumentStatusHistory) error {
	return r.session(ctx, false).Create(h).Error
}

func (r *ReviewRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.session(ctx, false).Create(n).Error
}

// ListRequests returns one page of requests, newest first, and the total match count.
func (r *ReviewRepository) ListRequests(ctx context.Context, f RequestFilter, page PageRequest) ([]models.ReviewRequest, int64, error) {
	q := r.session(ctx, false).Model(&models.ReviewRequest{})
	if f.DocumentID != nil {
		q = q.Where("document_id = ?", *f.DocumentID)
	}
	if f.ReviewerID != nil {
		q = q.Where("reviewer_id = ?", *f.ReviewerID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count review requests: %w", err)
	}

	var rows []models.ReviewRequest
	err := page.apply(q).
		Preload("Document").
		Preload("Reviewer").
		Preload("AssignedBy").
		Order("create_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list review requests: %w", err)
	}
	return rows, total, nil
}

// ListResults returns one page of results, most recently submitted first, and the total
// match count.
func (r *ReviewRepository) ListResults(ctx context.Context, f ResultFilter, page PageRequest) ([]models.ReviewResult, int64, error) {
	q := r.session(ctx, false).Model(&models.ReviewResult{})
	if f.ReviewerID != nil {
		q = q.Where("review_results.reviewer_id = ?", *f.ReviewerID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("review_results.status IN ?", f.Statuses)
	}
	if f.Decision != "" {
		q = q.Where("review_results.decision = ?", f.Decision)
	}
	if f.SubmittedFrom != nil {
		q = q.Where("review_results.submitted_at >= ?", *f.SubmittedFrom)
	}
	if f.SubmittedTo != nil {
		q = q.Where("review_results.submitted_at < ?", *f.SubmittedTo)
	}
	if s := strings.TrimSpace(f.TitleSearch); s != "" {
		q = q.Joins("JOIN documents ON documents.document_id = review_results.document_id").
			Where("LOWER(documents.title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count review results: %w", err)
	}

	var rows []models.ReviewResult
	err := page.apply(q).
		Preload("Document").
		Preload("Reviewer").
		Preload("ApprovedBy").
		Order("review_results.submitted_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list review results: %w", err)
	}
	return rows, total, nil
}

// ExpireOverdueRequests flips PENDING requests whose response deadline has passed to EXPIRED.
func (r *ReviewRepository) ExpireOverdueRequests(ctx context.Context, now time.Time) (int64, error) {
	res := r.session(ctx, false).Model(&models.ReviewRequest{}).
		Where("status = ? AND response_deadline < ?", models.ReviewRequestPending, now).
		Updates(map[string]interface{}{
			"status":    models.ReviewRequestExpired,
			"update_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("expire overdue review requests: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListNotifications returns one page of a user's inbox, newest first, and the total count.
func (r *ReviewRepository) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, page PageRequest) ([]models.Notification, int64, error) {
	q := r.session(ctx, false).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	var rows []models.Notification
	if err := page.apply(q).Order("create_at DESC").Order("notification_id DESC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return rows, total, nil
}

func (r *ReviewRepository) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.session(ctx, false).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkNotificationsRead flags the user's unread notifications as read. A nil id marks all of them.
func (r *ReviewRepository) MarkNotificationsRead(ctx context.Context, userID uuid.UUID, id *uint) (int64, error) {
	q := r.session(ctx, false).Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false)
	if id != nil {
		q = q.Where("notification_id = ?", *id)
	}
	res := q.Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *ReviewRepository) NotificationExists(ctx context.Context, userID uuid.UUID, id uint) (bool, error) {
	var n int64
	err := r.session(ctx, false).Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Count(&n).Error
	return n > 0, err
}
