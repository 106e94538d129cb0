package services

import (
	"context"
	"errors"
	"fmt"

	"document-review-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignInput names a reviewer for a document. ExistingRequestID turns the call into a
// reassignment of that PENDING request.
type AssignInput struct {
	AssignerID        uuid.UUID
	DocumentID        uuid.UUID
	ReviewerID        uuid.UUID
	Note              string
	ExistingRequestID *uuid.UUID
}

// Assign creates a PENDING review request, or hands an existing PENDING request to another
// reviewer. The document status does not change.
func (w *ReviewWorkflow) Assign(ctx context.Context, in AssignInput) (*models.ReviewRequest, error) {
	now := w.now()
	deadline := Deadline(now, ResponseWindowDays)
	note := trimmedPtr(in.Note)

	var (
		saved    *models.ReviewRequest
		doc      *models.Document
		reviewer *models.User
	)
	err := w.repo.Transaction(ctx, func(tx *ReviewRepository) error {
		if _, err := w.requireUser(ctx, tx, in.AssignerID, models.RoleBusinessAdmin, "assigner"); err != nil {
			return err
		}

		var err error
		doc, err = tx.FindDocument(ctx, in.DocumentID, true)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("document %s not found", in.DocumentID)
		}
		if err != nil {
			return fmt.Errorf("load document: %w", err)
		}
		if !doc.IsPremium {
			return invalidState("document %s is not premium", doc.DocumentID)
		}
		if doc.Status != models.DocStatusPendingReview {
			return invalidState("document %s is %s, reviewers can only be assigned while %s",
				doc.DocumentID, doc.Status, models.DocStatusPendingReview)
		}

		reviewer, err = w.requireUser(ctx, tx, in.ReviewerID, models.RoleReviewer, "reviewer")
		if err != nil {
			return err
		}

		if in.ExistingRequestID == nil {
			active, err := tx.HasActiveRequest(ctx, doc.DocumentID, reviewer.UserID, nil)
			if err != nil {
				return fmt.Errorf("check active requests: %w", err)
			}
			if active {
				return invalidState("reviewer %s already has an active request for document %s", reviewer.UserID, doc.DocumentID)
			}

			req := &models.ReviewRequest{
				DocumentID:       doc.DocumentID,
				ReviewerID:       reviewer.UserID,
				AssignedByID:     in.AssignerID,
				Note:             note,
				Status:           models.ReviewRequestPending,
				ResponseDeadline: deadline,
			}
			if err := tx.CreateRequest(ctx, req); err != nil {
				return fmt.Errorf("create review request: %w", err)
			}
			saved = req
			return nil
		}

		req, err := w.loadRequest(ctx, tx, *in.ExistingRequestID, true)
		if err != nil {
			return err
		}
		if req.DocumentID != doc.DocumentID {
			return invalidState("review request %s does not belong to document %s", req.ReviewRequestID, doc.DocumentID)
		}
		if !req.Status.CanTransitionTo(models.ReviewRequestPending) {
			return invalidState("review request %s is %s, only %s requests can be reassigned",
				req.ReviewRequestID, req.Status, models.ReviewRequestPending)
		}
		if req.ReviewerID == reviewer.UserID {
			return invalidState("review request %s is already assigned to reviewer %s", req.ReviewRequestID, reviewer.UserID)
		}
		active, err := tx.HasActiveRequest(ctx, doc.DocumentID, reviewer.UserID, &req.ReviewRequestID)
		if err != nil {
			return fmt.Errorf("check active requests: %w", err)
		}
		if active {
			return invalidState("reviewer %s already has an active request for document %s", reviewer.UserID, doc.DocumentID)
		}

		req.ReviewerID = reviewer.UserID
		req.AssignedByID = in.AssignerID
		if note != nil {
			req.Note = note
		}
		req.RespondedAt = nil
		req.ResponseDeadline = deadline
		if err := tx.SaveRequest(ctx, req); err != nil {
			return fmt.Errorf("reassign review request: %w", err)
		}
		saved = req
		return nil
	})

	op := "assign"
	if in.ExistingRequestID != nil {
		op = "reassign"
	}
	w.record(op, err)
	if err != nil {
		return nil, err
	}

	w.log.Info("reviewer assigned",
		"operation", op,
		"review_request_id", saved.ReviewRequestID,
		"document_id", saved.DocumentID,
		"reviewer_id", saved.ReviewerID,
		"response_deadline", saved.ResponseDeadline,
	)
	w.notify(ctx, Notice{
		Recipient: reviewer,
		Title:     "New review request",
		Message: fmt.Sprintf("You have been asked to review \"%s\". Please accept or decline before %s.",
			doc.Title, formatDeadline(saved.ResponseDeadline)),
		Type:       "info",
		DocumentID: &doc.DocumentID,
	})
	return saved, nil
}
