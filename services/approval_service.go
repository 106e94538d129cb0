package services

import (
	"context"
	"errors"
	"fmt"

	"document-review-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResolveInput is an approver's verdict on a PENDING review result.
type ResolveInput struct {
	ApproverID      uuid.UUID
	ResultID        uuid.UUID
	Approved        bool
	RejectionReason string
}

// Resolve approves or rejects a submitted result. Approval finalizes the document according
// to the reviewer's decision; rejection sends the reviewer back with a fresh review deadline.
func (w *ReviewWorkflow) Resolve(ctx context.Context, in ResolveInput) (*models.ReviewResult, error) {
	now := w.now()
	reason := trimmedPtr(in.RejectionReason)

	var (
		result *models.ReviewResult
		doc    *models.Document
	)
	err := w.repo.Transaction(ctx, func(tx *ReviewRepository) error {
		if _, err := w.requireUser(ctx, tx, in.ApproverID, models.RoleBusinessAdmin, "approver"); err != nil {
			return err
		}

		var err error
		result, err = tx.FindResult(ctx, in.ResultID, true)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("review result %s not found", in.ResultID)
		}
		if err != nil {
			return fmt.Errorf("load review result: %w", err)
		}

		target := models.ReviewResultApproved
		if !in.Approved {
			target = models.ReviewResultRejected
		}
		if !result.Status.CanTransitionTo(target) {
			return invalidState("review result %s is already %s", result.ReviewResultID, result.Status)
		}

		approverID := in.ApproverID
		result.Status = target
		result.ApprovedByID = &approverID
		result.ApprovedAt = &now

		var event WorkflowEvent
		if in.Approved {
			event = EventResultApprovedWithApproval
			if result.Decision == models.ReviewDecisionRejected {
				event = EventResultApprovedWithRejection
			}
		} else {
			if reason == nil {
				return invalidRequest("a rejection reason is required to reject a review result")
			}
			result.RejectionReason = reason
			event = EventResultRejected

			req, err := w.loadRequest(ctx, tx, result.ReviewRequestID, true)
			if err != nil {
				return err
			}
			reviewDeadline := Deadline(now, ReviewWindowDays)
			req.ReviewDeadline = &reviewDeadline
			if err := tx.SaveRequest(ctx, req); err != nil {
				return fmt.Errorf("reopen review request: %w", err)
			}
		}

		if err := tx.SaveResult(ctx, result); err != nil {
			return fmt.Errorf("save review result: %w", err)
		}
		doc, err = w.sync.Apply(ctx, tx, result.DocumentID, event, in.ApproverID, reason)
		return err
	})
	w.record("resolve", err)
	if err != nil {
		return nil, err
	}

	w.log.Info("review result resolved",
		"review_result_id", result.ReviewResultID,
		"review_request_id", result.ReviewRequestID,
		"document_id", result.DocumentID,
		"result_status", result.Status,
		"document_status", doc.Status,
	)

	reviewer := w.lookupUser(ctx, &result.ReviewerID)
	if result.Status == models.ReviewResultRejected {
		w.notify(ctx, Notice{
			Recipient: reviewer,
			Title:     "Review result returned",
			Message: fmt.Sprintf("Your review of \"%s\" was returned for rework. Reason: %s",
				doc.Title, *result.RejectionReason),
			Type:       "warning",
			DocumentID: &doc.DocumentID,
		})
		return result, nil
	}

	w.notify(ctx, Notice{
		Recipient:  reviewer,
		Title:      "Review result approved",
		Message:    fmt.Sprintf("Your review of \"%s\" was approved.", doc.Title),
		Type:       "success",
		DocumentID: &doc.DocumentID,
	})
	outcome := "published"
	kind := "success"
	if doc.Status == models.DocStatusRejected {
		outcome = "rejected after review"
		kind = "error"
	}
	w.notify(ctx, Notice{
		Recipient:  w.lookupUser(ctx, doc.UploaderID),
		Title:      "Document review completed",
		Message:    fmt.Sprintf("Your document \"%s\" was %s.", doc.Title, outcome),
		Type:       kind,
		DocumentID: &doc.DocumentID,
	})
	return result, nil
}
