package services

import (
	"context"
	"fmt"

	"document-review-api/models"
	"document-review-api/monitor"

	"github.com/google/uuid"
)

// RespondInput is a reviewer's answer to a PENDING request.
type RespondInput struct {
	ReviewerID      uuid.UUID
	RequestID       uuid.UUID
	Accept          bool
	RejectionReason string
}

// Respond accepts or declines a review request. A request answered after its response
// deadline is stored as EXPIRED and the call fails with an expired error.
func (w *ReviewWorkflow) Respond(ctx context.Context, in RespondInput) (*models.ReviewRequest, error) {
	now := w.now()

	var (
		saved      *models.ReviewRequest
		lapsed     bool
		lapsedAt   string
		documentID uuid.UUID
	)
	err := w.repo.Transaction(ctx, func(tx *ReviewRepository) error {
		req, err := w.loadRequest(ctx, tx, in.RequestID, true)
		if err != nil {
			return err
		}
		if req.ReviewerID != in.ReviewerID {
			return invalidState("review request %s is not assigned to you", req.ReviewRequestID)
		}
		if req.Status != models.ReviewRequestPending {
			return invalidState("review request %s is %s, only %s requests can be answered",
				req.ReviewRequestID, req.Status, models.ReviewRequestPending)
		}
		documentID = req.DocumentID

		if now.After(req.ResponseDeadline) {
			req.Status = models.ReviewRequestExpired
			if err := tx.SaveRequest(ctx, req); err != nil {
				return fmt.Errorf("expire review request: %w", err)
			}
			lapsed = true
			lapsedAt = formatDeadline(req.ResponseDeadline)
			saved = req
			return nil
		}

		if in.Accept {
			reviewDeadline := Deadline(now, ReviewWindowDays)
			req.Status = models.ReviewRequestAccepted
			req.RespondedAt = &now
			req.ReviewDeadline = &reviewDeadline
			if err := tx.SaveRequest(ctx, req); err != nil {
				return fmt.Errorf("accept review request: %w", err)
			}
			if _, err := w.sync.Apply(ctx, tx, req.DocumentID, EventReviewAccepted, in.ReviewerID, nil); err != nil {
				return err
			}
			saved = req
			return nil
		}

		reason := trimmedPtr(in.RejectionReason)
		if reason == nil {
			return invalidRequest("a rejection reason is required to decline a review request")
		}
		req.Status = models.ReviewRequestRejected
		req.RespondedAt = &now
		req.RejectionReason = reason
		if err := tx.SaveRequest(ctx, req); err != nil {
			return fmt.Errorf("decline review request: %w", err)
		}
		saved = req
		return nil
	})

	if err == nil && lapsed {
		monitor.ExpiredRequests.WithLabelValues("respond").Inc()
		w.log.Info("review request expired on response",
			"review_request_id", in.RequestID,
			"document_id", documentID,
			"reviewer_id", in.ReviewerID,
		)
		err = expired("the response deadline for review request %s passed at %s", in.RequestID, lapsedAt)
	}
	w.record("respond", err)
	if err != nil {
		return nil, err
	}

	action := "declined"
	if saved.Status == models.ReviewRequestAccepted {
		action = "accepted"
	}
	w.log.Info("review request answered",
		"review_request_id", saved.ReviewRequestID,
		"document_id", saved.DocumentID,
		"reviewer_id", saved.ReviewerID,
		"status", saved.Status,
	)

	var title string
	if detail, derr := w.repo.FindRequestDetail(ctx, saved.ReviewRequestID); derr == nil && detail.Document != nil {
		title = detail.Document.Title
	}
	msg := fmt.Sprintf("A reviewer %s the review request for \"%s\".", action, title)
	if saved.RejectionReason != nil && action == "declined" {
		msg += " Reason: " + *saved.RejectionReason
	}
	kind := "success"
	if action == "declined" {
		kind = "warning"
	}
	w.notify(ctx, Notice{
		Recipient:  w.lookupUser(ctx, &saved.AssignedByID),
		Title:      "Review request " + action,
		Message:    msg,
		Type:       kind,
		DocumentID: &saved.DocumentID,
	})
	return saved, nil
}
