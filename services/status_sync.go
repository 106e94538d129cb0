package services

import (
	"context"
	"errors"
	"fmt"

	"document-review-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowEvent names a review chain step that moves the document status.
type WorkflowEvent string

const (
	EventReviewAccepted              WorkflowEvent = "REVIEW_ACCEPTED"
	EventReviewSubmitted             WorkflowEvent = "REVIEW_SUBMITTED"
	EventResultApprovedWithApproval  WorkflowEvent = "RESULT_APPROVED_WITH_APPROVAL"
	EventResultApprovedWithRejection WorkflowEvent = "RESULT_APPROVED_WITH_REJECTION"
	EventResultRejected              WorkflowEvent = "RESULT_REJECTED"
)

var documentStatusByEvent = map[WorkflowEvent]models.DocumentReviewStatus{
	EventReviewAccepted:              models.DocStatusReviewing,
	EventReviewSubmitted:             models.DocStatusPendingApproval,
	EventResultApprovedWithApproval:  models.DocStatusActive,
	EventResultApprovedWithRejection: models.DocStatusRejected,
	EventResultRejected:              models.DocStatusReviewing,
}

// TargetStatus returns the document status an event leads to.
func (e WorkflowEvent) TargetStatus() (models.DocumentReviewStatus, bool) {
	s, ok := documentStatusByEvent[e]
	return s, ok
}

// StatusSynchronizer is the only writer of Document.Status.
type StatusSynchronizer struct{}

// Apply moves the document to the status mapped from event and records the change. It must be
// called with a repository bound to the caller's transaction.
func (StatusSynchronizer) Apply(ctx context.Context, tx *ReviewRepository, documentID uuid.UUID, event WorkflowEvent, actorID uuid.UUID, reason *string) (*models.Document, error) {
	next, ok := event.TargetStatus()
	if !ok {
		return nil, fmt.Errorf("unknown workflow event %q", event)
	}

	doc, err := tx.FindDocument(ctx, documentID, true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("document %s not found", documentID)
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	prev := doc.Status
	if !prev.CanTransitionTo(next) {
		return nil, invalidState("document %s cannot move from %s to %s", documentID, prev, next)
	}

	doc.Status = next
	if err := tx.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document status: %w", err)
	}

	history := &models.DocumentStatusHistory{
		DocumentID: documentID,
		OldStatus:  &prev,
		NewStatus:  next,
		Event:      string(event),
		ChangedBy:  actorID,
		Reason:     reason,
	}
	if err := tx.CreateStatusHistory(ctx, history); err != nil {
		return nil, fmt.Errorf("record document status history: %w", err)
	}
	return doc, nil
}
