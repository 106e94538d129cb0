package models

import (
	"time"

	"github.com/google/uuid"
)

type ReviewRequestStatus string

const (
	ReviewRequestPending  ReviewRequestStatus = "PENDING"
	ReviewRequestAccepted ReviewRequestStatus = "ACCEPTED"
	ReviewRequestRejected ReviewRequestStatus = "REJECTED"
	ReviewRequestExpired  ReviewRequestStatus = "EXPIRED"
)

// PENDING -> PENDING is a reassignment of the same slot.
var reviewRequestTransitions = map[ReviewRequestStatus][]ReviewRequestStatus{
	ReviewRequestPending: {ReviewRequestPending, ReviewRequestAccepted, ReviewRequestRejected, ReviewRequestExpired},
}

// ActiveReviewRequestStatuses hold a reviewer slot on a document.
var ActiveReviewRequestStatuses = []ReviewRequestStatus{ReviewRequestPending, ReviewRequestAccepted}

func (s ReviewRequestStatus) Valid() bool {
	switch s {
	case ReviewRequestPending, ReviewRequestAccepted, ReviewRequestRejected, ReviewRequestExpired:
		return true
	}
	return false
}

func (s ReviewRequestStatus) CanTransitionTo(next ReviewRequestStatus) bool {
	for _, allowed := range reviewRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether a request in this status still occupies its reviewer slot.
func (s ReviewRequestStatus) IsActive() bool {
	return s == ReviewRequestPending || s == ReviewRequestAccepted
}

// ReviewRequest is one reviewer's assignment to one document.
type ReviewRequest struct {
	ReviewRequestID  uuid.UUID           `gorm:"primaryKey;type:char(36);column:review_request_id" json:"review_request_id"`
	DocumentID       uuid.UUID           `gorm:"type:char(36);column:document_id;index:idx_review_requests_document_reviewer" json:"document_id"`
	ReviewerID       uuid.UUID           `gorm:"type:char(36);column:reviewer_id;index:idx_review_requests_document_reviewer;index:idx_review_requests_reviewer_status" json:"reviewer_id"`
	AssignedByID     uuid.UUID           `gorm:"type:char(36);column:assigned_by_id" json:"assigned_by_id"`
	Note             *string             `gorm:"column:note" json:"note,omitempty"`
	Status           ReviewRequestStatus `gorm:"column:status;size:16;index:idx_review_requests_reviewer_status" json:"status"`
	ResponseDeadline time.Time           `gorm:"column:response_deadline;index" json:"response_deadline"`
	ReviewDeadline   *time.Time          `gorm:"column:review_deadline" json:"review_deadline,omitempty"`
	RespondedAt      *time.Time          `gorm:"column:responded_at" json:"responded_at,omitempty"`
	RejectionReason  *string             `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	CreateAt         time.Time           `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt         time.Time           `gorm:"column:update_at;autoUpdateTime" json:"update_at"`

	// Relations
	Document   *Document `gorm:"foreignKey:DocumentID;references:DocumentID" json:"document,omitempty"`
	Reviewer   *User     `gorm:"foreignKey:ReviewerID;references:UserID" json:"reviewer,omitempty"`
	AssignedBy *User     `gorm:"foreignKey:AssignedByID;references:UserID" json:"assigned_by,omitempty"`
}

// TableName overrides
func (ReviewRequest) TableName() string {
	return "review_requests"
}
