package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewDecision is the reviewer's verdict on the document.
type ReviewDecision string

const (
	ReviewDecisionApproved ReviewDecision = "APPROVED"
	ReviewDecisionRejected ReviewDecision = "REJECTED"
)

func (d ReviewDecision) Valid() bool {
	return d == ReviewDecisionApproved || d == ReviewDecisionRejected
}

// ReviewResultStatus is the approver's verdict on a submitted result.
type ReviewResultStatus string

const (
	ReviewResultPending  ReviewResultStatus = "PENDING"
	ReviewResultApproved ReviewResultStatus = "APPROVED"
	ReviewResultRejected ReviewResultStatus = "REJECTED"
)

var reviewResultTransitions = map[ReviewResultStatus][]ReviewResultStatus{
	ReviewResultPending: {ReviewResultApproved, ReviewResultRejected},
}

func (s ReviewResultStatus) Valid() bool {
	switch s {
	case ReviewResultPending, ReviewResultApproved, ReviewResultRejected:
		return true
	}
	return false
}

func (s ReviewResultStatus) CanTransitionTo(next ReviewResultStatus) bool {
	for _, allowed := range reviewResultTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BlocksResubmission reports whether a result in this status prevents a new submission
// under the same review request.
func (s ReviewResultStatus) BlocksResubmission() bool {
	return s != ReviewResultRejected
}

// ReviewResult is one submitted verdict under a review request. Rows are never reused:
// a rejected result is followed by a fresh row on the next submission.
type ReviewResult struct {
	ReviewResultID  uuid.UUID          `gorm:"primaryKey;type:char(36);column:review_result_id" json:"review_result_id"`
	ReviewRequestID uuid.UUID          `gorm:"type:char(36);column:review_request_id;index:idx_review_results_request_submitted,priority:1" json:"review_request_id"`
	DocumentID      uuid.UUID          `gorm:"type:char(36);column:document_id;index" json:"document_id"`
	ReviewerID      uuid.UUID          `gorm:"type:char(36);column:reviewer_id;index" json:"reviewer_id"`
	Comment         string             `gorm:"column:comment;type:text" json:"comment"`
	ReportFilePath  string             `gorm:"column:report_file_path" json:"report_file_path"`
	Decision        ReviewDecision     `gorm:"column:decision;size:16" json:"decision"`
	Status          ReviewResultStatus `gorm:"column:status;size:16;index" json:"status"`
	SubmittedAt     time.Time          `gorm:"column:submitted_at;index:idx_review_results_request_submitted,priority:2" json:"submitted_at"`
	Late            bool               `gorm:"column:late" json:"late"`
	ApprovedByID    *uuid.UUID         `gorm:"type:char(36);column:approved_by_id" json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time         `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectionReason *string            `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`

	// Relations
	ReviewRequest *ReviewRequest `gorm:"foreignKey:ReviewRequestID;references:ReviewRequestID" json:"review_request,omitempty"`
	Document      *Document      `gorm:"foreignKey:DocumentID;references:DocumentID" json:"document,omitempty"`
	Reviewer      *User          `gorm:"foreignKey:ReviewerID;references:UserID" json:"reviewer,omitempty"`
	ApprovedBy    *User          `gorm:"foreignKey:ApprovedByID;references:UserID" json:"approved_by,omitempty"`

	// Filled by listings, not persisted.
	ReportFileURL string `gorm:"-" json:"report_file_url,omitempty"`
}

// TableName overrides
func (ReviewResult) TableName() string {
	return "review_results"
}
