package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentReviewStatus is the externally visible review status of a document.
type DocumentReviewStatus string

const (
	DocStatusPendingReview   DocumentReviewStatus = "PENDING_REVIEW"
	DocStatusReviewing       DocumentReviewStatus = "REVIEWING"
	DocStatusPendingApproval DocumentReviewStatus = "PENDING_APPROVAL"
	DocStatusActive          DocumentReviewStatus = "ACTIVE"
	DocStatusRejected        DocumentReviewStatus = "REJECTED"
)

var documentTransitions = map[DocumentReviewStatus][]DocumentReviewStatus{
	DocStatusPendingReview:   {DocStatusReviewing},
	DocStatusReviewing:       {DocStatusPendingApproval},
	DocStatusPendingApproval: {DocStatusActive, DocStatusRejected, DocStatusReviewing},
}

// Valid reports whether s is a known document status.
func (s DocumentReviewStatus) Valid() bool {
	switch s {
	case DocStatusPendingReview, DocStatusReviewing, DocStatusPendingApproval, DocStatusActive, DocStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the document may move from s to next.
func (s DocumentReviewStatus) CanTransitionTo(next DocumentReviewStatus) bool {
	for _, allowed := range documentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Document is a premium artifact routed through the review chain.
type Document struct {
	DocumentID uuid.UUID            `gorm:"primaryKey;type:char(36);column:document_id" json:"document_id"`
	Title      string               `gorm:"column:title" json:"title"`
	UploaderID *uuid.UUID           `gorm:"type:char(36);column:uploader_id" json:"uploader_id,omitempty"`
	IsPremium  bool                 `gorm:"column:is_premium" json:"is_premium"`
	Status     DocumentReviewStatus `gorm:"column:status;size:32;index" json:"status"`
	CreateAt   time.Time            `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt   time.Time            `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
	DeleteAt   *time.Time           `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Document) TableName() string {
	return "documents"
}
