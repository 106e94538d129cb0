package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatusHistory tracks every review status change applied to a document.
type DocumentStatusHistory struct {
	HistoryID  uint                  `gorm:"primaryKey;autoIncrement;column:history_id" json:"history_id"`
	DocumentID uuid.UUID             `gorm:"type:char(36);column:document_id;index" json:"document_id"`
	OldStatus  *DocumentReviewStatus `gorm:"column:old_status;size:32" json:"old_status"`
	NewStatus  DocumentReviewStatus  `gorm:"column:new_status;size:32" json:"new_status"`
	Event      string                `gorm:"column:event;size:64" json:"event"`
	ChangedBy  uuid.UUID             `gorm:"type:char(36);column:changed_by" json:"changed_by"`
	Reason     *string               `gorm:"column:reason" json:"reason"`
	CreatedAt  time.Time             `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for DocumentStatusHistory.
func (DocumentStatusHistory) TableName() string {
	return "document_status_history"
}
