package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	NotificationID    uint       `gorm:"primaryKey;autoIncrement;column:notification_id" json:"notification_id"`
	UserID            uuid.UUID  `gorm:"type:char(36);column:user_id;index" json:"user_id"`
	Title             string     `gorm:"column:title" json:"title"`
	Message           string     `gorm:"column:message;type:text" json:"message"`
	Type              string     `gorm:"column:type;size:16" json:"type"` // info|success|warning|error
	RelatedDocumentID *uuid.UUID `gorm:"type:char(36);column:related_document_id" json:"related_document_id,omitempty"`
	IsRead            bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt          time.Time  `gorm:"column:create_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
