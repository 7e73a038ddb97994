package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixeloid/hgye-webinar/domain"
)

// AccessLogRepositoryImpl implements domain.AccessLogger using GORM.
// Entries are append-only; nothing in this codebase reads them back.
type AccessLogRepositoryImpl struct {
	db *gorm.DB
}

// DBAccessLog represents the database model for AccessLogEntry
type DBAccessLog struct {
	ID        uint   `gorm:"primaryKey"`
	InviteeID *uint  `gorm:"index"`
	EventType string `gorm:"index;size:64"`
	Meta      string `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAccessLog) TableName() string {
	return "access_logs"
}

// NewAccessLogRepository creates a new access log repository
func NewAccessLogRepository(db *gorm.DB) domain.AccessLogger {
	return &AccessLogRepositoryImpl{db: db}
}

// Log implements domain.AccessLogger
func (r *AccessLogRepositoryImpl) Log(ctx context.Context, entry *domain.AccessLogEntry) error {
	meta := "{}"
	if len(entry.Meta) > 0 {
		bytes, err := json.Marshal(entry.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal access log meta: %w", err)
		}
		meta = string(bytes)
	}

	return r.db.WithContext(ctx).Create(&DBAccessLog{
		InviteeID: entry.InviteeID,
		EventType: string(entry.EventType),
		Meta:      meta,
	}).Error
}
