package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ScanTypeEntry = "ENTRY"
	ScanTypeExit  = "EXIT"
)

// ScanLog rows are append-only; nothing updates them after creation.
type ScanLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ScannerID uuid.UUID `gorm:"type:uuid;not null" json:"scanner_id"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	ScanType  string    `gorm:"not null" json:"scan_type"`
	Success   bool      `gorm:"not null" json:"success"`
	ScannedAt time.Time `gorm:"not null;index" json:"scanned_at"`
}

func (sl *ScanLog) BeforeCreate(tx *gorm.DB) (err error) {
	if sl.ID == uuid.Nil {
		sl.ID = uuid.New()
	}
	return
}
