package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TicketStatusValid     = "VALID"
	TicketStatusUsed      = "USED"
	TicketStatusCancelled = "CANCELLED"
	TicketStatusRefunded  = "REFUNDED"
)

type Ticket struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	EventID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	TicketTypeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"ticket_type_id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	Barcode      string          `gorm:"not null;uniqueIndex" json:"barcode"`
	Status       string          `gorm:"not null;default:'VALID';index" json:"status"`
	PricePaid    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_paid"`
	CheckedInAt  *time.Time      `json:"checked_in_at,omitempty"`
	CheckedInBy  *uuid.UUID      `gorm:"type:uuid" json:"checked_in_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
