package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TicketTypeStatusActive   = "ACTIVE"
	TicketTypeStatusSoldOut  = "SOLD_OUT"
	TicketTypeStatusInactive = "INACTIVE"
)

// QuantitySold + QuantityAvailable never exceeds QuantityTotal once an
// issuance transaction commits.
type TicketType struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EventID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Name              string          `gorm:"not null" json:"name"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	QuantityTotal     int             `gorm:"not null" json:"quantity_total"`
	QuantitySold      int             `gorm:"not null;default:0" json:"quantity_sold"`
	QuantityAvailable int             `gorm:"not null" json:"quantity_available"`
	SalesStart        *time.Time      `json:"sales_start,omitempty"`
	SalesEnd          *time.Time      `json:"sales_end,omitempty"`
	Status            string          `gorm:"not null;default:'ACTIVE'" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (tt *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if tt.ID == uuid.Nil {
		tt.ID = uuid.New()
	}
	return
}
