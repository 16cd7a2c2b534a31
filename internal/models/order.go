package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRefunded  = "REFUNDED"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Order carries no event or organization foreign key. The relationship is
// transitive via Ticket -> TicketType -> Event -> Organization, so any
// event/organization scoping has to go through a ticket subquery.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status        string          `gorm:"not null;default:'PENDING';index" json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	FeesAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"fees_amount"`
	PaymentStatus string          `gorm:"not null;default:'PENDING'" json:"payment_status"`
	Tickets       []Ticket        `gorm:"foreignKey:OrderID" json:"tickets,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}
