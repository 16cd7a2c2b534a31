package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventStatusDraft     = "DRAFT"
	EventStatusPublished = "PUBLISHED"
	EventStatusCompleted = "COMPLETED"
	EventStatusCancelled = "CANCELLED"
)

type Event struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"organization_id"`
	VenueID        *uuid.UUID   `gorm:"type:uuid" json:"venue_id,omitempty"`
	Venue          *Venue       `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	Name           string       `gorm:"not null" json:"name"`
	Description    string       `json:"description"`
	StartDatetime  time.Time    `gorm:"not null" json:"start_datetime"`
	EndDatetime    time.Time    `gorm:"not null;index" json:"end_datetime"`
	SalesStart     *time.Time   `json:"sales_start,omitempty"`
	SalesEnd       *time.Time   `json:"sales_end,omitempty"`
	Status         string       `gorm:"not null;default:'DRAFT';index" json:"status"`
	TicketTypes    []TicketType `gorm:"foreignKey:EventID" json:"ticket_types,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
