package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrganizationStatusActive    = "ACTIVE"
	OrganizationStatusSuspended = "SUSPENDED"
)

type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"not null;unique" json:"slug"`
	Type      string    `gorm:"not null" json:"type"`
	Status    string    `gorm:"not null;default:'ACTIVE'" json:"status"`
	Events    []Event   `gorm:"foreignKey:OrganizationID" json:"events,omitempty"`
	Venues    []Venue   `gorm:"foreignKey:OrganizationID" json:"venues,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (org *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	return
}
