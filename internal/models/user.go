package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "ADMIN"
	RolePromoter = "PROMOTER"
	RoleAttendee = "ATTENDEE"
	RoleScanner  = "SCANNER"
)

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email          string     `gorm:"unique;not null" json:"email"`
	Password       string     `gorm:"not null" json:"-"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Role           string     `gorm:"not null;default:'ATTENDEE'" json:"role"`
	OrganizationID *uuid.UUID `gorm:"type:uuid" json:"organization_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

func (user *User) FullName() string {
	if user.FirstName == "" && user.LastName == "" {
		return user.Email
	}
	if user.LastName == "" {
		return user.FirstName
	}
	return user.FirstName + " " + user.LastName
}
