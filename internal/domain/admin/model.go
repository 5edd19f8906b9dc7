package admin

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// AdminUser is an operator account for the back office.
type AdminUser struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Name         string     `json:"name" gorm:"size:100;not null"`
	Role         string     `json:"role" gorm:"size:20;not null"`
	IsActive     bool       `json:"isActive" gorm:"not null"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

func (a *AdminUser) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func validRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleManager:
		return true
	}
	return false
}
