package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for an identity
type UserModel struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primary_key"`
	FullName              string     `gorm:"type:varchar(255);not null"`
	Username              string     `gorm:"type:varchar(100);not null;uniqueIndex:uniq_username"`
	Email                 string     `gorm:"type:varchar(255);not null;uniqueIndex:uniq_email"`
	PhoneNumber           string     `gorm:"type:varchar(32)"`
	Nationality           string     `gorm:"type:varchar(100)"`
	PasswordHashed        string     `gorm:"type:varchar(255);not null"`
	ProfilePicture        string     `gorm:"type:varchar(255)"`
	Role                  string     `gorm:"type:varchar(20);not null;default:'user'"`
	IsVerified            bool       `gorm:"default:false;not null"`
	VerificationKind      string     `gorm:"type:varchar(20)"`
	VerificationSecret    string     `gorm:"type:varchar(255);index"`
	VerificationExpiresAt *time.Time `gorm:"index"`
	ResetCode             string     `gorm:"type:varchar(16)"`
	ResetExpiresAt        *time.Time `gorm:"index"`
	RefreshTokenHash      string     `gorm:"type:varchar(64);index"`
	CreatedAt             time.Time  `gorm:"not null"`
	UpdatedAt             time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
