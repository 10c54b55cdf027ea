package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// Email carries a unique index; lookups and upserts key on it.
type AccountModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	Name          string    `gorm:"type:varchar(100)"`
	PasswordHash  string    `gorm:"type:varchar(255)"`
	EmailVerified bool      `gorm:"not null;default:false"`
	Provider      string    `gorm:"type:varchar(32);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	VerificationCodes []VerificationCodeModel `gorm:"foreignKey:AccountID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
