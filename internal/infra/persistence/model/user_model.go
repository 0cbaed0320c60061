// Package model contains the GORM persistence models mirroring the database
// tables. Models never leak past the repository layer; every read is mapped
// to a domain entity first.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. The primary key is shared with the
// authentication identity created in the same registration transaction.
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Email          string    `gorm:"type:varchar(255);unique;not null"`
	Phone          *string   `gorm:"type:varchar(32)"`
	Role           string    `gorm:"type:varchar(16);not null"`
	Location       *string   `gorm:"type:varchar(255)"`
	Status         string    `gorm:"type:varchar(16);not null;default:'active'"`
	DonationsCount int       `gorm:"not null;default:0"`
	RequestsCount  int       `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Authentications []AuthenticationModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
