package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DonationModel mirrors the 'book_donations' table. Location is kept as raw
// JSONB here; decoding to the canonical shape happens in the repository
// mapper, nowhere else. Medium deliberately has no column: historical data
// never carried it, so reads default it during mapping.
type DonationModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title      string         `gorm:"type:varchar(255);not null"`
	Category   string         `gorm:"type:varchar(32);not null"`
	Subject    *string        `gorm:"type:varchar(64)"`
	Grade      *int           `gorm:"type:smallint"`
	Board      *string        `gorm:"type:varchar(16)"`
	Condition  string         `gorm:"type:varchar(16);not null"`
	DonorName  string         `gorm:"type:varchar(100);not null"`
	DonorEmail string         `gorm:"type:varchar(255);not null"`
	DonorPhone string         `gorm:"type:varchar(32)"`
	Location   datatypes.JSON `gorm:"type:jsonb"`
	Status     string         `gorm:"type:varchar(16);not null;default:'pending';index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (DonationModel) TableName() string {
	return "book_donations"
}
