package models

import "time"

// RevokedToken records a session token signed out before it expired.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"uniqueIndex;type:varchar(36);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName overrides the table name
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
