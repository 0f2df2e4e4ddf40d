package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// User represents a registered member of the site.
type User struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	Name           string      `json:"name" gorm:"type:varchar(50);not null"`
	Email          string      `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordDigest string      `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never the plaintext
	Admin          bool        `json:"admin" gorm:"not null;default:false"`
	Microposts     []Micropost `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// GravatarURL returns the avatar image for the user's email at the given size.
func (u *User) GravatarURL(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://secure.gravatar.com/avatar/%s?s=%d", hex.EncodeToString(sum[:]), size)
}
