package models

import "time"

// Micropost is a short text post owned by exactly one user.
type Micropost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:varchar(140);not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Micropost) TableName() string {
	return "microposts"
}
