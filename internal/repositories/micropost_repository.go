package repositories

import (
	"microblog/internal/models"
)

// MicropostRepository defines the interface for micropost data access.
type MicropostRepository interface {
	Create(micropost *models.Micropost) error
	GetByID(id uint) (*models.Micropost, error)
	Delete(id uint) error
	// ListByUser returns the user's posts newest first, plus their total.
	ListByUser(userID uint, offset, limit int) ([]models.Micropost, int64, error)
	CountByUser(userID uint) (int64, error)
	Count() (int64, error)
}
