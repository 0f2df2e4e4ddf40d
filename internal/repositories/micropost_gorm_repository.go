package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"microblog/internal/models"
)

// GORMMicropostRepository is a GORM implementation of MicropostRepository.
type GORMMicropostRepository struct {
	db *gorm.DB
}

// NewGORMMicropostRepository creates a new instance of GORMMicropostRepository.
func NewGORMMicropostRepository(db *gorm.DB) *GORMMicropostRepository {
	return &GORMMicropostRepository{
		db: db,
	}
}

// Create creates a new micropost in the database.
func (r *GORMMicropostRepository) Create(micropost *models.Micropost) error {
	if err := r.db.Create(micropost).Error; err != nil {
		return fmt.Errorf("failed to create micropost: %w", err)
	}
	return nil
}

// GetByID retrieves a single micropost by its ID from the database.
func (r *GORMMicropostRepository) GetByID(id uint) (*models.Micropost, error) {
	var micropost models.Micropost
	if err := r.db.First(&micropost, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMicropostNotFound, id)
		}
		return nil, fmt.Errorf("failed to get micropost by ID %d: %w", id, err)
	}
	return &micropost, nil
}

// Delete deletes a micropost by its ID from the database.
func (r *GORMMicropostRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Micropost{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete micropost: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrMicropostNotFound, id)
	}
	return nil
}

// ListByUser returns one window of the user's microposts, newest first.
func (r *GORMMicropostRepository) ListByUser(userID uint, offset, limit int) ([]models.Micropost, int64, error) {
	total, err := r.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}

	var microposts []models.Micropost
	err = r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&microposts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list microposts of user %d: %w", userID, err)
	}
	return microposts, total, nil
}

// CountByUser returns how many microposts the user owns.
func (r *GORMMicropostRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Micropost{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count microposts of user %d: %w", userID, err)
	}
	return count, nil
}

// Count returns the number of microposts of all users.
func (r *GORMMicropostRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Micropost{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count microposts: %w", err)
	}
	return count, nil
}
