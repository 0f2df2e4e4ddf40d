package repositories

import (
	"errors"

	"microblog/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	// Delete removes the user together with all of their microposts.
	Delete(id uint) error
	List(offset, limit int) ([]models.User, int64, error)
	Count() (int64, error)
}

// Repository errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrMicropostNotFound = errors.New("micropost not found")
	ErrEmailTaken        = errors.New("email already taken")
)
