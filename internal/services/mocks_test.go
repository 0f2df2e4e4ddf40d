package services_test

import (
	"time"

	"microblog/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	if args.Error(0) == nil && user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) List(offset, limit int) ([]models.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockMicropostRepository is a mock implementation of repositories.MicropostRepository
type MockMicropostRepository struct {
	mock.Mock
}

func (m *MockMicropostRepository) Create(micropost *models.Micropost) error {
	args := m.Called(micropost)
	return args.Error(0)
}

func (m *MockMicropostRepository) GetByID(id uint) (*models.Micropost, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Micropost), args.Error(1)
}

func (m *MockMicropostRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMicropostRepository) ListByUser(userID uint, offset, limit int) ([]models.Micropost, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]models.Micropost), args.Get(1).(int64), args.Error(2)
}

func (m *MockMicropostRepository) CountByUser(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMicropostRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenRepository is a mock implementation of repositories.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Revoke(jti string, expiresAt time.Time) error {
	args := m.Called(jti, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRepository) IsRevoked(jti string) (bool, error) {
	args := m.Called(jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) PurgeExpired() error {
	args := m.Called()
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(eventType string, data map[string]interface{}) error {
	args := m.Called(eventType, data)
	return args.Error(0)
}
