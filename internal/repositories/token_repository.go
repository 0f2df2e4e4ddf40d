package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"microblog/internal/models"
)

// TokenRepository remembers session tokens that were signed out before
// their expiry.
type TokenRepository interface {
	Revoke(jti string, expiresAt time.Time) error
	IsRevoked(jti string) (bool, error)
	PurgeExpired() error
}

// GORMTokenRepository keeps revoked tokens in the application database.
type GORMTokenRepository struct {
	db *gorm.DB
}

// NewGORMTokenRepository creates a new instance of GORMTokenRepository.
func NewGORMTokenRepository(db *gorm.DB) *GORMTokenRepository {
	return &GORMTokenRepository{db: db}
}

// Revoke stores the token id. Revoking twice is not an error.
func (r *GORMTokenRepository) Revoke(jti string, expiresAt time.Time) error {
	revoked, err := r.IsRevoked(jti)
	if err != nil {
		return err
	}
	if revoked {
		return nil
	}
	token := models.RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	if err := r.db.Create(&token).Error; err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id was signed out.
func (r *GORMTokenRepository) IsRevoked(jti string) (bool, error) {
	var tokens []models.RevokedToken
	res := r.db.Where("jti = ?", jti).Limit(1).Find(&tokens)
	if res.Error != nil {
		return false, fmt.Errorf("failed to look up revoked token: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// PurgeExpired drops rows whose token would be rejected anyway.
func (r *GORMTokenRepository) PurgeExpired() error {
	if err := r.db.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{}).Error; err != nil {
		return fmt.Errorf("failed to purge revoked tokens: %w", err)
	}
	return nil
}
