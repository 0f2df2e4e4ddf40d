package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/config"
	"microblog/internal/models"
	"microblog/internal/repositories"
)

// AuthService handles sign-in, session tokens and sign-out.
type AuthService struct {
	userRepo      repositories.UserRepository
	tokenRepo     repositories.TokenRepository
	logger        *zap.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		logger:        logger,
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenDuration: cfg.SessionDuration,
	}
}

// TokenDuration is how long an issued session token stays valid.
func (s *AuthService) TokenDuration() time.Duration {
	return s.tokenDuration
}

// SignIn checks the credentials and returns the user with a fresh session
// token.
func (s *AuthService) SignIn(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("User signed in", zap.Uint("user_id", user.ID))
	return user, token, nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenDuration).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning its claims.
// Signed-out tokens are rejected.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrInvalidToken)
	}
	revoked, err := s.tokenRepo.IsRevoked(jti)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: signed out", ErrInvalidToken)
	}
	return claims, nil
}

// CurrentUser resolves the user a session token belongs to.
func (s *AuthService) CurrentUser(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return nil, fmt.Errorf("%w: bad user_id claim", ErrInvalidToken)
	}
	user, err := s.userRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user gone", ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

// SignOut revokes the token until it would have expired. Invalid tokens are
// ignored since they grant nothing.
func (s *AuthService) SignOut(tokenString string) error {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil
		}
		return err
	}
	jti, _ := claims["jti"].(string)
	expiresAt := time.Now().Add(s.tokenDuration)
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}
	if err := s.tokenRepo.Revoke(jti, expiresAt); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	s.logger.Info("User signed out", zap.Any("user_id", claims["user_id"]))
	return nil
}
