package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/config"
	"microblog/internal/models"
	"microblog/internal/pagination"
	"microblog/internal/repositories"
)

// UserInput is the signup and profile form.
type UserInput struct {
	Name                 string `form:"name"`
	Email                string `form:"email"`
	Password             string `form:"password"`
	PasswordConfirmation string `form:"password_confirmation"`
}

type profileFields struct {
	Name  string `label:"Name" validate:"required,max=50"`
	Email string `label:"Email" validate:"required,email,max=255"`
}

type passwordFields struct {
	Password             string `label:"Password" validate:"required,min=6,max=72"`
	PasswordConfirmation string `label:"Password confirmation" validate:"eqfield=Password"`
}

func (in *UserInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// changesPassword reports whether either password field was filled in.
func (in UserInput) changesPassword() bool {
	return in.Password != "" || in.PasswordConfirmation != ""
}

// UserService handles business logic for users.
type UserService struct {
	userRepo   repositories.UserRepository
	publisher  EventPublisher
	logger     *zap.Logger
	validate   *validator.Validate
	bcryptCost int
	perPage    int
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(userRepo repositories.UserRepository, publisher EventPublisher, cfg *config.Config, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		publisher:  publisher,
		logger:     logger,
		validate:   newValidator(),
		bcryptCost: cfg.BcryptCost,
		perPage:    cfg.UsersPerPage,
	}
}

// Create validates the signup form and stores a new, non-admin user.
func (s *UserService) Create(in UserInput) (*models.User, error) {
	in.normalize()
	if err := s.check(in, 0, true); err != nil {
		return nil, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordDigest: string(digest),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("User created", zap.Uint("user_id", user.ID))
	publishEvent(s.publisher, s.logger, EventUserCreated, map[string]interface{}{
		"user_id": user.ID,
		"name":    user.Name,
	})
	return user, nil
}

// Get returns the user with the given ID.
func (s *UserService) Get(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// Update rewrites the requester's own profile. The password is only
// changed when one is supplied.
func (s *UserService) Update(requester *models.User, id uint, in UserInput) (*models.User, error) {
	if requester == nil || requester.ID != id {
		return nil, ErrForbidden
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := s.check(in, user.ID, false); err != nil {
		return nil, err
	}

	if in.changesPassword() {
		digest, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordDigest = string(digest)
	}
	user.Name = in.Name
	user.Email = in.Email

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	s.logger.Info("User updated", zap.Uint("user_id", user.ID))
	return user, nil
}

// Delete removes another user and their microposts. Only admins may delete,
// and never themselves.
func (s *UserService) Delete(requester *models.User, id uint) error {
	if requester == nil || !requester.Admin || requester.ID == id {
		return ErrForbidden
	}
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.Uint("user_id", id), zap.Uint("by", requester.ID))
	publishEvent(s.publisher, s.logger, EventUserDeleted, map[string]interface{}{
		"user_id":    id,
		"deleted_by": requester.ID,
	})
	return nil
}

// List returns one page of users ordered by ID.
func (s *UserService) List(number int) ([]models.User, pagination.Page, error) {
	page := pagination.New(number, s.perPage, 0)
	users, total, err := s.userRepo.List(page.Offset(), page.Limit())
	if err != nil {
		return nil, page, err
	}
	page.Total = total
	return users, page, nil
}

// SetAdmin grants or revokes the admin flag. It backs the seed command;
// no route exposes it.
func (s *UserService) SetAdmin(id uint, admin bool) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	user.Admin = admin
	return s.userRepo.Update(user)
}

// check validates the form and email uniqueness. selfID excludes the record
// being edited from the uniqueness test. Password fields are validated when
// requirePassword is set or when either one is filled in.
func (s *UserService) check(in UserInput, selfID uint, requirePassword bool) error {
	verr, err := validateStruct(s.validate, profileFields{Name: in.Name, Email: in.Email})
	if err != nil {
		return err
	}
	if requirePassword || in.changesPassword() {
		perr, err := validateStruct(s.validate, passwordFields{
			Password:             in.Password,
			PasswordConfirmation: in.PasswordConfirmation,
		})
		if err != nil {
			return err
		}
		verr.Messages = append(verr.Messages, perr.Messages...)
	}

	if in.Email != "" {
		existing, err := s.userRepo.GetByEmail(in.Email)
		switch {
		case err == nil && existing.ID != selfID:
			verr.Add(emailTakenMessage)
		case err != nil && !errors.Is(err, repositories.ErrUserNotFound):
			return err
		}
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

const emailTakenMessage = "Email has already been taken"

// emailTaken is the validation error for a duplicate that got past check,
// such as a concurrent signup with the same address.
func emailTaken() *ValidationError {
	return &ValidationError{Messages: []string{emailTakenMessage}}
}
