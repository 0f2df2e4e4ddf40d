package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/models"
	"microblog/internal/pagination"
	"microblog/internal/repositories"
)

// MicropostInput is the home page posting form.
type MicropostInput struct {
	Content string `form:"content" label:"Content" validate:"required,max=140"`
}

// MicropostService handles business logic for microposts.
type MicropostService struct {
	micropostRepo repositories.MicropostRepository
	publisher     EventPublisher
	logger        *zap.Logger
	validate      *validator.Validate
	perPage       int
}

// NewMicropostService creates a new MicropostService. publisher may be nil.
func NewMicropostService(micropostRepo repositories.MicropostRepository, publisher EventPublisher, cfg *config.Config, logger *zap.Logger) *MicropostService {
	return &MicropostService{
		micropostRepo: micropostRepo,
		publisher:     publisher,
		logger:        logger,
		validate:      newValidator(),
		perPage:       cfg.MicropostsPerPage,
	}
}

// Create stores a new micropost owned by owner.
func (s *MicropostService) Create(owner *models.User, in MicropostInput) (*models.Micropost, error) {
	if owner == nil {
		return nil, ErrForbidden
	}
	in.Content = strings.TrimSpace(in.Content)
	verr, err := validateStruct(s.validate, in)
	if err != nil {
		return nil, err
	}
	if !verr.Empty() {
		return nil, verr
	}

	micropost := &models.Micropost{Content: in.Content, UserID: owner.ID}
	if err := s.micropostRepo.Create(micropost); err != nil {
		return nil, fmt.Errorf("failed to create micropost: %w", err)
	}

	publishEvent(s.publisher, s.logger, EventMicropostCreated, map[string]interface{}{
		"micropost_id": micropost.ID,
		"user_id":      owner.ID,
	})
	return micropost, nil
}

// Delete removes a micropost owned by requester. Posts of other users are
// reported as not found.
func (s *MicropostService) Delete(requester *models.User, id uint) error {
	if requester == nil {
		return ErrForbidden
	}
	micropost, err := s.micropostRepo.GetByID(id)
	if err != nil {
		return err
	}
	if micropost.UserID != requester.ID {
		s.logger.Warn("Refused to delete micropost of another user",
			zap.Uint("micropost_id", id), zap.Uint("requester", requester.ID))
		return fmt.Errorf("%w: id %d", repositories.ErrMicropostNotFound, id)
	}
	if err := s.micropostRepo.Delete(id); err != nil {
		return err
	}

	publishEvent(s.publisher, s.logger, EventMicropostDeleted, map[string]interface{}{
		"micropost_id": id,
		"user_id":      requester.ID,
	})
	return nil
}

// ListForUser returns one page of the user's microposts, newest first.
func (s *MicropostService) ListForUser(userID uint, number int) ([]models.Micropost, pagination.Page, error) {
	page := pagination.New(number, s.perPage, 0)
	posts, total, err := s.micropostRepo.ListByUser(userID, page.Offset(), page.Limit())
	if err != nil {
		return nil, page, err
	}
	page.Total = total
	return posts, page, nil
}

// Feed returns the home page feed of user. Without a follow graph it is the
// user's own posts.
func (s *MicropostService) Feed(user *models.User, number int) ([]models.Micropost, pagination.Page, error) {
	if user == nil {
		return nil, pagination.New(number, s.perPage, 0), errors.New("feed requires a user")
	}
	return s.ListForUser(user.ID, number)
}

// CountForUser returns how many microposts the user owns.
func (s *MicropostService) CountForUser(userID uint) (int64, error) {
	return s.micropostRepo.CountByUser(userID)
}
