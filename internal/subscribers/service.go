package subscribers

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"atelier-backend/pkg/db"
	"atelier-backend/pkg/db/models"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/pagination"
)

// SubscriberRepository abstracts subscriber persistence.
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) (*models.Subscriber, error)
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	List(ctx context.Context, limit, offset int) ([]models.Subscriber, int64, error)
}

// Service exposes newsletter signup operations.
type Service interface {
	Subscribe(ctx context.Context, email string) (*models.Subscriber, error)
	List(ctx context.Context, page pagination.Params) ([]models.Subscriber, int64, error)
}

type service struct {
	repo SubscriberRepository
}

// NewService builds the subscriber service.
func NewService(repo SubscriberRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriber repository required")
	}
	return &service{repo: repo}, nil
}

// Subscribe records a signup; a repeated email is rejected.
func (s *service) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already subscribed")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup subscriber")
	}

	created, err := s.repo.Create(ctx, &models.Subscriber{Email: email})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already subscribed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscriber")
	}
	return created, nil
}

// List pages through subscribers for the back office.
func (s *service) List(ctx context.Context, page pagination.Params) ([]models.Subscriber, int64, error) {
	norm := page.Normalize()
	rows, total, err := s.repo.List(ctx, norm.Limit, page.Offset())
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscribers")
	}
	return rows, total, nil
}
