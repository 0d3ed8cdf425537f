package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-backend/pkg/config"
	"atelier-backend/pkg/db"
	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/pagination"
	"atelier-backend/pkg/security"
)

// AdminRepository abstracts user persistence for back-office management.
type AdminRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminCreateInput lets an admin provision an account with a role.
type AdminCreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// AdminUpdateInput carries partial account edits by an admin.
type AdminUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *string
}

// AdminService exposes back-office account management.
type AdminService interface {
	List(ctx context.Context, page pagination.Params) ([]UserDTO, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Create(ctx context.Context, input AdminCreateInput) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type adminService struct {
	repo  AdminRepository
	pwCfg config.PasswordConfig
}

// NewAdminService builds the back-office user service.
func NewAdminService(repo AdminRepository, pwCfg config.PasswordConfig) (AdminService, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &adminService{repo: repo, pwCfg: pwCfg}, nil
}

// List pages through accounts, newest first.
func (s *adminService) List(ctx context.Context, page pagination.Params) ([]UserDTO, int64, error) {
	norm := page.Normalize()
	rows, total, err := s.repo.List(ctx, norm.Limit, page.Offset())
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return ToDTOs(rows), total, nil
}

// Get returns a single account by id.
func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDTO(user), nil
}

// Create provisions an account with an explicit role.
func (s *adminService) Create(ctx context.Context, input AdminCreateInput) (*UserDTO, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	role := enums.UserRoleCustomer
	if input.Role != "" {
		parsed, err := enums.ParseUserRole(input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = parsed
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	created, err := s.repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return ToDTO(created), nil
}

// Update applies partial edits, including role changes.
func (s *adminService) Update(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
		}
		user.Email = email
	}
	if input.Role != nil {
		parsed, err := enums.ParseUserRole(*input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		user.Role = parsed
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return ToDTO(updated), nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *adminService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *adminService) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
