package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atelier-backend/internal/users"
	pkgAuth "atelier-backend/pkg/auth"
	"atelier-backend/pkg/auth/session"
	"atelier-backend/pkg/config"
	"atelier-backend/pkg/db"
	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
	pkgerrors "atelier-backend/pkg/errors"
	"atelier-backend/pkg/logger"
	"atelier-backend/pkg/security"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type cartMerger interface {
	Merge(ctx context.Context, guestID string, userID uuid.UUID) (*models.Cart, error)
}

type sessionRegistry interface {
	Register(ctx context.Context, sessionID string) error
	Revoke(ctx context.Context, sessionID string) error
}

// RegisterInput carries a signup payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput carries credentials plus the optional guest cart to absorb.
type LoginInput struct {
	Email    string
	Password string
	GuestID  string
}

// UpdateProfileInput carries partial profile edits.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Address   *string
	Phone     *string
}

// ChangePasswordInput rotates a credential after verifying the current one.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// AuthResult is the login/register response payload.
type AuthResult struct {
	Token string
	User  *users.UserDTO
}

// Service exposes account and credential operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*users.UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error
}

type service struct {
	repo     userRepository
	carts    cartMerger
	sessions sessionRegistry
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service backed by the provided stack.
func NewService(
	repo userRepository,
	carts cartMerger,
	sessions sessionRegistry,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart merger required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session registry required")
	}
	return &service{
		repo:     repo,
		carts:    carts,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Register creates a customer account and signs the caller in.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := users.NormalizeEmail(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
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

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         enums.UserRoleCustomer,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.issueSession(ctx, created)
}

// Login verifies credentials, mints a session token, and best-effort folds
// the caller's guest cart into their account cart.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := users.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if guestID := strings.TrimSpace(input.GuestID); guestID != "" {
		if _, err := s.carts.Merge(ctx, guestID, user.ID); err != nil {
			// a stale or empty guest cart never blocks login
			if s.logg != nil {
				mctx := s.logg.WithFields(ctx, map[string]any{"guest_id": guestID})
				s.logg.Warn(mctx, "guest cart merge skipped: "+err.Error())
			}
		}
	}

	return result, nil
}

// Logout revokes the session backing the presented token.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Me returns the caller's profile.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return users.ToDTO(user), nil
}

// UpdateProfile applies partial edits to the caller's profile.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*users.UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return users.ToDTO(updated), nil
}

// ChangePassword rotates the credential after verifying the current one.
func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	if len(input.NewPassword) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil || !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user.PasswordHash = hash
	if _, err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return nil
}

func (s *service) issueSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	sessionID := session.NewSessionID()

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if err := s.sessions.Register(ctx, sessionID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}

	return &AuthResult{Token: token, User: users.ToDTO(user)}, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
