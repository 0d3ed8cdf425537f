package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "atelier-backend/pkg/auth"
	"atelier-backend/pkg/config"
	"atelier-backend/pkg/db/models"
	"atelier-backend/pkg/enums"
	pkgerrors "atelier-backend/pkg/errors"
)

type memUsers struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:    map[uuid.UUID]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (r *memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return user, nil
}

func (r *memUsers) Update(_ context.Context, user *models.User) (*models.User, error) {
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return user, nil
}

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := r.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := r.byEmail[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type recordingMerger struct {
	calls []string
	err   error
}

func (m *recordingMerger) Merge(_ context.Context, guestID string, _ uuid.UUID) (*models.Cart, error) {
	m.calls = append(m.calls, guestID)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Cart{}, nil
}

type memSessions struct {
	live map[string]bool
}

func newMemSessions() *memSessions { return &memSessions{live: map[string]bool{}} }

func (s *memSessions) Register(_ context.Context, id string) error {
	s.live[id] = true
	return nil
}

func (s *memSessions) Revoke(_ context.Context, id string) error {
	delete(s.live, id)
	return nil
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "atelier-test", ExpirationMinutes: 30}
}

func testPassword() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestService(t *testing.T) (Service, *memUsers, *recordingMerger, *memSessions) {
	t.Helper()
	repo := newMemUsers()
	merger := &recordingMerger{}
	sessions := newMemSessions()
	svc, err := NewService(repo, merger, sessions, testJWT(), testPassword(), nil)
	require.NoError(t, err)
	return svc, repo, merger, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, sessions := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{
		Email:     "Shopper@Example.com",
		Password:  "sufficiently-long",
		FirstName: "Sam",
		LastName:  "Field",
	})
	require.NoError(t, err)
	require.Equal(t, "shopper@example.com", reg.User.Email)
	require.Equal(t, enums.UserRoleCustomer, reg.User.Role)
	require.NotEmpty(t, reg.Token)

	claims, err := pkgAuth.ParseAccessToken(testJWT(), reg.Token)
	require.NoError(t, err)
	require.True(t, sessions.live[claims.ID])

	login, err := svc.Login(ctx, LoginInput{Email: "shopper@example.com", Password: "sufficiently-long"})
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "wrong-password"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@b.com", Password: "password123"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogin_MergesGuestCart(t *testing.T) {
	svc, _, merger, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "password123", GuestID: "guest_42"})
	require.NoError(t, err)
	require.Equal(t, []string{"guest_42"}, merger.calls)
}

func TestLogin_MergeFailureDoesNotBlock(t *testing.T) {
	svc, _, merger, _ := newTestService(t)
	ctx := context.Background()
	merger.err = pkgerrors.New(pkgerrors.CodeNotFound, "guest cart not found")

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "password123", GuestID: "guest_stale"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _, sessions := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := pkgAuth.ParseAccessToken(testJWT(), reg.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	require.False(t, sessions.live[claims.ID])
}

func TestUpdateProfile_PartialEdit(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{
		Email: "a@b.com", Password: "password123", FirstName: "Sam", LastName: "Field",
	})
	require.NoError(t, err)

	address := "12 Rue des Ateliers"
	updated, err := svc.UpdateProfile(ctx, reg.User.ID, UpdateProfileInput{Address: &address})
	require.NoError(t, err)
	require.Equal(t, "Sam", updated.FirstName)
	require.NotNil(t, updated.Address)
	require.Equal(t, address, *updated.Address)
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, reg.User.ID, ChangePasswordInput{
		CurrentPassword: "wrong", NewPassword: "new-password-1",
	})
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	err = svc.ChangePassword(ctx, reg.User.ID, ChangePasswordInput{
		CurrentPassword: "password123", NewPassword: "new-password-1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "new-password-1"})
	require.NoError(t, err)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	require.Equal(t, code, typed.Code())
}
