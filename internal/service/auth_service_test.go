package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/adventio/giveaway-api/internal/models"
	appErrors "github.com/adventio/giveaway-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail    map[string]*models.User
	byID       map[string]*models.User
	lastLogins []string
	passwords  map[string]string
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.passwords == nil {
		m.passwords = make(map[string]string)
	}
	m.passwords[id] = passwordHash
	return nil
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		Email:        "ops@example.com",
		PasswordHash: string(hash),
		FullName:     "Ops One",
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func newTestAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, "test-secret", time.Hour, "giveaway-api", nil, zap.NewNop())
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	user := testUser(t, "hunter22")
	repo := &mockUserRepo{byEmail: map[string]*models.User{"ops@example.com": user}}
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "Ops@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
	assert.Equal(t, []string{"u1"}, repo.lastLogins)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	user := testUser(t, "hunter22")
	repo := &mockUserRepo{byEmail: map[string]*models.User{"ops@example.com": user}}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ops@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := testUser(t, "hunter22")
	user.Active = false
	repo := &mockUserRepo{byEmail: map[string]*models.User{"ops@example.com": user}}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ops@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthServiceValidateGarbageToken(t *testing.T) {
	svc := newTestAuthService(&mockUserRepo{})

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceChangePassword(t *testing.T) {
	user := testUser(t, "hunter22")
	repo := &mockUserRepo{byID: map[string]*models.User{"u1": user}}
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "hunter22",
		NewPassword: "hunter23",
	})
	require.NoError(t, err)
	require.Contains(t, repo.passwords, "u1")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwords["u1"]), []byte("hunter23")))
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	user := testUser(t, "hunter22")
	repo := &mockUserRepo{byID: map[string]*models.User{"u1": user}}
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "hunter23",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}
