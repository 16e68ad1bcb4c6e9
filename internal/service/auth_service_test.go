package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

type mockAuthRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	revoked       []string
	auditLogs     []models.AuditLog
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	cp := *token
	m.refreshTokens[token.Token] = &cp
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.refreshTokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, *log)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "panchayat-portal",
	}
}

func newAuthRepoWithAdmin(t *testing.T, password string) *mockAuthRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &mockAuthRepo{
		users: map[string]*models.User{
			"u1": {
				ID:           "u1",
				Username:     "sarpanch",
				PasswordHash: string(hash),
				FullName:     "Gram Sevak",
				Role:         models.RoleAdmin,
				Active:       true,
			},
		},
	}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newAuthRepoWithAdmin(t, "secret123")
	service := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	resp, err := service.Login(context.Background(), models.LoginRequest{Username: "sarpanch", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "sarpanch", resp.User.Username)
	assert.Len(t, repo.refreshTokens, 1)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)

	claims, err := service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newAuthRepoWithAdmin(t, "secret123")
	service := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{Username: "sarpanch", Password: "wrong"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newAuthRepoWithAdmin(t, "secret123")
	repo.users["u1"].Active = false
	service := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := service.Login(context.Background(), models.LoginRequest{Username: "sarpanch", Password: "secret123"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceRefreshTokenRotation(t *testing.T) {
	repo := newAuthRepoWithAdmin(t, "secret123")
	service := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	login, err := service.Login(context.Background(), models.LoginRequest{Username: "sarpanch", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, repo.revoked, "the used refresh token is revoked")
}

func TestAuthServiceLogoutRevokesAndAudits(t *testing.T) {
	repo := newAuthRepoWithAdmin(t, "secret123")
	service := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	login, err := service.Login(context.Background(), models.LoginRequest{Username: "sarpanch", Password: "secret123"})
	require.NoError(t, err)

	err = service.Logout(context.Background(), login.RefreshToken, "u1", models.RequestMeta{IP: "10.0.0.5", UserAgent: "test-agent"})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.revoked)

	require.Len(t, repo.auditLogs, 2)
	logout := repo.auditLogs[1]
	assert.Equal(t, models.AuditActionLogout, logout.Action)
	assert.Equal(t, "10.0.0.5", logout.IPAddress)
	assert.Equal(t, "test-agent", logout.UserAgent)
}

func TestAuthServiceLogoutRejectsForeignToken(t *testing.T) {
	repo := newAuthRepoWithAdmin(t, "secret123")
	service := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	login, err := service.Login(context.Background(), models.LoginRequest{Username: "sarpanch", Password: "secret123"})
	require.NoError(t, err)

	err = service.Logout(context.Background(), login.RefreshToken, "someone-else", models.RequestMeta{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	service := NewAuthService(&mockAuthRepo{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := service.ValidateToken("not.a.token")
	require.Error(t, err)
}
