package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type stubCompanyRepo struct{}

func (stubCompanyRepo) Create(context.Context, *domain.Company) error { return nil }
func (stubCompanyRepo) Update(context.Context, *domain.Company) error { return nil }
func (stubCompanyRepo) GetByID(context.Context, string) (*domain.Company, error) {
	return nil, pgx.ErrNoRows
}
func (stubCompanyRepo) GetBySlug(context.Context, string) (*domain.Company, error) {
	return nil, pgx.ErrNoRows
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (s *stubUserRepo) Update(context.Context, *domain.User) error { return nil }
func (s *stubUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}
func (s *stubUserRepo) List(context.Context, repository.UserFilter) ([]domain.User, error) {
	return nil, nil
}

type stubResetRepo struct{}

func (stubResetRepo) Create(context.Context, *repository.PasswordResetToken) error { return nil }
func (stubResetRepo) GetByToken(context.Context, string) (*repository.PasswordResetToken, error) {
	return nil, pgx.ErrNoRows
}
func (stubResetRepo) MarkUsed(context.Context, string) error { return nil }

func newAuthTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   60,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		CompanyRepo: stubCompanyRepo{},
		UserRepo: &stubUserRepo{users: map[string]*domain.User{
			"known@example.com": {ID: "user-1", CompanyID: "co-1", Role: domain.RoleAdmin, IsActive: true},
		}},
		PasswordResetRepo: stubResetRepo{},
	})

	app := fiber.New()
	handler := NewAuthHandler(authService)
	app.Post("/auth/password/reset/request", handler.RequestPasswordReset)
	return app
}

func TestAuthHandler_RequestPasswordReset_NoAccountEnumeration(t *testing.T) {
	app := newAuthTestApp(t)

	fetch := func(email string) (int, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/auth/password/reset/request",
			strings.NewReader(`{"email":"`+email+`"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	knownStatus, knownBody := fetch("known@example.com")
	unknownStatus, unknownBody := fetch("nobody@example.com")

	assert.Equal(t, fiber.StatusOK, knownStatus)
	assert.Equal(t, knownStatus, unknownStatus)
	assert.JSONEq(t, `{"data":{"status":"sent"}}`, knownBody)
	assert.Equal(t, knownBody, unknownBody, "response must not reveal whether the account exists")
}
