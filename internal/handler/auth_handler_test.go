package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/handler"
	"github.com/arkield/campus-api/internal/service"
)

type mockAuthService struct {
	result dto.AuthResponse
	err    error
}

func (m *mockAuthService) Register(context.Context, dto.RegisterRequest) (dto.AuthResponse, error) {
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.result, nil
}

func (m *mockAuthService) Login(context.Context, dto.LoginRequest) (dto.AuthResponse, error) {
	if m.err != nil {
		return dto.AuthResponse{}, m.err
	}
	return m.result, nil
}

func newAuthApp(svc *mockAuthService) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/auth"))
	return app
}

func TestAuthHandlerRegisterCreated(t *testing.T) {
	svc := &mockAuthService{result: dto.AuthResponse{
		Token: "signed-token",
		User:  dto.UserResponse{ID: "u-1", Email: "alice@example.edu", Role: "student"},
	}}
	app := newAuthApp(svc)

	payload := strings.NewReader(`{"name":"Alice","email":"alice@example.edu","password":"hunter22","role":"student"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "signed-token", body.Data.Token)
	require.Equal(t, "alice@example.edu", body.Data.User.Email)
}

func TestAuthHandlerRegisterEmailTaken(t *testing.T) {
	app := newAuthApp(&mockAuthService{err: service.ErrEmailTaken})

	payload := strings.NewReader(`{"name":"Alice","email":"alice@example.edu","password":"hunter22","role":"student"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthHandlerLoginUnauthorized(t *testing.T) {
	app := newAuthApp(&mockAuthService{err: service.ErrInvalidCredentials})

	payload := strings.NewReader(`{"email":"alice@example.edu","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	app := newAuthApp(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "invalid request body", body.Message)
}
