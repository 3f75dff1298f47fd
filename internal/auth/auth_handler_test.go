package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leaveflow/internal/auth"
	autherrors "leaveflow/internal/auth/errors"
	"leaveflow/internal/identity"
)

type fakeAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error)
	refreshFn  func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error)
	getMeFn    func(ctx context.Context, userID string) (*auth.AuthResponse, error)
	registerFn func(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
	return f.loginFn(ctx, email, password)
}
func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}
func (f *fakeAuthService) GetMe(ctx context.Context, userID string) (*auth.AuthResponse, error) {
	return f.getMeFn(ctx, userID)
}
func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
	return f.registerFn(ctx, req)
}

func newAuthTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success api client gets tokens in body only", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "dana@example.com", email)
				return "access-1", "refresh-1", auth.AuthResponse{
					ID:    uuid.New().String(),
					Email: email,
					Role:  identity.RoleEmployee,
				}, nil
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/login",
			`{"email":"dana@example.com","password":"password123"}`)
		c.Request.Header.Set("X-Client-Type", "api")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())

		var env struct {
			Ok   bool `json:"ok"`
			Data struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Equal(t, "access-1", env.Data.AccessToken)
		assert.Equal(t, "refresh-1", env.Data.RefreshToken)
	})

	t.Run("success web client also gets httponly cookies", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				return "access-2", "refresh-2", auth.AuthResponse{Email: email}, nil
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/login",
			`{"email":"dana@example.com","password":"password123"}`)
		c.Request.Header.Set("X-Client-Type", "web")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		names := make([]string, 0, len(cookies))
		for _, ck := range cookies {
			names = append(names, ck.Name)
			assert.True(t, ck.HttpOnly)
		}
		assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, names)
	})

	t.Run("negative bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				return "", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/login",
			`{"email":"dana@example.com","password":"wrong"}`)

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative missing email", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/login", `{"password":"password123"}`)

		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userID := uuid.New().String()
		svc := &fakeAuthService{
			getMeFn: func(ctx context.Context, id string) (*auth.AuthResponse, error) {
				assert.Equal(t, userID, id)
				return &auth.AuthResponse{ID: id, Email: "dana@example.com"}, nil
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodGet, "/auth/me", "")
		c.Set("user_id", userID)

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative no identity in context", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		c, w := newAuthTestContext(t, http.MethodGet, "/auth/me", "")

		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAuthService{
			registerFn: func(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
				assert.Equal(t, "New Hire", req.FullName)
				return auth.AuthResponse{Email: req.Email, Role: identity.RoleEmployee}, nil
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/register",
			`{"full_name":"New Hire","email":"new@example.com","password":"password123","department":"Sales"}`)

		h.Register(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative short password", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/register",
			`{"full_name":"New Hire","email":"new@example.com","password":"short","department":"Sales"}`)

		h.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("success api client sends token in body", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "refresh-1", refreshToken)
				return "access-2", "refresh-2", auth.AuthResponse{}, nil
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/refresh",
			`{"refresh_token":"refresh-1"}`)
		c.Request.Header.Set("X-Client-Type", "api")

		h.RefreshToken(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success web client sends token in cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "cookie-refresh", refreshToken)
				return "access-2", "refresh-2", auth.AuthResponse{}, nil
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/refresh", "")
		c.Request.Header.Set("X-Client-Type", "web")
		c.Request.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})

		h.RefreshToken(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative web client without cookie", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/refresh", "")
		c.Request.Header.Set("X-Client-Type", "web")

		h.RefreshToken(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative stale token", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
				return "", "", auth.AuthResponse{}, autherrors.ErrInvalidRefreshToken
			},
		}
		h := auth.NewHandler(svc)
		c, w := newAuthTestContext(t, http.MethodPost, "/auth/refresh",
			`{"refresh_token":"stale"}`)
		c.Request.Header.Set("X-Client-Type", "api")

		h.RefreshToken(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
