package rbac_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"leaveflow/internal/domain"
	"leaveflow/internal/identity"
	"leaveflow/internal/rbac"
)

type fakeRBACService struct {
	enforceFn func(req domain.EnforceRequest) (bool, error)
}

func (f *fakeRBACService) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.enforceFn(req)
}

func enforceRequest(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestRBACHandler_Enforce(t *testing.T) {
	t.Run("success allowed", func(t *testing.T) {
		svc := &fakeRBACService{
			enforceFn: func(req domain.EnforceRequest) (bool, error) {
				assert.Equal(t, identity.RoleAdmin, req.Role)
				assert.Equal(t, "leave_request", req.Resource)
				assert.Equal(t, "approve", req.Action)
				return true, nil
			},
		}
		h := rbac.NewHandler(svc)
		c, w := enforceRequest(t, `{"role":"ADMIN","resource":"leave_request","action":"approve"}`)

		h.Enforce(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Ok   bool `json:"ok"`
			Data struct {
				Allowed bool `json:"allowed"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.True(t, env.Data.Allowed)
	})

	t.Run("success denied", func(t *testing.T) {
		svc := &fakeRBACService{
			enforceFn: func(req domain.EnforceRequest) (bool, error) {
				return false, nil
			},
		}
		h := rbac.NewHandler(svc)
		c, w := enforceRequest(t, `{"role":"EMPLOYEE","resource":"audit_log","action":"read"}`)

		h.Enforce(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data struct {
				Allowed bool `json:"allowed"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Data.Allowed)
	})

	t.Run("negative blank fields", func(t *testing.T) {
		h := rbac.NewHandler(&fakeRBACService{})
		c, w := enforceRequest(t, `{"role":"  ","resource":"leave_request","action":"read"}`)

		h.Enforce(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative enforcer failure", func(t *testing.T) {
		svc := &fakeRBACService{
			enforceFn: func(req domain.EnforceRequest) (bool, error) {
				return false, errors.New("matcher blew up")
			},
		}
		h := rbac.NewHandler(svc)
		c, w := enforceRequest(t, `{"role":"ADMIN","resource":"leave_request","action":"read"}`)

		h.Enforce(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
