package rbac

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leaveflow/internal/domain"
	"leaveflow/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce answers "would this role be allowed" without performing anything.
// Useful for UI feature gating and debugging policies.
func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	req.Role = strings.TrimSpace(req.Role)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	if req.Role == "" || req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "role, resource, and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{
		Allowed: allowed,
	}, nil)
}
