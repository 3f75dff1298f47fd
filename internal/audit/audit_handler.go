package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leaveflow/internal/shared/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListByEntity(c *gin.Context) {
	entityType := c.Param("entityType")
	entityID := c.Param("entityId")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	entries, err := h.repo.FindRecentByEntity(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load audit trail", nil)
		return
	}

	response.Success(c, http.StatusOK, entries, nil)
}
