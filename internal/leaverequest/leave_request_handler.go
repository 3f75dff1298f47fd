package leaverequest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leaveflow/internal/identity"
	"leaveflow/internal/shared/apperror"
	"leaveflow/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaverequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) actor(c *gin.Context) (identity.Actor, bool) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return identity.Actor{}, false
	}
	return actor, true
}

func (h *Handler) requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request id", nil)
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	h.logger.Debug("http create leave request", zap.String("actor_id", actor.UserID.String()))

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave request validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	q := ListQuery{
		SearchTerm:   c.Query("search"),
		StatusFilter: c.Query("status"),
		Page:         page,
		PageSize:     pageSize,
	}

	resp, total, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, q.Page, q.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update status validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SendForApproval(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	resp, err := h.service.SendForApproval(c.Request.Context(), actor, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RequestRevocation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	resp, err := h.service.RequestRevocation(c.Request.Context(), actor, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Resubmit(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http resubmit validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Resubmit(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) DashboardStats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	resp, err := h.service.DashboardStats(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	q := ListQuery{
		SearchTerm:   c.Query("search"),
		StatusFilter: c.Query("status"),
		Page:         1,
		PageSize:     exportPageSize,
	}

	data, err := h.service.ExportSpreadsheet(c.Request.Context(), actor, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leave-requests-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ---- anonymous token endpoints ----

// ProcessApproval resolves the action from the route, so an emailed link
// works as a plain POST with no body.
func (h *Handler) ProcessApproval(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		req := ProcessApprovalRequest{Action: action}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
				return
			}
			req.Action = action
		}

		resp, err := h.service.ProcessApproval(c.Request.Context(), token, req)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}

		response.Success(c, http.StatusOK, resp, nil)
	}
}

func (h *Handler) ProcessRevocation(c *gin.Context) {
	token := c.Param("token")

	resp, err := h.service.ProcessRevocation(c.Request.Context(), token)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
