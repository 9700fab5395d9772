package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"axentra_crm_backend/internal/http/response"
	"axentra_crm_backend/internal/reports/service"
	"axentra_crm_backend/internal/reports/transport"
	"axentra_crm_backend/platform/httpkit"
	"axentra_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	service *service.Service
	val     *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// Weekly generates an activity report for the caller. Without explicit dates
// the report covers the trailing week.
func (h *Handler) Weekly(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	// An empty body means "default window".
	var req transport.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var start, end time.Time
	var err error
	if req.StartDate != "" {
		start, err = time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, msgInvalidRequest, "startDate must be RFC 3339")
			return
		}
	}
	if req.EndDate != "" {
		end, err = time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, msgInvalidRequest, "endDate must be RFC 3339")
			return
		}
	}

	report, err := h.service.Generate(c.Request.Context(), userID, start, end)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, report)
}
