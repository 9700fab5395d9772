package handler

import (
	"net/http"

	"axentra_crm_backend/internal/http/response"
	"axentra_crm_backend/internal/notification/service"
	"axentra_crm_backend/internal/notification/transport"
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

// Send delivers a notification over the requested channel on behalf of the
// caller and returns the resulting log entry.
func (h *Handler) Send(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.service.Send(c.Request.Context(), service.SendInput{
		UserID:    userID,
		Message:   req.Message,
		Channel:   req.Channel,
		Recipient: req.Recipient,
		Subject:   req.Subject,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, transport.SendNotificationResponse{
		ID:     result.ID.String(),
		Status: result.Status,
	})
}
