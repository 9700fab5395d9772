package handler

import (
	"axentra_crm_backend/internal/followup/service"
	"axentra_crm_backend/internal/http/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Process runs the inactive-lead sweep on demand with the same semantics as
// the scheduled daily run.
func (h *Handler) Process(c *gin.Context) {
	result, err := h.service.ProcessInactiveLeads(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}
