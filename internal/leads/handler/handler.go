package handler

import (
	"net/http"
	"strconv"

	"axentra_crm_backend/internal/http/response"
	"axentra_crm_backend/internal/leads/service"
	"axentra_crm_backend/internal/leads/transport"
	"axentra_crm_backend/platform/httpkit"
	"axentra_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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

// Create creates a new lead owned by the caller.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.service.Create(c.Request.Context(), userID, service.CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Source:  req.Source,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, transport.FromDomain(lead))
}

// Get returns a single lead owned by the caller.
func (h *Handler) Get(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.service.Get(c.Request.Context(), userID, leadID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, transport.FromDomain(lead))
}

// List returns one page of the caller's leads with optional filters.
func (h *Handler) List(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.service.List(c.Request.Context(), userID, service.ListInput{
		Status: c.Query("status"),
		Source: c.Query("source"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	leads := make([]transport.LeadResponse, 0, len(result.Leads))
	for i := range result.Leads {
		leads = append(leads, transport.FromDomain(&result.Leads[i]))
	}

	response.OK(c, transport.ListLeadsResponse{
		Leads: leads,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// Update applies a partial update to a lead owned by the caller.
func (h *Handler) Update(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.service.Update(c.Request.Context(), userID, leadID, service.UpdateInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Source:  req.Source,
		Status:  req.Status,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, transport.FromDomain(lead))
}

// Delete removes a lead owned by the caller.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, leadID); err != nil {
		response.FromError(c, err)
		return
	}

	response.NoContent(c)
}
