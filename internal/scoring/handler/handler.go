package handler

import (
	"encoding/json"
	"net/http"

	"axentra_crm_backend/internal/http/response"
	"axentra_crm_backend/internal/scoring/service"
	"axentra_crm_backend/internal/scoring/transport"
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
	recorder *service.Recorder
	recalc   *service.Recalculator
	val      *validator.Validator
}

func New(recorder *service.Recorder, recalc *service.Recalculator, val *validator.Validator) *Handler {
	return &Handler{recorder: recorder, recalc: recalc, val: val}
}

// Track records one engagement event for a lead owned by the caller.
func (h *Handler) Track(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.TrackEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var payload json.RawMessage
	if req.Payload != nil {
		payload, err = json.Marshal(req.Payload)
		if err != nil {
			response.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}

	if err := h.recorder.RecordEngagement(c.Request.Context(), userID, leadID, req.EventType, payload); err != nil {
		response.FromError(c, err)
		return
	}

	response.NoContent(c)
}

// Recompute triggers a full score recompute on demand with the same
// semantics as the scheduled daily run.
func (h *Handler) Recompute(c *gin.Context) {
	result, err := h.recalc.RecomputeAll(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, transport.RecomputeResponse{Updated: result.Updated})
}
