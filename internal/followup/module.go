// Package followup provides the automated follow-up bounded context: a daily
// sweep that messages leads with no recent activity.
package followup

import (
	"axentra_crm_backend/internal/events"
	"axentra_crm_backend/internal/followup/handler"
	"axentra_crm_backend/internal/followup/repository"
	"axentra_crm_backend/internal/followup/service"
	apphttp "axentra_crm_backend/internal/http"
	"axentra_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the followup bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the followup module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followup"
}

// Service returns the service layer for the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts followup routes on the authenticated route group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/followup")
	group.POST("/process", m.handler.Process)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
