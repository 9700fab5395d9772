// Package reports provides the reporting bounded context: on-demand user
// activity reports and the weekly email distribution.
package reports

import (
	"axentra_crm_backend/internal/events"
	apphttp "axentra_crm_backend/internal/http"
	"axentra_crm_backend/internal/reports/handler"
	"axentra_crm_backend/internal/reports/repository"
	"axentra_crm_backend/internal/reports/service"
	"axentra_crm_backend/platform/logger"
	"axentra_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reports bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the reports module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// Service returns the service layer for the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts report routes on the authenticated route group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/reports")
	group.POST("/weekly", m.handler.Weekly)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
