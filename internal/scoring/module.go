// Package scoring provides the lead engagement scoring bounded context:
// permissive event ingestion plus the periodic decayed-score recompute.
package scoring

import (
	"axentra_crm_backend/internal/events"
	apphttp "axentra_crm_backend/internal/http"
	"axentra_crm_backend/internal/scoring/handler"
	"axentra_crm_backend/internal/scoring/repository"
	"axentra_crm_backend/internal/scoring/service"
	"axentra_crm_backend/platform/logger"
	"axentra_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the scoring bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	recorder *service.Recorder
	recalc   *service.Recalculator
}

// NewModule creates and initializes the scoring module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger, workers int) *Module {
	repo := repository.New(pool)
	recorder := service.NewRecorder(repo, bus)
	recalc := service.NewRecalculator(repo, log, workers)
	h := handler.New(recorder, recalc, val)

	return &Module{
		handler:  h,
		recorder: recorder,
		recalc:   recalc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scoring"
}

// Recalculator returns the batch recalculator for the scheduler worker.
func (m *Module) Recalculator() *service.Recalculator {
	return m.recalc
}

// RegisterRoutes mounts scoring routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/scoring")
	group.POST("/track", m.handler.Track)
	group.POST("/recompute", m.handler.Recompute)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
