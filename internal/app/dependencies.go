package app

import (
	"github.com/avtale/avtale/internal/auth"
	"github.com/avtale/avtale/internal/config"
	"github.com/avtale/avtale/internal/event_bus"
	"github.com/avtale/avtale/internal/utils"
	"github.com/avtale/avtale/pkg/audit"
	"github.com/avtale/avtale/pkg/calendar"
	"github.com/avtale/avtale/pkg/dashboard"
	"github.com/avtale/avtale/pkg/schedule"
	"github.com/avtale/avtale/pkg/user"
	"github.com/jmoiron/sqlx"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock utils.Clock
	Bus   *event_bus.EventBus

	TokenIssuer *auth.TokenIssuer
	AuthHandler *auth.Handler

	UserService user.Service

	ScheduleRepo     schedule.Repository
	ScheduleService  schedule.Service
	CsvEventRenderer schedule.EventsRenderer
	ScheduleHandler  *schedule.Handler

	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler

	DashboardService *dashboard.Service
	DashboardHandler *dashboard.Handler

	AuditRepo     audit.Repository
	AuditRecorder *audit.Recorder
	AuditHandler  *audit.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// A nil db selects the in-memory repositories.
func BuildDependencies(db *sqlx.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Bus = event_bus.NewEventBus()

	var userRepo user.Repo
	if db != nil {
		userRepo = user.NewUserRepo(db)
		deps.ScheduleRepo = schedule.NewRepository(db)
		deps.AuditRepo = audit.NewRepository(db)
	} else {
		userRepo = user.NewMemoryRepo()
		deps.ScheduleRepo = schedule.NewMemoryRepository()
		deps.AuditRepo = audit.NewMemoryRepository()
	}

	deps.UserService = user.NewUserService(userRepo, deps.Bus, deps.Clock)

	deps.TokenIssuer = auth.NewTokenIssuer(cfg.Auth, deps.Clock)
	deps.AuthHandler = auth.NewHandler(deps.UserService, deps.TokenIssuer)

	deps.ScheduleService = schedule.NewService(deps.ScheduleRepo, deps.Bus)
	deps.CsvEventRenderer = schedule.NewCsvEventsRenderer()
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService, deps.CsvEventRenderer)

	deps.CalendarService = calendar.NewService(deps.ScheduleService.AllEvents, deps.Clock)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.DashboardService = dashboard.NewService(deps.ScheduleRepo, deps.UserService)
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService, deps.ScheduleService)

	deps.AuditRecorder = audit.NewRecorder(deps.AuditRepo, deps.Clock)
	deps.AuditRecorder.Subscribe(deps.Bus)
	deps.AuditHandler = audit.NewHandler(deps.AuditRecorder)

	return deps
}
