package app

import (
	"github.com/avtale/avtale/internal/auth"
	"github.com/avtale/avtale/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Authentication
	r.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")

	// Events
	r.HandleFunc("/api/events", deps.ScheduleHandler.CreateSeries).Methods("POST")
	r.HandleFunc("/api/events", deps.ScheduleHandler.ListMyEvents).Methods("GET")
	r.HandleFunc("/api/events/day", auth.RequireUser(deps.ScheduleHandler.EventsOnDay)).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/events/search", auth.RequireUser(deps.ScheduleHandler.Search)).Methods("GET")
	r.HandleFunc("/api/events/{eventId}", deps.ScheduleHandler.DeleteEvent).Methods("DELETE")

	// Calendar
	r.HandleFunc("/api/calendar", auth.RequireUser(deps.CalendarHandler.GetEntries)).Methods("GET")
	r.HandleFunc("/api/calendar/feed.ics", auth.RequireUser(deps.CalendarHandler.GetFeed)).Methods("GET")

	// Administration
	r.HandleFunc("/api/admin/dashboard", auth.RequireAdmin(deps.DashboardHandler.GetSummary)).Methods("GET")
	r.HandleFunc("/api/admin/events", auth.RequireAdmin(deps.DashboardHandler.GetAllEvents)).Methods("GET")
	r.HandleFunc("/api/admin/audit", auth.RequireAdmin(deps.AuditHandler.GetRecent)).Methods("GET")
}
