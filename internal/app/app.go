package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/avtale/avtale/internal/config"
	"github.com/avtale/avtale/internal/database"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	// DB + migrations. The memory driver has no SQL backend; a nil db makes
	// BuildDependencies pick the in-memory repositories.
	var db *sqlx.DB
	if cfg.Database.Driver != config.DriverMemory {
		db, err = database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		// db will be closed when server shuts down; defer not possible here, leave to process exit.
		if err := database.Migrate(cfg.Database, db); err != nil {
			return nil, err
		}
	} else {
		log.Warn("Using in-memory storage; all data is lost on restart")
	}

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(db, cfg)

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
