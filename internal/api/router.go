package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Harshitk-cp/reason/internal/algebra"
	"github.com/Harshitk-cp/reason/internal/api/handlers"
	mw "github.com/Harshitk-cp/reason/internal/api/middleware"
	"github.com/Harshitk-cp/reason/internal/buildconfig"
	"github.com/Harshitk-cp/reason/internal/domain"
	"github.com/Harshitk-cp/reason/internal/service"
	"github.com/Harshitk-cp/reason/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options are the runtime settings of the HTTP surface.
type Options struct {
	RateLimitRPS            float64
	RateLimitBurst          int
	APIKey                  string
	DefaultCreativityChance float64
	MaxThinkCycles          int
	SessionIdleTTL          time.Duration
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router   *chi.Mux
	Sessions *service.SessionService
	Evictor  *service.SessionEvictor
	started  time.Time
}

// NewApp wires the service. A nil db keeps sessions in memory. Background
// work tied to the router stops when ctx is done.
func NewApp(ctx context.Context, db *pgxpool.Pool, opts Options, logger *zap.Logger) *App {
	var sessionStore domain.SessionStore
	var pinger func(context.Context) error
	if db != nil {
		sessionStore = store.NewSessionStore(db)
		pinger = db.Ping
	}

	sessions := service.NewSessionService(algebra.NewEngine(), sessionStore, logger)
	if opts.DefaultCreativityChance > 0 {
		sessions.SetDefaultCreativity(opts.DefaultCreativityChance)
	}
	if opts.MaxThinkCycles > 0 {
		sessions.SetMaxThinkCycles(opts.MaxThinkCycles)
	}

	app := &App{
		Router:   chi.NewRouter(),
		Sessions: sessions,
		started:  time.Now(),
	}
	if sessionStore != nil && opts.SessionIdleTTL > 0 {
		app.Evictor = service.NewSessionEvictor(sessions, opts.SessionIdleTTL, logger)
	}

	sessionHandler := handlers.NewSessionHandler(sessions, logger)

	r := app.Router
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	if opts.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(ctx, opts.RateLimitRPS, opts.RateLimitBurst))
	}

	r.Get("/health", app.healthHandler(pinger))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.BearerAuth(opts.APIKey))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/", sessionHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/axioms", sessionHandler.AcceptAxiom)
				r.Post("/truths", sessionHandler.AddTruth)
				r.Post("/truths/{index}/simplify", sessionHandler.SimplifyTruth)
				r.Get("/solve/{symbol}", sessionHandler.SolveFor)
				r.Post("/verify", sessionHandler.Verify)
				r.Post("/think", sessionHandler.Think)
			})
		})
	})

	return app
}

func (app *App) healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status":     "ok",
			"version":    buildconfig.Version(),
			"commit":     buildconfig.Commit(),
			"uptime":     time.Since(app.started).Round(time.Second).String(),
			"persistent": ping != nil,
		}
		status := http.StatusOK
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "error"
				body["error"] = err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

var _ domain.SessionStore = (*store.SessionStore)(nil)
var _ domain.AlgebraEngine = (*algebra.Engine)(nil)
