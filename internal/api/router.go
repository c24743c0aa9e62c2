package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/Harshitk-cp/facturador/internal/api/handlers"
	mw "github.com/Harshitk-cp/facturador/internal/api/middleware"
	"github.com/Harshitk-cp/facturador/internal/buildconfig"
	"github.com/Harshitk-cp/facturador/internal/config"
	"github.com/Harshitk-cp/facturador/internal/credential"
	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/pipeline"
	"github.com/Harshitk-cp/facturador/internal/service"
	"github.com/Harshitk-cp/facturador/internal/store"
	"github.com/Harshitk-cp/facturador/internal/tenant"
	"github.com/Harshitk-cp/facturador/internal/validation"
	"github.com/Harshitk-cp/facturador/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores is everything the app persists through.
type Stores struct {
	Users    domain.UserStore
	Clients  domain.ClientStore
	Products domain.ProductStore
	Invoices domain.InvoiceStore
	Pinger   Pinger
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router   *chi.Mux
	Pipeline *pipeline.Pipeline
	Overdue  *service.OverdueService

	limiters  []*mw.RateLimiter
	metrics   *mw.MetricsCollector
	startTime time.Time
}

// NewStores backs every store with the Postgres pool.
func NewStores(db *pgxpool.Pool) Stores {
	return Stores{
		Users:    store.NewUserStore(db),
		Clients:  store.NewClientStore(db),
		Products: store.NewProductStore(db),
		Invoices: store.NewInvoiceStore(db),
		Pinger:   store.NewPinger(db),
	}
}

func NewApp(db *pgxpool.Pool, notifier views.Notifier, logger *zap.Logger) *App {
	return NewAppWithStores(NewStores(db), notifier, logger)
}

func NewAppWithStores(st Stores, notifier views.Notifier, logger *zap.Logger) *App {
	// Credentials
	creds := credential.NewManager(st.Users,
		credential.NewHasher(config.BcryptCost()),
		credential.NewTokens([]byte(config.SessionSecret()), config.SessionTTL()),
		logger)

	// Services
	guard := tenant.NewGuard()
	accountSvc := service.NewAccountService(st.Users, creds, guard, logger)
	clientSvc := service.NewClientService(st.Clients, guard, logger)
	productSvc := service.NewProductService(st.Products, guard, logger)
	invoiceSvc := service.NewInvoiceService(st.Invoices, st.Clients, st.Products, guard, logger)
	overdueSvc := service.NewOverdueService(st.Invoices, notifier, logger)
	overdueSvc.SetInterval(config.OverdueInterval())

	pipe := pipeline.New(guard, notifier, logger,
		service.Operations(validation.New(), accountSvc, clientSvc, productSvc, invoiceSvc)...,
	).WithObserver(func(op string, s pipeline.Stage) {
		logger.Debug("pipeline stage", zap.String("op", op), zap.Stringer("stage", s))
	})

	// Handlers
	mutations := handlers.NewMutationHandler(pipe, handlers.CookieConfig{
		Secure: config.SessionCookieSecure(),
		TTL:    config.SessionTTL(),
	}, logger)
	reads := handlers.NewReadHandler(accountSvc, clientSvc, productSvc, invoiceSvc)

	apiLimiter := mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst())
	authLimiter := mw.NewRateLimiter(config.AuthRateLimitRPS(), config.AuthRateLimitBurst())

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		Pipeline:  pipe,
		Overdue:   overdueSvc,
		limiters:  []*mw.RateLimiter{apiLimiter, authLimiter},
		metrics:   mw.NewMetricsCollector(),
		startTime: time.Now(),
	}

	// Session resolution comes before logging so the log line carries the user.
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Session(creds))
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(apiLimiter.Middleware)

	r.Get("/health", healthHandler(st.Pinger))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/register", mutations.Handle(service.OpRegister))
		r.Post("/login", mutations.Handle(service.OpLogin))
		r.Post("/logout", mutations.Logout)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", reads.Clients)
			r.Post("/", mutations.Handle(service.OpCreateClient))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", reads.Products)
			r.Post("/", mutations.Handle(service.OpCreateProduct))
		})
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", reads.Invoices)
			r.Post("/", mutations.Handle(service.OpCreateInvoice))
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", reads.Settings)
			r.Put("/", mutations.HandleUpdate(service.OpUpdateSettings))
		})
	})

	return app
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := p.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// Start launches the background loops: the overdue sweeper and limiter eviction.
func (app *App) Start() {
	app.Overdue.Start()
	for _, l := range app.limiters {
		l.StartCleanup(10*time.Minute, 10*time.Minute)
	}
}

// Stop halts everything Start launched and waits for it to exit.
func (app *App) Stop() {
	app.Overdue.Stop()
	for _, l := range app.limiters {
		l.Stop()
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		counts := app.metrics.Snapshot()

		response := map[string]any{
			"uptime_seconds":     uptime.Seconds(),
			"uptime_human":       uptime.Round(time.Second).String(),
			"request_count":      counts.Requests,
			"client_error_count": counts.ClientErrors,
			"server_error_count": counts.ServerErrors,
			"rate_limited_count": counts.RateLimited,
			"goroutines":         runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": float64(memStats.Alloc) / 1024 / 1024,
				"sys_mb":   float64(memStats.Sys) / 1024 / 1024,
				"num_gc":   memStats.NumGC,
			},
			"operations": app.Pipeline.Operations(),
			"build":      buildconfig.Info(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.UserStore    = (*store.UserStore)(nil)
	_ domain.ClientStore  = (*store.ClientStore)(nil)
	_ domain.ProductStore = (*store.ProductStore)(nil)
	_ domain.InvoiceStore = (*store.InvoiceStore)(nil)
	_ Pinger              = (*store.Pinger)(nil)
	_ mw.SessionResolver  = (*credential.Manager)(nil)
)
