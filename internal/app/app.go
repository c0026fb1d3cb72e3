// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hastkala/marketplace/internal/ai"
	aipostgres "github.com/hastkala/marketplace/internal/ai/postgres"
	"github.com/hastkala/marketplace/internal/analytics"
	analyticspostgres "github.com/hastkala/marketplace/internal/analytics/postgres"
	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/community"
	communitypostgres "github.com/hastkala/marketplace/internal/community/postgres"
	"github.com/hastkala/marketplace/internal/config"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/identity"
	identitypostgres "github.com/hastkala/marketplace/internal/identity/postgres"
	"github.com/hastkala/marketplace/internal/listings"
	listingspostgres "github.com/hastkala/marketplace/internal/listings/postgres"
	"github.com/hastkala/marketplace/internal/orders"
	orderspostgres "github.com/hastkala/marketplace/internal/orders/postgres"
	"github.com/hastkala/marketplace/internal/pkg/ctxlog"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
	"github.com/hastkala/marketplace/internal/pkg/metrics"
	"github.com/hastkala/marketplace/internal/pkg/postgres"
	"github.com/hastkala/marketplace/internal/social"
	socialpostgres "github.com/hastkala/marketplace/internal/social/postgres"
	"github.com/hastkala/marketplace/internal/version"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	server        *http.Server
	metricsServer *http.Server
	metricsCancel context.CancelFunc
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		metricsCancel: metricsCancel,
	}

	go app.collectDBMetrics(metricsCtx)

	router, err := app.setupRouter()
	if err != nil {
		db.Close()
		metricsCancel()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	// Start main server
	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	a.db.Close()

	return errors.Join(errs...)
}

func (a *App) collectDBMetrics(ctx context.Context) {
	// Collect immediately on start
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	rateLimiter := httputil.NewClientRateLimiter(httputil.RateLimitConfig{
		RequestsPerMinute: a.config.RateLimit.RequestsPerMinute,
		Burst:             a.config.RateLimit.Burst,
	})
	r.Use(rateLimiter.Middleware)

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		http.ServeFile(w, r, "api/openapi/openapi.yaml")
	})

	r.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Hastkala API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
        SwaggerUIBundle({
            url: "/api/openapi.yaml",
            dom_id: '#swagger-ui',
            presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
            layout: "BaseLayout"
        });
    </script>
</body>
</html>`))
	})

	tokenService, err := auth.NewTokenService(auth.TokenConfig{
		Secret: a.config.JWT.SecretKey,
		TTL:    a.config.JWT.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}

	// The identity repository doubles as the account store used during
	// request authentication.
	identityRepo := identitypostgres.NewRepository(a.db)
	authenticator := auth.NewAuthenticator(tokenService, identityRepo)

	identityService := identity.NewService(identityRepo, tokenService)

	listingsRepo := listingspostgres.NewRepository(a.db)
	listingsService := listings.NewService(listingsRepo)
	listingsHandler := listings.NewHandler(listingsService)

	ordersRepo := orderspostgres.NewRepository(a.db)
	ordersService := orders.NewService(ordersRepo)
	ordersHandler := orders.NewHandler(ordersService)

	communityRepo := communitypostgres.NewRepository(a.db)
	communityService := community.NewService(communityRepo)
	communityHandler := community.NewHandler(communityService)

	socialRepo := socialpostgres.NewRepository(a.db)
	socialService := social.NewService(socialRepo)
	socialHandler := social.NewHandler(socialService)

	aiClient := ai.NewClient(ai.ClientConfig{
		BaseURL:   a.config.AI.BaseURL,
		APIKey:    a.config.AI.APIKey,
		Model:     a.config.AI.Model,
		Timeout:   a.config.AI.Timeout,
		RateLimit: a.config.AI.RateLimit,
	})
	if !aiClient.Enabled() {
		slog.Warn("ai api key is not set: content generation endpoints will return 503")
	}

	aiRepo := aipostgres.NewRepository(a.db)
	aiService := ai.NewService(aiRepo, aiClient, identityService)
	aiHandler := ai.NewHandler(aiService)

	analyticsRepo := analyticspostgres.NewRepository(a.db)
	analyticsService := analytics.NewService(analyticsRepo)
	analyticsHandler := analytics.NewHandler(analyticsService)

	identityHandler := identity.NewHandler(identityService, listingsService, aiService)

	r.Route("/api/v1", func(r chi.Router) {
		identityHandler.RegisterRoutes(r)

		// Public routes resolve an identity when a token is present so
		// owners see their own unpublished content.
		r.Group(func(r chi.Router) {
			r.Use(httputil.OptionalAuthMiddleware(authenticator))

			identityHandler.RegisterPublicRoutes(r)
			listingsHandler.RegisterPublicRoutes(r)
			communityHandler.RegisterPublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(authenticator))

			identityHandler.RegisterProtectedRoutes(r)
			listingsHandler.RegisterProtectedRoutes(r)
			ordersHandler.RegisterProtectedRoutes(r)
			communityHandler.RegisterProtectedRoutes(r)
			socialHandler.RegisterProtectedRoutes(r)
			aiHandler.RegisterProtectedRoutes(r)
			analyticsHandler.RegisterProtectedRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleAdmin))

				identityHandler.RegisterAdminRoutes(r)
			})
		})
	})

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
