// Folio - portfolio terminal and contribution stats server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ashureev/folio/internal/api"
	"github.com/ashureev/folio/internal/config"
	"github.com/ashureev/folio/internal/contrib"
	"github.com/ashureev/folio/internal/identity"
	"github.com/ashureev/folio/internal/janitor"
	"github.com/ashureev/folio/internal/middleware"
	"github.com/ashureev/folio/internal/profile"
	"github.com/ashureev/folio/internal/store"
	"github.com/ashureev/folio/internal/telemetry"
	"github.com/ashureev/folio/internal/terminal"
	"github.com/ashureev/folio/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	owner, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		slog.Error("Failed to load profile", "error", err)
		os.Exit(1)
	}

	username := cfg.Contributions.Username
	if username == "" {
		username = owner.GitHubUsername
	}
	if username == "" {
		slog.Warn("No contribution username configured, stats requests will fail until one is given")
	}

	// Initialize services.
	resolver := terminal.NewPortfolioResolver(owner)
	sm := terminal.NewSessionManager()
	engine := contrib.NewEngine(
		contrib.NewHTTPClient(contrib.ClientOptions{
			BaseURL:     cfg.Contributions.APIBaseURL,
			Timeout:     cfg.Contributions.FetchTimeout,
			MaxAttempts: cfg.Contributions.MaxAttempts,
		}),
		contrib.NewKVCache(repo),
		contrib.Options{TTL: cfg.Contributions.CacheTTL},
	)

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, resolver, sm, engine, owner, api.Options{
		DefaultUsername:  username,
		RecallSize:       cfg.Terminal.RecallSize,
		MaxInputLength:   cfg.Terminal.MaxInputLength,
		RefreshPerMinute: cfg.Contributions.RefreshRate,
		LookupPerMinute:  cfg.Contributions.LookupRate,
	})
	healthHandler := api.NewHealthHandler(repo, sm)
	wsHandler := terminal.NewWebSocketHandler(repo, resolver, sm, terminal.HandlerOptions{
		Owner:          owner.Name,
		RecallSize:     cfg.Terminal.RecallSize,
		MaxInputLength: cfg.Terminal.MaxInputLength,
		AllowedOrigin:  cfg.AllowedOrigin,
		IsDev:          cfg.IsDevelopment(),
	})

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// Visitor-scoped routes.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))
		baseHandler.RegisterRoutes(r)
		r.Get("/ws/terminal", wsHandler.ServeHTTP)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(r, "folio"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitor.New(repo, engine, janitor.Options{
		Interval:         cfg.Janitor.Interval,
		HistoryRetention: cfg.Janitor.HistoryRetention,
		WarmBefore:       cfg.Janitor.WarmBefore,
		WarmUsername:     username,
	}).Start(ctx)

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server stopped successfully")
}
