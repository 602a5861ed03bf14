package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/hradmin/internal/domain"
	"github.com/yourorg/hradmin/internal/featureflags"
	"github.com/yourorg/hradmin/internal/handler"
	"github.com/yourorg/hradmin/internal/infrastructure/logger"
	"github.com/yourorg/hradmin/internal/infrastructure/redis"
	"github.com/yourorg/hradmin/internal/notify"
	"github.com/yourorg/hradmin/internal/observability/metrics"
	"github.com/yourorg/hradmin/internal/observability/tracing"
	"github.com/yourorg/hradmin/internal/reliability/retry"
	"github.com/yourorg/hradmin/internal/repository"
	"github.com/yourorg/hradmin/internal/security/audit"
	"github.com/yourorg/hradmin/internal/security/auth"
	"github.com/yourorg/hradmin/internal/security/middleware"
	"github.com/yourorg/hradmin/internal/security/ratelimit"
	"github.com/yourorg/hradmin/internal/service"
	"github.com/yourorg/hradmin/migrations"
	"github.com/yourorg/hradmin/pkg/config"
	"github.com/yourorg/hradmin/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting hradmin server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, "hradmin", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	// 4. Connect to PostgreSQL with startup retries
	pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "database connect",
		func(ctx context.Context) (*database.Pool, error) {
			return database.NewPool(ctx, cfg.Database, log)
		})
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. Apply schema migrations
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("failed to set migration dialect", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := goose.Up(pool.DB(), "."); err != nil {
		log.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. Connect to Redis (token revocation store)
	redisClient, err := retry.Do(ctx, retry.DefaultConfig(), log, "redis connect",
		func(ctx context.Context) (*redis.Client, error) {
			return redis.NewClient(cfg.RedisURL)
		})
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 7. Initialize repositories
	identityRepo := repository.NewPostgresIdentityRepository(pool.DB(), log)
	profileRepo := repository.NewPostgresProfileRepository(pool.DB(), log)
	employeeRepo := repository.NewPostgresEmployeeRepository(pool.DB(), log)
	departmentRepo := repository.NewPostgresDepartmentRepository(pool.DB(), log)
	jobRepo := repository.NewPostgresJobRepository(pool.DB(), log)
	historyRepo := repository.NewPostgresJobHistoryRepository(pool.DB(), log)

	// 8. Initialize security components and the event hub
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "hradmin")
	revocationStore := auth.NewRevocationStore(redisClient)
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	auditLogger := audit.NewLogger(log)
	hub := notify.NewHub()

	// 9. Initialize services
	historyPolicy := cfg.HistoryListPolicy
	if featureflags.Enabled(featureflags.LatestOnly) {
		historyPolicy = config.HistoryLatestPerEmployee
	}

	roleService := service.NewRoleService(profileRepo, hub, log)
	authService := service.NewAuthService(identityRepo, profileRepo, tokenManager, revocationStore, hub, cfg.TokenTTL, log)
	employeeService := service.NewEmployeeService(employeeRepo, log)
	directoryService := service.NewDirectoryService(departmentRepo, jobRepo, historyRepo, log)
	historyService := service.NewJobHistoryService(historyRepo, historyPolicy, log)

	// 10. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, roleService, log)
	usersHandler := handler.NewUsersHandler(roleService, auditLogger, log)
	employeesHandler := handler.NewEmployeesHandler(employeeService, historyService, auditLogger, log)
	departmentsHandler := handler.NewDepartmentsHandler(directoryService, historyService, auditLogger, log)
	jobsHandler := handler.NewJobsHandler(directoryService, historyService, auditLogger, log)
	historyHandler := handler.NewHistoryHandler(historyService, auditLogger, log)
	eventsHandler := handler.NewEventsHandler(hub, cfg.CORSAllowedOrigins, log)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)

	// 11. Middleware chains. Every protected route passes the identity gate
	// first, then the access gate, in that order: a role means nothing
	// without an identity, and blocked accounts never reach a data handler.
	requireAuth := middleware.RequireAuth(tokenManager, revocationStore, log)
	requireAccess := middleware.RequireAccess(roleService, log)
	rateLimit := middleware.RateLimitMiddleware(rateLimiter, log)
	validateJSON := middleware.ValidateJSONContentType(log)

	authed := func(h http.Handler) http.Handler {
		return requireAuth(rateLimit(h))
	}
	protected := func(h http.Handler) http.Handler {
		return requireAuth(requireAccess(rateLimit(validateJSON(h))))
	}
	adminOnly := func(h http.Handler) http.Handler {
		return protected(middleware.RequireRoles([]domain.Role{domain.RoleAdmin}, nil)(h))
	}

	// 12. Routes
	mux := http.NewServeMux()

	// Public
	mux.Handle("POST /api/auth/signup", validateJSON(http.HandlerFunc(authHandler.SignUp)))
	mux.Handle("POST /api/auth/signin", validateJSON(http.HandlerFunc(authHandler.SignIn)))
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Session: available to any authenticated identity, including blocked
	// accounts checking their own state
	mux.Handle("POST /api/auth/signout", authed(http.HandlerFunc(authHandler.SignOut)))
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /ws/events", authed(eventsHandler))

	// Admin: user management
	mux.Handle("GET /api/users", adminOnly(http.HandlerFunc(usersHandler.List)))
	mux.Handle("PUT /api/users/{id}/role", adminOnly(http.HandlerFunc(usersHandler.SetRole)))

	// HR records: admin and user roles
	mux.Handle("GET /api/employees", protected(http.HandlerFunc(employeesHandler.List)))
	mux.Handle("GET /api/employees/next-empno", protected(http.HandlerFunc(employeesHandler.NextEmpno)))
	mux.Handle("GET /api/employees/{empno}", protected(http.HandlerFunc(employeesHandler.Get)))
	mux.Handle("GET /api/employees/{empno}/history", protected(http.HandlerFunc(employeesHandler.History)))
	mux.Handle("POST /api/employees", protected(http.HandlerFunc(employeesHandler.Create)))
	mux.Handle("PUT /api/employees/{empno}", protected(http.HandlerFunc(employeesHandler.Update)))
	mux.Handle("DELETE /api/employees/{empno}", protected(http.HandlerFunc(employeesHandler.Delete)))

	mux.Handle("GET /api/departments", protected(http.HandlerFunc(departmentsHandler.List)))
	mux.Handle("GET /api/departments/{deptcode}/history", protected(http.HandlerFunc(departmentsHandler.History)))
	mux.Handle("POST /api/departments", protected(http.HandlerFunc(departmentsHandler.Create)))
	mux.Handle("PUT /api/departments/{deptcode}", protected(http.HandlerFunc(departmentsHandler.Update)))
	mux.Handle("DELETE /api/departments/{deptcode}", protected(http.HandlerFunc(departmentsHandler.Delete)))

	mux.Handle("GET /api/jobs", protected(http.HandlerFunc(jobsHandler.List)))
	mux.Handle("GET /api/jobs/{jobcode}/history", protected(http.HandlerFunc(jobsHandler.History)))
	mux.Handle("POST /api/jobs", protected(http.HandlerFunc(jobsHandler.Create)))
	mux.Handle("PUT /api/jobs/{jobcode}", protected(http.HandlerFunc(jobsHandler.Update)))
	mux.Handle("DELETE /api/jobs/{jobcode}", protected(http.HandlerFunc(jobsHandler.Delete)))

	mux.Handle("POST /api/history", protected(http.HandlerFunc(historyHandler.Create)))
	mux.Handle("PUT /api/history", protected(http.HandlerFunc(historyHandler.Replace)))
	mux.Handle("DELETE /api/history", protected(http.HandlerFunc(historyHandler.Delete)))

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain: request ID -> tracing -> metrics -> CORS -> routes
	rootHandler := withRequestID(
		otelhttp.NewHandler(
			metrics.HTTPMetricsMiddleware(handlerWithCORS),
			"hradmin",
		),
		log,
	)

	// 13. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.String("history_list_policy", string(historyPolicy)),
		slog.Int("rate_limit", cfg.RateLimitRequests),
		slog.Duration("rate_limit_window", cfg.RateLimitWindow),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	rateLimiter.Stop()
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
