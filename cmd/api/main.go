// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/audit"
	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/dangerclosesec/tenantcore/internal/email"
	"github.com/dangerclosesec/tenantcore/internal/handler"
	"github.com/dangerclosesec/tenantcore/internal/middleware"
	"github.com/dangerclosesec/tenantcore/internal/repository"
	"github.com/dangerclosesec/tenantcore/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(log)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	inviteRepo := repository.NewInvitationRepository(db)
	syncFailureRepo := repository.NewSyncFailureRepository(db)
	auditLogRepo := repository.NewAuthzAuditLogRepository(db)

	// Initialize the permission service with the audit trail attached
	auditLogger := audit.NewStoreLogger(auditLogRepo)
	authorizer, err := authz.NewPermifyService(
		cfg.Permify.Host,
		authz.WithTenant(cfg.Permify.Tenant),
		authz.WithAuditLogger(auditLogger),
	)
	if err != nil {
		return fmt.Errorf("connecting to permission service: %w", err)
	}

	tokenManager := authz.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Invitation email delivery is optional; the orchestrator treats a
	// nil service as delivery disabled.
	var emailService *email.Service
	if cfg.Sendgrid.APIKey != "" {
		emailService, err = email.NewEmailService(cfg, email.ProviderSendgrid)
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
	} else if cfg.SMTP.Host != "" {
		emailService, err = email.NewEmailService(cfg, email.ProviderSMTP)
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
	}

	tenantService := service.NewTenantService(
		orgRepo, memberRepo, teamRepo, inviteRepo,
		authorizer, syncFailureRepo, emailService, cfg,
	)
	auditLogService := service.NewAuthzAuditLogService(auditLogRepo)

	// Background outbox replay
	reconciler := service.NewSyncReconciler(syncFailureRepo, authorizer, 5*time.Minute, log)
	reconciler.Start()
	defer reconciler.Stop()

	// Initialize handlers
	orgHandler := handler.NewOrganizationHandler(tenantService)
	memberHandler := handler.NewMemberHandler(tenantService)
	teamHandler := handler.NewTeamHandler(tenantService)
	invitationHandler := handler.NewInvitationHandler(tenantService)
	auditLogHandler := handler.NewAuthzAuditLogHandler(auditLogService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenManager))

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", orgHandler.List)
				r.Post("/", orgHandler.Create)
				r.Get("/slug/{slug}", orgHandler.GetBySlug)

				r.Route("/{orgID}", func(r chi.Router) {
					r.Get("/", orgHandler.Get)
					r.Patch("/", orgHandler.Update)
					r.Delete("/", orgHandler.Delete)
					r.Post("/transfer", orgHandler.TransferOwnership)

					r.Get("/users/{userID}/roles", orgHandler.GetUserRoles)
					r.Get("/users/{userID}/permissions", orgHandler.GetUserPermissions)

					r.Route("/members", func(r chi.Router) {
						r.Get("/", memberHandler.List)
						r.Post("/", memberHandler.Add)
						r.Post("/bulk", memberHandler.BulkAdd)
						r.Post("/bulk-remove", memberHandler.BulkRemove)
						r.Post("/join", memberHandler.JoinByDomain)
						r.Post("/leave", memberHandler.Leave)
						r.Delete("/{userID}", memberHandler.Remove)
						r.Patch("/{userID}/role", memberHandler.UpdateRole)
						r.Post("/{userID}/suspend", memberHandler.Suspend)
						r.Post("/{userID}/unsuspend", memberHandler.Unsuspend)
					})

					r.Route("/teams", func(r chi.Router) {
						r.Get("/", teamHandler.List)
						r.Post("/", teamHandler.Create)
					})

					r.Route("/invitations", func(r chi.Router) {
						r.Get("/", invitationHandler.List)
						r.Post("/", invitationHandler.Create)
					})
				})
			})

			r.Route("/teams/{teamID}", func(r chi.Router) {
				r.Get("/", teamHandler.Get)
				r.Patch("/", teamHandler.Update)
				r.Delete("/", teamHandler.Delete)
				r.Get("/members", teamHandler.ListMembers)
				r.Post("/members", teamHandler.AddMember)
				r.Delete("/members/{userID}", teamHandler.RemoveMember)
			})

			r.Route("/invitations/{invitationID}", func(r chi.Router) {
				r.Post("/accept", invitationHandler.Accept)
				r.Post("/resend", invitationHandler.Resend)
				r.Post("/cancel", invitationHandler.Cancel)
			})

			r.Route("/audit-logs", func(r chi.Router) {
				r.Get("/", auditLogHandler.GetAuditLogs)
				r.Get("/{id}", auditLogHandler.GetAuditLogByID)
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					err := errors.New("panic recovered")
					log.Error("panic recovered",
						"error", err,
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Write([]byte("{\"error\":\"error encountered\"}"))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
