// cmd/reconcile/main.go
//
// One-shot replay of parked authorization sync failures. Intended to run
// from cron or an operator shell; the API server also runs the same
// reconciler on an interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/dangerclosesec/tenantcore/internal/repository"
	"github.com/dangerclosesec/tenantcore/internal/service"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reconcile error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		batchSize = flag.Int("batch-size", 100, "number of parked failures to replay per batch")
		dryRun    = flag.Bool("dry-run", false, "report what would be replayed without writing")
		timeout   = flag.Duration("timeout", 30*time.Minute, "overall deadline for the run")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
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

	cfg := config.Load()

	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	authorizer, err := authz.NewPermifyService(
		cfg.Permify.Host,
		authz.WithTenant(cfg.Permify.Tenant),
	)
	if err != nil {
		return fmt.Errorf("connecting to permission service: %w", err)
	}

	syncFailureRepo := repository.NewSyncFailureRepository(db)

	reconciler := service.NewSyncReconciler(syncFailureRepo, authorizer, 0, log)
	reconciler.SetBatchSize(*batchSize)
	reconciler.SetDryRun(*dryRun)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Info("starting sync failure replay",
		"batch_size", *batchSize,
		"dry_run", *dryRun,
	)

	resolved, err := reconciler.ReplayOnce(ctx)
	if err != nil {
		return fmt.Errorf("replaying sync failures: %w", err)
	}

	log.Info("replay complete", "resolved", resolved)
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
		Logger:         logger.Default.LogMode(logger.Warn),
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

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
