package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pencraft/internal/api"
	"pencraft/internal/api/middleware"
	"pencraft/internal/app/service"
	"pencraft/internal/common/security"
	"pencraft/internal/domain/repository"
	"pencraft/internal/platform/cache"
	"pencraft/internal/platform/config"
	"pencraft/internal/platform/database"
	"pencraft/internal/platform/objectstore"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pencraft",
		Short:        "Pencraft publishing platform API server",
		SilenceUsage: true,
		// Running without a subcommand serves the API.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(migrateCmd())
	return root
}

func migrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the SQL schema for STORAGE_DRIVER=sqlite or postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			setupLogger(cfg)
			ctx := cmd.Context()

			db, err := database.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := repository.Migrate(ctx, db); err != nil {
				return err
			}
			slog.Info("schema migrated", "driver", cfg.StorageDriver)
			if seed {
				return service.Seed(ctx, repository.NewSQLStore(db), cfg.AdminPassword)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "also create the admin account and sample challenge")
	return cmd
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Load Configuration
	cfg := config.Load()
	setupLogger(cfg)
	slog.Info("configuration loaded", "storage", cfg.StorageDriver)

	// 2. Initialize Store
	var (
		store repository.Store
		db    *sqlx.DB
		err   error
	)
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store = repository.NewMemoryStore()
	case config.DriverSQLite, config.DriverPostgres:
		db, err = database.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}
		store = repository.NewSQLStore(db)
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.SeedData {
		if err := service.Seed(ctx, store, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		slog.Info("seed data ready")
	}

	// 3. Initialize Token Revocation
	var (
		revoker security.TokenRevoker = security.NewMemoryRevoker()
		rdb     *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb, err = cache.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer cache.CloseRedis(rdb)
		revoker = cache.NewRedisRevoker(rdb)
	}

	// 4. Initialize Object Storage
	var objects objectstore.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := objectstore.NewMinioStore(ctx, cfg)
		if err != nil {
			return err
		}
		objects = minioStore
		slog.Info("object storage ready", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
	} else {
		slog.Warn("MINIO_ENDPOINT not set, image uploads disabled")
	}

	// 5. Initialize Services
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)
	services := api.Services{
		Auth:          service.NewAuthService(store, tokens, revoker),
		Writings:      service.NewWritingService(store),
		Comments:      service.NewCommentService(store),
		Interactions:  service.NewInteractionService(store),
		Users:         service.NewUserService(store),
		Challenges:    service.NewChallengeService(store),
		Notifications: service.NewNotificationService(store),
		Uploads:       service.NewUploadService(objects),
	}

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(services, api.RouterOptions{
		TokenAuth:    tokens.Auth,
		Auth:         middleware.NewAuth(store.Users(), revoker),
		FrontendURL:  cfg.FrontendURL,
		SecureCookie: strings.HasPrefix(cfg.FrontendURL, "https://"),
		Health: func(r *http.Request) error {
			if db != nil {
				if err := db.PingContext(r.Context()); err != nil {
					return err
				}
			}
			if rdb != nil {
				return rdb.Ping(r.Context()).Err()
			}
			return nil
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}
