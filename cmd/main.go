package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/coforge-registration/config"
	"github.com/Dosada05/coforge-registration/db"
	"github.com/Dosada05/coforge-registration/handlers"
	"github.com/Dosada05/coforge-registration/live"
	"github.com/Dosada05/coforge-registration/repositories"
	api "github.com/Dosada05/coforge-registration/routes"
	"github.com/Dosada05/coforge-registration/services"
	"github.com/Dosada05/coforge-registration/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver))
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

// run owns every resource with a deferred close; main exits only after it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Хранилище регистраций
	store, dbConn := openStore(cfg, logger)
	if dbConn != nil {
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
	}
	logger.Info("data store initialized", slog.Bool("ready", store.Ready()))

	// Логотип (Cloudflare R2)
	logo := storage.LogoSource{
		PublicBaseURL: cfg.R2PublicBaseURL,
		Key:           cfg.LogoKey,
		FallbackURL:   cfg.LogoFallbackURL,
	}
	if cfg.R2Configured() {
		r2, err := storage.NewCloudflareR2Store(ctx, storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Warn("failed to initialize Cloudflare R2 store", slog.Any("error", err))
		} else {
			logo.Store = r2
		}
	}
	logoURL := storage.ResolveLogoURL(ctx, logo, logger)
	logger.Info("logo resolved", slog.String("url", logoURL))

	registrationService := services.NewRegistrationService(store, logger)
	wsHub := live.NewHub(logger)

	// Инициализация обработчиков HTTP
	formHandler, err := handlers.NewFormHandler(registrationService, handlers.PageOptions{
		LogoURL:         logoURL,
		LogoFallbackURL: cfg.LogoFallbackURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize form handler: %w", err)
	}
	registrationHandler := handlers.NewRegistrationHandler(registrationService, wsHub)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, registrationService, cfg.AllowedOrigins, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{Logger: logger, AllowedOrigins: cfg.AllowedOrigins},
		formHandler,
		registrationHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Запрос на регистрацию ждет ответа хранилища
		WriteTimeout: cfg.StoreHTTPTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsHub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}

// openStore never fails: without secrets the store is returned not ready and
// every submit gets the configuration error.
func openStore(cfg *config.Config, logger *slog.Logger) (repositories.DataStore, *sql.DB) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return repositories.NewPostgresStore(nil), nil
		}
		conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			return repositories.NewPostgresStore(nil), nil
		}
		logger.Info("database connection established")
		return repositories.NewPostgresStore(conn), conn

	case config.DriverMemory:
		return repositories.NewMemoryStore(), nil

	default:
		if cfg.SupabaseAnonKey != "" {
			info, err := config.InspectAccessKey(cfg.SupabaseAnonKey)
			switch {
			case err != nil:
				logger.Debug("access key is not a JWT, skipping inspection")
			case info.Expired(time.Now()):
				logger.Warn("access key has expired", slog.String("role", info.Role), slog.Time("expires_at", info.ExpiresAt))
			default:
				logger.Info("access key inspected", slog.String("role", info.Role), slog.String("issuer", info.Issuer))
			}
		}
		return repositories.NewRESTStore(repositories.RESTStoreConfig{
			URL:       cfg.SupabaseURL,
			AccessKey: cfg.SupabaseAnonKey,
			Timeout:   cfg.StoreHTTPTimeout,
		}), nil
	}
}
