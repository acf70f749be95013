package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/html-url-shortener/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/html-url-shortener/internal/config"
	"github.com/vadimbarashkov/html-url-shortener/internal/entity"
	"github.com/vadimbarashkov/html-url-shortener/internal/usecase"
	"github.com/vadimbarashkov/html-url-shortener/migrations"
	"github.com/vadimbarashkov/html-url-shortener/pkg/postgres"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/html-url-shortener/internal/adapter/delivery/http"
	pgrepo "github.com/vadimbarashkov/html-url-shortener/internal/adapter/repository/postgres"
)

const serviceName = "html-url-shortener"

type urlRepository interface {
	GetOrCreate(ctx context.Context, longURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
}

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:       slog.LevelDebug,
		Concise:        true,
		RequestHeaders: true,
	}

	if env != config.EnvDev {
		opts.LogLevel = slog.LevelInfo
		opts.JSON = true
		opts.Concise = false
	}

	return httplog.NewLogger(serviceName, opts)
}

// newURLRepository returns the configured storage and a function releasing it.
func newURLRepository(ctx context.Context, cfg *config.Config) (urlRepository, func() error, error) {
	if cfg.Storage == config.StorageMemory {
		return memory.NewURLRepository(), func() error { return nil }, nil
	}

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.RunMigrations(migrations.FS, ".", cfg.Postgres.DSN()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return pgrepo.NewURLRepository(db), db.Close, nil
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	urlRepo, closeRepo, err := newURLRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Error("failed to close storage", slog.Any("err", err))
		}
	}()

	urlUseCase := usecase.New(
		urlRepo,
		usecase.WithBaseURL(cfg.BaseURL),
		usecase.WithBatchConcurrency(cfg.Batch.Concurrency),
		usecase.WithMaxBatchSize(cfg.Batch.MaxSize),
	)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        delivery.NewRouter(logger, urlUseCase, cfg.CORS.AllowedOrigins),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("storage", cfg.Storage),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
