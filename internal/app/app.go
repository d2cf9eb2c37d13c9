package app

import (
	"context"
	"errors"
	"log"
	"lottery_backend/internal/config"
	"lottery_backend/internal/metrics"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

// Run - HTTP сервер и фоновые задачи до отмены ctx
func (s *App) Run(ctx context.Context) error {
	err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
	s.initServiceProvider()
	defer s.ServiceProvider.Close()

	logger := s.ServiceProvider.Logger()
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	srv := &http.Server{
		Addr:              s.ServiceProvider.HTTPCfg().Address(),
		Handler:           s.ServiceProvider.Router(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}
	jobManager := s.ServiceProvider.Jobs(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobManager.Start(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("starting server",
			zap.String("address", srv.Addr),
			zap.String("storage", s.ServiceProvider.AppCfg().Storage()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
