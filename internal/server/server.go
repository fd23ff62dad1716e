package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/eventhub/internal/bootstrap"
	"github.com/yigit/eventhub/internal/config"
	"github.com/yigit/eventhub/internal/db"
)

// Server holds the state for the HTTP server.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	database *db.PostgresDB
	deps     *bootstrap.Dependencies
	logger   zerolog.Logger
	http     *http.Server

	// cancels the summary consumer and the websocket hub
	stopConsumer context.CancelFunc
	consumerDone chan struct{}
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx := context.Background()

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	return &Server{
		config:   cfg,
		router:   router,
		database: database,
		deps:     deps,
		logger:   lgr,
	}, nil
}

func (s *Server) startBackground() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopConsumer = cancel
	s.consumerDone = make(chan struct{})

	go s.deps.Hub.Run(ctx)

	go func() {
		defer close(s.consumerDone)
		if err := s.deps.TaskQueue.Consume(ctx, s.deps.SummaryService.HandleTask); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error().Err(err).Msg("Summary consumer stopped")
		}
	}()

	if s.deps.Scheduler != nil {
		s.deps.Scheduler.Start()
		s.logger.Info().Str("spec", s.config.Scheduler.Spec).Msg("Series materializer scheduled")
	}
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.startBackground()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return errors.Join(runErr, s.Shutdown(context.Background()))
}

// Shutdown stops HTTP first, then background work, then closes the brokers
// and finally the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout, err := time.ParseDuration(s.config.Server.ShutdownTimeout)
	if err != nil {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			errs = errors.Join(errs, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.deps.Scheduler != nil {
		s.deps.Scheduler.Stop(ctx)
	}

	// closing the queue first lets the workers finish what is already queued
	if err := s.deps.TaskQueue.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Task queue close error")
		errs = errors.Join(errs, err)
	}

	if s.stopConsumer != nil {
		select {
		case <-s.consumerDone:
		case <-ctx.Done():
			s.logger.Warn().Msg("Summary consumer did not drain in time")
		}
		s.stopConsumer()
	}
	if err := s.deps.Publisher.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Event publisher close error")
		errs = errors.Join(errs, err)
	}

	if s.database != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.database.Close()
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	return errs
}
