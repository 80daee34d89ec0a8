// Package server wires the DropWatch backend together: repositories,
// services, the HTTP router and graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dropwatch/internal/logging"
	"dropwatch/internal/server/config"
	"dropwatch/internal/server/counseling"
	"dropwatch/internal/server/email"
	"dropwatch/internal/server/httpapi"
	"dropwatch/internal/server/otp"
	"dropwatch/internal/server/students"
	"dropwatch/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger

	userService    *users.Service
	studentService *students.Service
	noteService    *counseling.Service

	studentRepo *students.MemoryRepository
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var sender email.Sender
	if cfg.SendgridAPIKey != "" {
		sender = email.NewSendgridSender(cfg.SendgridAPIKey, cfg.EmailFrom)
	} else {
		sender = email.NewConsoleSender(logger)
	}

	studentRepo := students.NewMemoryRepository()

	ss := students.NewService(studentRepo, cfg)
	us := users.NewService(users.NewMemoryRepository(), otp.NewStore(cfg.OTPValidityDuration), sender, logger, cfg)
	cs := counseling.NewService(counseling.NewMemoryRepository(), ss)

	app := &App{
		config:         cfg,
		logger:         logger,
		userService:    us,
		studentService: ss,
		noteService:    cs,
		studentRepo:    studentRepo,
	}

	if err := app.seed(context.Background()); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	api := httpapi.NewServer(app.logger, app.userService, app.studentService, app.noteService, app.config)
	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: api.Routes(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	app.logger.Info(context.Background(), "Server stopped")
}
