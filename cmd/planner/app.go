package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/aiplanner/internal/config"
	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/phrazzld/aiplanner/internal/events"
	"github.com/phrazzld/aiplanner/internal/generation"
	"github.com/phrazzld/aiplanner/internal/platform/canvas"
	"github.com/phrazzld/aiplanner/internal/platform/gcal"
	"github.com/phrazzld/aiplanner/internal/platform/gemini"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/phrazzld/aiplanner/internal/platform/postgres"
	"github.com/phrazzld/aiplanner/internal/service"
	"github.com/phrazzld/aiplanner/internal/service/auth"
	"github.com/phrazzld/aiplanner/internal/store"
)

// application holds the shared dependencies and ensures cleanup on exit.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore
	emitter   *events.InMemoryEventEmitter

	jwtService auth.JWTService

	users     *service.UserService
	tasks     *service.TaskService
	imports   *service.ImportService
	schedules *service.ScheduleService
}

// loadBase loads configuration, sets up logging and opens the database.
func loadBase(ctx context.Context) (*application, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	log.Info("database connection established", slog.String("url", postgres.MaskDatabaseURL(cfg.Database.URL)))

	return &application{config: cfg, logger: log, db: db}, nil
}

// newApplication wires stores, platform clients and services.
func newApplication(ctx context.Context) (*application, error) {
	app, err := loadBase(ctx)
	if err != nil {
		return nil, err
	}
	if err := app.wire(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

func (app *application) wire(ctx context.Context) error {
	cfg := app.config

	app.userStore = postgres.NewPostgresUserStore(app.db, cfg.Auth.BCryptCost, app.logger)
	app.taskStore = postgres.NewPostgresTaskStore(app.db, app.logger)
	app.emitter = events.NewInMemoryEventEmitter(app.logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	canvasClient, err := canvas.NewClient(cfg.Canvas, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create canvas client: %w", err)
	}

	generator, err := gemini.NewGeminiGenerator(ctx, app.logger, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	builder, err := generation.NewRequestBuilder(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to create request builder: %w", err)
	}

	if cfg.Calendar.Enabled {
		publisher, err := gcal.NewPublisher(ctx, cfg.Calendar, app.logger)
		if err != nil {
			return fmt.Errorf("failed to create calendar publisher: %w", err)
		}
		app.emitter.RegisterHandler(publisher)
		app.logger.Info("calendar publishing enabled", slog.String("calendar_id", cfg.Calendar.CalendarID))
	}

	reconciler := service.NewImportReconciler(app.taskStore, app.logger)
	assigner := service.NewBlockAssigner(app.taskStore, app.emitter, app.logger)

	app.users = service.NewUserService(app.userStore, auth.NewBcryptVerifier(), jwtService, app.logger)
	app.tasks = service.NewTaskService(app.taskStore, app.logger)
	app.imports = service.NewImportService(
		app.userStore, canvasClient, reconciler, app.emitter, cfg.Canvas.CourseConcurrency, app.logger,
	)
	app.schedules = service.NewScheduleService(
		app.taskStore, builder, generator, generation.NewResponseParser(app.logger),
		assigner, cfg.LLM.RequestTimeout, app.logger,
	)
	return nil
}

// lookupUser resolves the --user flag of operator commands.
func (app *application) lookupUser(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("--user is required")
	}
	user, err := app.userStore.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}
	return user, nil
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
}
