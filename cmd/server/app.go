package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mbecker/studycoach-api/internal/config"
	"github.com/mbecker/studycoach-api/internal/domain/srs"
	"github.com/mbecker/studycoach-api/internal/events"
	"github.com/mbecker/studycoach-api/internal/job"
	"github.com/mbecker/studycoach-api/internal/platform/gemini"
	"github.com/mbecker/studycoach-api/internal/platform/notify"
	"github.com/mbecker/studycoach-api/internal/platform/postgres"
	"github.com/mbecker/studycoach-api/internal/service"
	"github.com/mbecker/studycoach-api/internal/service/auth"
	"github.com/mbecker/studycoach-api/internal/store"
)

// application holds every long-lived dependency of the server. It is
// assembled once at startup by newApplication and torn down by cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore        store.UserStore
	taskStore        store.TaskStore
	sessionStore     store.SessionStore
	reviewItemStore  store.ReviewItemStore
	reviewStateStore store.ReviewStateStore
	jobStore         job.JobStore

	// Auth
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	// Services
	userService   service.UserService
	taskService   service.TaskService
	planService   service.PlanService
	focusService  service.FocusService
	reviewService service.ReviewService
	quizService   service.QuizService
	recapService  service.RecapService

	// Background processing
	eventEmitter events.EventEmitter
	jobRunner    *job.JobRunner
	stopReminder context.CancelFunc
}

// newApplication wires up every component of the server in dependency
// order. It does not start anything; Run does that.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}
	app.db = db

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.reviewItemStore = postgres.NewPostgresReviewItemStore(db, logger)
	app.reviewStateStore = postgres.NewPostgresReviewStateStore(db, logger)
	app.jobStore = postgres.NewPostgresJobStore(db)

	// Auth
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	// LLM quiz generator
	generator, err := gemini.NewQuizGenerator(context.Background(), logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz generator: %w", err)
	}

	// Background job runner
	app.jobRunner = job.NewJobRunner(app.jobStore, job.JobRunnerConfig{
		WorkerCount: cfg.Job.WorkerCount,
		QueueSize:   cfg.Job.QueueSize,
		StuckJobAge: time.Duration(cfg.Job.StuckJobAgeMinutes) * time.Minute,
	}, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	app.eventEmitter = emitter

	srsService := srs.NewDefaultService()

	// Services
	app.userService = service.NewUserService(app.userStore, db, logger)
	app.taskService = service.NewTaskService(db, app.taskStore, app.userStore, logger)
	app.planService = service.NewPlanService(app.taskStore, logger)
	app.focusService = service.NewFocusService(
		db,
		app.sessionStore,
		app.userStore,
		cfg.Session.TTLMinutes,
		logger,
	)
	app.quizService = service.NewQuizService(
		db,
		app.reviewItemStore,
		app.reviewStateStore,
		app.eventEmitter,
		logger,
	)
	app.reviewService = service.NewReviewService(
		db,
		app.reviewItemStore,
		app.reviewStateStore,
		srsService,
		logger,
	)
	app.recapService = service.NewRecapService(
		app.userStore,
		app.taskStore,
		app.sessionStore,
		app.reviewStateStore,
		logger,
	)

	// Quiz generation requests flow from the quiz service through the
	// event emitter into the job runner.
	factory := job.NewQuizGenerationJobFactory(generator, app.quizService, logger)
	emitter.RegisterHandler(job.NewQuizGenerationEventHandler(factory, app.jobRunner, logger))

	return app, nil
}

// Run starts background processing and serves HTTP until a shutdown
// signal arrives.
func (app *application) Run() error {
	defer app.cleanup()

	if err := app.jobRunner.Start(); err != nil {
		return fmt.Errorf("failed to start job runner: %w", err)
	}

	app.startReminderLoop()

	router := app.setupRouter()
	return startHTTPServer(app.config.Server.Port, router, app.logger)
}

// startReminderLoop periodically submits a reminder dispatch sweep to
// the job runner so due task reminders get delivered.
func (app *application) startReminderLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	app.stopReminder = cancel

	sender := notify.NewLogSender(app.logger)
	interval := time.Duration(app.config.Job.ReminderPollSeconds) * time.Second

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				sweep, err := job.NewReminderDispatchJob(
					now.UTC(),
					app.taskStore,
					sender,
					app.logger,
				)
				if err != nil {
					app.logger.Error("failed to build reminder dispatch job",
						slog.String("error", err.Error()))
					continue
				}
				if err := app.jobRunner.Submit(ctx, sweep); err != nil {
					app.logger.Error("failed to submit reminder dispatch job",
						slog.String("error", err.Error()))
				}
			}
		}
	}()
}

// cleanup releases resources in reverse dependency order.
func (app *application) cleanup() {
	if app.stopReminder != nil {
		app.stopReminder()
	}

	if app.jobRunner != nil {
		app.logger.Info("stopping job runner")
		app.jobRunner.Stop()
	}

	if app.db != nil {
		app.logger.Info("closing database connection")
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database",
				slog.String("error", err.Error()))
		}
	}
}
