package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/eventhub/internal/app/controllers"
	appMigrations "github.com/yigit/eventhub/internal/app/migrations"
	appRepos "github.com/yigit/eventhub/internal/app/repositories"
	appRoutes "github.com/yigit/eventhub/internal/app/routes"
	appServices "github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/config"
	"github.com/yigit/eventhub/internal/db"
	appMiddleware "github.com/yigit/eventhub/internal/middleware"
	pkgAuth "github.com/yigit/eventhub/internal/pkg/auth"
	"github.com/yigit/eventhub/internal/pkg/events"
	"github.com/yigit/eventhub/internal/pkg/ics"
	"github.com/yigit/eventhub/internal/pkg/logger"
	"github.com/yigit/eventhub/internal/pkg/scheduler"
	"github.com/yigit/eventhub/internal/pkg/summarizer"
	"github.com/yigit/eventhub/internal/pkg/tasks"
	"github.com/yigit/eventhub/internal/pkg/validation"
	"github.com/yigit/eventhub/internal/pkg/websocket"
	"github.com/yigit/eventhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService     appServices.AuthService
	SeriesService   appServices.SeriesService
	EventService    appServices.EventService
	CalendarService appServices.CalendarService
	SummaryService  appServices.SummaryService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService

	TaskQueue tasks.Queue
	Publisher events.Publisher
	// Hub fans addressed events out to websocket subscribers
	Hub *websocket.Hub
	// Scheduler is nil when automatic materialization is disabled
	Scheduler *scheduler.Scheduler

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "pretty") || strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if !cfg.Migrations.Enabled {
		lgr.Info().Msg("Migrations disabled, skipping")
		return database, nil
	}

	lgr.Info().Str("dir", cfg.Migrations.Dir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.ForComponent("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, cfg.Migrations.Dir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// NewTaskQueue builds the summary queue backend selected by cfg.Tasks.Backend
func NewTaskQueue(cfg *config.Config, lgr zerolog.Logger) (tasks.Queue, error) {
	switch cfg.Tasks.Backend {
	case config.TasksBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return tasks.NewRedisQueue(client, cfg.Tasks.QueueName, cfg.Tasks.Workers, lgr), nil
	case config.TasksBackendRabbitMQ:
		q, err := tasks.NewRabbitMQQueue(tasks.RabbitMQConfig{
			URL:       cfg.RabbitMQ.URL,
			QueueName: cfg.Tasks.QueueName,
			Workers:   cfg.Tasks.Workers,
		}, lgr)
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		return tasks.NewMemoryQueue(cfg.Tasks.BufferSize, cfg.Tasks.Workers, lgr), nil
	}
}

// NewPublisher returns a Kafka publisher when enabled, otherwise one that only logs
func NewPublisher(cfg *config.Config, lgr zerolog.Logger) events.Publisher {
	if cfg.Kafka.Enabled {
		return events.NewKafkaPublisher(events.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, lgr)
	}
	return events.NewLogPublisher(lgr)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	queue, err := NewTaskQueue(cfg, logger.ForComponent("tasks"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}
	deps.TaskQueue = queue
	deps.Hub = websocket.NewHub(logger.ForComponent("websocket"))
	deps.Publisher = events.NewMultiPublisher(
		websocket.NewPublisher(deps.Hub),
		NewPublisher(cfg, logger.ForComponent("events")),
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: parseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	summaryClient := summarizer.NewClient(summarizer.Config{
		BaseURL: cfg.Summary.BaseURL,
		APIKey:  cfg.Summary.APIKey,
		Model:   cfg.Summary.Model,
		Timeout: parseDuration(cfg.Summary.Timeout, 30*time.Second),
	})

	deps.SummaryService = appServices.NewSummaryService(
		deps.Repos.EventRepository,
		deps.Repos.SeriesRepository,
		deps.TaskQueue,
		summaryClient,
		cfg.Summary.Enabled,
		logger.ForComponent("summary"),
	)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)

	deps.SeriesService = appServices.NewSeriesService(
		deps.Repos.SeriesRepository,
		deps.Repos.EventRepository,
		deps.Repos.RegistrationRepository,
		database,
		deps.SummaryService,
		deps.Publisher,
		logger.ForComponent("series"),
	)

	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.Repos.RegistrationRepository,
		database,
		deps.SummaryService,
		lgr,
	)

	deps.CalendarService = appServices.NewCalendarService(
		deps.Repos.EventRepository,
		deps.Repos.RegistrationRepository,
		deps.Repos.CalendarRepository,
		deps.Publisher,
		ics.Options{ProductID: cfg.Calendar.ProductID, Timezone: cfg.Calendar.Timezone},
		logger.ForComponent("calendar"),
	)

	if cfg.Scheduler.Enabled {
		deps.Scheduler = scheduler.New(logger.ForComponent("scheduler"), 5*time.Minute)
		auto := scheduler.NewAutoMaterializer(deps.SeriesService, logger.ForComponent("materializer"))
		if err := auto.Register(deps.Scheduler, cfg.Scheduler.Spec); err != nil {
			return nil, fmt.Errorf("failed to register materializer: %w", err)
		}
	}

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(ctx, deps.Repos.UserRepository, deps.SeriesService, time.Now(), lgr); err != nil {
			// demo data is optional
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone: %w", err)
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.AuthService, lgr),
		Series:   appControllers.NewSeriesController(deps.SeriesService, lgr),
		Event:    appControllers.NewEventController(deps.EventService, lgr),
		Calendar: appControllers.NewCalendarController(deps.CalendarService, loc, lgr),
		Live:     websocket.NewHandler(deps.Hub, logger.ForComponent("websocket")),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.EqualFold(cfg.Server.Mode, "production") {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.ForComponent("http")))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router, nil
}
