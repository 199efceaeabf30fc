package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/matching"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/server"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/storage/db"
	"jobboard-backend/internal/shared/storage/object"
	localstore "jobboard-backend/internal/shared/storage/object/local"
	s3store "jobboard-backend/internal/shared/storage/object/s3"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Signer *auth.Signer

	UsersService        *users.Service
	JobsService         *jobs.Service
	MatchService        *matching.Service
	ResumesService      *resumes.Service
	Relay               *resumes.Relay
	ApplicationsService *applications.Service
	Authority           *applications.Authority
}

// Build wires repositories, services and handlers from cfg. Dev-like
// environments fall back to in-memory repositories when Postgres is
// unreachable.
func Build(cfg config.Config) (*App, error) {
	telemetry.SetLogger(telemetry.New(cfg.LogLevel, cfg.LogFormat))
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	redisClient, err := buildRedis(cfg)
	if err != nil {
		return nil, err
	}
	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  redisClient,
		Store:  store,
		Signer: signer,
	}
	buildServices(app)

	var limiter middleware.Limiter
	if redisClient != nil {
		limiter = middleware.NewRedisRateLimiter(redisClient, "jobboard:ratelimit:", nil)
	}

	checks := map[string]health.Pinger{}
	if sqlDB != nil {
		checks["database"] = sqlDB
	}
	if redisClient != nil {
		checks["redis"] = health.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Verifier:           signer,
		Resolver:           app.UsersService,
		Limiter:            limiter,
		Health:             health.NewService(checks),
		UserHandler:        users.NewHandler(app.UsersService),
		JobHandler:         jobs.NewHandler(app.JobsService),
		MatchHandler:       matching.NewHandler(app.MatchService),
		ApplicationHandler: applications.NewHandler(app.ApplicationsService, app.Authority),
		ResumeHandler:      resumes.NewHandler(app.ResumesService, app.Relay),
	})
	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildServices(app *App) {
	var (
		userRepo users.Repo
		jobRepo  jobs.Repo
		appRepo  applications.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		appRepo = applications.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo)
	jobSvc := jobs.NewService(jobRepo)
	matchSvc := matching.NewService(userSvc, jobSvc, nil)
	resumeSvc := resumes.NewService(app.Store, userSvc)
	appSvc := applications.NewService(appRepo, userSvc, jobSvc, resumeSvc, matchSvc)

	app.UsersService = userSvc
	app.JobsService = jobSvc
	app.MatchService = matchSvc
	app.ResumesService = resumeSvc
	app.ApplicationsService = appSvc
	app.Authority = applications.NewAuthority(appRepo, jobSvc)
	app.Relay = &resumes.Relay{
		Gate:      resumes.NewGate(appSvc),
		Artifacts: userSvc,
		Store:     app.Store,
		Client:    &http.Client{},
		Timeout:   app.Config.ResumeFetchTimeout,
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_missing", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_unreachable", map[string]any{"fallback": "memory", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildRedis returns nil when REDIS_URL is unset; rate limiting then stays
// in-process.
func buildRedis(cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
