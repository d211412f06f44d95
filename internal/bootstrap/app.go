package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"portfolio-pulse/internal/dashboard"
	"portfolio-pulse/internal/ingest"
	"portfolio-pulse/internal/insights"
	"portfolio-pulse/internal/llmconfig"
	"portfolio-pulse/internal/portfolio"
	"portfolio-pulse/internal/projects"
	"portfolio-pulse/internal/queue"
	"portfolio-pulse/internal/reports"
	"portfolio-pulse/internal/services/health"
	"portfolio-pulse/internal/shared/auth"
	"portfolio-pulse/internal/shared/cache"
	"portfolio-pulse/internal/shared/config"
	"portfolio-pulse/internal/shared/server"
	"portfolio-pulse/internal/shared/server/middleware"
	"portfolio-pulse/internal/shared/storage/db"
	"portfolio-pulse/internal/shared/storage/object"
	localstore "portfolio-pulse/internal/shared/storage/object/local"
	s3store "portfolio-pulse/internal/shared/storage/object/s3"
	"portfolio-pulse/internal/shared/telemetry"
	"portfolio-pulse/internal/spreadsheet"
	"portfolio-pulse/internal/users"
)

const cachePrefix = "pulse:summary:"

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client
	Cache  cache.Cache
	Signer *auth.Signer

	UsersService     *users.Service
	ProjectsService  *projects.Service
	ReportsService   *reports.Service
	LLMConfigService *llmconfig.Service
	Resolver         *llmconfig.Resolver
	Summarizer       *insights.Summarizer
	IngestService    *ingest.Service
	DashboardService *dashboard.Service
	AnalysisService  *portfolio.AnalysisService
}

// Options adjust Build for the calling binary.
type Options struct {
	// DBOptions defaults to db.DefaultServerOptions.
	DBOptions *db.Options
	// SkipRouter leaves App.Router nil, for processes that serve no HTTP.
	SkipRouter bool
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	dbOpts := db.DefaultServerOptions()
	if opts.DBOptions != nil {
		dbOpts = *opts.DBOptions
	}
	sqlDB, err := buildDB(ctx, cfg, db.OptionsFromEnv(dbOpts))
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.IsDevLike())
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
		Cache:  buildCache(ctx, cfg),
		Signer: signer,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	if !opts.SkipRouter {
		app.Router = buildRouter(app)
	}
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
}

// buildCache prefers Redis and falls back to process memory.
func buildCache(ctx context.Context, cfg config.Config) cache.Cache {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return cache.NewMemory()
	}
	c, err := cache.NewRedis(ctx, cfg.RedisAddr, cachePrefix)
	if err != nil {
		telemetry.Warn("bootstrap.cache.memory", map[string]any{"reason": err.Error()})
		return cache.NewMemory()
	}
	return c
}

func buildLimiter(cfg config.Config) *rate.Limiter {
	if cfg.LLMRequestsPerMin <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.LLMRequestsPerMin)/60.0), 1)
}

func buildServices(ctx context.Context, app *App) error {
	var (
		userRepo     users.Repo
		projectRepo  projects.Repo
		reportRepo   reports.Repo
		llmRepo      llmconfig.Repo
		analysisRepo portfolio.AnalysisRepo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		projectRepo = &projects.PGRepo{DB: app.DB}
		reportRepo = &reports.PGRepo{DB: app.DB}
		llmRepo = &llmconfig.PGRepo{DB: app.DB}
		analysisRepo = &portfolio.PGAnalysisRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		projectRepo = projects.NewMemoryRepo()
		reportRepo = reports.NewMemoryRepo()
		llmRepo = llmconfig.NewMemoryRepo()
		analysisRepo = portfolio.NewMemoryAnalysisRepo()
	}

	userSvc := users.NewService(userRepo)
	if err := userSvc.Seed(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	projectSvc := projects.NewService(projectRepo)
	reportSvc := reports.NewService(reportRepo, func(ctx context.Context, id string) error {
		_, err := projectSvc.Get(ctx, id)
		return err
	})

	cfg := app.Config
	llmSvc := llmconfig.NewService(llmRepo)
	resolver := llmconfig.NewResolver(llmSvc, llmconfig.Settings{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   cfg.LLMAPIKey,
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.LLMTimeout,
	})
	limiter := buildLimiter(cfg)
	summarizer := insights.NewSummarizer(resolver, insights.Options{
		Timeout:  cfg.LLMTimeout,
		Limiter:  limiter,
		Cache:    app.Cache,
		CacheTTL: cfg.SummaryCacheTTL,
	})

	repoStore := &ingest.RepoStore{
		Projects:    projectSvc,
		Reports:     reportSvc,
		SubmittedBy: users.IDFor(users.AdminUsername),
	}
	ingestSvc := &ingest.Service{
		Objects:     app.Store,
		Parser:      spreadsheet.NewParser(spreadsheet.DefaultColumns().With(cfg.ColumnSynonyms)),
		Summarizer:  summarizer,
		Store:       repoStore,
		Catalog:     repoStore,
		Concurrency: cfg.IngestConcurrency,
	}

	app.UsersService = userSvc
	app.ProjectsService = projectSvc
	app.ReportsService = reportSvc
	app.LLMConfigService = llmSvc
	app.Resolver = resolver
	app.Summarizer = summarizer
	app.IngestService = ingestSvc
	app.DashboardService = dashboard.NewService(projectSvc, reportSvc)
	app.AnalysisService = &portfolio.AnalysisService{
		Repo:     analysisRepo,
		Projects: projectSvc,
		Reports:  reportSvc,
		Clients:  resolver,
		Limiter:  limiter,
		Timeout:  cfg.LLMTimeout,
	}
	return nil
}

// managerRoles may create projects, change the model configuration and run
// portfolio analyses.
var managerRoles = []string{users.RoleAdmin, users.RoleDeliveryManager}

func buildRouter(app *App) *gin.Engine {
	return server.NewRouter(server.RouterDeps{
		Config: app.Config,
		Auth: middleware.AuthConfig{
			Signer:        app.Signer,
			Lookup:        app.UsersService.RoleOf,
			DefaultUserID: users.IDFor(users.AdminUsername),
			DevLike:       app.Config.IsDevLike(),
		},
		Health:    health.NewService(pinger(app.DB)),
		Users:     users.NewHandler(app.UsersService),
		Projects:  projects.NewHandler(app.ProjectsService, managerRoles...),
		Reports:   reports.NewHandler(app.ReportsService),
		Ingest:    ingest.NewHandler(app.IngestService, app.Queue),
		Dashboard: dashboard.NewHandler(app.DashboardService),
		LLMConfig: llmconfig.NewHandler(app.LLMConfigService, managerRoles...),
		Analysis:  portfolio.NewAnalysisHandler(app.AnalysisService, managerRoles...),
	})
}

// pinger keeps a nil *sql.DB from becoming a non-nil interface.
func pinger(d *sql.DB) health.Pinger {
	if d == nil {
		return nil
	}
	return d
}
