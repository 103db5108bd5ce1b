// Package bootstrap wires configuration, storage, gateways, and feature
// services into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"paragraph-backend/internal/analysis"
	"paragraph-backend/internal/documents"
	"paragraph-backend/internal/history"
	"paragraph-backend/internal/journals"
	"paragraph-backend/internal/llm/gemini"
	"paragraph-backend/internal/queue"
	"paragraph-backend/internal/scholar"
	"paragraph-backend/internal/settings"
	"paragraph-backend/internal/shared/config"
	"paragraph-backend/internal/shared/server"
	"paragraph-backend/internal/shared/storage/db"
	"paragraph-backend/internal/shared/storage/object"
	objectlocal "paragraph-backend/internal/shared/storage/object/local"
	objects3 "paragraph-backend/internal/shared/storage/object/s3"
	"paragraph-backend/internal/shared/telemetry"
)

// App holds the assembled application.
type App struct {
	Config   config.Config
	DB       *sql.DB
	Router   *gin.Engine
	Analysis *analysis.Service
	Queue    *queue.SQSClient
}

// New builds the full dependency graph. With no DATABASE_URL everything
// runs on in-memory repositories; with no SQS_QUEUE_URL async jobs are
// processed in-process.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	var database *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, database); err != nil {
			database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	} else {
		telemetry.Warn("bootstrap.no_database", map[string]any{"mode": "in-memory"})
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		closeDB(database)
		return nil, err
	}

	var (
		settingsRepo settings.Repo
		journalsRepo journals.Repo
		historyRepo  history.Repo
		analysisRepo analysis.Repo
		docsRepo     documents.Repo
	)
	if database != nil {
		settingsRepo = settings.NewPGRepo(database)
		journalsRepo = journals.NewPGRepo(database)
		historyRepo = history.NewPGRepo(database)
		analysisRepo = analysis.NewPGRepo(database)
		docsRepo = documents.NewPGRepo(database)
	} else {
		settingsRepo = settings.NewMemoryRepo()
		journalsRepo = journals.NewMemoryRepo()
		historyRepo = history.NewMemoryRepo()
		analysisRepo = analysis.NewMemoryRepo()
		docsRepo = documents.NewMemoryRepo()
	}

	settingsSvc := settings.NewService(settingsRepo, cfg.GeminiAPIKey, cfg.ScholarAPIKey)
	llmClient := gemini.New(cfg.GeminiModel, settingsSvc.GeminiKey)
	scholarClient := scholar.NewClient(settingsSvc.ScholarKey)

	journalsSvc := journals.NewService(journalsRepo, llmClient)
	historySvc := history.NewService(historyRepo)

	docsSvc, err := documents.NewService(docsRepo, store)
	if err != nil {
		closeDB(database)
		return nil, err
	}

	var (
		sqsClient *queue.SQSClient
		enqueuer  analysis.Enqueuer
	)
	if cfg.SQSQueueURL != "" {
		sqsClient, err = queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
		if err != nil {
			closeDB(database)
			return nil, fmt.Errorf("init queue: %w", err)
		}
		enqueuer = queue.NewAnalysisEnqueuer(sqsClient)
	}

	analysisSvc, err := analysis.NewService(
		llmClient,
		journalsSvc,
		settingsSvc,
		scholarClient,
		analysisRepo,
		historySvc,
		enqueuer,
		docsSvc,
	)
	if err != nil {
		closeDB(database)
		return nil, fmt.Errorf("build analysis service: %w", err)
	}

	router := server.NewRouter(server.RouterDeps{
		Env:             cfg.Env,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Handlers: []server.RouteRegistrar{
			analysis.NewHandler(analysisSvc),
			journals.NewHandler(journalsSvc),
			settings.NewHandler(settingsSvc),
			history.NewHandler(historySvc),
			documents.NewHandler(docsSvc),
		},
	})

	return &App{
		Config:   cfg,
		DB:       database,
		Router:   router,
		Analysis: analysisSvc,
		Queue:    sqsClient,
	}, nil
}

// Close releases held resources.
func (a *App) Close() {
	closeDB(a.DB)
}

func newObjectStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := objects3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	}
	store, err := objectlocal.New(cfg.LocalStoreDir)
	if err != nil {
		return nil, fmt.Errorf("init local store: %w", err)
	}
	return store, nil
}

func closeDB(database *sql.DB) {
	if database != nil {
		database.Close()
	}
}
