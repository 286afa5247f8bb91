package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"visadocs-backend/internal/analysis"
	"visadocs-backend/internal/deadlines"
	"visadocs-backend/internal/documents"
	"visadocs-backend/internal/llm"
	"visadocs-backend/internal/llm/gemini"
	"visadocs-backend/internal/queue"
	"visadocs-backend/internal/shared/config"
	"visadocs-backend/internal/shared/server"
	"visadocs-backend/internal/shared/storage/db"
	"visadocs-backend/internal/shared/storage/object"
	localstore "visadocs-backend/internal/shared/storage/object/local"
	s3store "visadocs-backend/internal/shared/storage/object/s3"
	"visadocs-backend/internal/uploads"
)

// App holds shared dependencies for the API and worker binaries.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Queue             queue.Client
	LLM               llm.Client
	DocumentsRepo     documents.Repo
	DeadlinesRepo     deadlines.Repo
	DocumentsService  *documents.Service
	DeadlinesService  *deadlines.Service
	AnalysisService   *analysis.Service
	AnalysisProcessor queue.Processor
	DocumentsHandler  *documents.Handler
	DeadlinesHandler  *deadlines.Handler
	UploadsHandler    *uploads.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
		DeadlinesHandler: app.DeadlinesHandler,
		UploadsHandler:   app.UploadsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
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
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func buildServices(ctx context.Context, app *App) error {
	var docRepo documents.Repo
	var deadlineRepo deadlines.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		deadlineRepo = &deadlines.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		deadlineRepo = deadlines.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "gemini" {
		geminiClient, err := gemini.NewClient(os.Getenv("GEMINI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			if !isDevLike(app.Config.Env) {
				return err
			}
			log.Printf("bootstrap: gemini client unavailable; analyses will fail: %v", err)
		} else {
			llmClient = geminiClient
		}
	}

	analysisSvc := &analysis.Service{
		Docs:      docRepo,
		Deadlines: deadlineRepo,
		Store:     app.Store,
		LLM:       llmClient,
	}

	// With a queue URL the job is handed to SQS for the worker binary;
	// otherwise it runs on a goroutine inside this process.
	var queueClient queue.Client
	if strings.TrimSpace(app.Config.QueueURL) != "" {
		sqsClient, err := queue.NewSQSClient(ctx, app.Config.AWSRegion, app.Config.QueueURL)
		if err != nil {
			return fmt.Errorf("build sqs client: %w", err)
		}
		queueClient = sqsClient
	} else {
		queueClient = queue.NewInProcessDispatcher(analysisSvc)
	}

	docSvc := &documents.Service{
		Repo:     docRepo,
		Store:    app.Store,
		Dispatch: queueClient,
	}
	deadlineSvc := &deadlines.Service{Repo: deadlineRepo}

	app.Queue = queueClient
	app.LLM = llmClient
	app.DocumentsRepo = docRepo
	app.DeadlinesRepo = deadlineRepo
	app.DocumentsService = docSvc
	app.DeadlinesService = deadlineSvc
	app.AnalysisService = analysisSvc
	app.AnalysisProcessor = analysisSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.DeadlinesHandler = deadlines.NewHandler(deadlineSvc)
	app.UploadsHandler = uploads.NewHandler(app.Store)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
