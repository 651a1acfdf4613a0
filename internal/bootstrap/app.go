package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "diagnosis-backend/internal/auth"
	"diagnosis-backend/internal/catalog"
	"diagnosis-backend/internal/diagnoses"
	"diagnosis-backend/internal/folders"
	"diagnosis-backend/internal/imports"
	"diagnosis-backend/internal/llm"
	"diagnosis-backend/internal/llm/gemini"
	"diagnosis-backend/internal/shared/config"
	"diagnosis-backend/internal/shared/server"
	"diagnosis-backend/internal/shared/storage/db"
	"diagnosis-backend/internal/shared/storage/object"
	localstore "diagnosis-backend/internal/shared/storage/object/local"
	s3store "diagnosis-backend/internal/shared/storage/object/s3"
	"diagnosis-backend/internal/users"
	"diagnosis-backend/internal/verify"
)

// App holds shared dependencies.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.ObjectStore
	Catalog *catalog.Catalog
	LLM     llm.Client

	DiagnosesRepo diagnoses.Repo
	FoldersRepo   folders.Repo
	UsersRepo     users.Repo

	DiagnosesService *diagnoses.Service
	FoldersService   *folders.Service
	UsersService     *users.Service

	DiagnosisHandler *diagnoses.Handler
	FolderHandler    *folders.Handler
	CatalogHandler   *catalog.Handler
	UserHandler      *users.Handler
	GoogleAuth       *googleauth.GoogleService
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

	cat, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Catalog: cat,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DiagnosisHandler: app.DiagnosisHandler,
		FolderHandler:    app.FolderHandler,
		CatalogHandler:   app.CatalogHandler,
		UserHandler:      app.UserHandler,
		GoogleAuth:       app.GoogleAuth,
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

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if strings.TrimSpace(cfg.CatalogPath) != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.LoadDefault()
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.DiagnosesRepo = &diagnoses.PGRepo{DB: app.DB}
		app.FoldersRepo = &folders.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.DiagnosesRepo = diagnoses.NewMemoryRepo()
		app.FoldersRepo = folders.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "gemini" {
		apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" && isDevLike(app.Config.Env) {
			log.Printf("bootstrap: GEMINI_API_KEY empty; verification disabled")
		} else {
			geminiClient, err := gemini.NewClient(apiKey, app.Config.LLMModel)
			if err != nil {
				return err
			}
			llmClient = geminiClient
		}
	}
	app.LLM = llmClient

	checker := &verify.Checker{LLM: llmClient}
	runner := verify.NewRunner(checker.Check, app.Config.VerifyDelay)
	importer := &imports.Importer{LLM: llmClient, Catalog: app.Catalog}

	app.UsersService = users.NewService(app.UsersRepo, app.Config.ConsultantEmails)
	app.DiagnosesService = diagnoses.NewService(app.DiagnosesRepo, app.Catalog, checker, runner, app.Store, importer)
	app.FoldersService = folders.NewService(app.FoldersRepo, app.DiagnosesRepo)

	app.DiagnosisHandler = diagnoses.NewHandler(app.DiagnosesService)
	app.FolderHandler = folders.NewHandler(app.FoldersService)
	app.CatalogHandler = catalog.NewHandler(app.Catalog)
	app.UserHandler = users.NewHandler(app.UsersService)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)

	return nil
}
