package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-shortlister/internal/auth"
	"resume-shortlister/internal/jobs"
	"resume-shortlister/internal/scoring"
	"resume-shortlister/internal/services/health"
	"resume-shortlister/internal/shared/config"
	"resume-shortlister/internal/shared/server"
	"resume-shortlister/internal/shared/storage/db"
	localstore "resume-shortlister/internal/shared/storage/object/local"
	"resume-shortlister/internal/shortlist"
	"resume-shortlister/internal/users"
)

// App holds the constructed dependency graph. Tests reach into it to swap
// pieces, most often ShortlistService.Gateway.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  *localstore.Store

	Health *health.Service

	UsersRepo users.Repo
	JobsRepo  jobs.Repo

	UsersService     *users.Service
	JobsService      *jobs.Service
	Gateway          scoring.Gateway
	ShortlistService *shortlist.Service

	UsersHandler     *users.Handler
	JobsHandler      *jobs.Handler
	ShortlistHandler *shortlist.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares the full dependency graph and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  localstore.New(cfg.UploadDir),
		Health: health.NewService(sqlDB),
	}

	if sqlDB != nil {
		app.UsersRepo = &users.PGRepo{DB: sqlDB}
		app.JobsRepo = &jobs.PGRepo{DB: sqlDB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo)
	app.JobsService = jobs.NewService(app.JobsRepo)
	app.Gateway = scoring.NewProcessGateway(cfg.ScorerCommand, []string{cfg.ScorerScript}, cfg.ScorerTimeout)
	app.ShortlistService = shortlist.NewService(app.JobsService, app.Gateway)

	app.UsersHandler = users.NewHandler(app.UsersService)
	app.JobsHandler = jobs.NewHandler(app.JobsService)
	app.ShortlistHandler = shortlist.NewHandler(app.ShortlistService, app.Store)
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		app.GoogleAuth = googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, app.UsersService)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Health:     app.Health,
		Users:      app.UsersHandler,
		Jobs:       app.JobsHandler,
		Shortlist:  app.ShortlistHandler,
		GoogleAuth: app.GoogleAuth,
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

	conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable, falling back to memory: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return conn, nil
}

func isDevLike(env string) bool {
	switch env {
	case "dev", "local", "test":
		return true
	}
	return false
}
