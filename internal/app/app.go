package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ringshq/rings/internal/config"
	"github.com/ringshq/rings/internal/db"
	"github.com/ringshq/rings/internal/repository"
	"github.com/ringshq/rings/internal/service"
	"github.com/ringshq/rings/internal/storage"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	Storage     storage.Storage
	AuthService *service.AuthService
	RingService *service.RingService
	PostService *service.PostService
	FileService *service.FileService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	ringRepository := repository.NewRingRepository(database)
	membershipRepository := repository.NewMembershipRepository(database)
	postRepository := repository.NewPostRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(userRepository, cfg.SessionSecret, cfg.SessionExpiry, cfg.SecureCookies)
	ringService := service.NewRingService(ringRepository, membershipRepository, userRepository)
	fileService := service.NewFileService(fileStorage)
	postService := service.NewPostService(postRepository, fileService)

	return &App{
		Cfg:         cfg,
		DB:          database,
		Storage:     fileStorage,
		AuthService: authService,
		RingService: ringService,
		PostService: postService,
		FileService: fileService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
