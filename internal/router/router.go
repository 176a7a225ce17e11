package router

import (
	"fmt"

	"github.com/anonto42/snapgram/backend/internal/api"
	"github.com/anonto42/snapgram/backend/internal/auth"
	"github.com/anonto42/snapgram/backend/internal/handlers"
	"github.com/anonto42/snapgram/backend/internal/middleware"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/query"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/anonto42/snapgram/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the wired backing services. Verifier may be nil, which
// disables Firebase login.
type Dependencies struct {
	Config   *config.Config
	Postgres *gorm.DB
	Mongo    *mongo.Database
	Files    api.FileStore
	Verifier api.TokenVerifier
	Queries  *query.Client
	Logger   *zap.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, logger *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.RequestLogger(logger))
	// Leave room for the multipart envelope around the largest allowed image.
	e.Use(eMiddleware.BodyLimit(fmt.Sprintf("%dK", cfg.MaxUploadBytes/1024+1024)))
	logger.Info("Global middleware configured.")
}

// Migrate creates or updates the PostgreSQL tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Session{},
		&models.User{},
		&models.SavedPost{},
	)
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the auth service so the caller can run session maintenance.
func SetupRoutes(e *echo.Echo, deps Dependencies) (*auth.Service, error) {
	if err := Migrate(deps.Postgres); err != nil {
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}
	deps.Logger.Info("PostgreSQL auto-migrations completed.")

	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	accountRepo := repositories.NewPostgresAccountRepository(deps.Postgres)
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(deps.Postgres)
	postRepo := repositories.NewMongoPostRepository(deps.Mongo)

	authService := auth.NewService(accountRepo, deps.Config.JWTSecret, deps.Config.SessionTTL)
	service := api.New(api.Deps{
		Accounts: authService,
		Users:    userRepo,
		Posts:    postRepo,
		Saves:    savedPostRepo,
		Files:    deps.Files,
		Verifier: deps.Verifier,
		Logger:   deps.Logger.Named("api"),
	}, api.Options{
		AvatarBaseURL:  deps.Config.AvatarBaseURL,
		MaxUploadBytes: deps.Config.MaxUploadBytes,
	})

	requireSession := middleware.SessionAuth(handlers.NewSessionResolver(service, deps.Queries))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(service, deps.Queries).RegisterAuthRoutes(authGroup, requireSession)
	deps.Logger.Info("Auth routes configured.")

	// --- Protected routes (require a session) ---
	apiGroup := e.Group("/api/v1", requireSession)

	handlers.NewUserHandler(service, deps.Queries).RegisterUserRoutes(apiGroup)
	deps.Logger.Info("User routes configured.")

	handlers.NewFeedHandler(service, deps.Queries).RegisterFeedRoutes(apiGroup)
	handlers.NewPostHandler(service, deps.Queries).RegisterPostRoutes(apiGroup)
	deps.Logger.Info("Post routes configured.")

	handlers.NewLikeHandler(service, deps.Queries).RegisterLikeRoutes(apiGroup)
	deps.Logger.Info("Like routes configured.")

	handlers.NewSavedPostHandler(service, deps.Queries).RegisterSavedPostRoutes(apiGroup)
	deps.Logger.Info("Saved post routes configured.")

	deps.Logger.Info("All routes configured.")
	return authService, nil
}
