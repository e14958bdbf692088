package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram-app/backend/config"
	"github.com/foodgram-app/backend/internal/api"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/middleware"
	"github.com/foodgram-app/backend/internal/router"
	"github.com/foodgram-app/backend/internal/service"
)

// Server wires the services and handlers together and owns the HTTP
// listener.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New builds the full application. redisClient and s3Config may be
// nil; token caching, rate limiting and image upload degrade to their
// passthrough behavior.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, healthDB *database.DB) *Server {
	authService := service.NewAuthService(db, redisClient, service.LookupField(cfg.TokenLookupField))

	var images service.ImageStore
	if s3Config != nil {
		images = service.NewImageService(s3Config)
	}
	recipeService := service.NewRecipeService(db, images)
	membershipService := service.NewMembershipService(db)
	userService := service.NewUserService(db)
	ingredientService := service.NewIngredientService(db)
	tagService := service.NewTagService(db)

	var writeLimiter *middleware.RateLimiter
	if redisClient != nil {
		writeLimiter = middleware.NewWriteRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService),
		api.NewRecipeHandler(recipeService, membershipService, authService, writeLimiter),
		api.NewCatalogHandler(ingredientService, tagService),
		cfg.AllowedOrigins,
		healthDB,
	)

	return &Server{engine: engine, cfg: cfg}
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.engine,
	}
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
