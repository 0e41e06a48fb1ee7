package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rimba/nft-store/internal/api/handler"
	"github.com/rimba/nft-store/internal/api/middleware"
	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
	"github.com/rimba/nft-store/internal/core/service"
	mongodb "github.com/rimba/nft-store/internal/infrastructure/db/mongo"
	redisdb "github.com/rimba/nft-store/internal/infrastructure/db/redis"
	httphandlers "github.com/rimba/nft-store/internal/infrastructure/http/handlers"
)

const tokenTTL = time.Hour

// Dependencies carries the externally constructed collaborators the router
// wires into handlers.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Minter    ports.Minter
	Files     ports.FileStore
	JWTSecret string
	UploadDir string
	MetaDir   string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("nftstore"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	nftRepo := mongodb.NewNFTRepository(deps.DB)
	mintGuard := redisdb.NewMintGuard(deps.Redis)

	authService := service.NewAuthService(userRepo, deps.JWTSecret, tokenTTL)
	userService := service.NewUserService(userRepo, deps.Logger)
	nftService := service.NewNFTService(nftRepo, deps.Files, deps.Minter, mintGuard, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	nftHandler := handler.NewNFTHandler(nftService)

	authRequired := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes (unauthenticated) ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- User administration ---
	users := e.Group("/api/users", authRequired)
	users.GET("", userHandler.List, adminOnly)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PUT("/:id/reactivate", userHandler.Reactivate)

	// --- NFT assets ---
	nfts := e.Group("/api/nfts", authRequired)
	nfts.POST("", nftHandler.Create)
	nfts.GET("", nftHandler.List)
	nfts.PUT("/:id", nftHandler.Update)
	nfts.POST("/mint", nftHandler.Mint)

	// --- Static files: uploaded images and generated metadata documents ---
	e.Static("/uploads", deps.UploadDir)
	e.Static("/metadata", deps.MetaDir)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
