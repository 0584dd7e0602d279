package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack/catalog-api/internal/api/handler"
	"github.com/shopstack/catalog-api/internal/api/middleware"
	"github.com/shopstack/catalog-api/internal/core/service"
	"github.com/shopstack/catalog-api/internal/infrastructure/config"
	catalogmongo "github.com/shopstack/catalog-api/internal/infrastructure/db/mongo"
	catalogredis "github.com/shopstack/catalog-api/internal/infrastructure/db/redis"
	"github.com/shopstack/catalog-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, blobs *storage.LocalStore, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	// --- Dependencies ---
	userRepo := catalogmongo.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	productRepo := catalogmongo.NewProductRepository(db)
	idemStore := catalogredis.NewIdempotencyStore(rdb)
	productService := service.NewProductService(productRepo, idemStore, log)
	productHandler := handler.NewProductHandler(productService, blobs)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Catalog routes: reads are public, mutations require a token ---
	v1 := e.Group("/v1")
	v1.GET("/products", productHandler.List)
	v1.GET("/products/:id", productHandler.Get)
	v1.POST("/products", productHandler.Create, authMiddleware)
	v1.PUT("/products/:id", productHandler.Update, authMiddleware)
	v1.DELETE("/products/:id", productHandler.Delete, authMiddleware)

	// --- Uploaded images ---
	e.Static("/uploads", blobs.Dir())

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
