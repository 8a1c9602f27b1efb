package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmetrics "ecomStore/app/echo-server/metrics"
	"ecomStore/app/echo-server/router"
	cartsvc "ecomStore/business/cart"
	"ecomStore/business/category"
	orderssvc "ecomStore/business/orders"
	productsvc "ecomStore/business/product"
	usersvc "ecomStore/business/user"
	"ecomStore/internal/middleware"
	redisRepo "ecomStore/internal/repository/redis"
	"ecomStore/internal/rest"
	"ecomStore/pkg/config"
	redisdb "ecomStore/pkg/database/redis"
	"ecomStore/pkg/logger"
	"ecomStore/pkg/metrics"
	"ecomStore/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "env", cfg.App.Environment)

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	metrics.Init()
	httpmetrics.Init()

	repos, err := openRepositories(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", "error", err)
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	var sessions usersvc.SessionRepository
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisdb.CloseRedisClient(redisClient)

		sessions = redisRepo.NewSessionRepository(redisClient)
		logger.Info("Redis session registry enabled")
	}

	mailer := newMailer(cfg)
	logger.Info("Mail provider configured", "provider", cfg.Mail.Provider)

	// Init validate
	validate := validator.New()
	tokens := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TTL)

	// Init service
	userService := usersvc.NewUserService(repos.users, repos.otps, repos.tx, validate, mailer, tokens, sessions, cfg.OTP.TTL)
	productService := productsvc.NewProductService(repos.products, repos.tx, validate)
	categoryService := category.NewCategoryService(repos.products)
	cartService := cartsvc.NewCartService(repos.cart, repos.products, repos.tx)
	ordersService := orderssvc.NewOrdersService(repos.orders, repos.products, repos.cart, repos.tx, validate)

	// Init handler
	userHandler := rest.NewUserHandler(userService, rest.SessionCookie{
		Name:   cfg.Cookie.Name,
		Domain: cfg.Cookie.Domain,
		Secure: cfg.Cookie.Secure,
	})
	productHandler := rest.NewProductHandler(productService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	cartHandler := rest.NewCartHandler(cartService)
	ordersHandler := rest.NewOrdersHandler(ordersService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.ContextTimeout(cfg.Server.RequestTimeout))

	authRequired := middleware.AuthMiddleware(userService, cfg.Cookie.Name)

	// Setup routes
	router.SetupSystemRoutes(e)

	api := e.Group("/api")
	router.SetupAuthRoutes(api, userHandler, authRequired)
	router.SetupCartRoutes(api, cartHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, categoryHandler, authRequired)
	router.SetOrdersRoutes(api, ordersHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
