package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/combatessentials/api/internal/config"
	"github.com/combatessentials/api/internal/handler"
	"github.com/combatessentials/api/internal/middleware"
	"github.com/combatessentials/api/internal/repository"
	"github.com/combatessentials/api/internal/service"
	"github.com/combatessentials/api/internal/upload"
	"github.com/combatessentials/api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Image store
	imageStore, err := upload.NewStore(cfg.Uploads.Dir, cfg.Uploads.BasePath)
	if err != nil {
		log.Error("init upload store", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	reviewRepo := repository.NewReviewRepository(dbPool)
	wishlistRepo := repository.NewWishlistRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Expiry:   cfg.JWT.Expiration,
	})
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, imageStore, redisClient)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, amqpCh)
	reviewSvc := service.NewReviewService(reviewRepo)
	wishlistSvc := service.NewWishlistService(wishlistRepo, productRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	productH := handler.NewProductHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)
	exportH := handler.NewExportHandler(productSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	fulfillmentWorker := worker.NewFulfillmentWorker(amqpCh, orderRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)
	router.Static(cfg.Uploads.BasePath, cfg.Uploads.Dir)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)
	adminOnly := middleware.AdminOnly()
	loginLimiter := middleware.RateLimiter(redisClient, 10, time.Minute)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", loginLimiter, authH.Register)
		auth.POST("/login", loginLimiter, authH.Login)
		auth.GET("/me", authRequired, authH.Me)
		auth.GET("/is-admin", authRequired, authH.IsAdmin)

		v1.GET("/categories", categoryH.List)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/random", productH.Random)
		products.GET("/:id", productH.GetByID)
		products.GET("/:id/reviews", reviewH.ListForProduct)
		products.GET("/:id/rating", reviewH.Rating)

		productAdmin := products.Group("", authRequired, adminOnly)
		productAdmin.POST("", productH.Create)
		productAdmin.PUT("/:id", productH.Update)
		productAdmin.DELETE("/:id", productH.Delete)
		productAdmin.POST("/:id/undelete", productH.Undelete)

		admin := v1.Group("/admin", authRequired, adminOnly)
		admin.GET("/products", productH.ListForAdmin)
		admin.GET("/products/export", exportH.Products)
		admin.GET("/orders", orderH.ListAll)
		admin.GET("/orders/:id", orderH.GetByID)
		admin.PUT("/orders/:id", orderH.Update)

		cart := v1.Group("/cart", authRequired)
		cart.GET("", cartH.GetItems)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:id", cartH.UpdateItem)
		cart.DELETE("/items/:id", cartH.RemoveItem)
		cart.DELETE("", cartH.Clear)

		orders := v1.Group("/orders")
		orders.POST("", middleware.OptionalAuth(cfg.JWT.Secret), orderH.Create)
		orders.GET("", authRequired, orderH.ListMine)

		reviews := v1.Group("/reviews", authRequired)
		reviews.POST("", reviewH.Add)
		reviews.DELETE("/:id", reviewH.Delete)

		wishlist := v1.Group("/wishlist", authRequired)
		wishlist.GET("", wishlistH.List)
		wishlist.POST("", wishlistH.Add)
		wishlist.DELETE("/:id", wishlistH.Remove)
	}

	if err := fulfillmentWorker.Start(ctx); err != nil {
		log.Error("start fulfillment worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	fulfillmentWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
