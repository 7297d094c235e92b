package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anagroupsupplies/shop/config"
	"github.com/anagroupsupplies/shop/handler"
	"github.com/anagroupsupplies/shop/middleware"
	"github.com/anagroupsupplies/shop/repository"
	"github.com/anagroupsupplies/shop/services"
	"github.com/anagroupsupplies/shop/usecase"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxRequestBody = 1 << 20 // 1 MiB

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"REDIS_URL",
		"PORT",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
}

func setupRouter(client *mongo.Client, snapshots *services.SnapshotCache) (*gin.Engine, *usecase.StatsAggregator) {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimiter(maxRequestBody))

	// Repositories
	userRepo := repository.GetUserRepo(client)
	productRepo := repository.GetProductRepo(client)
	categoryRepo := repository.GetCategoryRepo(client)
	orderRepo := repository.GetOrderRepo(client)
	cartRepo := repository.GetCartRepo(client)
	wishlistRepo := repository.GetWishlistRepo(client)

	// Services
	userService := usecase.NewUserService(userRepo)
	productService := usecase.NewProductService(productRepo, categoryRepo)
	cartService := usecase.NewCartService(cartRepo, wishlistRepo)
	aggregator := usecase.NewStatsAggregator(userRepo, productRepo, categoryRepo, orderRepo, snapshots)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService, productService)
	orderHandler := handler.NewOrderHandler(orderRepo, cartService)
	statsHandler := handler.NewStatsHandler(aggregator)
	assistantHandler := handler.NewAssistantHandler(config.LoadAssistantConfig())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "cache": snapshots.IsConnected()})
	})

	// Public routes
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
		}

		catalog := public.Group("/products")
		catalog.Use(middleware.CacheControlMiddleware("60"))
		{
			catalog.GET("/", productHandler.ListProducts)
			catalog.GET("/:id", productHandler.GetProduct)
		}
		public.GET("/categories", middleware.CacheControlMiddleware("300"), productHandler.ListCategories)

		public.POST("/assistant", assistantHandler.HandlePrompt)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", userHandler.GetProfile)
			user.GET("/orders", orderHandler.GetMyOrders)
			user.POST("/orders", orderHandler.PlaceOrder)
		}

		cart := protected.Group("/cart")
		{
			cart.GET("/", cartHandler.GetCart)
			cart.POST("/", cartHandler.AddToCart)
			cart.DELETE("/:id", cartHandler.RemoveFromCart)
		}

		wishlist := protected.Group("/wishlist")
		{
			wishlist.GET("/", cartHandler.GetWishlist)
			wishlist.POST("/", cartHandler.AddToWishlist)
			wishlist.DELETE("/:id", cartHandler.RemoveFromWishlist)
			wishlist.POST("/move-to-cart", cartHandler.MoveToCart)
		}
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("/stats", statsHandler.GetDashboardStats)

		admin.GET("/users", userHandler.ListUsers)
		admin.PUT("/users/:id/role", userHandler.UpdateUserRole)

		admin.POST("/products", productHandler.CreateProduct)
		admin.POST("/categories", productHandler.CreateCategory)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	}

	return router, aggregator
}

func main() {
	dbConfig := config.LoadDatabaseConfig()
	client, err := config.ConnectMongo(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := repository.SetupIndexes(client.Database(dbConfig.DatabaseName)); err != nil {
		log.Printf("Warning: index setup failed: %v", err)
	}

	cacheConfig := config.LoadCacheConfig()
	snapshots, err := services.NewSnapshotCache(cacheConfig.RedisURL, cacheConfig.SnapshotTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer snapshots.Close()

	router, aggregator := setupRouter(client, snapshots)
	defer aggregator.Close()

	// Keep the dashboard warm while the process is up.
	aggregator.StartPolling(30 * time.Second)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
