package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"moneyguard/internal/handlers"
	"moneyguard/internal/middleware"
	"moneyguard/internal/wallet"
)

type routerDeps struct {
	registry *wallet.Registry
	rates    handlers.RatesProvider
	clock    handlers.Clock
	backend  string
}

func newRouter(deps routerDeps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(deps.registry)
	transactionHandler := handlers.NewTransactionHandler(deps.clock)
	categoryHandler := handlers.NewCategoryHandler()
	statisticsHandler := handlers.NewStatisticsHandler(deps.clock)
	currencyHandler := handlers.NewCurrencyHandler(deps.rates)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": deps.backend, "sessions": deps.registry.Len()})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)
	v1.GET("/currency", currencyHandler.GetRates)

	// Session routes
	protected := v1.Group("/")
	protected.Use(middleware.Session(deps.registry))

	protected.DELETE("/auth/sign-out", authHandler.SignOut)
	protected.GET("/auth/current", authHandler.Current)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/refresh", transactionHandler.RefreshTransactions)
	transactions.GET("/form", transactionHandler.NewTransactionForm)
	transactions.GET("/:id/form", transactionHandler.EditTransactionForm)
	transactions.PATCH("/:id", transactionHandler.PatchTransaction)
	transactions.PUT("/:id", transactionHandler.ReplaceTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.GET("/categories", categoryHandler.ListCategories)
	protected.GET("/balance", statisticsHandler.Balance)
	protected.GET("/statistics", statisticsHandler.Statistics)

	return router
}
