package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hisab/internal/config"
	"hisab/internal/crypto"
	"hisab/internal/database"
	"hisab/internal/handlers"
	"hisab/internal/logger"
	"hisab/internal/middleware"
	"hisab/internal/services"
	"hisab/internal/validator"

	_ "hisab/internal/docs" // Import swagger docs
)

// @title           Hisab API
// @version         1.0
// @description     Hisab is a personal finance and journal tracker: expenses, earnings, encrypted diary entries, and EMI installment plans with derived payment schedules.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration. The diary key is required here: a missing key is
	// a startup failure, never a silently generated replacement.
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cipher, err := crypto.NewCipher(appConfig.DiaryKey)
	if err != nil {
		return fmt.Errorf("failed to initialize diary cipher: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	expenseService := services.NewExpenseService(db)
	earningService := services.NewEarningService(db)
	diaryService := services.NewDiaryService(db, cipher)
	calendarService := services.NewCalendarService(db)
	planService := services.NewPlanService(db)

	// Initialize handlers
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	earningHandler := handlers.NewEarningHandler(earningService)
	diaryHandler := handlers.NewDiaryHandler(diaryService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	planHandler := handlers.NewPlanHandler(planService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Expense routes
	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.GET("/summary/monthly", expenseHandler.GetMonthlySummary)
	expenses.GET("/summary/yearly", expenseHandler.GetYearlySummary)

	// Earning routes
	earnings := v1.Group("/earnings")
	earnings.POST("", earningHandler.CreateEarning)
	earnings.GET("", earningHandler.GetEarnings)
	earnings.PUT("/:id", earningHandler.UpdateEarning)
	earnings.DELETE("/:id", earningHandler.DeleteEarning)
	earnings.GET("/summary/monthly", earningHandler.GetMonthlySummary)
	earnings.GET("/summary/yearly", earningHandler.GetYearlySummary)

	// Diary routes
	diary := v1.Group("/diary")
	diary.POST("", diaryHandler.CreateEntry)
	diary.GET("", diaryHandler.GetEntries)
	diary.DELETE("/:id", diaryHandler.DeleteEntry)

	// Calendar routes
	v1.GET("/calendar/daily_totals", calendarHandler.GetDailyTotals)

	// EMI plan routes
	plans := v1.Group("/plans")
	plans.POST("", planHandler.CreatePlan)
	plans.GET("", planHandler.GetPlans)
	plans.DELETE("/:id", planHandler.DeletePlan)
	plans.POST("/:id/payments", planHandler.RecordPayment)
	plans.GET("/:id/payments", planHandler.GetPaymentDates)

	// Cross-plan views
	v1.GET("/payments/upcoming", planHandler.GetUpcomingPayments)

	log.Infof("Starting Hisab backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
