package integration

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hisab/internal/crypto"
	"hisab/internal/handlers"
	"hisab/internal/logger"
	"hisab/internal/middleware"
	"hisab/internal/models"
	"hisab/internal/services"
	"hisab/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Cipher *crypto.Cipher
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Expense{},
		&models.Earning{},
		&models.DiaryEntry{},
		&models.Plan{},
		&models.PaymentRecord{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestCipher(t *testing.T) *crypto.Cipher {
	t.Helper()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	cipher, err := crypto.NewCipher(base64.URLEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("failed to create test cipher: %v", err)
	}
	return cipher
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	cipher := newTestCipher(t)

	// Services
	expenseService := services.NewExpenseService(db)
	earningService := services.NewEarningService(db)
	diaryService := services.NewDiaryService(db, cipher)
	calendarService := services.NewCalendarService(db)
	planService := services.NewPlanService(db)

	// Handlers
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	earningHandler := handlers.NewEarningHandler(earningService)
	diaryHandler := handlers.NewDiaryHandler(diaryService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	planHandler := handlers.NewPlanHandler(planService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.GET("/summary/monthly", expenseHandler.GetMonthlySummary)
	expenses.GET("/summary/yearly", expenseHandler.GetYearlySummary)

	earnings := v1.Group("/earnings")
	earnings.POST("", earningHandler.CreateEarning)
	earnings.GET("", earningHandler.GetEarnings)
	earnings.PUT("/:id", earningHandler.UpdateEarning)
	earnings.DELETE("/:id", earningHandler.DeleteEarning)
	earnings.GET("/summary/monthly", earningHandler.GetMonthlySummary)
	earnings.GET("/summary/yearly", earningHandler.GetYearlySummary)

	diary := v1.Group("/diary")
	diary.POST("", diaryHandler.CreateEntry)
	diary.GET("", diaryHandler.GetEntries)
	diary.DELETE("/:id", diaryHandler.DeleteEntry)

	v1.GET("/calendar/daily_totals", calendarHandler.GetDailyTotals)

	plans := v1.Group("/plans")
	plans.POST("", planHandler.CreatePlan)
	plans.GET("", planHandler.GetPlans)
	plans.DELETE("/:id", planHandler.DeletePlan)
	plans.POST("/:id/payments", planHandler.RecordPayment)
	plans.GET("/:id/payments", planHandler.GetPaymentDates)

	v1.GET("/payments/upcoming", planHandler.GetUpcomingPayments)

	return &testApp{DB: db, Cipher: cipher, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}
