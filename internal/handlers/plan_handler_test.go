package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "hisab/internal/errors"
	"hisab/internal/models"
	"hisab/internal/services"
	"hisab/internal/validator"
)

// --- mock plan service ---

type mockPlanService struct {
	createPlanFn       func(startDate time.Time, amount decimal.Decimal, durationMonths int, note string) (*models.Plan, error)
	getPlanByIDFn      func(planID uint) (*models.Plan, error)
	getPlanSummariesFn func() ([]services.PlanSummary, error)
	deletePlanFn       func(planID uint) error
	recordPaymentFn    func(planID uint, dueDate time.Time) error
	listPaymentDatesFn func(planID uint) ([]time.Time, error)
	upcomingPaymentsFn func(today time.Time) ([]services.UpcomingPayment, error)
}

func (m *mockPlanService) CreatePlan(startDate time.Time, amount decimal.Decimal, durationMonths int, note string) (*models.Plan, error) {
	if m.createPlanFn != nil {
		return m.createPlanFn(startDate, amount, durationMonths, note)
	}
	return &models.Plan{}, nil
}

func (m *mockPlanService) GetPlanByID(planID uint) (*models.Plan, error) {
	if m.getPlanByIDFn != nil {
		return m.getPlanByIDFn(planID)
	}
	return &models.Plan{}, nil
}

func (m *mockPlanService) GetPlanSummaries() ([]services.PlanSummary, error) {
	if m.getPlanSummariesFn != nil {
		return m.getPlanSummariesFn()
	}
	return []services.PlanSummary{}, nil
}

func (m *mockPlanService) DeletePlan(planID uint) error {
	if m.deletePlanFn != nil {
		return m.deletePlanFn(planID)
	}
	return nil
}

func (m *mockPlanService) RecordPayment(planID uint, dueDate time.Time) error {
	if m.recordPaymentFn != nil {
		return m.recordPaymentFn(planID, dueDate)
	}
	return nil
}

func (m *mockPlanService) ListPaymentDates(planID uint) ([]time.Time, error) {
	if m.listPaymentDatesFn != nil {
		return m.listPaymentDatesFn(planID)
	}
	return []time.Time{}, nil
}

func (m *mockPlanService) UpcomingPayments(today time.Time) ([]services.UpcomingPayment, error) {
	if m.upcomingPaymentsFn != nil {
		return m.upcomingPaymentsFn(today)
	}
	return []services.UpcomingPayment{}, nil
}

// verify interface compliance
var _ services.PlanServicer = (*mockPlanService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupPlanRouter(handler *PlanHandler) *gin.Engine {
	r := gin.New()
	r.POST("/plans", handler.CreatePlan)
	r.GET("/plans", handler.GetPlans)
	r.DELETE("/plans/:id", handler.DeletePlan)
	r.POST("/plans/:id/payments", handler.RecordPayment)
	r.GET("/plans/:id/payments", handler.GetPaymentDates)
	r.GET("/payments/upcoming", handler.GetUpcomingPayments)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestPlanHandler_CreatePlan(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		planSvc := &mockPlanService{
			createPlanFn: func(startDate time.Time, amount decimal.Decimal, durationMonths int, note string) (*models.Plan, error) {
				return &models.Plan{
					Base:           models.Base{ID: 1},
					StartDate:      startDate,
					Amount:         amount,
					DurationMonths: durationMonths,
					MonthlyPayment: amount.Div(decimal.NewFromInt(int64(durationMonths))).Round(2),
					Note:           note,
				}, nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "POST", "/plans",
			`{"start_date":"2024-01-31","amount":1200,"duration_months":12,"note":"laptop"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		plan := result["plan"].(map[string]interface{})
		if plan["start_date"] != "2024-01-31" {
			t.Errorf("expected start_date 2024-01-31, got %v", plan["start_date"])
		}
		if plan["monthly_payment"] != float64(100) {
			t.Errorf("expected monthly_payment 100, got %v", plan["monthly_payment"])
		}
	})

	t.Run("returns 400 for malformed date", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}))

		rec := doRequest(r, "POST", "/plans",
			`{"start_date":"31-01-2024","amount":1200,"duration_months":12}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 for zero duration", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}))

		rec := doRequest(r, "POST", "/plans",
			`{"start_date":"2024-01-31","amount":1200,"duration_months":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 for duplicate plan", func(t *testing.T) {
		planSvc := &mockPlanService{
			createPlanFn: func(time.Time, decimal.Decimal, int, string) (*models.Plan, error) {
				return nil, apperrors.ErrDuplicatePlan
			},
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "POST", "/plans",
			`{"start_date":"2024-01-31","amount":1200,"duration_months":12,"note":"laptop"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_PLAN")
	})
}

func TestPlanHandler_GetPlans(t *testing.T) {
	t.Run("returns summaries", func(t *testing.T) {
		planSvc := &mockPlanService{
			getPlanSummariesFn: func() ([]services.PlanSummary, error) {
				return []services.PlanSummary{{
					ID:             3,
					StartDate:      "2024-01-31",
					Amount:         decimal.RequireFromString("1200"),
					DurationMonths: 12,
					MonthlyPayment: decimal.RequireFromString("100"),
					Note:           "laptop",
					LastDueDate:    "2024-12-31",
					TotalPaid:      2,
					TotalPayments:  12,
				}}, nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "GET", "/plans", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		plans := result["plans"].([]interface{})
		if len(plans) != 1 {
			t.Fatalf("expected 1 plan, got %d", len(plans))
		}
		plan := plans[0].(map[string]interface{})
		if plan["total_paid"] != float64(2) || plan["total_payments"] != float64(12) {
			t.Errorf("unexpected counts: %v / %v", plan["total_paid"], plan["total_payments"])
		}
	})
}

func TestPlanHandler_RecordPayment(t *testing.T) {
	t.Run("returns 200 and passes parsed date", func(t *testing.T) {
		var gotPlanID uint
		var gotDue time.Time
		planSvc := &mockPlanService{
			recordPaymentFn: func(planID uint, dueDate time.Time) error {
				gotPlanID = planID
				gotDue = dueDate
				return nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "POST", "/plans/7/payments", `{"due_date":"2024-02-29"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPlanID != 7 {
			t.Errorf("expected plan ID 7, got %d", gotPlanID)
		}
		if gotDue.Format(time.DateOnly) != "2024-02-29" {
			t.Errorf("expected due date 2024-02-29, got %s", gotDue)
		}
	})

	t.Run("returns 404 for missing plan", func(t *testing.T) {
		planSvc := &mockPlanService{
			recordPaymentFn: func(uint, time.Time) error { return apperrors.ErrPlanNotFound },
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "POST", "/plans/99/payments", `{"due_date":"2024-02-29"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for off-schedule date", func(t *testing.T) {
		planSvc := &mockPlanService{
			recordPaymentFn: func(uint, time.Time) error { return apperrors.ErrDateNotScheduled },
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "POST", "/plans/7/payments", `{"due_date":"2024-02-15"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DATE_NOT_SCHEDULED")
	})

	t.Run("returns 400 for non-numeric plan ID", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}))

		rec := doRequest(r, "POST", "/plans/abc/payments", `{"due_date":"2024-02-29"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPlanHandler_GetPaymentDates(t *testing.T) {
	t.Run("returns formatted dates", func(t *testing.T) {
		planSvc := &mockPlanService{
			listPaymentDatesFn: func(planID uint) ([]time.Time, error) {
				return []time.Time{
					time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
					time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "GET", "/plans/7/payments", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		dueDates := result["due_dates"].([]interface{})
		if len(dueDates) != 2 || dueDates[1] != "2024-02-29" {
			t.Errorf("unexpected due dates: %v", dueDates)
		}
	})

	t.Run("returns empty list when plan has no payments", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}))

		rec := doRequest(r, "GET", "/plans/7/payments", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if dueDates := result["due_dates"].([]interface{}); len(dueDates) != 0 {
			t.Errorf("expected empty due dates, got %v", dueDates)
		}
	})
}

func TestPlanHandler_GetUpcomingPayments(t *testing.T) {
	t.Run("passes explicit reference date", func(t *testing.T) {
		var gotToday time.Time
		planSvc := &mockPlanService{
			upcomingPaymentsFn: func(today time.Time) ([]services.UpcomingPayment, error) {
				gotToday = today
				return []services.UpcomingPayment{{
					PlanID:   1,
					PlanNote: "laptop",
					Sequence: 3,
					DueDate:  "2024-03-31",
					Amount:   decimal.RequireFromString("100"),
				}}, nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "GET", "/payments/upcoming?today=2024-03-15", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotToday.Format(time.DateOnly) != "2024-03-15" {
			t.Errorf("expected reference date 2024-03-15, got %s", gotToday)
		}
		result := parseJSON(t, rec)
		payments := result["payments"].([]interface{})
		if len(payments) != 1 {
			t.Fatalf("expected 1 payment, got %d", len(payments))
		}
		payment := payments[0].(map[string]interface{})
		if payment["due_date"] != "2024-03-31" || payment["plan_note"] != "laptop" {
			t.Errorf("unexpected payment: %v", payment)
		}
	})

	t.Run("returns 400 for malformed reference date", func(t *testing.T) {
		r := setupPlanRouter(NewPlanHandler(&mockPlanService{}))

		rec := doRequest(r, "GET", "/payments/upcoming?today=tomorrow", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPlanHandler_DeletePlan(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotPlanID uint
		planSvc := &mockPlanService{
			deletePlanFn: func(planID uint) error {
				gotPlanID = planID
				return nil
			},
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "DELETE", "/plans/5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPlanID != 5 {
			t.Errorf("expected plan ID 5, got %d", gotPlanID)
		}
	})

	t.Run("returns 404 for missing plan", func(t *testing.T) {
		planSvc := &mockPlanService{
			deletePlanFn: func(uint) error { return apperrors.ErrPlanNotFound },
		}
		r := setupPlanRouter(NewPlanHandler(planSvc))

		rec := doRequest(r, "DELETE", "/plans/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
