package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/services"
)

// PlanHandler handles EMI plan requests.
type PlanHandler struct {
	planService services.PlanServicer
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService services.PlanServicer) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlanRequest represents the request payload for creating an EMI plan.
type CreatePlanRequest struct {
	StartDate      string          `json:"start_date" binding:"required,dateonly"`
	Amount         decimal.Decimal `json:"amount"`
	DurationMonths int             `json:"duration_months" binding:"required,min=1"`
	Note           string          `json:"note" binding:"max=255"`
}

// RecordPaymentRequest represents the request payload for confirming an
// installment as paid.
type RecordPaymentRequest struct {
	DueDate string `json:"due_date" binding:"required,dateonly"`
}

// PlanResponse is the boundary representation of a stored plan.
type PlanResponse struct {
	ID             uint            `json:"id"`
	StartDate      string          `json:"start_date"`
	Amount         decimal.Decimal `json:"amount"`
	DurationMonths int             `json:"duration_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Note           string          `json:"note"`
}

// CreatePlan handles the creation of a new EMI plan.
// @Summary     Create an EMI plan
// @Description Create a new installment plan; the monthly payment is derived once and stored
// @Tags        plans
// @Accept      json
// @Produce     json
// @Param       request body CreatePlanRequest true "Plan details"
// @Success     201 {object} PlanResponse "Plan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate note and start date"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := dates.Parse(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date must be YYYY-MM-DD"))
		return
	}

	plan, err := h.planService.CreatePlan(startDate, req.Amount, req.DurationMonths, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": PlanResponse{
		ID:             plan.ID,
		StartDate:      dates.Format(plan.StartDate),
		Amount:         plan.Amount,
		DurationMonths: plan.DurationMonths,
		MonthlyPayment: plan.MonthlyPayment,
		Note:           plan.Note,
	}})
}

// GetPlans handles listing consolidated plan summaries.
// @Summary     List plan summaries
// @Description Per-plan paid/total counts and last due date, derived from the reconciled schedule
// @Tags        plans
// @Produce     json
// @Success     200 {object} map[string][]services.PlanSummary "Plan summaries"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans [get]
func (h *PlanHandler) GetPlans(c *gin.Context) {
	summaries, err := h.planService.GetPlanSummaries()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": summaries})
}

// DeletePlan handles deleting a plan and its payment records.
// @Summary     Delete a plan
// @Description Delete a plan; its payment records are removed in the same transaction
// @Tags        plans
// @Produce     json
// @Param       id path int true "Plan ID"
// @Success     200 {object} MessageResponse "Plan deleted"
// @Failure     400 {object} ErrorResponse "Invalid plan ID"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.planService.DeletePlan(planID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}

// RecordPayment handles confirming an installment as paid.
// @Summary     Record a payment
// @Description Mark the installment due on the given date as paid; repeated confirmations are no-ops
// @Tags        plans
// @Accept      json
// @Produce     json
// @Param       id      path int                   true "Plan ID"
// @Param       request body RecordPaymentRequest true "Due date"
// @Success     200 {object} MessageResponse "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or off-schedule date"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id}/payments [post]
func (h *PlanHandler) RecordPayment(c *gin.Context) {
	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := dates.Parse(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "due_date must be YYYY-MM-DD"))
		return
	}

	if err := h.planService.RecordPayment(planID, dueDate); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}

// GetPaymentDates handles listing the confirmed due dates of a plan.
// @Summary     List confirmed payment dates
// @Tags        plans
// @Produce     json
// @Param       id path int true "Plan ID"
// @Success     200 {object} map[string]interface{} "Confirmed due dates"
// @Failure     400 {object} ErrorResponse "Invalid plan ID"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id}/payments [get]
func (h *PlanHandler) GetPaymentDates(c *gin.Context) {
	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	dueDates, err := h.planService.ListPaymentDates(planID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	formatted := make([]string, 0, len(dueDates))
	for _, d := range dueDates {
		formatted = append(formatted, dates.Format(d))
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": planID, "due_dates": formatted})
}

// GetUpcomingPayments handles the cross-plan upcoming unpaid list.
// @Summary     List upcoming payments
// @Description Unpaid installments across all plans due on or after today, ascending by due date
// @Tags        plans
// @Produce     json
// @Param       today query string false "Reference date (YYYY-MM-DD); defaults to the current date"
// @Success     200 {object} map[string]interface{} "Upcoming payments"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/upcoming [get]
func (h *PlanHandler) GetUpcomingPayments(c *gin.Context) {
	today := time.Now()
	if v := c.Query("today"); v != "" {
		parsed, err := dates.Parse(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "today must be YYYY-MM-DD"))
			return
		}
		today = parsed
	}

	payments, err := h.planService.UpcomingPayments(today)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"today": dates.Format(today), "payments": payments})
}
