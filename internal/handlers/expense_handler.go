package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/models"
	"hisab/internal/pagination"
	"hisab/internal/services"
)

// ExpenseHandler handles expense requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
type CreateExpenseRequest struct {
	Date     string          `json:"date" binding:"required,dateonly"`
	Category string          `json:"category" binding:"required,min=1,max=80"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note" binding:"max=255"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	Category *string          `json:"category" binding:"omitempty,min=1,max=80"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     *string          `json:"note" binding:"omitempty,max=255"`
}

// ExpenseResponse is the boundary representation of an expense.
type ExpenseResponse struct {
	ID       uint            `json:"id"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Date:     dates.Format(e.Date),
		Category: e.Category,
		Amount:   e.Amount,
		Note:     e.Note,
	}
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} ExpenseResponse "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := dates.Parse(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD"))
		return
	}

	expense, err := h.expenseService.CreateExpense(date, req.Category, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": toExpenseResponse(expense)})
}

// GetExpenses handles listing expenses with optional filters.
// @Summary     List expenses
// @Tags        expenses
// @Produce     json
// @Param       date      query string false "Exact date (YYYY-MM-DD)"
// @Param       year      query int    false "Filter by year"
// @Param       month     query int    false "Filter by month (requires year)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[ExpenseResponse] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseRecordFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetExpenses(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]ExpenseResponse, 0, len(result.Data))
	for i := range result.Data {
		responses = append(responses, toExpenseResponse(&result.Data[i]))
	}
	c.JSON(http.StatusOK, pagination.NewPageResponse(responses, result.Page, result.PageSize, result.TotalItems))
}

// UpdateExpense handles updating an existing expense.
// @Summary     Update an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path int                  true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated fields"
// @Success     200 {object} ExpenseResponse "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(expenseID, req.Category, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": toExpenseResponse(expense)})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(expenseID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// GetMonthlySummary handles the per-category totals for one month.
// @Summary     Monthly expense summary
// @Description Per-category expense totals for a month; defaults to the current month
// @Tags        expenses
// @Produce     json
// @Param       year  query int false "Year"
// @Param       month query int false "Month (1-12)"
// @Success     200 {object} map[string]interface{} "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary/monthly [get]
func (h *ExpenseHandler) GetMonthlySummary(c *gin.Context) {
	year, month, err := parsePeriod(c, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.expenseService.SummaryByMonth(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": int(month), "totals": totals})
}

// GetYearlySummary handles the 12-month expense series for one year.
// @Summary     Yearly expense summary
// @Description Twelve monthly expense totals, index 0 = January; months with no records are 0
// @Tags        expenses
// @Produce     json
// @Param       year query int false "Year; defaults to the current year"
// @Success     200 {object} map[string]interface{} "Monthly series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary/yearly [get]
func (h *ExpenseHandler) GetYearlySummary(c *gin.Context) {
	year, _, err := parsePeriod(c, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.expenseService.SummaryByYear(year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "series": series})
}
