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

// EarningHandler handles earning requests.
type EarningHandler struct {
	earningService services.EarningServicer
}

// NewEarningHandler creates a new EarningHandler.
func NewEarningHandler(earningService services.EarningServicer) *EarningHandler {
	return &EarningHandler{earningService: earningService}
}

// CreateEarningRequest represents the request payload for creating an earning.
type CreateEarningRequest struct {
	Date     string          `json:"date" binding:"required,dateonly"`
	Category string          `json:"category" binding:"required,min=1,max=80"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note" binding:"max=255"`
}

// UpdateEarningRequest represents the request payload for updating an earning.
type UpdateEarningRequest struct {
	Category *string          `json:"category" binding:"omitempty,min=1,max=80"`
	Amount   *decimal.Decimal `json:"amount"`
	Note     *string          `json:"note" binding:"omitempty,max=255"`
}

// EarningResponse is the boundary representation of an earning.
type EarningResponse struct {
	ID       uint            `json:"id"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

func toEarningResponse(e *models.Earning) EarningResponse {
	return EarningResponse{
		ID:       e.ID,
		Date:     dates.Format(e.Date),
		Category: e.Category,
		Amount:   e.Amount,
		Note:     e.Note,
	}
}

// CreateEarning handles the creation of a new earning.
// @Summary     Create an earning
// @Tags        earnings
// @Accept      json
// @Produce     json
// @Param       request body CreateEarningRequest true "Earning details"
// @Success     201 {object} EarningResponse "Earning created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings [post]
func (h *EarningHandler) CreateEarning(c *gin.Context) {
	var req CreateEarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := dates.Parse(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD"))
		return
	}

	earning, err := h.earningService.CreateEarning(date, req.Category, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"earning": toEarningResponse(earning)})
}

// GetEarnings handles listing earnings with optional filters.
// @Summary     List earnings
// @Tags        earnings
// @Produce     json
// @Param       date      query string false "Exact date (YYYY-MM-DD)"
// @Param       year      query int    false "Filter by year"
// @Param       month     query int    false "Filter by month (requires year)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[EarningResponse] "Paginated earnings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings [get]
func (h *EarningHandler) GetEarnings(c *gin.Context) {
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

	result, err := h.earningService.GetEarnings(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]EarningResponse, 0, len(result.Data))
	for i := range result.Data {
		responses = append(responses, toEarningResponse(&result.Data[i]))
	}
	c.JSON(http.StatusOK, pagination.NewPageResponse(responses, result.Page, result.PageSize, result.TotalItems))
}

// UpdateEarning handles updating an existing earning.
// @Summary     Update an earning
// @Tags        earnings
// @Accept      json
// @Produce     json
// @Param       id      path int                  true "Earning ID"
// @Param       request body UpdateEarningRequest true "Updated fields"
// @Success     200 {object} EarningResponse "Updated earning"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Earning not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings/{id} [put]
func (h *EarningHandler) UpdateEarning(c *gin.Context) {
	earningID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	earning, err := h.earningService.UpdateEarning(earningID, req.Category, req.Amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earning": toEarningResponse(earning)})
}

// DeleteEarning handles deleting an earning.
// @Summary     Delete an earning
// @Tags        earnings
// @Produce     json
// @Param       id path int true "Earning ID"
// @Success     200 {object} MessageResponse "Earning deleted"
// @Failure     400 {object} ErrorResponse "Invalid earning ID"
// @Failure     404 {object} ErrorResponse "Earning not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings/{id} [delete]
func (h *EarningHandler) DeleteEarning(c *gin.Context) {
	earningID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.earningService.DeleteEarning(earningID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Earning deleted"})
}

// GetMonthlySummary handles the per-category totals for one month.
// @Summary     Monthly earning summary
// @Tags        earnings
// @Produce     json
// @Param       year  query int false "Year"
// @Param       month query int false "Month (1-12)"
// @Success     200 {object} map[string]interface{} "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings/summary/monthly [get]
func (h *EarningHandler) GetMonthlySummary(c *gin.Context) {
	year, month, err := parsePeriod(c, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.earningService.SummaryByMonth(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": int(month), "totals": totals})
}

// GetYearlySummary handles the 12-month earning series for one year.
// @Summary     Yearly earning summary
// @Tags        earnings
// @Produce     json
// @Param       year query int false "Year; defaults to the current year"
// @Success     200 {object} map[string]interface{} "Monthly series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings/summary/yearly [get]
func (h *EarningHandler) GetYearlySummary(c *gin.Context) {
	year, _, err := parsePeriod(c, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.earningService.SummaryByYear(year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "series": series})
}
