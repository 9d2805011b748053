package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hisab/internal/services"
)

// CalendarHandler handles the month calendar view.
type CalendarHandler struct {
	calendarService services.CalendarServicer
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService services.CalendarServicer) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// GetDailyTotals handles the per-day expense totals and diary counts for a month.
// @Summary     Calendar daily totals
// @Description Per-day expense totals and diary entry counts for a month, sorted by day
// @Tags        calendar
// @Produce     json
// @Param       year  query int false "Year; defaults to the current year"
// @Param       month query int false "Month (1-12); defaults to the current month"
// @Success     200 {object} map[string]interface{} "Daily totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /calendar/daily_totals [get]
func (h *CalendarHandler) GetDailyTotals(c *gin.Context) {
	year, month, err := parsePeriod(c, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, err := h.calendarService.DailyTotals(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": int(month), "days": days})
}
