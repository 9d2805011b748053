package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/pagination"
	"hisab/internal/services"
)

// DiaryHandler handles diary requests.
type DiaryHandler struct {
	diaryService services.DiaryServicer
}

// NewDiaryHandler creates a new DiaryHandler.
func NewDiaryHandler(diaryService services.DiaryServicer) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// CreateDiaryEntryRequest represents the request payload for a new entry.
type CreateDiaryEntryRequest struct {
	Date    string `json:"date" binding:"required,dateonly"`
	Content string `json:"content" binding:"required,min=1"`
}

// CreateEntry handles the creation of a new diary entry.
// @Summary     Create a diary entry
// @Description Encrypts the content before it is stored
// @Tags        diary
// @Accept      json
// @Produce     json
// @Param       request body CreateDiaryEntryRequest true "Entry details"
// @Success     201 {object} services.DiaryEntryView "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /diary [post]
func (h *DiaryHandler) CreateEntry(c *gin.Context) {
	var req CreateDiaryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := dates.Parse(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD"))
		return
	}

	entry, err := h.diaryService.CreateEntry(date, req.Content)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetEntries handles listing diary entries with optional filters.
// @Summary     List diary entries
// @Description Content is decrypted per entry; unreadable entries degrade to a placeholder
// @Tags        diary
// @Produce     json
// @Param       date      query string false "Exact date (YYYY-MM-DD)"
// @Param       year      query int    false "Filter by year"
// @Param       month     query int    false "Filter by month (requires year)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.DiaryEntryView] "Paginated entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /diary [get]
func (h *DiaryHandler) GetEntries(c *gin.Context) {
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

	result, err := h.diaryService.GetEntries(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteEntry handles deleting a diary entry.
// @Summary     Delete a diary entry
// @Tags        diary
// @Produce     json
// @Param       id path int true "Entry ID"
// @Success     200 {object} MessageResponse "Entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /diary/{id} [delete]
func (h *DiaryHandler) DeleteEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.diaryService.DeleteEntry(entryID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}
