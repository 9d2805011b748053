package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/logger"
	"hisab/internal/services"
)

// ErrorResponse is the JSON error envelope documented in the API.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parseRecordFilter reads the optional date / year / month query parameters
// shared by expense, earning, and diary listings. A month filter is only
// meaningful together with a year.
func parseRecordFilter(c *gin.Context) (services.RecordFilter, error) {
	var filter services.RecordFilter

	if v := c.Query("date"); v != "" {
		d, err := dates.Parse(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
		}
		filter.Date = &d
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1 {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be a positive integer")
		}
		filter.Year = &year
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		if filter.Year == nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "month filter requires year")
		}
		month := time.Month(m)
		filter.Month = &month
	}
	return filter, nil
}

// parsePeriod reads year and month query parameters for summary endpoints,
// defaulting both to the current date.
func parsePeriod(c *gin.Context, now time.Time) (int, time.Month, error) {
	year := now.Year()
	month := now.Month()

	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be a positive integer")
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
