package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/models"
	"hisab/internal/pagination"
)

// earningService handles earning business logic. It mirrors the expense
// service over the earnings table.
type earningService struct {
	db *gorm.DB
}

// NewEarningService creates a new EarningServicer.
func NewEarningService(db *gorm.DB) EarningServicer {
	return &earningService{db: db}
}

// CreateEarning stores a new earning.
func (s *earningService) CreateEarning(date time.Time, category string, amount decimal.Decimal, note string) (*models.Earning, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	earning := &models.Earning{
		Date:     dates.Normalize(date),
		Category: category,
		Amount:   amount,
		Note:     note,
	}
	if err := s.db.Create(earning).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return earning, nil
}

// GetEarnings returns a paginated list of earnings, newest first, with
// optional exact-date or year/month filters.
func (s *earningService) GetEarnings(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Earning], error) {
	page.Defaults()

	base := applyRecordFilter(s.db.Model(&models.Earning{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var earnings []models.Earning
	err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&earnings).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(earnings, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEarningByID returns an earning by ID.
func (s *earningService) GetEarningByID(earningID uint) (*models.Earning, error) {
	var earning models.Earning
	if err := s.db.First(&earning, earningID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEarningNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &earning, nil
}

// UpdateEarning updates the provided fields of an existing earning.
func (s *earningService) UpdateEarning(earningID uint, category *string, amount *decimal.Decimal, note *string) (*models.Earning, error) {
	earning, err := s.GetEarningByID(earningID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if category != nil {
		if *category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must not be empty")
		}
		updates["category"] = *category
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if note != nil {
		updates["note"] = *note
	}

	if len(updates) > 0 {
		if err := s.db.Model(earning).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return earning, nil
}

// DeleteEarning soft-deletes an earning.
func (s *earningService) DeleteEarning(earningID uint) error {
	earning, err := s.GetEarningByID(earningID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(earning).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SummaryByMonth totals one month's earnings per category.
func (s *earningService) SummaryByMonth(year int, month time.Month) (map[string]decimal.Decimal, error) {
	start, end := dates.MonthWindow(year, month)

	var earnings []models.Earning
	err := s.db.Where("date >= ? AND date < ?", start, end).Find(&earnings).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range earnings {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals, nil
}

// SummaryByYear totals one year's earnings per month as a fixed 12-element
// series, index 0 = January.
func (s *earningService) SummaryByYear(year int) ([]decimal.Decimal, error) {
	start, end := dates.YearWindow(year)

	var earnings []models.Earning
	err := s.db.Where("date >= ? AND date < ?", start, end).Find(&earnings).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	series := make([]decimal.Decimal, 12)
	for _, e := range earnings {
		m := int(e.Date.Month()) - 1
		series[m] = series[m].Add(e.Amount)
	}
	return series, nil
}
