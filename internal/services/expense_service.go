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

// expenseService handles expense business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense stores a new expense.
func (s *expenseService) CreateExpense(date time.Time, category string, amount decimal.Decimal, note string) (*models.Expense, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	expense := &models.Expense{
		Date:     dates.Normalize(date),
		Category: category,
		Amount:   amount,
		Note:     note,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenses returns a paginated list of expenses, newest first, with
// optional exact-date or year/month filters.
func (s *expenseService) GetExpenses(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := applyRecordFilter(s.db.Model(&models.Expense{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID.
func (s *expenseService) GetExpenseByID(expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates the provided fields of an existing expense.
func (s *expenseService) UpdateExpense(expenseID uint, category *string, amount *decimal.Decimal, note *string) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(expenseID)
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
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(expenseID uint) error {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SummaryByMonth totals one month's expenses per category. Months with no
// records yield an empty map.
func (s *expenseService) SummaryByMonth(year int, month time.Month) (map[string]decimal.Decimal, error) {
	start, end := dates.MonthWindow(year, month)

	var expenses []models.Expense
	err := s.db.Where("date >= ? AND date < ?", start, end).Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals, nil
}

// SummaryByYear totals one year's expenses per month: a fixed 12-element
// series, index 0 = January, with zero for months without records.
func (s *expenseService) SummaryByYear(year int) ([]decimal.Decimal, error) {
	start, end := dates.YearWindow(year)

	var expenses []models.Expense
	err := s.db.Where("date >= ? AND date < ?", start, end).Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	series := make([]decimal.Decimal, 12)
	for _, e := range expenses {
		m := int(e.Date.Month()) - 1
		series[m] = series[m].Add(e.Amount)
	}
	return series, nil
}

// applyRecordFilter narrows a query by exact date or by year/month window.
func applyRecordFilter(q *gorm.DB, filter RecordFilter) *gorm.DB {
	if filter.Date != nil {
		return q.Where("date = ?", dates.Normalize(*filter.Date))
	}
	if filter.Year != nil && filter.Month != nil {
		start, end := dates.MonthWindow(*filter.Year, *filter.Month)
		return q.Where("date >= ? AND date < ?", start, end)
	}
	if filter.Year != nil {
		start, end := dates.YearWindow(*filter.Year)
		return q.Where("date >= ? AND date < ?", start, end)
	}
	return q
}
