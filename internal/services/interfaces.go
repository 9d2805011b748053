package services

import (
	"time"

	"github.com/shopspring/decimal"

	"hisab/internal/models"
	"hisab/internal/pagination"
)

// RecordFilter holds optional date filters shared by expense, earning, and
// diary listings. Date takes precedence; Year and Month combine.
type RecordFilter struct {
	Date  *time.Time
	Year  *int
	Month *time.Month
}

// PlanSummary is the per-plan consolidated view: stored plan fields plus
// counts derived from the reconciled schedule.
type PlanSummary struct {
	ID             uint            `json:"id"`
	StartDate      string          `json:"start_date"`
	Amount         decimal.Decimal `json:"amount"`
	DurationMonths int             `json:"duration_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Note           string          `json:"note"`
	LastDueDate    string          `json:"last_due_date"`
	TotalPaid      int             `json:"total_paid"`
	TotalPayments  int             `json:"total_payments"`
}

// UpcomingPayment is one unpaid occurrence due on or after the reference
// date, across all plans.
type UpcomingPayment struct {
	PlanID   uint            `json:"plan_id"`
	PlanNote string          `json:"plan_note"`
	Sequence int             `json:"sequence"`
	DueDate  string          `json:"due_date"`
	Amount   decimal.Decimal `json:"amount"`
}

// PlanServicer defines the contract for EMI plan business logic.
type PlanServicer interface {
	CreatePlan(startDate time.Time, amount decimal.Decimal, durationMonths int, note string) (*models.Plan, error)
	GetPlanByID(planID uint) (*models.Plan, error)
	GetPlanSummaries() ([]PlanSummary, error)
	DeletePlan(planID uint) error
	RecordPayment(planID uint, dueDate time.Time) error
	ListPaymentDates(planID uint) ([]time.Time, error)
	UpcomingPayments(today time.Time) ([]UpcomingPayment, error)
}

// ExpenseServicer defines the contract for expense business logic.
type ExpenseServicer interface {
	CreateExpense(date time.Time, category string, amount decimal.Decimal, note string) (*models.Expense, error)
	GetExpenses(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(expenseID uint) (*models.Expense, error)
	UpdateExpense(expenseID uint, category *string, amount *decimal.Decimal, note *string) (*models.Expense, error)
	DeleteExpense(expenseID uint) error
	SummaryByMonth(year int, month time.Month) (map[string]decimal.Decimal, error)
	SummaryByYear(year int) ([]decimal.Decimal, error)
}

// EarningServicer defines the contract for earning business logic.
type EarningServicer interface {
	CreateEarning(date time.Time, category string, amount decimal.Decimal, note string) (*models.Earning, error)
	GetEarnings(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Earning], error)
	GetEarningByID(earningID uint) (*models.Earning, error)
	UpdateEarning(earningID uint, category *string, amount *decimal.Decimal, note *string) (*models.Earning, error)
	DeleteEarning(earningID uint) error
	SummaryByMonth(year int, month time.Month) (map[string]decimal.Decimal, error)
	SummaryByYear(year int) ([]decimal.Decimal, error)
}

// DiaryEntryView is a diary entry with its content decrypted for the caller.
type DiaryEntryView struct {
	ID      uint   `json:"id"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// DiaryServicer defines the contract for diary business logic.
type DiaryServicer interface {
	CreateEntry(date time.Time, content string) (*DiaryEntryView, error)
	GetEntries(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[DiaryEntryView], error)
	DeleteEntry(entryID uint) error
}

// CalendarDay aggregates one day of a month: total spend plus diary count.
type CalendarDay struct {
	Date          string          `json:"date"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	DiaryCount    int             `json:"diary_count"`
}

// CalendarServicer defines the contract for the month calendar view.
type CalendarServicer interface {
	DailyTotals(year int, month time.Month) ([]CalendarDay, error)
}
