package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan defines an EMI installment plan. MonthlyPayment is derived from
// Amount/DurationMonths exactly once at creation and stored, so summaries
// stay stable even if the rounding rule changes later.
type Plan struct {
	Base
	StartDate      time.Time       `gorm:"type:date;not null" json:"-"`
	Amount         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	DurationMonths int             `gorm:"not null" json:"duration_months"`
	MonthlyPayment decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"monthly_payment"`
	Note           string          `gorm:"size:255" json:"note"`

	// Relationships
	Payments []PaymentRecord `gorm:"foreignKey:PlanID" json:"payments,omitempty"`
}
