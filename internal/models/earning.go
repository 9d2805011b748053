package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Earning represents income received on a calendar day
type Earning struct {
	Base
	Date     time.Time       `gorm:"type:date;not null;index" json:"-"`
	Category string          `gorm:"size:80;not null;index" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Note     string          `gorm:"size:255" json:"note"`
}
