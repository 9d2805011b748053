package models

import "time"

// PaymentRecord confirms that one scheduled installment was paid. Absence of
// a record means unpaid; Paid is always true when a row exists. Rows are
// uniquely keyed by (plan_id, due_date) and hard-deleted together with their
// owning plan.
type PaymentRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlanID    uint      `gorm:"not null;uniqueIndex:idx_payment_plan_due" json:"plan_id"`
	DueDate   time.Time `gorm:"type:date;not null;uniqueIndex:idx_payment_plan_due" json:"-"`
	Paid      bool      `gorm:"not null;default:true" json:"paid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
