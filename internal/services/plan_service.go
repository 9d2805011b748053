package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/models"
	"hisab/internal/schedule"
)

// planService handles EMI plan business logic: plan storage, payment
// confirmations, and the consolidated views derived from the reconciled
// schedule.
type planService struct {
	db *gorm.DB
}

// NewPlanService creates a new PlanServicer.
func NewPlanService(db *gorm.DB) PlanServicer {
	return &planService{db: db}
}

// CreatePlan validates and stores a new EMI plan. The monthly payment is
// computed here, once, and stored with the plan. A plan with the same note
// and start date as an existing one is rejected.
func (s *planService) CreatePlan(startDate time.Time, amount decimal.Decimal, durationMonths int, note string) (*models.Plan, error) {
	if durationMonths < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "duration_months must be at least 1")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	startDate = dates.Normalize(startDate)

	// (note, start_date) is a soft uniqueness key: exact string match,
	// empty note included.
	var existing models.Plan
	err := s.db.Where("note = ? AND start_date = ?", note, startDate).First(&existing).Error
	if err == nil {
		return nil, apperrors.ErrDuplicatePlan
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	plan := &models.Plan{
		StartDate:      startDate,
		Amount:         amount,
		DurationMonths: durationMonths,
		MonthlyPayment: amount.Div(decimal.NewFromInt(int64(durationMonths))).Round(2),
		Note:           note,
	}
	if err := s.db.Create(plan).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plan, nil
}

// GetPlanByID returns a plan by ID.
func (s *planService) GetPlanByID(planID uint) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// GetPlanSummaries returns the consolidated per-plan view for all plans,
// ordered by plan ID. Payment state is read with one bulk lookup per plan.
func (s *planService) GetPlanSummaries() ([]PlanSummary, error) {
	var plans []models.Plan
	if err := s.db.Order("id").Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]PlanSummary, 0, len(plans))
	for i := range plans {
		plan := &plans[i]

		paidDates, err := s.paymentDates(plan.ID)
		if err != nil {
			return nil, err
		}
		occurrences := schedule.Reconcile(schedule.Generate(plan), schedule.PaidSet(paidDates))

		totalPaid := 0
		for _, occ := range occurrences {
			if occ.Paid {
				totalPaid++
			}
		}

		summaries = append(summaries, PlanSummary{
			ID:             plan.ID,
			StartDate:      dates.Format(plan.StartDate),
			Amount:         plan.Amount,
			DurationMonths: plan.DurationMonths,
			MonthlyPayment: plan.MonthlyPayment,
			Note:           plan.Note,
			LastDueDate:    dates.Format(occurrences[len(occurrences)-1].DueDate),
			TotalPaid:      totalPaid,
			TotalPayments:  plan.DurationMonths,
		})
	}
	return summaries, nil
}

// DeletePlan removes a plan and all its payment records in one transaction.
// The plan exclusively owns its payment records, so the cascade is explicit
// rather than left to a database rule.
func (s *planService) DeletePlan(planID uint) error {
	plan, err := s.GetPlanByID(planID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PaymentRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(plan).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RecordPayment confirms the installment due on dueDate as paid. The call is
// idempotent: the insert hits the (plan_id, due_date) unique index with DO
// NOTHING, so repeated or concurrent confirmations converge on exactly one
// row and never fail.
func (s *planService) RecordPayment(planID uint, dueDate time.Time) error {
	plan, err := s.GetPlanByID(planID)
	if err != nil {
		return err
	}

	dueDate = dates.Normalize(dueDate)
	if !onSchedule(plan, dueDate) {
		return apperrors.WithMessage(apperrors.ErrDateNotScheduled,
			fmt.Sprintf("%s is not a due date of plan %d", dates.Format(dueDate), plan.ID))
	}

	record := &models.PaymentRecord{
		PlanID:  plan.ID,
		DueDate: dueDate,
		Paid:    true,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plan_id"}, {Name: "due_date"}},
		DoNothing: true,
	}).Create(record).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListPaymentDates returns the confirmed due dates for a plan as one bulk
// read. A plan with no records, including one that was just deleted, yields
// an empty list rather than an error.
func (s *planService) ListPaymentDates(planID uint) ([]time.Time, error) {
	return s.paymentDates(planID)
}

// UpcomingPayments returns unpaid occurrences across all plans due on or
// after today, ascending by due date with plan ID as the tiebreak. The
// reference date is injected by the caller so the view is testable against
// a fixed clock.
func (s *planService) UpcomingPayments(today time.Time) ([]UpcomingPayment, error) {
	var plans []models.Plan
	if err := s.db.Order("id").Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	notes := make(map[uint]string, len(plans))
	var occurrences []schedule.Occurrence
	for i := range plans {
		plan := &plans[i]
		notes[plan.ID] = plan.Note

		paidDates, err := s.paymentDates(plan.ID)
		if err != nil {
			return nil, err
		}
		occurrences = append(occurrences,
			schedule.Reconcile(schedule.Generate(plan), schedule.PaidSet(paidDates))...)
	}

	upcoming := schedule.Upcoming(occurrences, today)
	payments := make([]UpcomingPayment, 0, len(upcoming))
	for _, occ := range upcoming {
		payments = append(payments, UpcomingPayment{
			PlanID:   occ.PlanID,
			PlanNote: notes[occ.PlanID],
			Sequence: occ.Sequence,
			DueDate:  dates.Format(occ.DueDate),
			Amount:   occ.Amount,
		})
	}
	return payments, nil
}

// paymentDates is the bulk payment-state read used by every derived view.
func (s *planService) paymentDates(planID uint) ([]time.Time, error) {
	var dueDates []time.Time
	err := s.db.Model(&models.PaymentRecord{}).
		Where("plan_id = ?", planID).
		Order("due_date").
		Pluck("due_date", &dueDates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return dueDates, nil
}

// onSchedule reports whether dueDate is one of the plan's occurrence dates.
func onSchedule(plan *models.Plan, dueDate time.Time) bool {
	for _, occ := range schedule.Generate(plan) {
		if occ.DueDate.Equal(dueDate) {
			return true
		}
	}
	return false
}
