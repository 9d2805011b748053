// Package schedule derives the virtual installment schedule for an EMI plan
// and reconciles it against confirmed payments. Nothing here touches the
// database: occurrences are recomputed from the plan on every read, which
// keeps the schedule in step with the plan's parameters without any cache
// invalidation or migration concerns.
package schedule

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"hisab/internal/dates"
	"hisab/internal/models"
)

// Occurrence is one virtual scheduled installment. It is derived from a
// Plan, never persisted.
type Occurrence struct {
	PlanID   uint            `json:"plan_id"`
	Sequence int             `json:"sequence"`
	DueDate  time.Time       `json:"-"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     bool            `json:"paid"`
}

// AddMonths advances a date by n calendar months, preserving the day of
// month where possible and clamping to the last day of shorter months:
// Jan 31 + 1 month is Feb 28 (29 in leap years), not Mar 2. time.AddDate
// normalizes overflowing days into the next month, so it cannot be used
// directly.
func AddMonths(d time.Time, n int) time.Time {
	d = dates.Normalize(d)
	year, month, day := d.Date()

	// First day of the target month, then clamp the day.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// Generate materializes the full ordered schedule for a plan: one occurrence
// per month of the plan's duration, all initially unpaid. The result always
// has exactly plan.DurationMonths entries.
func Generate(plan *models.Plan) []Occurrence {
	occurrences := make([]Occurrence, 0, plan.DurationMonths)
	for i := 0; i < plan.DurationMonths; i++ {
		occurrences = append(occurrences, Occurrence{
			PlanID:   plan.ID,
			Sequence: i,
			DueDate:  AddMonths(plan.StartDate, i),
			Amount:   plan.MonthlyPayment,
		})
	}
	return occurrences
}

// DateKey normalizes a date for use as a paid-set key. Matching is exact
// calendar-date equality; there is no tolerance window.
func DateKey(t time.Time) time.Time {
	return dates.Normalize(t)
}

// Reconcile marks each occurrence paid when its due date appears in the
// paid set. The input slice is annotated in place and returned.
func Reconcile(occurrences []Occurrence, paid map[time.Time]bool) []Occurrence {
	for i := range occurrences {
		occurrences[i].Paid = paid[DateKey(occurrences[i].DueDate)]
	}
	return occurrences
}

// PaidSet builds a reconciliation set from a list of confirmed due dates.
func PaidSet(dueDates []time.Time) map[time.Time]bool {
	paid := make(map[time.Time]bool, len(dueDates))
	for _, d := range dueDates {
		paid[DateKey(d)] = true
	}
	return paid
}

// Upcoming filters out paid occurrences and those due strictly before today
// (today itself is included), then sorts ascending by due date. Same-day
// ties across plans break by plan ID, then sequence, so the result is
// deterministic.
func Upcoming(occurrences []Occurrence, today time.Time) []Occurrence {
	cutoff := dates.Normalize(today)

	upcoming := make([]Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		if occ.Paid || occ.DueDate.Before(cutoff) {
			continue
		}
		upcoming = append(upcoming, occ)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.PlanID != b.PlanID {
			return a.PlanID < b.PlanID
		}
		return a.Sequence < b.Sequence
	})
	return upcoming
}
