package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/models"
)

// calendarService builds the month calendar view over expenses and diary
// entries. It is a pure read layer: nothing is mutated.
type calendarService struct {
	db *gorm.DB
}

// NewCalendarService creates a new CalendarServicer.
func NewCalendarService(db *gorm.DB) CalendarServicer {
	return &calendarService{db: db}
}

// DailyTotals merges per-day expense totals and diary entry counts for one
// month, sorted by day. Days present in either source appear in the result.
func (s *calendarService) DailyTotals(year int, month time.Month) ([]CalendarDay, error) {
	start, end := dates.MonthWindow(year, month)

	var expenses []models.Expense
	err := s.db.Where("date >= ? AND date < ?", start, end).Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.DiaryEntry
	err = s.db.Where("date >= ? AND date < ?", start, end).Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byDay := make(map[string]*CalendarDay)
	day := func(d time.Time) *CalendarDay {
		key := dates.Format(d)
		if c, ok := byDay[key]; ok {
			return c
		}
		c := &CalendarDay{Date: key}
		byDay[key] = c
		return c
	}

	for _, e := range expenses {
		c := day(e.Date)
		c.TotalExpenses = c.TotalExpenses.Add(e.Amount)
	}
	for _, entry := range entries {
		day(entry.Date).DiaryCount++
	}

	result := make([]CalendarDay, 0, len(byDay))
	for _, c := range byDay {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
