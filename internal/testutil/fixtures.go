package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hisab/internal/crypto"
	"hisab/internal/dates"
	"hisab/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewTestKey generates a random base64 key for test ciphers. Production key
// material is never generated; this is test-only.
func NewTestKey(t *testing.T) string {
	t.Helper()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return base64.URLEncoding.EncodeToString(raw)
}

// NewTestCipher builds a cipher with a fresh random key.
func NewTestCipher(t *testing.T) *crypto.Cipher {
	t.Helper()

	cipher, err := crypto.NewCipher(NewTestKey(t))
	if err != nil {
		t.Fatalf("failed to create test cipher: %v", err)
	}
	return cipher
}

// Date builds a normalized calendar date for fixtures and assertions.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestExpense creates an expense on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, date time.Time, category string, amount string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Date:     dates.Normalize(date),
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Note:     fmt.Sprintf("Test expense %d", nextID()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestEarning creates an earning on the given date.
func CreateTestEarning(t *testing.T, db *gorm.DB, date time.Time, category string, amount string) *models.Earning {
	t.Helper()

	earning := &models.Earning{
		Date:     dates.Normalize(date),
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Note:     fmt.Sprintf("Test earning %d", nextID()),
	}
	if err := db.Create(earning).Error; err != nil {
		t.Fatalf("failed to create test earning: %v", err)
	}
	return earning
}

// CreateTestDiaryEntry creates a diary entry with content encrypted by the
// given cipher.
func CreateTestDiaryEntry(t *testing.T, db *gorm.DB, cipher *crypto.Cipher, date time.Time, content string) *models.DiaryEntry {
	t.Helper()

	enc, err := cipher.Encrypt(content)
	if err != nil {
		t.Fatalf("failed to encrypt test diary content: %v", err)
	}
	entry := &models.DiaryEntry{
		Date:       dates.Normalize(date),
		ContentEnc: enc,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test diary entry: %v", err)
	}
	return entry
}

// CreateTestPlan creates an EMI plan with a unique note and a stored monthly
// payment derived the same way the plan service derives it.
func CreateTestPlan(t *testing.T, db *gorm.DB, start time.Time, amount string, durationMonths int) *models.Plan {
	t.Helper()

	principal := decimal.RequireFromString(amount)
	plan := &models.Plan{
		StartDate:      dates.Normalize(start),
		Amount:         principal,
		DurationMonths: durationMonths,
		MonthlyPayment: principal.Div(decimal.NewFromInt(int64(durationMonths))).Round(2),
		Note:           fmt.Sprintf("Test plan %d", nextID()),
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

// CreateTestPaymentRecord confirms one installment of a plan as paid.
func CreateTestPaymentRecord(t *testing.T, db *gorm.DB, planID uint, dueDate time.Time) *models.PaymentRecord {
	t.Helper()

	record := &models.PaymentRecord{
		PlanID:  planID,
		DueDate: dates.Normalize(dueDate),
		Paid:    true,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test payment record: %v", err)
	}
	return record
}
