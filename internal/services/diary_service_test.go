package services

import (
	"testing"
	"time"

	"hisab/internal/models"
	"hisab/internal/pagination"
	"hisab/internal/testutil"
)

func TestCreateEntry(t *testing.T) {
	t.Run("content_encrypted_at_rest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cipher := testutil.NewTestCipher(t)
		svc := NewDiaryService(db, cipher)

		view, err := svc.CreateEntry(testutil.Date(2024, time.May, 3), "rode the new cycle route")
		testutil.AssertNoError(t, err)

		if view.Content != "rode the new cycle route" {
			t.Errorf("expected view to echo plaintext, got %q", view.Content)
		}

		var stored models.DiaryEntry
		if err := db.First(&stored, view.ID).Error; err != nil {
			t.Fatalf("failed to load stored entry: %v", err)
		}
		if string(stored.ContentEnc) == "rode the new cycle route" {
			t.Error("expected stored content to be ciphertext, found plaintext")
		}
	})

	t.Run("empty_content_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDiaryService(db, testutil.NewTestCipher(t))

		_, err := svc.CreateEntry(testutil.Date(2024, time.May, 3), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetEntries(t *testing.T) {
	t.Run("decrypts_round_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cipher := testutil.NewTestCipher(t)
		svc := NewDiaryService(db, cipher)
		testutil.CreateTestDiaryEntry(t, db, cipher, testutil.Date(2024, time.May, 1), "first")
		testutil.CreateTestDiaryEntry(t, db, cipher, testutil.Date(2024, time.May, 2), "second")

		result, err := svc.GetEntries(pagination.PageRequest{}, RecordFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Fatalf("expected 2 entries, got %d", result.TotalItems)
		}
		// Newest first.
		if result.Data[0].Content != "second" || result.Data[1].Content != "first" {
			t.Errorf("unexpected contents: %q, %q", result.Data[0].Content, result.Data[1].Content)
		}
	})

	t.Run("unreadable_entry_degrades_to_placeholder", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cipher := testutil.NewTestCipher(t)
		svc := NewDiaryService(db, cipher)

		// One good entry and one sealed under a different key.
		testutil.CreateTestDiaryEntry(t, db, cipher, testutil.Date(2024, time.May, 1), "readable")
		otherCipher := testutil.NewTestCipher(t)
		testutil.CreateTestDiaryEntry(t, db, otherCipher, testutil.Date(2024, time.May, 2), "sealed elsewhere")

		result, err := svc.GetEntries(pagination.PageRequest{}, RecordFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Fatalf("expected both entries listed, got %d", result.TotalItems)
		}
		if result.Data[0].Content != DecryptionPlaceholder {
			t.Errorf("expected placeholder for unreadable entry, got %q", result.Data[0].Content)
		}
		if result.Data[1].Content != "readable" {
			t.Errorf("expected readable entry intact, got %q", result.Data[1].Content)
		}
	})

	t.Run("filter_by_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cipher := testutil.NewTestCipher(t)
		svc := NewDiaryService(db, cipher)
		testutil.CreateTestDiaryEntry(t, db, cipher, testutil.Date(2024, time.May, 1), "first")
		testutil.CreateTestDiaryEntry(t, db, cipher, testutil.Date(2024, time.May, 2), "second")

		d := testutil.Date(2024, time.May, 1)
		result, err := svc.GetEntries(pagination.PageRequest{}, RecordFilter{Date: &d})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 || result.Data[0].Content != "first" {
			t.Errorf("expected only the first entry, got %+v", result.Data)
		}
	})
}

func TestDeleteEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cipher := testutil.NewTestCipher(t)
		svc := NewDiaryService(db, cipher)
		entry := testutil.CreateTestDiaryEntry(t, db, cipher, testutil.Date(2024, time.May, 1), "gone soon")

		testutil.AssertNoError(t, svc.DeleteEntry(entry.ID))

		result, err := svc.GetEntries(pagination.PageRequest{}, RecordFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no entries after delete, got %d", result.TotalItems)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDiaryService(db, testutil.NewTestCipher(t))

		err := svc.DeleteEntry(9999)
		testutil.AssertAppError(t, err, "DIARY_ENTRY_NOT_FOUND")
	})
}
