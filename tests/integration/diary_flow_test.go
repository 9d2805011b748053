package integration

import (
	"bytes"
	"net/http"
	"testing"

	"hisab/internal/models"
)

func TestDiaryLifecycle(t *testing.T) {
	app := setupApp(t)

	rec := app.request("POST", "/api/v1/diary", `{"date":"2024-05-10","content":"a private thought"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create diary entry failed: %d %s", rec.Code, rec.Body.String())
	}
	entry := parseJSON(t, rec)["entry"].(map[string]interface{})
	if entry["content"] != "a private thought" {
		t.Errorf("expected decrypted content in response, got %v", entry["content"])
	}

	// The stored row never contains the plaintext.
	var stored models.DiaryEntry
	if err := app.DB.First(&stored, "id = ?", uint(entry["id"].(float64))).Error; err != nil {
		t.Fatalf("failed to load stored entry: %v", err)
	}
	if bytes.Contains(stored.ContentEnc, []byte("a private thought")) {
		t.Error("expected content to be encrypted at rest")
	}

	// Listing decrypts transparently.
	rec = app.request("GET", "/api/v1/diary?date=2024-05-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list diary failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(data))
	}
	if data[0].(map[string]interface{})["content"] != "a private thought" {
		t.Errorf("unexpected listed entry: %v", data[0])
	}

	// Empty content is rejected before anything is stored.
	rec = app.request("POST", "/api/v1/diary", `{"date":"2024-05-10","content":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", rec.Code)
	}

	// Delete and confirm it is gone.
	rec = app.request("DELETE", "/api/v1/diary/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete diary entry failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/diary", "")
	if data := parseJSON(t, rec)["data"].([]interface{}); len(data) != 0 {
		t.Errorf("expected no entries after delete, got %v", data)
	}
}
