package queries

import (
	"strings"
	"testing"
)

func TestRecordsFromPagePrefersResultsKey(t *testing.T) {
	payload := map[string]any{
		"results": []any{map[string]any{"id": float64(1)}},
		"leaks":   []any{map[string]any{"id": float64(2)}, map[string]any{"id": float64(3)}},
	}
	records := recordsFromPage(payload)
	if len(records) != 1 {
		t.Fatalf("expected the results list, got %d records", len(records))
	}
}

func TestRecordsFromPageFallsBackThroughKeys(t *testing.T) {
	payload := map[string]any{
		"total": float64(2),
		"leaks": []any{map[string]any{"id": float64(2)}, "not-a-record"},
	}
	records := recordsFromPage(payload)
	if len(records) != 1 {
		t.Fatalf("expected 1 record after skipping non-objects, got %d", len(records))
	}

	if got := recordsFromPage(map[string]any{"total": float64(0)}); got != nil {
		t.Fatalf("expected nil for payload without a result list, got %v", got)
	}
}

func TestFindingFromRecordPromotesIdentity(t *testing.T) {
	record := map[string]any{
		"id":       float64(1234),
		"username": "user@example.org",
		"origin":   "collection-1",
		"password": "hunter2",
	}
	f := findingFromRecord(record)

	if f.ID != "leak:1234" || f.LeakID != 1234 {
		t.Fatalf("unexpected identity: %+v", f)
	}
	if f.Username != "user@example.org" || f.Origin != "collection-1" {
		t.Fatalf("unexpected promoted fields: %+v", f)
	}
	if f.Raw["password"] != "hunter2" {
		t.Fatalf("raw record should ride along untouched")
	}
}

func TestFindingIDFallsBackToContentHash(t *testing.T) {
	record := map[string]any{"username": "user@example.org", "url": "https://login.example.org"}
	f := findingFromRecord(record)

	if !strings.HasPrefix(f.ID, "hash:") {
		t.Fatalf("expected hash identity, got %q", f.ID)
	}
	if f.LeakID != 0 {
		t.Fatalf("expected no leak id, got %d", f.LeakID)
	}

	// Same content hashes identically, different content does not.
	same := findingFromRecord(map[string]any{"url": "https://login.example.org", "username": "user@example.org"})
	if same.ID != f.ID {
		t.Fatalf("hash should be stable across key order: %q vs %q", same.ID, f.ID)
	}
	other := findingFromRecord(map[string]any{"username": "user@example.org", "url": "https://admin.example.org"})
	if other.ID == f.ID {
		t.Fatalf("different records must not collide")
	}
}

func TestInt64FieldTolerantForms(t *testing.T) {
	if got := int64Field(map[string]any{"id": float64(42)}, "id"); got != 42 {
		t.Fatalf("float64 form: got %d", got)
	}
	if got := int64Field(map[string]any{"leak_id": "99"}, "id", "leak_id"); got != 99 {
		t.Fatalf("string form via fallback key: got %d", got)
	}
	if got := int64Field(map[string]any{"id": "n/a"}, "id"); got != 0 {
		t.Fatalf("unparseable form should yield 0, got %d", got)
	}
}
