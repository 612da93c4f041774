package analytics

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreAppendAndRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contributions.jsonl")
	store := NewStore(path)

	first := &Record{
		Repository:  "octocat/hello-world",
		Timestamp:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		CommitCount: 2,
		Hashes:      []string{"abc", "def"},
		Files:       []string{"contribution_20260310_120000.md"},
		Strategy:    "template",
	}
	second := &Record{
		Repository:  "octocat/spoon-knife",
		Timestamp:   time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		CommitCount: 1,
	}

	if err := store.Append(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := store.Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Repository != "octocat/hello-world" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[0].CommitCount != 2 || len(records[0].Hashes) != 2 {
		t.Errorf("record fields not preserved: %+v", records[0])
	}
	if !records[1].Timestamp.Equal(second.Timestamp) {
		t.Errorf("expected timestamp %v, got %v", second.Timestamp, records[1].Timestamp)
	}
}

func TestStoreMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist.jsonl"))

	records, err := store.Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestStoreSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contributions.jsonl")
	content := `{"repository":"octocat/hello-world","timestamp":"2026-03-10T12:00:00Z","commitCount":1}
this is not json
{"repository":"octocat/spoon-knife","timestamp":"2026-03-11T09:00:00Z","commitCount":2}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write store file: %v", err)
	}

	records, err := NewStore(path).Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(records))
	}
}

func TestLastContributions(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "contributions.jsonl"))

	earlier := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)

	store.Append(&Record{Repository: "octocat/hello-world", Timestamp: earlier, CommitCount: 1})
	store.Append(&Record{Repository: "octocat/hello-world", Timestamp: later, CommitCount: 1})
	store.Append(&Record{Repository: "octocat/spoon-knife", Timestamp: earlier, CommitCount: 1})

	last, err := store.LastContributions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !last["octocat/hello-world"].Equal(later) {
		t.Errorf("expected latest timestamp %v, got %v", later, last["octocat/hello-world"])
	}
	if !last["octocat/spoon-knife"].Equal(earlier) {
		t.Errorf("expected timestamp %v, got %v", earlier, last["octocat/spoon-knife"])
	}
}
