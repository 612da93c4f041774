package analytics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Record is one persisted contribution: a repository, the commits created for
// it, and when they were made.
type Record struct {
	Repository  string    `json:"repository"`
	Timestamp   time.Time `json:"timestamp"`
	CommitCount int       `json:"commitCount"`
	Hashes      []string  `json:"hashes,omitempty"`
	Files       []string  `json:"files,omitempty"`
	Strategy    string    `json:"strategy,omitempty"`
}

// Store is an append-only JSON lines file of contribution records. Appends
// are serialized; the file is the durable source for scheduling state and
// reports across process restarts.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append persists one record.
func (s *Store) Append(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create analytics directory: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open analytics store: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	return nil
}

// Records reads all persisted records in append order. Malformed lines are
// skipped with a warning so one bad line never poisons the whole store.
func (s *Store) Records() ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open analytics store: %w", err)
	}
	defer file.Close()

	var records []*Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		record := &Record{}
		if err := json.Unmarshal(scanner.Bytes(), record); err != nil {
			log.Warn().
				Err(err).
				Str("path", s.path).
				Int("line", lineNumber).
				Msg("Skipping malformed analytics record")
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analytics store: %w", err)
	}

	return records, nil
}

// LastContributions returns the most recent contribution timestamp per
// repository.
func (s *Store) LastContributions() (map[string]time.Time, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}

	last := make(map[string]time.Time)
	for _, record := range records {
		if record.Timestamp.After(last[record.Repository]) {
			last[record.Repository] = record.Timestamp
		}
	}

	return last, nil
}
