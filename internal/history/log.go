// Package history records every executed event-lifecycle transition to an
// append-only JSONL log, so a host can show what happened to an event and
// detect a tampered record. Each entry carries a digest of its own content
// and the digest of the entry before it; Verify walks that chain. No domain
// state lives here; the server remains the source of truth.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Genesis is the prev digest of the first entry in a new log.
const Genesis = "sha256:genesis"

// Log appends hash-chained transition entries to a JSONL file.
type Log struct {
	file *os.File
	prev string
	mu   sync.Mutex
}

// DefaultPath returns the default history log location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "convive-history.jsonl")
	}
	return filepath.Join(home, ".convive", "history.jsonl")
}

// Open opens (or creates) a history log for appending. An existing log is
// parsed to recover the chain tail, so a log that no longer parses refuses
// to open rather than silently forking the chain.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}

	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}
	prev := Genesis
	if n := len(entries); n > 0 {
		prev = entries[n-1].Sum
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("history: open file: %w", err)
	}
	return &Log{file: file, prev: prev}, nil
}

// Record seals the entry into the chain and appends it. At defaults to now;
// Prev and Sum are always overwritten. The line is synced before the new
// tail is adopted, so a crash mid-write cannot advance the chain past what
// is on disk.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	entry.Prev = l.prev
	entry.Sum = digest(entry)

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("history: marshal entry: %w", err)
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("history: write entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("history: sync: %w", err)
	}

	l.prev = entry.Sum
	return nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// List reads all entries in the log, oldest first. A missing log is empty,
// not an error.
func List(path string) ([]Entry, error) {
	return readEntries(path)
}

func readEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("history: read: %w", err)
	}

	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("history: parse line %d: %w", len(entries)+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
