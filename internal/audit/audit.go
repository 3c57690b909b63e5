// Package audit appends one JSON-lines record per completed site crawl
// to an append-only audit log file.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Entry is one audit record.
type Entry struct {
	Timestamp     time.Time `json:"timestamp"`
	JobID         string    `json:"jobId"`
	Host          string    `json:"host"`
	RecordsFound  int       `json:"recordsFound"`
	User          string    `json:"user"`
	Action        string    `json:"action"`
}

// Logger appends audit entries to a file, one JSON object per line.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (creating if needed) the audit log at path for appending.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &Logger{file: f}, nil
}

// RecordCrawl appends one crawl-completion entry.
func (l *Logger) RecordCrawl(jobID, host, user string, recordsFound int, now time.Time) error {
	entry := Entry{
		Timestamp:    now,
		JobID:        jobID,
		Host:         host,
		RecordsFound: recordsFound,
		User:         user,
		Action:       "crawl",
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err = l.file.Write(line)
	return err
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	return l.file.Close()
}
