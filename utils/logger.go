package utils

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents different log levels
type LogLevel string

const (
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

// LogEntry is one structured event in a run log.
type LogEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Level     LogLevel    `json:"level"`
	Event     string      `json:"event"`
	JobID     string      `json:"job_id,omitempty"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

// RunLog appends structured JSON lines to a per-run file so a batch can be
// audited after the fact: which jobs ran, what state they landed in, what
// went wrong. Console output stays on the standard logger; this file is the
// machine-readable trail.
type RunLog struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewRunLog creates (or truncates) the log file at path, creating parent
// directories as needed.
func NewRunLog(path string) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &RunLog{file: f, enc: json.NewEncoder(f)}, nil
}

// Info records an informational event.
func (r *RunLog) Info(event, jobID, message string, data ...interface{}) {
	r.write(INFO, event, jobID, message, data...)
}

// Warn records a recoverable problem.
func (r *RunLog) Warn(event, jobID, message string, data ...interface{}) {
	r.write(WARN, event, jobID, message, data...)
}

// Error records a failure.
func (r *RunLog) Error(event, jobID, message string, data ...interface{}) {
	r.write(ERROR, event, jobID, message, data...)
}

func (r *RunLog) write(level LogLevel, event, jobID, message string, data ...interface{}) {
	if r == nil {
		return
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Event:     event,
		JobID:     jobID,
		Message:   message,
	}
	if len(data) > 0 {
		entry.Data = data[0]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(entry); err != nil {
		log.Printf("Error writing run log entry: %v", err)
	}
}

// Close flushes and closes the log file.
func (r *RunLog) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
