// Package devlog keeps a local JSON record of contact submissions for
// development. It must never be enabled in production.
//
// The file is rewritten in full on every append. Writers inside one process
// are serialized, but two processes sharing a file will lose records: run a
// single writer only.
package devlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
)

const TimestampLayout = "2006-01-02 15:04:05"

// Record is one stored submission
type Record struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// FileLog appends records to a JSON array file.
type FileLog struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewFileLog(path string) *FileLog {
	return &FileLog{path: path, now: time.Now}
}

func (l *FileLog) Path() string {
	return l.path
}

// Append reads the array, adds s with the current timestamp and writes it back.
func (l *FileLog) Append(s domain.ContactSubmission) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("devlog: create dir: %w", err)
		}
	}

	records, err := l.read()
	if err != nil {
		return err
	}
	records = append(records, Record{
		Name:      s.Name,
		Email:     s.Email,
		Message:   s.Message,
		Timestamp: l.now().Format(TimestampLayout),
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("devlog: encode: %w", err)
	}
	if err := os.WriteFile(l.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("devlog: write: %w", err)
	}
	return nil
}

// ReadAll returns stored records in insertion order. A missing file is empty.
func (l *FileLog) ReadAll() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *FileLog) read() ([]Record, error) {
	raw, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("devlog: read: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("devlog: parse %s: %w", l.path, err)
	}
	return records, nil
}
