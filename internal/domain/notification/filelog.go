package notification

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileMailer appends one line per message to a log file. The mail worker
// uses it as the delivery sink.
type FileMailer struct {
	mu   sync.Mutex
	path string
}

func NewFileMailer(path string) *FileMailer {
	return &FileMailer{path: path}
}

func (m *FileMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	files := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		files = append(files, a.Filename)
	}
	line := fmt.Sprintf("[%s] Mail delivered | id=%s | from=%s | to=%s | subject=%q | attachments=%v\n",
		msg.CreatedAt.UTC().Format(time.RFC3339), msg.ID, msg.From, msg.To, msg.Subject, files)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
