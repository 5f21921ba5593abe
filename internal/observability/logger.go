package observability

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeToolCall   EventType = "tool_call"
	EventTypeToolResult EventType = "tool_result"
	EventTypePlan       EventType = "plan"
	EventTypeStep       EventType = "step"
	EventTypeHeartbeat  EventType = "heartbeat"
	EventTypeHTTP       EventType = "http"
)

// Event represents a structured log entry.
type Event struct {
	Type       EventType `json:"type"`
	DocumentID string    `json:"document_id,omitempty"`
	Data       any       `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	opsLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return &Logger{
		opsLogPath: filepath.Join("logs", "ops.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to stdout.
func (l *Logger) Log(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Printf("{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Println(string(data))

	if evt.Type == EventTypeToolCall || evt.Type == EventTypeToolResult {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.opsLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.opsLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.opsLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.opsLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.opsLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogToolCall(documentID, tool string, params any) {
	l.Log(Event{
		Type:       EventTypeToolCall,
		DocumentID: documentID,
		Data: map[string]any{
			"tool":   tool,
			"params": params,
		},
	})
}

func (l *Logger) LogToolResult(documentID, tool string, success bool) {
	l.Log(Event{
		Type:       EventTypeToolResult,
		DocumentID: documentID,
		Data: map[string]any{
			"tool":    tool,
			"success": success,
		},
	})
}

func (l *Logger) LogPlan(documentID string, steps int) {
	l.Log(Event{
		Type:       EventTypePlan,
		DocumentID: documentID,
		Data:       map[string]any{"steps": steps},
	})
}

func (l *Logger) LogStep(documentID string, step, total int, label string) {
	l.Log(Event{
		Type:       EventTypeStep,
		DocumentID: documentID,
		Data: map[string]any{
			"step":  step,
			"total": total,
			"label": label,
		},
	})
}

func (l *Logger) LogHeartbeat() {
	l.Log(Event{
		Type: EventTypeHeartbeat,
		Data: map[string]string{"status": "alive"},
	})
}

func (l *Logger) LogHTTP(method, path string, status int, duration time.Duration) {
	l.Log(Event{
		Type: EventTypeHTTP,
		Data: map[string]any{
			"method":      method,
			"path":        path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
		},
	})
}
