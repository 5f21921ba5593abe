package agent

import (
	"fmt"
	"time"

	"github.com/rahul/quill/internal/document"
)

// Event types pushed to a streaming client.
const (
	EventConnected = "connected"
	EventTools     = "tools"
	EventStart     = "start"
	EventProgress  = "progress"
	EventResult    = "result"
	EventError     = "error"
	EventDone      = "done"
	EventHeartbeat = "heartbeat"
)

// Event is one frame of the push stream. Type is always set; the
// remaining fields depend on it and are omitted when empty.
type Event struct {
	Type    string   `json:"type"`
	Message string   `json:"message,omitempty"`
	Tools   []string `json:"tools,omitempty"`
	Tool    string   `json:"tool,omitempty"`
	Step    int      `json:"step,omitempty"`
	Label   string   `json:"label,omitempty"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Time    string   `json:"time,omitempty"`
}

// EventSink receives events in emission order. A Send error means the
// peer is gone and no further events should be attempted.
type EventSink interface {
	Send(Event) error
}

func Connected(message string) Event {
	return Event{Type: EventConnected, Message: message}
}

func ToolList(names []string) Event {
	return Event{Type: EventTools, Tools: names}
}

func Progress(step, total int, label string) Event {
	return Event{Type: EventProgress, Message: fmt.Sprintf("[%d/%d] %s", step, total, label)}
}

func StepStart(tool string, step int, label string) Event {
	return Event{Type: EventStart, Tool: tool, Step: step, Label: label}
}

func StepResult(tool string, step int, label string, res document.Result) Event {
	return Event{Type: EventResult, Tool: tool, Step: step, Label: label, Data: res}
}

func StepError(message string, step int) Event {
	return Event{Type: EventError, Error: message, Step: step}
}

func Done(filename, title string) Event {
	return Event{Type: EventDone, Data: map[string]string{"filename": filename, "title": title}}
}

func Heartbeat(t time.Time) Event {
	return Event{Type: EventHeartbeat, Time: t.Format(time.RFC3339)}
}
