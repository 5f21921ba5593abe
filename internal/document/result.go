package document

import "fmt"

// Result is the outcome of a single document operation. Operations
// always return a Result, never a raised error: a handler that fails
// reports the failure here and the caller decides what to do with it.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

func Okf(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func Fail(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// With attaches a named data field and returns the updated Result,
// so fields can be chained onto Ok(...).
func (r Result) With(key string, value any) Result {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}
