package observability

import (
	"sync"
	"time"
)

type SystemStatus struct {
	mu            sync.RWMutex
	ActiveStreams int
	LastDocument  string
	LastHeartbeat time.Time
}

var globalStatus = &SystemStatus{
	LastHeartbeat: time.Now(),
}

// StreamStarted records a newly opened streaming connection.
func StreamStarted() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.ActiveStreams++
}

// StreamEnded records a closed streaming connection.
func StreamEnded() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	if globalStatus.ActiveStreams > 0 {
		globalStatus.ActiveStreams--
	}
}

// SetLastDocument records the identifier of the most recent plan target.
func SetLastDocument(documentID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.LastDocument = documentID
}

// GetStatus retrieves a copy of the global system status.
func GetStatus() (int, string, time.Time) {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.ActiveStreams, globalStatus.LastDocument, globalStatus.LastHeartbeat
}

// Heartbeat updates the last heartbeat time.
func Heartbeat() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.LastHeartbeat = time.Now()
}
