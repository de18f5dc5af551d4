package slackgw

import (
	"sync"
	"time"
)

// CallType identifies a Slack API call being tracked.
type CallType string

const (
	CallLookupIdentity CallType = "lookup_identity"
	CallOpenChannel    CallType = "open_channel"
	CallFetchHistory   CallType = "fetch_history"
	CallPostMessage    CallType = "post_message"
)

// Metrics tracks gateway call volume and failures for health reporting.
// Concurrent-safe.
type Metrics struct {
	mu sync.RWMutex

	calls     map[CallType]int64
	errors    map[CallType]int64
	lastCall  time.Time
	lastError time.Time
	lastErr   string
}

func NewMetrics() *Metrics {
	return &Metrics{
		calls:  make(map[CallType]int64),
		errors: make(map[CallType]int64),
	}
}

func (m *Metrics) Record(call CallType) {
	m.mu.Lock()
	m.calls[call]++
	m.lastCall = time.Now()
	m.mu.Unlock()
}

func (m *Metrics) RecordError(call CallType, err error) {
	m.mu.Lock()
	m.errors[call]++
	m.lastError = time.Now()
	m.lastErr = err.Error()
	m.mu.Unlock()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Calls     map[CallType]int64 `json:"calls"`
	Errors    map[CallType]int64 `json:"errors"`
	LastCall  time.Time          `json:"last_call,omitzero"`
	LastError time.Time          `json:"last_error,omitzero"`
	LastErr   string             `json:"last_error_message,omitempty"`
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Calls:     make(map[CallType]int64, len(m.calls)),
		Errors:    make(map[CallType]int64, len(m.errors)),
		LastCall:  m.lastCall,
		LastError: m.lastError,
		LastErr:   m.lastErr,
	}
	for k, v := range m.calls {
		snap.Calls[k] = v
	}
	for k, v := range m.errors {
		snap.Errors[k] = v
	}
	return snap
}
