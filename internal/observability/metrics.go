package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	gatewayCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		gatewayCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordGatewayCall tracks outbound ITSM call outcomes per operation.
func (m *Metrics) RecordGatewayCall(operation string, success bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !success {
		outcome = "failed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gatewayCount[operation+"|"+outcome]++
}

// GatewayCalls returns the counter for an operation and outcome.
func (m *Metrics) GatewayCalls(operation string, success bool) int64 {
	if m == nil {
		return 0
	}
	outcome := "ok"
	if !success {
		outcome = "failed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gatewayCount[operation+"|"+outcome]
}
