/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics.go
Description: Usage metrics for QueryCollect. Counts generated rounds per operation,
recorded and failed guesses and served requests, and samples process resources
for the stats endpoint and self-check reports.
*/

package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ResourceMetrics is a sample of process resource usage
type ResourceMetrics struct {
	Timestamp   time.Time `json:"timestamp"`
	GoRoutines  int       `json:"go_routines"`
	HeapAlloc   uint64    `json:"heap_alloc"`   // Heap allocation
	HeapInuse   uint64    `json:"heap_inuse"`   // Heap in use
	HeapObjects uint64    `json:"heap_objects"` // Number of heap objects
	NumGC       uint32    `json:"num_gc"`
}

// OperationMetrics summarizes the rounds of one operation
type OperationMetrics struct {
	Rounds          int64         `json:"rounds"`
	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
	MaxDuration     time.Duration `json:"max_duration"`
}

// GlobalMetrics is a snapshot of everything collected so far
type GlobalMetrics struct {
	StartTime       time.Time                    `json:"start_time"`
	Uptime          time.Duration                `json:"uptime"`
	TotalRounds     int64                        `json:"total_rounds"`
	Operations      map[string]*OperationMetrics `json:"operations"`
	GuessesRecorded int64                        `json:"guesses_recorded"`
	GuessesFailed   int64                        `json:"guesses_failed"`
	Requests        int64                        `json:"requests"`
	ClientErrors    int64                        `json:"client_errors"`
	ServerErrors    int64                        `json:"server_errors"`
	Resources       ResourceMetrics              `json:"resources"`
}

// MetricsCollector accumulates usage metrics. Safe for concurrent use.
type MetricsCollector struct {
	startTime time.Time

	mu         sync.RWMutex
	operations map[string]*OperationMetrics

	rounds          int64
	guessesRecorded int64
	guessesFailed   int64
	requests        int64
	clientErrors    int64
	serverErrors    int64
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startTime:  time.Now(),
		operations: make(map[string]*OperationMetrics),
	}
}

// RecordGeneration records one generated round
func (mc *MetricsCollector) RecordGeneration(operation string, duration time.Duration) {
	atomic.AddInt64(&mc.rounds, 1)

	mc.mu.Lock()
	defer mc.mu.Unlock()

	m, ok := mc.operations[operation]
	if !ok {
		m = &OperationMetrics{}
		mc.operations[operation] = m
	}
	m.Rounds++
	m.TotalDuration += duration
	m.MaxDuration = max(m.MaxDuration, duration)
}

// RecordGuess records a guess that was stored or failed to store
func (mc *MetricsCollector) RecordGuess(stored bool) {
	if stored {
		atomic.AddInt64(&mc.guessesRecorded, 1)
	} else {
		atomic.AddInt64(&mc.guessesFailed, 1)
	}
}

// RecordRequest records one served request by status code
func (mc *MetricsCollector) RecordRequest(status int) {
	atomic.AddInt64(&mc.requests, 1)
	switch {
	case status >= 500:
		atomic.AddInt64(&mc.serverErrors, 1)
	case status >= 400:
		atomic.AddInt64(&mc.clientErrors, 1)
	}
}

// GetGlobalMetrics returns a snapshot that shares no state with the collector
func (mc *MetricsCollector) GetGlobalMetrics() *GlobalMetrics {
	mc.mu.RLock()
	ops := make(map[string]*OperationMetrics, len(mc.operations))
	for name, m := range mc.operations {
		op := *m
		if op.Rounds > 0 {
			op.AverageDuration = op.TotalDuration / time.Duration(op.Rounds)
		}
		ops[name] = &op
	}
	mc.mu.RUnlock()

	return &GlobalMetrics{
		StartTime:       mc.startTime,
		Uptime:          time.Since(mc.startTime),
		TotalRounds:     atomic.LoadInt64(&mc.rounds),
		Operations:      ops,
		GuessesRecorded: atomic.LoadInt64(&mc.guessesRecorded),
		GuessesFailed:   atomic.LoadInt64(&mc.guessesFailed),
		Requests:        atomic.LoadInt64(&mc.requests),
		ClientErrors:    atomic.LoadInt64(&mc.clientErrors),
		ServerErrors:    atomic.LoadInt64(&mc.serverErrors),
		Resources:       CurrentResources(),
	}
}

// CurrentResources samples the runtime
func CurrentResources() ResourceMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ResourceMetrics{
		Timestamp:   time.Now(),
		GoRoutines:  runtime.NumGoroutine(),
		HeapAlloc:   m.HeapAlloc,
		HeapInuse:   m.HeapInuse,
		HeapObjects: m.HeapObjects,
		NumGC:       m.NumGC,
	}
}
