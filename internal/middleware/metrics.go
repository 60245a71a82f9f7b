package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	requestsTotal      atomic.Uint64
	requestsInProgress atomic.Int64
	requestsSuccess    atomic.Uint64
	requestsFailed     atomic.Uint64

	scansTotal    atomic.Uint64
	scansRunning  atomic.Int64
	scansFailed   atomic.Uint64
	postsAnalyzed atomic.Uint64

	mu           sync.Mutex
	failedByKind map[string]uint64

	startTime time.Time
}

var defaultMetrics = &Metrics{
	failedByKind: map[string]uint64{},
	startTime:    time.Now(),
}

// ScanStarted marks one analysis run as in progress.
func ScanStarted() {
	defaultMetrics.scansTotal.Add(1)
	defaultMetrics.scansRunning.Add(1)
}

// ScanSucceeded ends a run that analyzed posts posts.
func ScanSucceeded(posts int) {
	defaultMetrics.scansRunning.Add(-1)
	defaultMetrics.postsAnalyzed.Add(uint64(posts))
}

// ScanFailed ends a run, counting it under kind (e.g. "auth", "quota").
func ScanFailed(kind string) {
	defaultMetrics.scansRunning.Add(-1)
	defaultMetrics.scansFailed.Add(1)
	defaultMetrics.mu.Lock()
	defaultMetrics.failedByKind[kind]++
	defaultMetrics.mu.Unlock()
}

// GetMetrics returns current metrics
func GetMetrics() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	defaultMetrics.mu.Lock()
	byKind := make(map[string]uint64, len(defaultMetrics.failedByKind))
	for k, v := range defaultMetrics.failedByKind {
		byKind[k] = v
	}
	defaultMetrics.mu.Unlock()

	return map[string]any{
		"requests_total":       defaultMetrics.requestsTotal.Load(),
		"requests_in_progress": defaultMetrics.requestsInProgress.Load(),
		"requests_success":     defaultMetrics.requestsSuccess.Load(),
		"requests_failed":      defaultMetrics.requestsFailed.Load(),
		"scans_total":          defaultMetrics.scansTotal.Load(),
		"scans_running":        defaultMetrics.scansRunning.Load(),
		"scans_failed":         defaultMetrics.scansFailed.Load(),
		"scans_failed_by_kind": byKind,
		"posts_analyzed":       defaultMetrics.postsAnalyzed.Load(),
		"uptime_seconds":       time.Since(defaultMetrics.startTime).Seconds(),
		"memory": map[string]any{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defaultMetrics.requestsTotal.Add(1)
		defaultMetrics.requestsInProgress.Add(1)
		defer defaultMetrics.requestsInProgress.Add(-1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			defaultMetrics.requestsSuccess.Add(1)
		} else {
			defaultMetrics.requestsFailed.Add(1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GetMetrics())
}
