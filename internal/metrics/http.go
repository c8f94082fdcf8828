package metrics

import (
	"strconv"
	"strings"
	"time"
)

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		statusStr := strconv.Itoa(status)
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// ShouldSkipEndpoint reports whether the path is excluded from HTTP metrics
func ShouldSkipEndpoint(path string) bool {
	skipPaths := []string{
		"/metrics",
		"/health",
		"/ready",
	}

	for _, skip := range skipPaths {
		if strings.HasSuffix(path, skip) {
			return true
		}
	}
	return false
}
