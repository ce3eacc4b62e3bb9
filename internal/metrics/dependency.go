package metrics

import (
	"strings"
	"time"
)

// RecordDependencyCall records an outbound call to a backing service such as
// SMTP, object storage or Redis
func (m *Metrics) RecordDependencyCall(service, operation string, duration time.Duration, err error) {
	m.safeExecute("RecordDependencyCall", func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}

		m.DependencyCallsTotal.WithLabelValues(service, operation, outcome).Inc()
		m.DependencyCallDuration.WithLabelValues(service, operation).Observe(duration.Seconds())

		if err != nil {
			m.DependencyErrors.WithLabelValues(service, classifyDependencyError(err)).Inc()
		}
	})
}

// classifyDependencyError buckets network-level failures so dashboards can
// tell a down dependency from a slow one
func classifyDependencyError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection_refused"
	case strings.Contains(msg, "no such host"):
		return "dns_error"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "timeout"
	case strings.Contains(msg, "EOF"), strings.Contains(msg, "connection reset"):
		return "connection_reset"
	case strings.Contains(msg, "TLS"), strings.Contains(msg, "certificate"):
		return "tls_error"
	default:
		return "error"
	}
}
