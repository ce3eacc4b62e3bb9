package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), nil)
}

// TestMetricsInitialization tests that all metrics are properly initialized
func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal should not be nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration should not be nil")
	}
	if m.DBConnectionsOpen == nil {
		t.Error("DBConnectionsOpen should not be nil")
	}
	if m.DBConnectionsInUse == nil {
		t.Error("DBConnectionsInUse should not be nil")
	}
	if m.DBConnectionsIdle == nil {
		t.Error("DBConnectionsIdle should not be nil")
	}
	if m.DBConnectionsMax == nil {
		t.Error("DBConnectionsMax should not be nil")
	}
	if m.DBConnectionWaitTotal == nil {
		t.Error("DBConnectionWaitTotal should not be nil")
	}
	if m.DBConnectionWaitDuration == nil {
		t.Error("DBConnectionWaitDuration should not be nil")
	}
	if m.DBQueryDuration == nil {
		t.Error("DBQueryDuration should not be nil")
	}
	if m.DBQueryErrors == nil {
		t.Error("DBQueryErrors should not be nil")
	}
	if m.DependencyCallDuration == nil {
		t.Error("DependencyCallDuration should not be nil")
	}
	if m.DependencyCallsTotal == nil {
		t.Error("DependencyCallsTotal should not be nil")
	}
	if m.DependencyErrors == nil {
		t.Error("DependencyErrors should not be nil")
	}
	if m.MembersTotal == nil {
		t.Error("MembersTotal should not be nil")
	}
	if m.PostsTotal == nil {
		t.Error("PostsTotal should not be nil")
	}
	if m.MemberCreatedTotal == nil {
		t.Error("MemberCreatedTotal should not be nil")
	}
	if m.PostCreatedTotal == nil {
		t.Error("PostCreatedTotal should not be nil")
	}
	if m.CommentCreatedTotal == nil {
		t.Error("CommentCreatedTotal should not be nil")
	}
	if m.PostViewsTotal == nil {
		t.Error("PostViewsTotal should not be nil")
	}
}
