package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestIncrementMemberCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.MemberCreatedTotal)
	m.IncrementMemberCreated()

	newValue := getCounterValue(t, m.MemberCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestIncrementPostCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.PostCreatedTotal)
	m.IncrementPostCreated()

	newValue := getCounterValue(t, m.PostCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestIncrementPostViews(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.PostViewsTotal)
	m.IncrementPostViews()
	m.IncrementPostViews()

	newValue := getCounterValue(t, m.PostViewsTotal)
	if newValue != initialValue+2 {
		t.Errorf("Expected counter to increment by 2, got %f -> %f", initialValue, newValue)
	}
}

func TestSetMembersTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero members", 0},
		{"one member", 1},
		{"multiple members", 42},
		{"large number", 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetMembersTotal(tt.count)
			value := getGaugeValue(t, m.MembersTotal)
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestSetPostsTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero posts", 0},
		{"one post", 1},
		{"multiple posts", 100},
		{"large number", 5000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetPostsTotal(tt.count)
			value := getGaugeValue(t, m.PostsTotal)
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestBusinessMetricsIntegration(t *testing.T) {
	m := getTestMetrics()

	m.SetMembersTotal(10)
	m.SetPostsTotal(50)

	if getGaugeValue(t, m.MembersTotal) != 10 {
		t.Error("Expected MembersTotal to be 10")
	}
	if getGaugeValue(t, m.PostsTotal) != 50 {
		t.Error("Expected PostsTotal to be 50")
	}

	initialMemberCreated := getCounterValue(t, m.MemberCreatedTotal)
	initialCommentCreated := getCounterValue(t, m.CommentCreatedTotal)

	m.IncrementMemberCreated()
	m.IncrementCommentCreated()
	m.IncrementCommentCreated()

	if getCounterValue(t, m.MemberCreatedTotal) <= initialMemberCreated {
		t.Error("Expected MemberCreatedTotal to increment")
	}
	if getCounterValue(t, m.CommentCreatedTotal) != initialCommentCreated+2 {
		t.Error("Expected CommentCreatedTotal to increment by 2")
	}

	m.SetMembersTotal(11)
	m.SetPostsTotal(52)

	if getGaugeValue(t, m.MembersTotal) != 11 {
		t.Error("Expected MembersTotal to be 11")
	}
	if getGaugeValue(t, m.PostsTotal) != 52 {
		t.Error("Expected PostsTotal to be 52")
	}
}

// Helper function to get counter value
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

// Helper function to get gauge value
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}
