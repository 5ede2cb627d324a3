package monitoring

import (
	"testing"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}
	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordTurn(t *testing.T) {
	m := NewMonitor()

	m.RecordTurn("add")
	m.RecordTurn("add")
	m.RecordTurn("menu")

	value, exists := m.GetMetric("turns_add")
	if !exists {
		t.Fatalf("Expected 'turns_add' to be present in metrics, but it was not")
	}
	if value != 2 {
		t.Errorf("Expected 'turns_add' to be 2, but got %v", value)
	}

	value, _ = m.GetMetric("turns_menu")
	if value != 1 {
		t.Errorf("Expected 'turns_menu' to be 1, but got %v", value)
	}
}

func TestMonitor_RecordOrderFinalized(t *testing.T) {
	m := NewMonitor()

	m.RecordOrderFinalized(27)

	value, exists := m.GetMetric("orders_finalized")
	if !exists {
		t.Fatalf("Expected 'orders_finalized' to be present in metrics, but it was not")
	}
	if value != 1 {
		t.Errorf("Expected 'orders_finalized' to be 1, but got %v", value)
	}

	_, exists = m.GetMetric("last_order_finalized")
	if !exists {
		t.Errorf("Expected 'last_order_finalized' to be present in metrics, but it was not")
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordTurn("add")

	m.Reset()

	if _, exists := m.GetMetric("turns_add"); exists {
		t.Error("Expected metrics to be empty after Reset()")
	}
}
