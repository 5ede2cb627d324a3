package monitoring

import (
	"sync"
	"time"
)

// Monitor collects conversation metrics for the running bot
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// RecordTurn counts one processed utterance under the intent it was
// classified as
func (m *Monitor) RecordTurn(intent string) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	key := "turns_" + intent
	count, _ := m.metrics[key].(int)
	m.metrics[key] = count + 1

	turnsTotal.WithLabelValues(intent).Inc()
}

// RecordOrderFinalized counts a successfully placed order and its value
func (m *Monitor) RecordOrderFinalized(totalCost float64) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	count, _ := m.metrics["orders_finalized"].(int)
	m.metrics["orders_finalized"] = count + 1
	m.metrics["last_order_finalized"] = time.Now().Format(time.RFC3339)

	ordersFinalized.Inc()
	orderValue.Observe(totalCost)
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics))
	for k, v := range m.metrics {
		metrics[k] = v
	}

	// Add system metrics
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}
