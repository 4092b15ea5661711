package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/auth/login", "POST", 200, time.Millisecond)
	m.RecordRequest("/auth/login", "POST", 200, time.Millisecond)
	m.RecordError("/auth/me", "GET", "UNAUTHORIZED")
	m.ObserveValidation("valid")
	m.ObserveValidation("expired")
	m.ObserveValidation("expired")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/auth/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/auth/me|GET|UNAUTHORIZED"])
	assert.Equal(t, map[string]int64{"valid": 1, "expired": 2}, snap.Validations)

	// snapshot is detached from live counters
	m.ObserveValidation("valid")
	assert.Equal(t, int64(1), snap.Validations["valid"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
		m.ObserveValidation("valid")
		_ = m.Snapshot()
	})
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.ObserveValidation("valid")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), m.Snapshot().Validations["valid"])
}
