package telemetry

// This package is how we report metrics from the slider.  By default they are
// no-ops, but a user can provide an implementation if they want their metrics
// to go somewhere.

import (
	"sync"

	"github.com/hoyle1974/timeslider/misc"
)

type Metrics interface {
	SetCount(key string, value int64)
	SetGuage(key string, value float64)
}

type NOPMetrics struct {
}

func (n NOPMetrics) SetCount(key string, value int64) {
}
func (n NOPMetrics) SetGuage(key string, value float64) {
}

// MemMetrics keeps the most recent value per key in memory.  Used by tests
// and the CLI.
type MemMetrics struct {
	lock   sync.Mutex
	counts map[string]int64
	guages map[string]float64
}

func NewMemMetrics() *MemMetrics {
	return &MemMetrics{
		counts: map[string]int64{},
		guages: map[string]float64{},
	}
}

func (m *MemMetrics) SetCount(key string, value int64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.counts[key] = value
}

func (m *MemMetrics) SetGuage(key string, value float64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.guages[key] = value
}

func (m *MemMetrics) Counts() map[string]int64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return misc.DeepCopyMap(m.counts)
}

func (m *MemMetrics) Guages() map[string]float64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return misc.DeepCopyMap(m.guages)
}
