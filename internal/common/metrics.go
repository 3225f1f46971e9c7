package common

import (
	"sync"
	"time"
)

// Metrics 集群账目指标
type Metrics struct {
	mu sync.RWMutex

	StartTime time.Time `json:"start_time"`

	// 容器指标
	ContainersAllocated int64 `json:"containers_allocated"`
	ContainersReleased  int64 `json:"containers_released"`

	// 预留指标
	ReservationsPlaced  int64 `json:"reservations_placed"`
	ReservationsCleared int64 `json:"reservations_cleared"`

	// 日志指标
	JournalEntriesCommitted int64 `json:"journal_entries_committed"`
	JournalEntriesDropped   int64 `json:"journal_entries_dropped"`
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// GetMetrics 获取全局指标实例
func GetMetrics() *Metrics {
	return globalMetrics
}

// IncrContainersAllocated 增加容器分配计数
func (m *Metrics) IncrContainersAllocated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContainersAllocated++
}

// IncrContainersReleased 增加容器释放计数
func (m *Metrics) IncrContainersReleased() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContainersReleased++
}

// IncrReservationsPlaced 增加预留计数
func (m *Metrics) IncrReservationsPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReservationsPlaced++
}

// IncrReservationsCleared 增加取消预留计数
func (m *Metrics) IncrReservationsCleared() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReservationsCleared++
}

// AddJournalEntriesCommitted 增加日志提交计数
func (m *Metrics) AddJournalEntriesCommitted(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JournalEntriesCommitted += n
}

// IncrJournalEntriesDropped 增加日志丢弃计数
func (m *Metrics) IncrJournalEntriesDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JournalEntriesDropped++
}

// Snapshot 返回指标副本
func (m *Metrics) Snapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		StartTime:               m.StartTime,
		ContainersAllocated:     m.ContainersAllocated,
		ContainersReleased:      m.ContainersReleased,
		ReservationsPlaced:      m.ReservationsPlaced,
		ReservationsCleared:     m.ReservationsCleared,
		JournalEntriesCommitted: m.JournalEntriesCommitted,
		JournalEntriesDropped:   m.JournalEntriesDropped,
	}
}
