package recovery

import (
	"sync"
	"time"

	"radish/internal/common"
)

// MutationKind 变更类型
type MutationKind string

const (
	// MutationLedgerUpdated 账目变更（可用/已用资源、容器计数）
	MutationLedgerUpdated MutationKind = "LEDGER_UPDATED"
	// MutationContainerLaunched 容器登记
	MutationContainerLaunched MutationKind = "CONTAINER_LAUNCHED"
	// MutationContainerReleased 容器释放
	MutationContainerReleased MutationKind = "CONTAINER_RELEASED"
	// MutationReservationUpdated 预留变更（ContainerID 为空表示清除）
	MutationReservationUpdated MutationKind = "RESERVATION_UPDATED"
)

// Mutation 变更描述符。在持有节点锁的临界区内写入事务，
// 保证外部观察者看到的内存状态总有对应的日志条目。
type Mutation struct {
	Kind MutationKind `json:"kind"`

	// MutationLedgerUpdated 携带的账目快照
	Available     common.Resource `json:"available,omitempty"`
	Used          common.Resource `json:"used,omitempty"`
	NumContainers int             `json:"num_containers,omitempty"`

	// 容器/预留相关字段
	ContainerID common.ContainerID          `json:"container_id,omitempty"`
	Resource    *common.Resource            `json:"resource,omitempty"`
	AttemptID   common.ApplicationAttemptID `json:"attempt_id,omitempty"`

	// Reserved 预留是否生效（false 表示预留被清除）
	Reserved bool `json:"reserved,omitempty"`
}

// Entry 日志条目，按节点归属
type Entry struct {
	NodeID    string    `json:"node_id"`
	Mutation  Mutation  `json:"mutation"`
	Timestamp time.Time `json:"timestamp"`
}

// JournalPort 恢复日志端口。账本组件在临界区内调用 Record，
// 实现必须是非阻塞的（只做内存追加），落盘由 Commit 完成。
type JournalPort interface {
	Record(nodeID string, m Mutation)
}

// TransactionState 事务句柄：把同一次外部提交涉及的多个节点变更
// 聚合成一个批次。实现 JournalPort。
type TransactionState struct {
	mu      sync.Mutex
	pending []Entry
}

// NewTransactionState 创建事务句柄
func NewTransactionState() *TransactionState {
	return &TransactionState{}
}

// Record 缓冲一条变更记录
func (ts *TransactionState) Record(nodeID string, m Mutation) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	// 同一事务内同一节点的账目/预留快照只保留最后一次
	if m.Kind == MutationLedgerUpdated || m.Kind == MutationReservationUpdated {
		for i := len(ts.pending) - 1; i >= 0; i-- {
			if ts.pending[i].NodeID == nodeID && ts.pending[i].Mutation.Kind == m.Kind {
				ts.pending[i].Mutation = m
				ts.pending[i].Timestamp = time.Now()
				return
			}
		}
	}

	ts.pending = append(ts.pending, Entry{
		NodeID:    nodeID,
		Mutation:  m,
		Timestamp: time.Now(),
	})
}

// Pending 返回已缓冲的条目副本
func (ts *TransactionState) Pending() []Entry {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	entries := make([]Entry, len(ts.pending))
	copy(entries, ts.pending)
	return entries
}

// Commit 把缓冲的条目作为一个批次写入存储并清空缓冲
func (ts *TransactionState) Commit(store JournalStore) error {
	ts.mu.Lock()
	batch := ts.pending
	ts.pending = nil
	ts.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := store.Append(batch); err != nil {
		return err
	}

	common.GetMetrics().AddJournalEntriesCommitted(int64(len(batch)))
	return nil
}
