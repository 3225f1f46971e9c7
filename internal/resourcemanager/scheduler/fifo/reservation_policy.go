package fifo

import (
	"radish/internal/common"
	"radish/internal/resourcemanager/recovery"
	"radish/internal/resourcemanager/rmcontainer"
	"radish/internal/resourcemanager/scheduler"

	"go.uber.org/zap"
)

// ReservationPolicy FIFO 调度没有预留概念，
// 两个操作都是空操作。
type ReservationPolicy struct {
	logger *zap.Logger
}

// NewReservationPolicy 创建 FIFO 预留策略
func NewReservationPolicy() *ReservationPolicy {
	return &ReservationPolicy{
		logger: common.ComponentLogger("fifo-reservation"),
	}
}

// Reserve 空操作
func (p *ReservationPolicy) Reserve(node *scheduler.SchedulerNode,
	attempt common.ApplicationAttemptID, priority common.Priority,
	container *rmcontainer.RMContainer, txn recovery.JournalPort) {
	p.logger.Debug("FIFO scheduling ignores reservation request",
		zap.String("node", node.NodeName()),
		zap.String("attempt_id", attempt.String()))
}

// Unreserve 空操作
func (p *ReservationPolicy) Unreserve(node *scheduler.SchedulerNode,
	attempt common.ApplicationAttemptID, txn recovery.JournalPort) {
	p.logger.Debug("FIFO scheduling ignores unreserve request",
		zap.String("node", node.NodeName()),
		zap.String("attempt_id", attempt.String()))
}
