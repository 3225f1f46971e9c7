package capacity

import (
	"radish/internal/common"
	"radish/internal/resourcemanager/recovery"
	"radish/internal/resourcemanager/rmcontainer"
	"radish/internal/resourcemanager/scheduler"

	"go.uber.org/zap"
)

// ReservationPolicy 容量调度的预留策略：为大资源请求在节点上
// 占住一个位置，避免请求被持续到来的小请求饿死。
// 新预留直接覆盖旧预留（last-write-wins），不做隐式释放，
// 被覆盖预留的资源核销由调用方负责。
type ReservationPolicy struct {
	logger *zap.Logger
}

// NewReservationPolicy 创建容量预留策略
func NewReservationPolicy() *ReservationPolicy {
	return &ReservationPolicy{
		logger: common.ComponentLogger("capacity-reservation"),
	}
}

// Reserve 在节点上预留容器
func (p *ReservationPolicy) Reserve(node *scheduler.SchedulerNode,
	attempt common.ApplicationAttemptID, priority common.Priority,
	container *rmcontainer.RMContainer, txn recovery.JournalPort) {
	previous := node.SetReservedContainer(container, txn)
	if previous != nil &&
		previous.ApplicationAttemptID() != container.ApplicationAttemptID() {
		p.logger.Warn("Replacing reservation held by another attempt",
			zap.String("node", node.NodeName()),
			zap.String("previous_attempt", previous.ApplicationAttemptID().String()),
			zap.String("new_attempt", attempt.String()))
	}

	common.GetMetrics().IncrReservationsPlaced()

	p.logger.Info("Reserved container on node",
		zap.String("node", node.NodeName()),
		zap.String("container_id", container.ID().String()),
		zap.String("attempt_id", attempt.String()),
		zap.Int32("priority", int32(priority)))
}

// Unreserve 清除节点上的预留
func (p *ReservationPolicy) Unreserve(node *scheduler.SchedulerNode,
	attempt common.ApplicationAttemptID, txn recovery.JournalPort) {
	if node.ReservedContainer() == nil {
		p.logger.Debug("Unreserve on node without reservation",
			zap.String("node", node.NodeName()),
			zap.String("attempt_id", attempt.String()))
		return
	}

	node.SetReservedContainer(nil, txn)
	common.GetMetrics().IncrReservationsCleared()

	p.logger.Info("Unreserved container on node",
		zap.String("node", node.NodeName()),
		zap.String("attempt_id", attempt.String()))
}
